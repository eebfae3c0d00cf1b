package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LedgerStatus represents the status of a landlord ledger entry
type LedgerStatus string

const (
	LedgerStatusPending     LedgerStatus = "pending"
	LedgerStatusDue         LedgerStatus = "due"
	LedgerStatusPartialPaid LedgerStatus = "partial_paid"
	LedgerStatusPaid        LedgerStatus = "paid"
	LedgerStatusOverdue     LedgerStatus = "overdue"
	LedgerStatusCancelled   LedgerStatus = "cancelled"
)

// IsValid checks if the status is a valid LedgerStatus
func (s LedgerStatus) IsValid() bool {
	switch s {
	case LedgerStatusPending, LedgerStatusDue, LedgerStatusPartialPaid,
		LedgerStatusPaid, LedgerStatusOverdue, LedgerStatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the entry still has money outstanding
func (s LedgerStatus) IsOpen() bool {
	return s != LedgerStatusPaid && s != LedgerStatusCancelled
}

// LedgerParty is one side of a farmer/landlord obligation
type LedgerParty string

const (
	PartyFarmer   LedgerParty = "farmer"
	PartyLandlord LedgerParty = "landlord"
)

// IsValid checks if the party is known
func (p LedgerParty) IsValid() bool {
	return p == PartyFarmer || p == PartyLandlord
}

// LedgerCategory classifies the obligation
type LedgerCategory string

const (
	LedgerCategoryCashRent      LedgerCategory = "cash_rent"
	LedgerCategoryCropShare     LedgerCategory = "crop_share"
	LedgerCategoryInputShare    LedgerCategory = "input_share"
	LedgerCategoryReimbursement LedgerCategory = "reimbursement"
	LedgerCategoryOther         LedgerCategory = "other"
)

// IsValid checks if the category is known
func (c LedgerCategory) IsValid() bool {
	switch c {
	case LedgerCategoryCashRent, LedgerCategoryCropShare, LedgerCategoryInputShare,
		LedgerCategoryReimbursement, LedgerCategoryOther:
		return true
	}
	return false
}

// LedgerEntry is an amount owed between the farmer and a landlord
type LedgerEntry struct {
	shared.BaseAggregateRoot
	OwedBy           LedgerParty
	OwedTo           LedgerParty
	Landlord         string
	FieldID          *uuid.UUID
	Year             int
	Category         LedgerCategory
	Description      string
	Amount           decimal.Decimal
	AmountPaid       decimal.Decimal
	BalanceRemaining decimal.Decimal
	DueDate          *time.Time
	Status           LedgerStatus
	PaidDate         *time.Time
	Payments         PaymentRecords
}

// NewLedgerEntryParams holds the fields needed to open a ledger entry
type NewLedgerEntryParams struct {
	OwedBy      LedgerParty
	OwedTo      LedgerParty
	Landlord    string
	FieldID     *uuid.UUID
	Year        int
	Category    LedgerCategory
	Description string
	Amount      decimal.Decimal
	DueDate     *time.Time
}

// NewLedgerEntry opens a pending ledger entry
func NewLedgerEntry(p NewLedgerEntryParams) (*LedgerEntry, error) {
	if !p.OwedBy.IsValid() || !p.OwedTo.IsValid() {
		return nil, shared.NewValidationError("owedBy and owedTo must be farmer or landlord")
	}
	if p.OwedBy == p.OwedTo {
		return nil, shared.NewValidationError("owedBy and owedTo must differ")
	}
	if strings.TrimSpace(p.Landlord) == "" {
		return nil, shared.NewValidationError("landlord is required")
	}
	if !p.Category.IsValid() {
		return nil, shared.NewValidationError("unknown ledger category %q", p.Category)
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewValidationError("amount must be positive")
	}
	if p.Year < 2000 || p.Year > 2100 {
		return nil, shared.NewValidationError("year %d is out of range", p.Year)
	}

	return &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwedBy:            p.OwedBy,
		OwedTo:            p.OwedTo,
		Landlord:          strings.TrimSpace(p.Landlord),
		FieldID:           p.FieldID,
		Year:              p.Year,
		Category:          p.Category,
		Description:       p.Description,
		Amount:            p.Amount,
		AmountPaid:        decimal.Zero,
		BalanceRemaining:  p.Amount,
		DueDate:           p.DueDate,
		Status:            LedgerStatusPending,
		Payments:          PaymentRecords{},
	}, nil
}

// RecordPayment adds a payment delta. BalanceRemaining equals Amount minus
// AmountPaid after every successful call; rejected payments change nothing.
func (e *LedgerEntry) RecordPayment(in PaymentInput, now time.Time) (*PaymentRecord, error) {
	if e.Status == LedgerStatusCancelled {
		return nil, shared.NewValidationError("cannot record payment on a cancelled ledger entry")
	}
	if err := in.validate(e.BalanceRemaining); err != nil {
		return nil, err
	}

	record := in.record(now)
	e.Payments = append(e.Payments, record)
	e.AmountPaid = e.AmountPaid.Add(in.Amount)
	e.BalanceRemaining = e.Amount.Sub(e.AmountPaid)
	e.Refresh(now)
	e.UpdatedAt = now
	e.IncrementVersion()
	return &record, nil
}

// Refresh re-derives the status and reports whether it changed
func (e *LedgerEntry) Refresh(now time.Time) bool {
	next := NextLedgerStatus(e.Status, e.AmountPaid, e.Amount, e.DueDate, now)
	if next == LedgerStatusPaid && e.PaidDate == nil {
		paid := now
		e.PaidDate = &paid
	}
	if next == e.Status {
		return false
	}
	e.Status = next
	return true
}

// MarkDue moves a pending entry to due when the landlord is billed ahead
// of the due month
func (e *LedgerEntry) MarkDue(now time.Time) bool {
	if e.Status != LedgerStatusPending {
		return false
	}
	e.Status = LedgerStatusDue
	e.UpdatedAt = now
	e.IncrementVersion()
	return true
}

// Cancel voids an entry without payments
func (e *LedgerEntry) Cancel(now time.Time) error {
	if !e.Status.IsOpen() {
		return shared.NewValidationError("cannot cancel a %s ledger entry", e.Status)
	}
	if e.AmountPaid.IsPositive() {
		return shared.NewValidationError("cannot cancel a ledger entry with payments")
	}
	e.Status = LedgerStatusCancelled
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}
