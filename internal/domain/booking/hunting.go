package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BookingStatus is the state of a hunting booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// IsTerminal returns true for completed and cancelled bookings
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// HuntingBooking is a paid hunt on leased ground
type HuntingBooking struct {
	shared.BaseAggregateRoot
	HunterName     string
	Email          string
	Phone          string
	Season         string
	LeaseArea      string
	StartDate      time.Time
	EndDate        time.Time
	HunterCount    int
	PricePerHunter decimal.Decimal
	Deposit        decimal.Decimal
	Status         BookingStatus
	InvoiceID      *uuid.UUID
	Notes          string
}

// NewBookingParams holds the request details of a hunt
type NewBookingParams struct {
	HunterName     string
	Email          string
	Phone          string
	Season         string
	LeaseArea      string
	StartDate      time.Time
	EndDate        time.Time
	HunterCount    int
	PricePerHunter decimal.Decimal
	Deposit        decimal.Decimal
	Notes          string
}

// NewHuntingBooking validates a request and opens it as pending
func NewHuntingBooking(p NewBookingParams) (*HuntingBooking, error) {
	if strings.TrimSpace(p.HunterName) == "" {
		return nil, shared.NewValidationError("hunter name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return nil, shared.NewValidationError("email is required")
	}
	if p.HunterCount < 1 {
		return nil, shared.NewValidationError("hunter count must be at least 1")
	}
	if p.PricePerHunter.IsNegative() || p.Deposit.IsNegative() {
		return nil, shared.NewValidationError("prices cannot be negative")
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, shared.NewValidationError("end date is before start date")
	}
	b := &HuntingBooking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		HunterName:        strings.TrimSpace(p.HunterName),
		Email:             strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:             strings.TrimSpace(p.Phone),
		Season:            strings.TrimSpace(p.Season),
		LeaseArea:         strings.TrimSpace(p.LeaseArea),
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		HunterCount:       p.HunterCount,
		PricePerHunter:    p.PricePerHunter,
		Deposit:           p.Deposit,
		Status:            BookingPending,
		Notes:             p.Notes,
	}
	if b.Deposit.GreaterThan(b.Total()) {
		return nil, shared.NewValidationError("deposit exceeds the booking total")
	}
	return b, nil
}

// Total is the price per hunter times the party size
func (b *HuntingBooking) Total() decimal.Decimal {
	return b.PricePerHunter.Mul(decimal.NewFromInt(int64(b.HunterCount)))
}

// Confirm links the billing invoice and raises BookingConfirmed
func (b *HuntingBooking) Confirm(invoiceID uuid.UUID) error {
	if b.Status != BookingPending {
		return shared.NewDomainError(shared.CodeInvalidState, "only pending bookings can be confirmed")
	}
	b.Status = BookingConfirmed
	b.InvoiceID = &invoiceID
	b.Touch()
	b.IncrementVersion()
	b.AddDomainEvent(NewBookingConfirmedEvent(b))
	return nil
}

// Complete closes a confirmed hunt
func (b *HuntingBooking) Complete() error {
	if b.Status != BookingConfirmed {
		return shared.NewDomainError(shared.CodeInvalidState, "only confirmed bookings can be completed")
	}
	b.Status = BookingCompleted
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Cancel withdraws a booking that has not been completed
func (b *HuntingBooking) Cancel() error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState, "booking is already "+string(b.Status))
	}
	b.Status = BookingCancelled
	b.Touch()
	b.IncrementVersion()
	return nil
}
