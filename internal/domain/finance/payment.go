package finance

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money changed hands
type PaymentMethod string

const (
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodACH      PaymentMethod = "ach"
	PaymentMethodWire     PaymentMethod = "wire"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOffset   PaymentMethod = "offset"
	PaymentMethodUnstated PaymentMethod = ""
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCheck, PaymentMethodCash, PaymentMethodACH, PaymentMethodWire,
		PaymentMethodCard, PaymentMethodOffset, PaymentMethodUnstated:
		return true
	}
	return false
}

// PaymentRecord is a payment applied to an invoice or ledger entry.
// It is a value object stored as JSONB on its owner.
type PaymentRecord struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidOn    time.Time       `json:"paid_on"`
	Method    PaymentMethod   `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// PaymentInput carries the caller-supplied part of a payment
type PaymentInput struct {
	Amount    decimal.Decimal
	PaidOn    time.Time
	Method    PaymentMethod
	Reference string
}

func (in PaymentInput) validate(balanceDue decimal.Decimal) error {
	if !in.Amount.IsPositive() {
		return shared.NewValidationError("payment amount must be positive")
	}
	if in.Amount.GreaterThan(balanceDue) {
		return shared.NewValidationError("payment amount %s exceeds balance due %s", in.Amount.StringFixed(2), balanceDue.StringFixed(2))
	}
	if !in.Method.IsValid() {
		return shared.NewValidationError("unknown payment method %q", in.Method)
	}
	return nil
}

func (in PaymentInput) record(now time.Time) PaymentRecord {
	paidOn := in.PaidOn
	if paidOn.IsZero() {
		paidOn = now
	}
	return PaymentRecord{
		ID:        uuid.New(),
		Amount:    in.Amount,
		PaidOn:    paidOn,
		Method:    in.Method,
		Reference: in.Reference,
	}
}

// PaymentRecords is a slice of PaymentRecord stored as JSONB
type PaymentRecords []PaymentRecord

// Total sums the payment amounts
func (p PaymentRecords) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p {
		total = total.Add(r.Amount)
	}
	return total
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return shared.JSONValue(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentRecords) Scan(value interface{}) error {
	*p = PaymentRecords{}
	return shared.ScanJSON(value, p)
}
