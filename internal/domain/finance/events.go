package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeInvoiceSent            = "InvoiceSent"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
	EventTypeInvoicePaid            = "InvoicePaid"
	EventTypeLoanPaymentRecorded    = "LoanPaymentRecorded"
	EventTypeLoanPaidOff            = "LoanPaidOff"
)

// InvoiceSentEvent is raised when an invoice leaves draft
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.Customer.Name,
		CustomerEmail:   inv.Customer.Email,
		Total:           inv.Total,
		DueDate:         inv.DueDate,
	}
}

// InvoicePaymentRecordedEvent is raised for every accepted invoice payment
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Status        InvoiceStatus   `json:"status"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, record PaymentRecord) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          record.Amount,
		BalanceDue:      inv.BalanceDue,
		Status:          inv.Status,
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.Customer.Name,
		CustomerEmail:   inv.Customer.Email,
		Total:           inv.Total,
	}
}

// LoanPaymentRecordedEvent is raised for every accepted loan payment
type LoanPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	LoanID    uuid.UUID       `json:"loan_id"`
	Lender    string          `json:"lender"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewLoanPaymentRecordedEvent creates a new LoanPaymentRecordedEvent
func NewLoanPaymentRecordedEvent(l *Loan, p LoanPayment) *LoanPaymentRecordedEvent {
	return &LoanPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanPaymentRecorded, "Loan", l.ID),
		LoanID:          l.ID,
		Lender:          l.Lender,
		Amount:          p.Amount,
		Principal:       p.Principal,
		Interest:        p.Interest,
		Balance:         p.BalanceAfter,
	}
}

// LoanPaidOffEvent is raised when a loan balance reaches zero
type LoanPaidOffEvent struct {
	shared.BaseDomainEvent
	LoanID     uuid.UUID `json:"loan_id"`
	LoanNumber string    `json:"loan_number"`
	Lender     string    `json:"lender"`
}

// NewLoanPaidOffEvent creates a new LoanPaidOffEvent
func NewLoanPaidOffEvent(l *Loan) *LoanPaidOffEvent {
	return &LoanPaidOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanPaidOff, "Loan", l.ID),
		LoanID:          l.ID,
		LoanNumber:      l.LoanNumber,
		Lender:          l.Lender,
	}
}
