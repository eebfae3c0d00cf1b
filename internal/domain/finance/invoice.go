package finance

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusViewed    InvoiceStatus = "viewed"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsSticky reports whether payment activity can move the invoice out of this status
func (s InvoiceStatus) IsSticky() bool {
	return s == InvoiceStatusCancelled || s == InvoiceStatusRefunded || s == InvoiceStatusDraft
}

// IsOutstanding reports whether the invoice counts as an account receivable
func (s InvoiceStatus) IsOutstanding() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

// OutstandingInvoiceStatuses lists the statuses counted as receivables
func OutstandingInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPartial, InvoiceStatusOverdue}
}

// InvoiceCategory classifies what was sold
type InvoiceCategory string

const (
	InvoiceCategoryCattleSale    InvoiceCategory = "cattle_sale"
	InvoiceCategoryGrainSale     InvoiceCategory = "grain_sale"
	InvoiceCategoryCustomHire    InvoiceCategory = "custom_hire"
	InvoiceCategoryHuntingLease  InvoiceCategory = "hunting_lease"
	InvoiceCategoryEquipmentSale InvoiceCategory = "equipment_sale"
	InvoiceCategoryOther         InvoiceCategory = "other"
)

// IsValid checks if the category is known
func (c InvoiceCategory) IsValid() bool {
	switch c {
	case InvoiceCategoryCattleSale, InvoiceCategoryGrainSale, InvoiceCategoryCustomHire,
		InvoiceCategoryHuntingLease, InvoiceCategoryEquipmentSale, InvoiceCategoryOther:
		return true
	}
	return false
}

// Customer is the billed party
type Customer struct {
	Name    string              `json:"name"`
	Email   string              `json:"email,omitempty"`
	Phone   string              `json:"phone,omitempty"`
	Address valueobject.Address `json:"address"`
}

// Value implements driver.Valuer for JSONB storage
func (c Customer) Value() (driver.Value, error) {
	return shared.JSONValue(c)
}

// Scan implements sql.Scanner for JSONB storage
func (c *Customer) Scan(value interface{}) error {
	*c = Customer{}
	return shared.ScanJSON(value, c)
}

// InvoiceItem is one billed line
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // percent
	Amount      decimal.Decimal `json:"amount"`
}

// Tax returns the line's tax amount
func (i InvoiceItem) Tax() decimal.Decimal {
	return i.Amount.Mul(i.TaxRate).Div(decimal.NewFromInt(100))
}

// InvoiceItems is a slice of InvoiceItem stored as JSONB
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer for JSONB storage
func (items InvoiceItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return shared.JSONValue(items)
}

// Scan implements sql.Scanner for JSONB storage
func (items *InvoiceItems) Scan(value interface{}) error {
	*items = InvoiceItems{}
	return shared.ScanJSON(value, items)
}

// Invoice is a customer invoice aggregate root
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string
	Category       InvoiceCategory
	Customer       Customer
	Items          InvoiceItems
	Subtotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	BalanceDue     decimal.Decimal
	Status         InvoiceStatus
	IssueDate      time.Time
	DueDate        *time.Time
	SentAt         *time.Time
	ViewedAt       *time.Time
	PaidDate       *time.Time
	Payments       PaymentRecords
	Notes          string
	RefundReason   string
}

// NewInvoiceParams holds the fields needed to draft an invoice
type NewInvoiceParams struct {
	InvoiceNumber  string
	Category       InvoiceCategory
	Customer       Customer
	Items          []InvoiceItem
	DiscountAmount decimal.Decimal
	IssueDate      time.Time
	DueDate        *time.Time
	Notes          string
}

// NewInvoice drafts a new invoice and computes its totals
func NewInvoice(p NewInvoiceParams) (*Invoice, error) {
	if strings.TrimSpace(p.InvoiceNumber) == "" {
		return nil, shared.NewValidationError("invoice number is required")
	}
	if strings.TrimSpace(p.Customer.Name) == "" {
		return nil, shared.NewValidationError("customer name is required")
	}
	if err := p.Customer.Address.Validate(); err != nil {
		return nil, shared.NewValidationError("customer address: %s", err.Error())
	}
	category := p.Category
	if category == "" {
		category = InvoiceCategoryOther
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("unknown invoice category %q", p.Category)
	}
	issueDate := p.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	if p.DueDate != nil && dateOnly(*p.DueDate).Before(dateOnly(issueDate)) {
		return nil, shared.NewValidationError("due date cannot be before the issue date")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     strings.TrimSpace(p.InvoiceNumber),
		Category:          category,
		Customer:          p.Customer,
		Status:            InvoiceStatusDraft,
		IssueDate:         issueDate,
		DueDate:           p.DueDate,
		Payments:          PaymentRecords{},
		Notes:             p.Notes,
	}
	if err := inv.SetItems(p.Items, p.DiscountAmount); err != nil {
		return nil, err
	}
	return inv, nil
}

// SetItems replaces the billed lines and recomputes totals. Draft only.
func (inv *Invoice) SetItems(items []InvoiceItem, discount decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewValidationError("cannot change items of a %s invoice", inv.Status)
	}
	if len(items) == 0 {
		return shared.NewValidationError("invoice must have at least one item")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return shared.NewValidationError("item %d: description is required", i+1)
		}
		if !item.Quantity.IsPositive() {
			return shared.NewValidationError("item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewValidationError("item %d: unit price cannot be negative", i+1)
		}
		if item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewValidationError("item %d: tax rate must be between 0 and 100", i+1)
		}
	}
	if discount.IsNegative() {
		return shared.NewValidationError("discount cannot be negative")
	}

	inv.Items = make(InvoiceItems, len(items))
	copy(inv.Items, items)
	inv.DiscountAmount = discount
	if err := inv.Recalculate(); err != nil {
		return err
	}
	inv.Touch()
	return nil
}

// Recalculate recomputes line amounts, totals and the balance due.
// BalanceDue always equals Total minus AmountPaid afterwards.
func (inv *Invoice) Recalculate() error {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range inv.Items {
		inv.Items[i].Amount = shared.RoundCents(inv.Items[i].Quantity.Mul(inv.Items[i].UnitPrice))
		subtotal = subtotal.Add(inv.Items[i].Amount)
		tax = tax.Add(inv.Items[i].Tax())
	}
	inv.Subtotal = subtotal
	inv.TaxTotal = shared.RoundCents(tax)
	if inv.DiscountAmount.GreaterThan(inv.Subtotal.Add(inv.TaxTotal)) {
		return shared.NewValidationError("discount %s exceeds invoice amount", inv.DiscountAmount.StringFixed(2))
	}
	inv.Total = inv.Subtotal.Add(inv.TaxTotal).Sub(inv.DiscountAmount)
	inv.AmountPaid = inv.Payments.Total()
	inv.BalanceDue = inv.Total.Sub(inv.AmountPaid)
	return nil
}

// Send moves a draft to sent and stamps the send time
func (inv *Invoice) Send(now time.Time) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewValidationError("only draft invoices can be sent, invoice is %s", inv.Status)
	}
	if !inv.Total.IsPositive() {
		return shared.NewValidationError("cannot send an invoice with a zero total")
	}
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.Refresh(now)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))
	return nil
}

// MarkViewed records that the customer opened the invoice
func (inv *Invoice) MarkViewed(now time.Time) bool {
	if inv.Status != InvoiceStatusSent {
		return false
	}
	inv.Status = InvoiceStatusViewed
	inv.ViewedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()
	return true
}

// RecordPayment applies a payment. Amounts that are not positive or that
// exceed the balance due are rejected and leave the invoice unchanged.
func (inv *Invoice) RecordPayment(in PaymentInput, now time.Time) (*PaymentRecord, error) {
	if inv.Status.IsSticky() {
		return nil, shared.NewValidationError("cannot record payment on a %s invoice", inv.Status)
	}
	if err := in.validate(inv.BalanceDue); err != nil {
		return nil, err
	}

	record := in.record(now)
	inv.Payments = append(inv.Payments, record)
	inv.AmountPaid = inv.Payments.Total()
	inv.BalanceDue = inv.Total.Sub(inv.AmountPaid)
	inv.Refresh(now)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, record))
	if inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}
	return &record, nil
}

// Refresh re-derives the status and reports whether it changed
func (inv *Invoice) Refresh(now time.Time) bool {
	next := NextInvoiceStatus(inv.Status, inv.AmountPaid, inv.Total, inv.DueDate, now)
	if next == InvoiceStatusPaid && inv.PaidDate == nil {
		paid := now
		if n := len(inv.Payments); n > 0 {
			paid = inv.Payments[n-1].PaidOn
		}
		inv.PaidDate = &paid
	}
	if next == inv.Status {
		return false
	}
	inv.Status = next
	return true
}

// Cancel voids an invoice that has no payments
func (inv *Invoice) Cancel(now time.Time) error {
	if inv.Status == InvoiceStatusCancelled || inv.Status == InvoiceStatusRefunded || inv.Status == InvoiceStatusPaid {
		return shared.NewValidationError("cannot cancel a %s invoice", inv.Status)
	}
	if inv.AmountPaid.IsPositive() {
		return shared.NewValidationError("cannot cancel an invoice with payments")
	}
	inv.Status = InvoiceStatusCancelled
	inv.UpdatedAt = now
	inv.IncrementVersion()
	return nil
}

// Refund marks a paid invoice as refunded
func (inv *Invoice) Refund(reason string, now time.Time) error {
	if inv.Status != InvoiceStatusPaid {
		return shared.NewValidationError("only paid invoices can be refunded, invoice is %s", inv.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("refund reason is required")
	}
	inv.Status = InvoiceStatusRefunded
	inv.RefundReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()
	return nil
}

// DaysPastDue returns how many whole days the invoice is past its due date
func (inv *Invoice) DaysPastDue(now time.Time) int {
	if inv.DueDate == nil {
		return 0
	}
	days := int(dateOnly(now).Sub(dateOnly(*inv.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DefaultInvoicePrefix is used when no prefix is configured
const DefaultInvoicePrefix = "INV"

// InvoiceNumberStem returns the "{prefix}-{year}-" stem shared by a year's invoices
func InvoiceNumberStem(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// FormatInvoiceNumber formats "{prefix}-{year}-{seq:04}"
func FormatInvoiceNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%04d", InvoiceNumberStem(prefix, year), seq)
}

// InvoiceSequence extracts the numeric suffix of an invoice number for the given stem
func InvoiceSequence(number, prefix string, year int) (int, bool) {
	stem := InvoiceNumberStem(prefix, year)
	if !strings.HasPrefix(number, stem) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, stem))
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextInvoiceNumber returns the number following the highest existing suffix for the year
func NextInvoiceNumber(prefix string, year int, existing []string) string {
	highest := 0
	for _, n := range existing {
		if seq, ok := InvoiceSequence(n, prefix, year); ok && seq > highest {
			highest = seq
		}
	}
	return FormatInvoiceNumber(prefix, year, highest+1)
}
