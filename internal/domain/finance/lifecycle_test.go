package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextInvoiceStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 0, 5)
	total := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		current InvoiceStatus
		paid    decimal.Decimal
		due     *time.Time
		want    InvoiceStatus
	}{
		{"draft is sticky even when paid", InvoiceStatusDraft, total, &past, InvoiceStatusDraft},
		{"cancelled is sticky", InvoiceStatusCancelled, decimal.Zero, &past, InvoiceStatusCancelled},
		{"refunded is sticky", InvoiceStatusRefunded, total, nil, InvoiceStatusRefunded},
		{"fully paid", InvoiceStatusSent, total, &past, InvoiceStatusPaid},
		{"overpaid still paid", InvoiceStatusPartial, decimal.NewFromInt(1200), nil, InvoiceStatusPaid},
		{"partial payment", InvoiceStatusViewed, decimal.NewFromInt(1), &past, InvoiceStatusPartial},
		{"unpaid past due", InvoiceStatusSent, decimal.Zero, &past, InvoiceStatusOverdue},
		{"unpaid not yet due", InvoiceStatusSent, decimal.Zero, &future, InvoiceStatusSent},
		{"viewed without due date", InvoiceStatusViewed, decimal.Zero, nil, InvoiceStatusViewed},
		{"overdue stays overdue", InvoiceStatusOverdue, decimal.Zero, &future, InvoiceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextInvoiceStatus(tt.current, tt.paid, total, tt.due, now))
		})
	}
}

func TestNextLedgerStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	amount := decimal.NewFromInt(500)

	assert.Equal(t, LedgerStatusCancelled, NextLedgerStatus(LedgerStatusCancelled, amount, amount, nil, now))
	assert.Equal(t, LedgerStatusPaid, NextLedgerStatus(LedgerStatusDue, amount, amount, &past, now))
	assert.Equal(t, LedgerStatusPartialPaid, NextLedgerStatus(LedgerStatusPending, decimal.NewFromInt(100), amount, nil, now))
	assert.Equal(t, LedgerStatusOverdue, NextLedgerStatus(LedgerStatusDue, decimal.Zero, amount, &past, now))
	assert.Equal(t, LedgerStatusPending, NextLedgerStatus(LedgerStatusPending, decimal.Zero, amount, nil, now))
}

func TestNextLedgerStatus_DueMonth(t *testing.T) {
	amount := decimal.NewFromInt(500)
	due := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current LedgerStatus
		now     time.Time
		want    LedgerStatus
	}{
		{"month before", LedgerStatusPending, time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), LedgerStatusPending},
		{"first of due month", LedgerStatusPending, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), LedgerStatusDue},
		{"on due date", LedgerStatusPending, due, LedgerStatusDue},
		{"after due date", LedgerStatusPending, due.AddDate(0, 0, 1), LedgerStatusOverdue},
		{"already due", LedgerStatusDue, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), LedgerStatusDue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLedgerStatus(tt.current, decimal.Zero, amount, &due, tt.now))
		})
	}
}
