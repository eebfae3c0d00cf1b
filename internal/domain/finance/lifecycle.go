package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// NextInvoiceStatus derives an invoice status from its payment position.
// It is a pure function of its inputs and is applied after every balance
// mutation and by the overdue sweep.
//
// Rules, in order:
//  1. cancelled, refunded and draft are sticky
//  2. amountPaid >= total is paid
//  3. a partial payment is partial
//  4. nothing paid and past the due date is overdue
//  5. otherwise the current status is kept
func NextInvoiceStatus(current InvoiceStatus, amountPaid, total decimal.Decimal, dueDate *time.Time, now time.Time) InvoiceStatus {
	if current.IsSticky() {
		return current
	}
	if amountPaid.GreaterThanOrEqual(total) {
		return InvoiceStatusPaid
	}
	if amountPaid.IsPositive() {
		return InvoiceStatusPartial
	}
	if dueDate != nil && now.After(*dueDate) {
		return InvoiceStatusOverdue
	}
	return current
}

// NextLedgerStatus is the ledger counterpart of NextInvoiceStatus.
// Only cancelled is sticky. A pending entry becomes due once the calendar
// month of its due date has started.
func NextLedgerStatus(current LedgerStatus, amountPaid, amount decimal.Decimal, dueDate *time.Time, now time.Time) LedgerStatus {
	if current == LedgerStatusCancelled {
		return current
	}
	if amountPaid.GreaterThanOrEqual(amount) {
		return LedgerStatusPaid
	}
	if amountPaid.IsPositive() {
		return LedgerStatusPartialPaid
	}
	if dueDate != nil && now.After(*dueDate) {
		return LedgerStatusOverdue
	}
	if current == LedgerStatusPending && dueDate != nil && !now.Before(dueMonthStart(*dueDate)) {
		return LedgerStatusDue
	}
	return current
}

func dueMonthStart(due time.Time) time.Time {
	return time.Date(due.Year(), due.Month(), 1, 0, 0, 0, 0, due.Location())
}
