package finance

import (
	"testing"
	"time"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedgerEntry(t *testing.T, amount int64) *LedgerEntry {
	t.Helper()
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entry, err := NewLedgerEntry(NewLedgerEntryParams{
		OwedBy:   PartyFarmer,
		OwedTo:   PartyLandlord,
		Landlord: "Schmidt Trust",
		Year:     2026,
		Category: LedgerCategoryCashRent,
		Amount:   decimal.NewFromInt(amount),
		DueDate:  &due,
	})
	require.NoError(t, err)
	return entry
}

func TestNewLedgerEntry_Validation(t *testing.T) {
	_, err := NewLedgerEntry(NewLedgerEntryParams{
		OwedBy: PartyFarmer, OwedTo: PartyFarmer, Landlord: "X", Year: 2026,
		Category: LedgerCategoryOther, Amount: decimal.NewFromInt(1),
	})
	assert.True(t, shared.IsValidationError(err))

	_, err = NewLedgerEntry(NewLedgerEntryParams{
		OwedBy: PartyLandlord, OwedTo: PartyFarmer, Landlord: "X", Year: 2026,
		Category: LedgerCategoryOther, Amount: decimal.Zero,
	})
	assert.True(t, shared.IsValidationError(err))
}

func TestLedgerEntry_BalanceInvariant(t *testing.T) {
	entry := newTestLedgerEntry(t, 12000)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, amt := range []int64{2000, 5000, 5000} {
		_, err := entry.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(amt)}, now)
		require.NoError(t, err)
		assert.True(t, entry.BalanceRemaining.Equal(entry.Amount.Sub(entry.AmountPaid)))
	}
	assert.Equal(t, LedgerStatusPaid, entry.Status)
	assert.NotNil(t, entry.PaidDate)

	_, err := entry.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(1)}, now)
	assert.True(t, shared.IsValidationError(err))
	assert.True(t, entry.BalanceRemaining.IsZero())
}

func TestLedgerEntry_PartialAndOverdue(t *testing.T) {
	entry := newTestLedgerEntry(t, 1000)
	late := entry.DueDate.AddDate(0, 0, 2)

	assert.True(t, entry.Refresh(late))
	assert.Equal(t, LedgerStatusOverdue, entry.Status)

	_, err := entry.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(250)}, late)
	require.NoError(t, err)
	assert.Equal(t, LedgerStatusPartialPaid, entry.Status)

	assert.Error(t, entry.Cancel(late))
}

func TestLedgerEntry_BecomesDue(t *testing.T) {
	entry := newTestLedgerEntry(t, 1000)
	assert.False(t, entry.Refresh(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, LedgerStatusPending, entry.Status)

	assert.True(t, entry.Refresh(*entry.DueDate))
	assert.Equal(t, LedgerStatusDue, entry.Status)
}

func TestLedgerEntry_MarkDue(t *testing.T) {
	entry := newTestLedgerEntry(t, 1000)
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	version := entry.Version

	assert.True(t, entry.MarkDue(now))
	assert.Equal(t, LedgerStatusDue, entry.Status)
	assert.Equal(t, version+1, entry.Version)
	assert.False(t, entry.MarkDue(now))

	assert.True(t, entry.Refresh(entry.DueDate.AddDate(0, 0, 1)))
	assert.Equal(t, LedgerStatusOverdue, entry.Status)
}

func TestLedgerEntry_CancelIsSticky(t *testing.T) {
	entry := newTestLedgerEntry(t, 1000)
	require.NoError(t, entry.Cancel(time.Now()))
	assert.False(t, entry.Refresh(entry.DueDate.AddDate(1, 0, 0)))
	assert.Equal(t, LedgerStatusCancelled, entry.Status)

	_, err := entry.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(10)}, time.Now())
	assert.Error(t, err)
}
