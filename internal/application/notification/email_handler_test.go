package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, email Email) error {
	return m.Called(ctx, email).Error(0)
}

func sentInvoice(t *testing.T, email string) *finance.Invoice {
	t.Helper()
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	inv, err := finance.NewInvoice(finance.NewInvoiceParams{
		InvoiceNumber: "INV-2026-0007",
		Customer:      finance.Customer{Name: "Sale Barn", Email: email},
		Items:         []finance.InvoiceItem{{Description: "Steers", Quantity: decimal.NewFromInt(9), UnitPrice: decimal.NewFromInt(1500)}},
		IssueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       &due,
	})
	require.NoError(t, err)
	return inv
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$13,500.00", FormatUSD(decimal.NewFromInt(13500)))
	assert.Equal(t, "$0.05", FormatUSD(decimal.RequireFromString("0.049")))
	assert.Equal(t, "-$1,234.50", FormatUSD(decimal.RequireFromString("-1234.5")))
}

func TestEmailHandler_InvoiceSent(t *testing.T) {
	notifier := new(MockNotifier)
	h := NewEmailHandler(notifier, "M77 AG", zap.NewNop())

	var got Email
	notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(Email)
	}).Return(nil)

	require.NoError(t, h.Handle(context.Background(), finance.NewInvoiceSentEvent(sentInvoice(t, "office@salebarn.example"))))

	notifier.AssertNumberOfCalls(t, "Send", 1)
	assert.Equal(t, "office@salebarn.example", got.To)
	assert.Equal(t, "Invoice INV-2026-0007 from M77 AG", got.Subject)
	assert.Contains(t, got.HTML, "$13,500.00")
	assert.Contains(t, got.HTML, "May 1, 2026")
}

func TestEmailHandler_EscapesCustomerText(t *testing.T) {
	notifier := new(MockNotifier)
	h := NewEmailHandler(notifier, "M77 AG", zap.NewNop())

	var got Email
	notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(Email)
	}).Return(nil)

	start := time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC)
	b, err := booking.NewHuntingBooking(booking.NewBookingParams{
		HunterName:     "<script>x</script>",
		Email:          "hunter@example.com",
		LeaseArea:      "River bottom",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 1),
		HunterCount:    2,
		PricePerHunter: decimal.NewFromInt(500),
		Deposit:        decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), booking.NewBookingConfirmedEvent(b)))
	assert.NotContains(t, got.HTML, "<script>")
	assert.Contains(t, got.HTML, "deposit due: $250.00")
	assert.Contains(t, got.HTML, "$1,000.00")
}

func TestEmailHandler_FailuresAreSwallowed(t *testing.T) {
	notifier := new(MockNotifier)
	h := NewEmailHandler(notifier, "M77 AG", zap.NewNop())
	notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	offer, err := booking.NewEquipmentOffer(uuid.New(), "Jo", "jo@example.com", decimal.NewFromInt(18500), "")
	require.NoError(t, err)
	assert.NoError(t, h.Handle(context.Background(), booking.NewOfferAcceptedEvent(offer)))
	notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestEmailHandler_SkipsMissingRecipient(t *testing.T) {
	notifier := new(MockNotifier)
	h := NewEmailHandler(notifier, "M77 AG", zap.NewNop())

	inv := sentInvoice(t, "")
	require.NoError(t, h.Handle(context.Background(), finance.NewInvoicePaidEvent(inv)))
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
