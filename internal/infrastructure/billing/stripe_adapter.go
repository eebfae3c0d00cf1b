package billing

import (
	"context"
	"fmt"
	"strings"

	bookingapp "github.com/m77ag/backend/internal/application/booking"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"go.uber.org/zap"
)

// Metadata keys the payment webhook reads back
const (
	MetadataOfferID     = "offer_id"
	MetadataEquipmentID = "equipment_id"
)

// StripeAdapter opens Stripe payment intents for accepted equipment offers
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// RequestOfferPayment creates a payment intent for the offer amount. The
// offer id is both the idempotency key and intent metadata, so a retried
// accept reuses the same intent and the webhook can find the offer.
func (a *StripeAdapter) RequestOfferPayment(ctx context.Context, p bookingapp.OfferPayment) (string, error) {
	amount, err := ToMinorUnits(p.Amount)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(amount),
		Currency:     stripe.String(strings.ToLower(a.config.Currency)),
		Description:  stripe.String("Equipment purchase: " + p.EquipmentName),
		ReceiptEmail: stripe.String(p.BuyerEmail),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("offer-" + p.OfferID.String())
	params.AddMetadata(MetadataOfferID, p.OfferID.String())
	params.AddMetadata(MetadataEquipmentID, p.EquipmentID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe payment intent",
			zap.String("offer_id", p.OfferID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	a.logger.Info("Created Stripe payment intent",
		zap.String("offer_id", p.OfferID.String()),
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", amount))
	return intent.ID, nil
}

// CancelOfferPayment cancels an open payment intent
func (a *StripeAdapter) CancelOfferPayment(ctx context.Context, paymentIntentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(paymentIntentID, params); err != nil {
		a.logger.Error("Failed to cancel Stripe payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel payment intent: %w", err)
	}

	a.logger.Info("Cancelled Stripe payment intent", zap.String("payment_intent_id", paymentIntentID))
	return nil
}

// ToMinorUnits converts a dollar amount to cents. Fractions of a cent are
// rejected rather than rounded.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("stripe: amount must be positive, got %s", amount.String())
	}
	cents := amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("stripe: amount %s has fractional cents", amount.String())
	}
	return cents.IntPart(), nil
}

var _ bookingapp.PaymentRequester = (*StripeAdapter)(nil)
