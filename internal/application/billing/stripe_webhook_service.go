package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

const (
	eventPaymentIntentSucceeded = "payment_intent.succeeded"

	// metadataOfferID is set on payment intents created for an equipment offer
	metadataOfferID = "offer_id"

	saleCategory = "equipment_sale"
)

// StripeWebhookService handles Stripe webhook events for equipment sales
type StripeWebhookService struct {
	secret      string
	offerRepo   booking.OfferRepository
	txScope     common.TransactionScope
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	WebhookSecret  string
	OfferRepo      booking.OfferRepository
	TxScope        common.TransactionScope
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration
	Logger         *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	return &StripeWebhookService{
		secret:      cfg.WebhookSecret,
		offerRepo:   cfg.OfferRepo,
		txScope:     cfg.TxScope,
		idempotency: cfg.Idempotency,
		ttl:         cfg.IdempotencyTTL,
		logger:      cfg.Logger,
		now:         time.Now,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and handles a Stripe webhook event. An event id
// seen before is acknowledged without being handled again.
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.logger.Warn("Failed to verify webhook signature", zap.Error(err))
		return nil, shared.NewValidationError("webhook signature verification failed")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "stripe_webhook", telemetry.SpanAttrWebhookID, event.ID)
	defer span.End()

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	if s.idempotency != nil {
		seen, err := s.idempotency.IsProcessed(ctx, event.ID)
		if err != nil {
			s.logger.Warn("Idempotency check failed, relying on offer state", zap.String("event_id", event.ID), zap.Error(err))
		} else if seen {
			s.logger.Info("Duplicate webhook event ignored", zap.String("event_id", event.ID))
			result.Processed = false
			result.Message = "Event already processed"
			return result, nil
		}
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case eventPaymentIntentSucceeded:
		err = s.handlePaymentIntentSucceeded(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = "Event processing failed"
		return result, err
	}

	// marked only after success so Stripe's retry of a failed delivery is handled
	if s.idempotency != nil {
		if _, err := s.idempotency.MarkProcessed(ctx, event.ID, s.ttl); err != nil {
			s.logger.Warn("Failed to record processed webhook event", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	return result, nil
}

// handlePaymentIntentSucceeded marks the offer paid, sells the machine and
// books the income in one transaction
func (s *StripeWebhookService) handlePaymentIntentSucceeded(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	offerID, err := s.resolveOffer(ctx, &pi)
	if err != nil {
		return err
	}
	if offerID == uuid.Nil {
		// not an equipment sale; acknowledge so Stripe stops retrying
		s.logger.Warn("No equipment offer for payment intent", zap.String("payment_intent", pi.ID))
		return nil
	}

	paidAt := s.now()
	return s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		offer, err := repos.Offers().FindByID(ctx, offerID)
		if err != nil {
			return err
		}
		changed, err := offer.MarkPaid(pi.ID, paidAt)
		if err != nil {
			return err
		}
		if !changed {
			s.logger.Info("Offer already paid", zap.String("offer_id", offer.ID.String()))
			return nil
		}
		if err := repos.Offers().SaveWithLock(ctx, offer); err != nil {
			return err
		}

		equipment, err := repos.Equipment().FindByID(ctx, offer.EquipmentID)
		if err != nil {
			return fmt.Errorf("failed to load equipment: %w", err)
		}
		if equipment.Status != assets.EquipmentSold {
			if err := equipment.MarkSold(); err != nil {
				return err
			}
			if err := repos.Equipment().SaveWithLock(ctx, equipment); err != nil {
				return err
			}
		}

		income, err := finance.NewTransaction(finance.NewTransactionParams{
			Date:        paidAt,
			Type:        finance.TransactionIncome,
			Category:    saleCategory,
			Amount:      receivedAmount(&pi, offer.OfferAmount),
			Description: fmt.Sprintf("Sale of %s to %s", equipment.Name, offer.BuyerName),
			Entity:      equipment.Entity,
			Status:      finance.TransactionCompleted,
			Reference:   pi.ID,
		})
		if err != nil {
			return err
		}
		if err := repos.Transactions().Save(ctx, income); err != nil {
			return fmt.Errorf("failed to record sale income: %w", err)
		}

		s.logger.Info("Equipment sale paid",
			zap.String("offer_id", offer.ID.String()),
			zap.String("equipment_id", equipment.ID.String()),
			zap.String("amount", income.Amount.StringFixed(2)),
		)
		return nil
	})
}

// resolveOffer finds the offer by payment intent id, then by the offer_id
// metadata set when the intent was created. uuid.Nil means no match.
func (s *StripeWebhookService) resolveOffer(ctx context.Context, pi *stripe.PaymentIntent) (uuid.UUID, error) {
	offer, err := s.offerRepo.FindByPaymentIntent(ctx, pi.ID)
	if err == nil {
		return offer.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("failed to find offer: %w", err)
	}

	raw, ok := pi.Metadata[metadataOfferID]
	if !ok {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("Malformed offer_id metadata", zap.String("payment_intent", pi.ID), zap.String("offer_id", raw))
		return uuid.Nil, nil
	}
	if _, err := s.offerRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return id, nil
}

// receivedAmount converts the captured minor units, falling back to the
// offer amount when Stripe reports nothing received
func receivedAmount(pi *stripe.PaymentIntent, fallback decimal.Decimal) decimal.Decimal {
	cents := pi.AmountReceived
	if cents <= 0 {
		cents = pi.Amount
	}
	if cents <= 0 {
		return fallback
	}
	return decimal.New(cents, -2)
}
