package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OfferPayment describes the card payment requested from a buyer
type OfferPayment struct {
	OfferID       uuid.UUID
	EquipmentID   uuid.UUID
	EquipmentName string
	BuyerEmail    string
	Amount        decimal.Decimal
}

// PaymentRequester opens a card payment for an accepted offer and returns
// the processor's payment intent id
type PaymentRequester interface {
	RequestOfferPayment(ctx context.Context, p OfferPayment) (string, error)
	CancelOfferPayment(ctx context.Context, paymentIntentID string) error
}

// OfferService handles buyer offers on equipment listed for sale
type OfferService struct {
	offerRepo      booking.OfferRepository
	equipmentRepo  assets.EquipmentRepository
	eventPublisher shared.EventPublisher
	payments       PaymentRequester
	logger         *zap.Logger
}

// NewOfferService creates a new OfferService
func NewOfferService(offerRepo booking.OfferRepository, equipmentRepo assets.EquipmentRepository, logger *zap.Logger) *OfferService {
	return &OfferService{
		offerRepo:     offerRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OfferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPaymentRequester enables card payment for accepted offers
func (s *OfferService) SetPaymentRequester(payments PaymentRequester) {
	s.payments = payments
}

// Submit records a pending offer on a machine that is listed for sale
func (s *OfferService) Submit(ctx context.Context, equipmentID uuid.UUID, req SubmitOfferRequest) (*OfferResponse, error) {
	e, err := s.equipmentRepo.FindByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if e.Status != assets.EquipmentForSale {
		return nil, shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("%s is not listed for sale", e.Name))
	}
	offer, err := booking.NewEquipmentOffer(e.ID, req.BuyerName, req.BuyerEmail, req.OfferAmount, req.Message)
	if err != nil {
		return nil, err
	}
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to save offer: %w", err)
	}
	s.logger.Info("Equipment offer submitted",
		zap.String("offer_id", offer.ID.String()),
		zap.String("equipment_id", e.ID.String()),
		zap.String("amount", offer.OfferAmount.StringFixed(2)),
	)
	resp := ToOfferResponse(offer)
	return &resp, nil
}

// ListByEquipment returns every offer on a machine
func (s *OfferService) ListByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]OfferResponse, error) {
	offers, err := s.offerRepo.FindByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	out := make([]OfferResponse, len(offers))
	for i := range offers {
		out[i] = ToOfferResponse(&offers[i])
	}
	return out, nil
}

// Accept accepts a pending offer. A machine takes one accepted offer at a
// time; the rest stay pending until it is withdrawn or rejected.
func (s *OfferService) Accept(ctx context.Context, id uuid.UUID) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	siblings, err := s.offerRepo.FindByEquipment(ctx, offer.EquipmentID)
	if err != nil {
		return nil, err
	}
	for _, other := range siblings {
		if other.ID != offer.ID && (other.Status == booking.OfferAccepted || other.Status == booking.OfferPaid) {
			return nil, shared.NewDomainError(shared.CodeInvalidState, "another offer on this equipment is already "+string(other.Status))
		}
	}
	if err := offer.Accept(); err != nil {
		return nil, err
	}
	// The intent is opened before saving so a processor failure leaves the offer pending
	if s.payments != nil {
		equipment, err := s.equipmentRepo.FindByID(ctx, offer.EquipmentID)
		if err != nil {
			return nil, err
		}
		intentID, err := s.payments.RequestOfferPayment(ctx, OfferPayment{
			OfferID:       offer.ID,
			EquipmentID:   offer.EquipmentID,
			EquipmentName: equipment.Name,
			BuyerEmail:    offer.BuyerEmail,
			Amount:        offer.OfferAmount,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to request offer payment: %w", err)
		}
		offer.PaymentIntentID = intentID
	}
	if err := s.offerRepo.SaveWithLock(ctx, offer); err != nil {
		if offer.PaymentIntentID != "" {
			if cerr := s.payments.CancelOfferPayment(ctx, offer.PaymentIntentID); cerr != nil {
				s.logger.Error("Failed to cancel payment for unsaved offer",
					zap.String("offer_id", offer.ID.String()),
					zap.String("payment_intent_id", offer.PaymentIntentID),
					zap.Error(cerr))
			}
		}
		return nil, err
	}
	s.logger.Info("Equipment offer accepted", zap.String("offer_id", offer.ID.String()))
	if err := shared.PublishAndClear(ctx, s.eventPublisher, offer); err != nil {
		s.logger.Warn("Failed to publish offer events", zap.String("offer_id", offer.ID.String()), zap.Error(err))
	}
	resp := ToOfferResponse(offer)
	return &resp, nil
}

// Reject declines a pending offer
func (s *OfferService) Reject(ctx context.Context, id uuid.UUID) (*OfferResponse, error) {
	return s.mutate(ctx, id, "rejected", (*booking.EquipmentOffer).Reject)
}

// Withdraw records the buyer pulling a pending offer
func (s *OfferService) Withdraw(ctx context.Context, id uuid.UUID) (*OfferResponse, error) {
	return s.mutate(ctx, id, "withdrawn", (*booking.EquipmentOffer).Withdraw)
}

func (s *OfferService) mutate(ctx context.Context, id uuid.UUID, action string, change func(*booking.EquipmentOffer) error) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(offer); err != nil {
		return nil, err
	}
	if err := s.offerRepo.SaveWithLock(ctx, offer); err != nil {
		return nil, err
	}
	s.logger.Info("Equipment offer "+action, zap.String("offer_id", offer.ID.String()))
	resp := ToOfferResponse(offer)
	return &resp, nil
}
