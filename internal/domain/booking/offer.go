package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OfferStatus is the state of a purchase offer on equipment
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferWithdrawn OfferStatus = "withdrawn"
	OfferPaid      OfferStatus = "paid"
)

// EquipmentOffer is a buyer's bid on a machine listed for sale
type EquipmentOffer struct {
	shared.BaseAggregateRoot
	EquipmentID     uuid.UUID
	BuyerName       string
	BuyerEmail      string
	OfferAmount     decimal.Decimal
	Message         string
	Status          OfferStatus
	PaymentIntentID string
	PaidAt          *time.Time
}

// NewEquipmentOffer validates and records a pending offer
func NewEquipmentOffer(equipmentID uuid.UUID, buyerName, buyerEmail string, amount decimal.Decimal, message string) (*EquipmentOffer, error) {
	if strings.TrimSpace(buyerName) == "" || strings.TrimSpace(buyerEmail) == "" {
		return nil, shared.NewValidationError("buyer name and email are required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("offer amount must be positive")
	}
	return &EquipmentOffer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EquipmentID:       equipmentID,
		BuyerName:         strings.TrimSpace(buyerName),
		BuyerEmail:        strings.ToLower(strings.TrimSpace(buyerEmail)),
		OfferAmount:       amount,
		Message:           message,
		Status:            OfferPending,
	}, nil
}

func (o *EquipmentOffer) transition(from, to OfferStatus) error {
	if o.Status != from {
		return shared.NewDomainError(shared.CodeInvalidState, "offer is "+string(o.Status)+", expected "+string(from))
	}
	o.Status = to
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Accept accepts the bid and raises OfferAccepted
func (o *EquipmentOffer) Accept() error {
	if err := o.transition(OfferPending, OfferAccepted); err != nil {
		return err
	}
	o.AddDomainEvent(NewOfferAcceptedEvent(o))
	return nil
}

// Reject declines the bid
func (o *EquipmentOffer) Reject() error {
	return o.transition(OfferPending, OfferRejected)
}

// Withdraw is the buyer pulling the bid
func (o *EquipmentOffer) Withdraw() error {
	return o.transition(OfferPending, OfferWithdrawn)
}

// MarkPaid records the card payment. Returns false without error when the
// offer is already paid so a replayed webhook is a no-op.
func (o *EquipmentOffer) MarkPaid(paymentIntentID string, at time.Time) (bool, error) {
	if o.Status == OfferPaid {
		return false, nil
	}
	if err := o.transition(OfferAccepted, OfferPaid); err != nil {
		return false, err
	}
	o.PaymentIntentID = paymentIntentID
	o.PaidAt = &at
	return true, nil
}
