package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeBookingConfirmed = "BookingConfirmed"
	EventTypeOfferAccepted    = "OfferAccepted"
)

// BookingConfirmedEvent is raised when a hunt is confirmed
type BookingConfirmedEvent struct {
	shared.BaseDomainEvent
	BookingID  uuid.UUID       `json:"booking_id"`
	HunterName string          `json:"hunter_name"`
	Email      string          `json:"email"`
	LeaseArea  string          `json:"lease_area"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Total      decimal.Decimal `json:"total"`
	Deposit    decimal.Decimal `json:"deposit"`
}

// NewBookingConfirmedEvent creates a new BookingConfirmedEvent
func NewBookingConfirmedEvent(b *HuntingBooking) *BookingConfirmedEvent {
	return &BookingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingConfirmed, "HuntingBooking", b.ID),
		BookingID:       b.ID,
		HunterName:      b.HunterName,
		Email:           b.Email,
		LeaseArea:       b.LeaseArea,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Total:           b.Total(),
		Deposit:         b.Deposit,
	}
}

// OfferAcceptedEvent is raised when a bid on equipment is accepted
type OfferAcceptedEvent struct {
	shared.BaseDomainEvent
	OfferID     uuid.UUID       `json:"offer_id"`
	EquipmentID uuid.UUID       `json:"equipment_id"`
	BuyerName   string          `json:"buyer_name"`
	BuyerEmail  string          `json:"buyer_email"`
	OfferAmount decimal.Decimal `json:"offer_amount"`
}

// NewOfferAcceptedEvent creates a new OfferAcceptedEvent
func NewOfferAcceptedEvent(o *EquipmentOffer) *OfferAcceptedEvent {
	return &OfferAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferAccepted, "EquipmentOffer", o.ID),
		OfferID:         o.ID,
		EquipmentID:     o.EquipmentID,
		BuyerName:       o.BuyerName,
		BuyerEmail:      o.BuyerEmail,
		OfferAmount:     o.OfferAmount,
	}
}
