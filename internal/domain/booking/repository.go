package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
)

// BookingRepository defines the interface for hunting booking persistence
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*HuntingBooking, error)
	FindAll(ctx context.Context, filter shared.Filter, status BookingStatus) ([]HuntingBooking, int64, error)
	Save(ctx context.Context, booking *HuntingBooking) error
	SaveWithLock(ctx context.Context, booking *HuntingBooking) error
}

// OfferRepository defines the interface for equipment offer persistence
type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EquipmentOffer, error)
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*EquipmentOffer, error)
	FindByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]EquipmentOffer, error)
	Save(ctx context.Context, offer *EquipmentOffer) error
	SaveWithLock(ctx context.Context, offer *EquipmentOffer) error
}
