package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBookingRepository implements booking.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.HuntingBooking, error) {
	var model models.HuntingBookingModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists bookings, optionally in a single status, with the total count
func (r *GormBookingRepository) FindAll(ctx context.Context, filter shared.Filter, status booking.BookingStatus) ([]booking.HuntingBooking, int64, error) {
	scoped := func() *gorm.DB {
		query := search(r.db.WithContext(ctx).Model(&models.HuntingBookingModel{}), filter.Search, "hunter_name", "email", "lease_area")
		if status != "" {
			query = query.Where("status = ?", status)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.HuntingBookingModel
	if err := paginate(scoped(), filter, BookingSortFields, "start_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	bookings := make([]booking.HuntingBooking, len(rows))
	for i := range rows {
		bookings[i] = *rows[i].ToDomain()
	}
	return bookings, total, nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.HuntingBooking) error {
	return translateError(r.db.WithContext(ctx).Save(models.HuntingBookingModelFromDomain(b)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormBookingRepository) SaveWithLock(ctx context.Context, b *booking.HuntingBooking) error {
	return saveWithLock(ctx, r.db, models.HuntingBookingModelFromDomain(b), b.ID, b.Version)
}

// GormOfferRepository implements booking.OfferRepository using GORM
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByID finds an offer by its ID
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.EquipmentOffer, error) {
	var model models.EquipmentOfferModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentIntent finds the offer a payment intent settles
func (r *GormOfferRepository) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*booking.EquipmentOffer, error) {
	var model models.EquipmentOfferModel
	if err := findOne(ctx, r.db, &model, "payment_intent_id = ?", paymentIntentID); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEquipment lists the offers made on a piece of equipment, newest first
func (r *GormOfferRepository) FindByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]booking.EquipmentOffer, error) {
	var rows []models.EquipmentOfferModel
	if err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	offers := make([]booking.EquipmentOffer, len(rows))
	for i := range rows {
		offers[i] = *rows[i].ToDomain()
	}
	return offers, nil
}

// Save creates or updates an offer
func (r *GormOfferRepository) Save(ctx context.Context, offer *booking.EquipmentOffer) error {
	return translateError(r.db.WithContext(ctx).Save(models.EquipmentOfferModelFromDomain(offer)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormOfferRepository) SaveWithLock(ctx context.Context, offer *booking.EquipmentOffer) error {
	return saveWithLock(ctx, r.db, models.EquipmentOfferModelFromDomain(offer), offer.ID, offer.Version)
}

var (
	_ booking.BookingRepository = (*GormBookingRepository)(nil)
	_ booking.OfferRepository   = (*GormOfferRepository)(nil)
)
