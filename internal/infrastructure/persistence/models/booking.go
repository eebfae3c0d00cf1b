package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/shopspring/decimal"
)

// HuntingBookingModel is the persistence model for a hunting booking.
type HuntingBookingModel struct {
	AggregateModel
	HunterName     string                `gorm:"type:varchar(200);not null"`
	Email          string                `gorm:"type:varchar(200);not null"`
	Phone          string                `gorm:"type:varchar(50)"`
	Season         string                `gorm:"type:varchar(50);index"`
	LeaseArea      string                `gorm:"type:varchar(100);not null;index"`
	StartDate      time.Time             `gorm:"not null;index"`
	EndDate        time.Time             `gorm:"not null"`
	HunterCount    int                   `gorm:"not null"`
	PricePerHunter decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Deposit        decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status         booking.BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	InvoiceID      *uuid.UUID            `gorm:"type:uuid"`
	Notes          string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (HuntingBookingModel) TableName() string {
	return "hunting_bookings"
}

// ToDomain converts the persistence model to a domain HuntingBooking.
func (m *HuntingBookingModel) ToDomain() *booking.HuntingBooking {
	return &booking.HuntingBooking{
		BaseAggregateRoot: m.ToAggregateRoot(),
		HunterName:        m.HunterName,
		Email:             m.Email,
		Phone:             m.Phone,
		Season:            m.Season,
		LeaseArea:         m.LeaseArea,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		HunterCount:       m.HunterCount,
		PricePerHunter:    m.PricePerHunter,
		Deposit:           m.Deposit,
		Status:            m.Status,
		InvoiceID:         m.InvoiceID,
		Notes:             m.Notes,
	}
}

// HuntingBookingModelFromDomain creates a new persistence model from a domain HuntingBooking.
func HuntingBookingModelFromDomain(b *booking.HuntingBooking) *HuntingBookingModel {
	m := &HuntingBookingModel{
		HunterName:     b.HunterName,
		Email:          b.Email,
		Phone:          b.Phone,
		Season:         b.Season,
		LeaseArea:      b.LeaseArea,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		HunterCount:    b.HunterCount,
		PricePerHunter: b.PricePerHunter,
		Deposit:        b.Deposit,
		Status:         b.Status,
		InvoiceID:      b.InvoiceID,
		Notes:          b.Notes,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// EquipmentOfferModel is the persistence model for a buyer's equipment offer.
type EquipmentOfferModel struct {
	AggregateModel
	EquipmentID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	BuyerName       string              `gorm:"type:varchar(200);not null"`
	BuyerEmail      string              `gorm:"type:varchar(200);not null"`
	OfferAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Message         string              `gorm:"type:text"`
	Status          booking.OfferStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentIntentID string              `gorm:"type:varchar(100);index"`
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (EquipmentOfferModel) TableName() string {
	return "equipment_offers"
}

// ToDomain converts the persistence model to a domain EquipmentOffer.
func (m *EquipmentOfferModel) ToDomain() *booking.EquipmentOffer {
	return &booking.EquipmentOffer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EquipmentID:       m.EquipmentID,
		BuyerName:         m.BuyerName,
		BuyerEmail:        m.BuyerEmail,
		OfferAmount:       m.OfferAmount,
		Message:           m.Message,
		Status:            m.Status,
		PaymentIntentID:   m.PaymentIntentID,
		PaidAt:            m.PaidAt,
	}
}

// EquipmentOfferModelFromDomain creates a new persistence model from a domain EquipmentOffer.
func EquipmentOfferModelFromDomain(o *booking.EquipmentOffer) *EquipmentOfferModel {
	m := &EquipmentOfferModel{
		EquipmentID:     o.EquipmentID,
		BuyerName:       o.BuyerName,
		BuyerEmail:      o.BuyerEmail,
		OfferAmount:     o.OfferAmount,
		Message:         o.Message,
		Status:          o.Status,
		PaymentIntentID: o.PaymentIntentID,
		PaidAt:          o.PaidAt,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}
