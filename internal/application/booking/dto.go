package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest requests a hunt
type CreateBookingRequest struct {
	HunterName     string          `json:"hunter_name" binding:"required,max=120"`
	Email          string          `json:"email" binding:"required,email"`
	Phone          string          `json:"phone" binding:"max=30"`
	Season         string          `json:"season" binding:"max=40"`
	LeaseArea      string          `json:"lease_area" binding:"required,max=120"`
	StartDate      time.Time       `json:"start_date" binding:"required"`
	EndDate        time.Time       `json:"end_date" binding:"required"`
	HunterCount    int             `json:"hunter_count" binding:"required,min=1,max=50"`
	PricePerHunter decimal.Decimal `json:"price_per_hunter" binding:"decimal_gte0"`
	Deposit        decimal.Decimal `json:"deposit" binding:"decimal_gte0"`
	Notes          string          `json:"notes" binding:"max=2000"`
}

// BookingListFilter narrows a booking listing
type BookingListFilter struct {
	common.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
}

// BookingResponse is the API view of a hunting booking
type BookingResponse struct {
	ID             uuid.UUID       `json:"id"`
	HunterName     string          `json:"hunter_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Season         string          `json:"season,omitempty"`
	LeaseArea      string          `json:"lease_area"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	HunterCount    int             `json:"hunter_count"`
	PricePerHunter decimal.Decimal `json:"price_per_hunter"`
	Deposit        decimal.Decimal `json:"deposit"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToBookingResponse converts a domain booking
func ToBookingResponse(b *booking.HuntingBooking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
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
		Total:          b.Total(),
		Status:         string(b.Status),
		InvoiceID:      b.InvoiceID,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// SubmitOfferRequest is a buyer's bid on a listed machine
type SubmitOfferRequest struct {
	BuyerName   string          `json:"buyer_name" binding:"required,max=120"`
	BuyerEmail  string          `json:"buyer_email" binding:"required,email"`
	OfferAmount decimal.Decimal `json:"offer_amount" binding:"decimal_gt0"`
	Message     string          `json:"message" binding:"max=2000"`
}

// OfferResponse is the API view of an equipment offer
type OfferResponse struct {
	ID              uuid.UUID       `json:"id"`
	EquipmentID     uuid.UUID       `json:"equipment_id"`
	BuyerName       string          `json:"buyer_name"`
	BuyerEmail      string          `json:"buyer_email"`
	OfferAmount     decimal.Decimal `json:"offer_amount"`
	Message         string          `json:"message,omitempty"`
	Status          string          `json:"status"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToOfferResponse converts a domain offer
func ToOfferResponse(o *booking.EquipmentOffer) OfferResponse {
	return OfferResponse{
		ID:              o.ID,
		EquipmentID:     o.EquipmentID,
		BuyerName:       o.BuyerName,
		BuyerEmail:      o.BuyerEmail,
		OfferAmount:     o.OfferAmount,
		Message:         o.Message,
		Status:          string(o.Status),
		PaymentIntentID: o.PaymentIntentID,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
	}
}
