package assets

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateEquipmentRequest registers a machine
type CreateEquipmentRequest struct {
	Name          string          `json:"name" binding:"required,max=120"`
	Category      string          `json:"category" binding:"max=60"`
	Make          string          `json:"make" binding:"max=60"`
	Model         string          `json:"model" binding:"max=60"`
	Year          int             `json:"year" binding:"omitempty,min=1900,max=2100"`
	SerialNumber  string          `json:"serial_number" binding:"max=60"`
	Entity        string          `json:"entity" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"decimal_gte0"`
	CurrentValue  decimal.Decimal `json:"current_value" binding:"decimal_gte0"`
	LoanBalance   decimal.Decimal `json:"loan_balance" binding:"decimal_gte0"`
}

// ListForSaleRequest puts a machine on the market
type ListForSaleRequest struct {
	AskingPrice decimal.Decimal `json:"asking_price" binding:"decimal_gt0"`
}

// EquipmentResponse is the API view of a machine
type EquipmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Make          string          `json:"make,omitempty"`
	Model         string          `json:"model,omitempty"`
	Year          int             `json:"year,omitempty"`
	SerialNumber  string          `json:"serial_number,omitempty"`
	Entity        string          `json:"entity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	LoanBalance   decimal.Decimal `json:"loan_balance"`
	Equity        decimal.Decimal `json:"equity"`
	Status        string          `json:"status"`
	AskingPrice   decimal.Decimal `json:"asking_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToEquipmentResponse converts a domain machine
func ToEquipmentResponse(e *assets.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:            e.ID,
		Name:          e.Name,
		Category:      e.Category,
		Make:          e.Make,
		Model:         e.Model,
		Year:          e.Year,
		SerialNumber:  e.SerialNumber,
		Entity:        e.Entity,
		PurchasePrice: e.Valuation.PurchasePrice,
		CurrentValue:  e.Valuation.CurrentValue,
		LoanBalance:   e.LoanBalance,
		Equity:        e.Valuation.CurrentValue.Sub(e.LoanBalance),
		Status:        string(e.Status),
		AskingPrice:   e.AskingPrice,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// AddressRequest is a postal address
type AddressRequest struct {
	Street string `json:"street" binding:"max=200"`
	City   string `json:"city" binding:"max=100"`
	County string `json:"county" binding:"max=100"`
	State  string `json:"state" binding:"omitempty,len=2"`
	Zip    string `json:"zip" binding:"max=10"`
}

// CreateRealEstateRequest registers a parcel or building
type CreateRealEstateRequest struct {
	Name        string          `json:"name" binding:"required,max=120"`
	Entity      string          `json:"entity" binding:"required"`
	Acres       decimal.Decimal `json:"acres" binding:"decimal_gte0"`
	Address     AddressRequest  `json:"address"`
	MarketValue decimal.Decimal `json:"market_value" binding:"decimal_gte0"`
	LoanBalance decimal.Decimal `json:"loan_balance" binding:"decimal_gte0"`
}

// RealEstateResponse is the API view of a parcel
type RealEstateResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Entity      string              `json:"entity"`
	Acres       decimal.Decimal     `json:"acres"`
	Address     valueobject.Address `json:"address"`
	MarketValue decimal.Decimal     `json:"market_value"`
	LoanBalance decimal.Decimal     `json:"loan_balance"`
	Equity      decimal.Decimal     `json:"equity"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToRealEstateResponse converts a domain parcel
func ToRealEstateResponse(r *assets.RealEstate) RealEstateResponse {
	return RealEstateResponse{
		ID:          r.ID,
		Name:        r.Name,
		Entity:      r.Entity,
		Acres:       r.Acres,
		Address:     r.Address,
		MarketValue: r.MarketValue,
		LoanBalance: r.LoanBalance,
		Equity:      r.Equity(),
		CreatedAt:   r.CreatedAt,
	}
}

// LineItemRequest is one manual asset or liability
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,max=200"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gte0"`
}

// UpdateAdjustmentsRequest replaces the manual lines of an entity
type UpdateAdjustmentsRequest struct {
	AdditionalAssets      []LineItemRequest `json:"additional_assets" binding:"max=200,dive"`
	AdditionalLiabilities []LineItemRequest `json:"additional_liabilities" binding:"max=200,dive"`
}

// AdjustmentsResponse is the API view of an entity's manual lines
type AdjustmentsResponse struct {
	Name                  string           `json:"name"`
	AdditionalAssets      assets.LineItems `json:"additional_assets"`
	AdditionalLiabilities assets.LineItems `json:"additional_liabilities"`
	TotalAssets           decimal.Decimal  `json:"total_additional_assets"`
	TotalLiabilities      decimal.Decimal  `json:"total_additional_liabilities"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// ToAdjustmentsResponse converts domain adjustments
func ToAdjustmentsResponse(a *assets.EntityAdjustments) AdjustmentsResponse {
	return AdjustmentsResponse{
		Name:                  a.Name,
		AdditionalAssets:      a.AdditionalAssets,
		AdditionalLiabilities: a.AdditionalLiabilities,
		TotalAssets:           a.AdditionalAssets.Total(),
		TotalLiabilities:      a.AdditionalLiabilities.Total(),
		UpdatedAt:             a.UpdatedAt,
	}
}

// AssetListFilter pages equipment and real estate listings
type AssetListFilter struct {
	common.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=owned for_sale sold"`
	Entity string `form:"entity" binding:"max=100"`
}

func toLineItems(in []LineItemRequest) assets.LineItems {
	out := make(assets.LineItems, len(in))
	for i, item := range in {
		out[i] = assets.LineItem{Description: item.Description, Amount: item.Amount}
	}
	return out
}
