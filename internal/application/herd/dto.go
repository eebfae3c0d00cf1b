package herd

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/shopspring/decimal"
)

// CreateCattleRequest registers an animal
type CreateCattleRequest struct {
	TagNumber      string          `json:"tag_number" binding:"required,max=30"`
	Name           string          `json:"name" binding:"max=100"`
	Breed          string          `json:"breed" binding:"max=60"`
	Sex            string          `json:"sex" binding:"required,oneof=bull cow heifer steer calf"`
	BirthDate      *time.Time      `json:"birth_date"`
	DamTag         string          `json:"dam_tag" binding:"max=30"`
	SireTag        string          `json:"sire_tag" binding:"max=30"`
	Pasture        string          `json:"pasture" binding:"max=60"`
	PurchasePrice  decimal.Decimal `json:"purchase_price" binding:"decimal_gte0"`
	EstimatedValue decimal.Decimal `json:"estimated_value" binding:"decimal_gte0"`
	Notes          string          `json:"notes" binding:"max=2000"`
}

// UpdateCattleRequest replaces the descriptive attributes of an animal
type UpdateCattleRequest struct {
	Name        string           `json:"name" binding:"max=100"`
	Breed       string           `json:"breed" binding:"max=60"`
	Pasture     string           `json:"pasture" binding:"max=60"`
	Notes       string           `json:"notes" binding:"max=2000"`
	BirthDate   *time.Time       `json:"birth_date"`
	MarketValue *decimal.Decimal `json:"current_market_value"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active deceased culled"`
}

// WeightRequest records a weigh-in
type WeightRequest struct {
	Date   time.Time       `json:"date"`
	Weight decimal.Decimal `json:"weight" binding:"decimal_gt0"`
	Notes  string          `json:"notes" binding:"max=500"`
}

// HealthRequest records a treatment
type HealthRequest struct {
	Date           time.Time `json:"date"`
	Treatment      string    `json:"treatment" binding:"required,max=200"`
	Medication     string    `json:"medication" binding:"max=200"`
	Dosage         string    `json:"dosage" binding:"max=100"`
	WithdrawalDays int       `json:"withdrawal_days" binding:"min=0,max=365"`
	Veterinarian   string    `json:"veterinarian" binding:"max=100"`
}

// BreedingRequest records a breeding
type BreedingRequest struct {
	Date    time.Time `json:"date" binding:"required"`
	Method  string    `json:"method" binding:"required,oneof=natural ai"`
	SireTag string    `json:"sire_tag" binding:"max=30"`
}

// CalvingRequest registers a calf born to the dam in the path
type CalvingRequest struct {
	CalfTag     string          `json:"calf_tag" binding:"required,max=30"`
	Sex         string          `json:"sex" binding:"required,oneof=bull heifer steer calf"`
	BirthDate   time.Time       `json:"birth_date" binding:"required"`
	BirthWeight decimal.Decimal `json:"birth_weight" binding:"decimal_gte0"`
	SireTag     string          `json:"sire_tag" binding:"max=30"`
	Ease        string          `json:"ease" binding:"omitempty,oneof=unassisted easy_pull hard_pull c_section"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// SellRequest records the sale of an animal
type SellRequest struct {
	SoldOn time.Time       `json:"sold_on"`
	Price  decimal.Decimal `json:"price" binding:"decimal_gt0"`
}

// CattleListFilter narrows a herd listing
type CattleListFilter struct {
	common.PageQuery
	Status  string `form:"status" binding:"omitempty,oneof=active sold deceased culled"`
	Sex     string `form:"sex" binding:"omitempty,oneof=bull cow heifer steer calf"`
	Pasture string `form:"pasture"`
	DamTag  string `form:"dam_tag"`
}

// CattleResponse represents an animal in API responses
type CattleResponse struct {
	ID               uuid.UUID            `json:"id"`
	TagNumber        string               `json:"tag_number"`
	Name             string               `json:"name,omitempty"`
	Breed            string               `json:"breed,omitempty"`
	Sex              string               `json:"sex"`
	BirthDate        *time.Time           `json:"birth_date,omitempty"`
	AgeMonths        int                  `json:"age_months"`
	Status           string               `json:"status"`
	Dam              herd.ParentRef       `json:"dam"`
	Sire             herd.ParentRef       `json:"sire"`
	Pasture          string               `json:"pasture,omitempty"`
	PurchasePrice    decimal.Decimal      `json:"purchase_price"`
	Valuation        herd.CattleValuation `json:"valuation"`
	MarketValue      decimal.Decimal      `json:"market_value"`
	LatestWeight     *herd.WeightRecord   `json:"latest_weight,omitempty"`
	AverageDailyGain *decimal.Decimal     `json:"average_daily_gain,omitempty"`
	InWithdrawal     bool                 `json:"in_withdrawal"`
	WeightRecords    herd.WeightRecords   `json:"weight_records"`
	HealthRecords    herd.HealthRecords   `json:"health_records"`
	BreedingRecords  herd.BreedingRecords `json:"breeding_records"`
	CalvingHistory   herd.CalvingRecords  `json:"calving_history"`
	SoldAt           *time.Time           `json:"sold_at,omitempty"`
	SalePrice        decimal.Decimal      `json:"sale_price"`
	Notes            string               `json:"notes,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int                  `json:"version"`
}

// ToCattleResponse converts a domain animal to a response
func ToCattleResponse(c *herd.Cattle, now time.Time) CattleResponse {
	return CattleResponse{
		ID:               c.ID,
		TagNumber:        c.TagNumber,
		Name:             c.Name,
		Breed:            c.Breed,
		Sex:              string(c.Sex),
		BirthDate:        c.BirthDate,
		AgeMonths:        c.AgeInMonths(now),
		Status:           string(c.Status),
		Dam:              c.Dam,
		Sire:             c.Sire,
		Pasture:          c.Pasture,
		PurchasePrice:    c.PurchasePrice,
		Valuation:        c.Valuation,
		MarketValue:      c.MarketValue(),
		LatestWeight:     c.LatestWeight(),
		AverageDailyGain: c.AverageDailyGain(),
		InWithdrawal:     c.InWithdrawal(now),
		WeightRecords:    c.WeightRecords,
		HealthRecords:    c.HealthRecords,
		BreedingRecords:  c.BreedingRecords,
		CalvingHistory:   c.CalvingHistory,
		SoldAt:           c.SoldAt,
		SalePrice:        c.SalePrice,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// CalvingResponse returns both animals touched by a calving
type CalvingResponse struct {
	Dam  CattleResponse `json:"dam"`
	Calf CattleResponse `json:"calf"`
}

// SummaryResponse is the herd head count and valuation
type SummaryResponse struct {
	TotalHead    int             `json:"total_head"`
	ActiveHead   int             `json:"active_head"`
	BySex        map[string]int  `json:"by_sex"`
	ByStatus     map[string]int  `json:"by_status"`
	MarketValue  decimal.Decimal `json:"market_value"`
	InWithdrawal []string        `json:"in_withdrawal"`
	DueToCalve   []string        `json:"due_to_calve"`
}

func toSummaryResponse(s herd.Summary) SummaryResponse {
	bySex := make(map[string]int, len(s.BySex))
	for k, v := range s.BySex {
		bySex[string(k)] = v
	}
	byStatus := make(map[string]int, len(s.ByStatus))
	for k, v := range s.ByStatus {
		byStatus[string(k)] = v
	}
	return SummaryResponse{
		TotalHead:    s.TotalHead,
		ActiveHead:   s.ActiveHead,
		BySex:        bySex,
		ByStatus:     byStatus,
		MarketValue:  s.MarketValue,
		InWithdrawal: s.InWithdrawal,
		DueToCalve:   s.DueToCalve,
	}
}
