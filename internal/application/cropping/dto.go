package cropping

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents a request to record a crop expense.
// Without FieldIDs the expense is allocated to every field planted with
// the crop code's crop in its year.
type CreateExpenseRequest struct {
	CropCode    string          `json:"crop_code" binding:"required,max=40"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description" binding:"required,max=500"`
	Category    string          `json:"category" binding:"required"`
	CostPerAcre decimal.Decimal `json:"cost_per_acre" binding:"decimal_gte0"`
	FieldIDs    []uuid.UUID     `json:"field_ids"`
	PaidBy      string          `json:"paid_by" binding:"omitempty,oneof=farmer landlord split"`
	Vendor      string          `json:"vendor" binding:"max=200"`
	Status      string          `json:"status" binding:"omitempty,oneof=planned committed paid"`
}

// UpdateExpenseRequest replaces the editable attributes of an expense
type UpdateExpenseRequest = CreateExpenseRequest

func (r CreateExpenseRequest) params() cropping.NewExpenseParams {
	return cropping.NewExpenseParams{
		CropCode:    r.CropCode,
		Date:        r.Date,
		Description: r.Description,
		Category:    cropping.ExpenseCategory(r.Category),
		CostPerAcre: r.CostPerAcre,
		PaidBy:      cropping.PaidBy(r.PaidBy),
		Vendor:      r.Vendor,
		Status:      cropping.ExpenseStatus(r.Status),
	}
}

// ExpenseListFilter narrows an expense listing
type ExpenseListFilter struct {
	common.PageQuery
	CropCode string     `form:"crop_code"`
	Year     int        `form:"year"`
	Category string     `form:"category"`
	FieldID  *uuid.UUID `form:"field_id"`
}

// AllocationResponse is one field of an expense's allocation snapshot
type AllocationResponse struct {
	FieldID uuid.UUID       `json:"field_id"`
	Farm    string          `json:"farm"`
	Field   string          `json:"field"`
	Acres   decimal.Decimal `json:"acres"`
}

// ExpenseResponse represents a crop expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID            `json:"id"`
	CropCode    string               `json:"crop_code"`
	CropName    string               `json:"crop_name"`
	Year        int                  `json:"year"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	CostPerAcre decimal.Decimal      `json:"cost_per_acre"`
	Fields      []AllocationResponse `json:"fields"`
	TotalAcres  decimal.Decimal      `json:"total_acres"`
	TotalCost   decimal.Decimal      `json:"total_cost"`
	PaidBy      string               `json:"paid_by"`
	Vendor      string               `json:"vendor,omitempty"`
	Status      string               `json:"status"`
	ReceiptKey  string               `json:"receipt_key,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Version     int                  `json:"version"`
}

// ToExpenseResponse converts a domain expense to a response
func ToExpenseResponse(e *cropping.Expense) ExpenseResponse {
	fields := make([]AllocationResponse, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = AllocationResponse{FieldID: f.FieldID, Farm: f.Farm, Field: f.Field, Acres: f.Acres}
	}
	return ExpenseResponse{
		ID:          e.ID,
		CropCode:    e.CropCode,
		CropName:    e.CropName,
		Year:        e.Year,
		Date:        e.Date,
		Description: e.Description,
		Category:    string(e.Category),
		CostPerAcre: e.CostPerAcre,
		Fields:      fields,
		TotalAcres:  e.TotalAcres(),
		TotalCost:   e.TotalCost(),
		PaidBy:      string(e.PaidBy),
		Vendor:      e.Vendor,
		Status:      string(e.Status),
		ReceiptKey:  e.ReceiptKey,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}

// CropSummaryResponse totals every expense of one crop code
type CropSummaryResponse struct {
	CropCode     string                     `json:"crop_code"`
	ExpenseCount int                        `json:"expense_count"`
	TotalCost    decimal.Decimal            `json:"total_cost"`
	ByCategory   map[string]decimal.Decimal `json:"by_category"`
}

// ReceiptResponse describes a stored receipt
type ReceiptResponse struct {
	ExpenseID   uuid.UUID `json:"expense_id"`
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// CreateFieldRequest represents a request to register a cropping field
type CreateFieldRequest struct {
	Farm               string          `json:"farm" binding:"required,max=100"`
	Name               string          `json:"name" binding:"required,max=100"`
	Acres              decimal.Decimal `json:"acres" binding:"decimal_gt0"`
	Entity             string          `json:"entity" binding:"required"`
	Crops              map[int]string  `json:"crops"`
	RentType           string          `json:"rent_type" binding:"omitempty,oneof=owned cash_rent crop_share"`
	Landlord           string          `json:"landlord" binding:"max=200"`
	CashRentPerAcre    decimal.Decimal `json:"cash_rent_per_acre" binding:"decimal_gte0"`
	CropSharePercent   decimal.Decimal `json:"crop_share_percent" binding:"decimal_gte0"`
	MarketValuePerAcre decimal.Decimal `json:"market_value_per_acre" binding:"decimal_gte0"`
}

// FieldResponse represents a field in API responses
type FieldResponse struct {
	ID                 uuid.UUID                    `json:"id"`
	Farm               string                       `json:"farm"`
	Name               string                       `json:"name"`
	Acres              decimal.Decimal              `json:"acres"`
	Entity             string                       `json:"entity"`
	Crops              map[int]string               `json:"crops"`
	RentType           string                       `json:"rent_type"`
	Landlord           string                       `json:"landlord,omitempty"`
	CashRentPerAcre    decimal.Decimal              `json:"cash_rent_per_acre"`
	CropSharePercent   decimal.Decimal              `json:"crop_share_percent"`
	MarketValuePerAcre decimal.Decimal              `json:"market_value_per_acre"`
	LandValue          decimal.Decimal              `json:"land_value"`
	Costs              map[int]cropping.CostBuckets `json:"costs"`
	CreatedAt          time.Time                    `json:"created_at"`
	UpdatedAt          time.Time                    `json:"updated_at"`
}

// ToFieldResponse converts a domain field to a response
func ToFieldResponse(f *cropping.Field) FieldResponse {
	crops := make(map[int]string, len(f.Crops))
	for y, c := range f.Crops {
		crops[y] = c
	}
	costs := make(map[int]cropping.CostBuckets, len(f.Costs))
	for y, b := range f.Costs {
		costs[y] = b
	}
	return FieldResponse{
		ID:                 f.ID,
		Farm:               f.Farm,
		Name:               f.Name,
		Acres:              f.Acres,
		Entity:             f.Entity,
		Crops:              crops,
		RentType:           string(f.RentType),
		Landlord:           f.Landlord,
		CashRentPerAcre:    f.CashRentPerAcre,
		CropSharePercent:   f.CropSharePercent,
		MarketValuePerAcre: f.MarketValuePerAcre,
		LandValue:          f.LandValue(),
		Costs:              costs,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

// ProjectionRequest sets the expected yield and price of a field's crop
type ProjectionRequest struct {
	Year                 int             `json:"year" binding:"required,min=2000,max=2099"`
	Crop                 string          `json:"crop" binding:"max=60"`
	ExpectedYieldPerAcre decimal.Decimal `json:"expected_yield_per_acre" binding:"decimal_gte0"`
	ExpectedPrice        decimal.Decimal `json:"expected_price" binding:"decimal_gte0"`
}

// HarvestRequest records harvested bushels from a field
type HarvestRequest struct {
	Year            int             `json:"year" binding:"required,min=2000,max=2099"`
	Crop            string          `json:"crop" binding:"max=60"`
	Bushels         decimal.Decimal `json:"bushels" binding:"decimal_gt0"`
	MoisturePercent decimal.Decimal `json:"moisture_percent" binding:"decimal_gte0"`
	HarvestedAt     time.Time       `json:"harvested_at"`
}

// ProjectionResponse represents a saved projection
type ProjectionResponse struct {
	FieldID              uuid.UUID       `json:"field_id"`
	Year                 int             `json:"year"`
	Crop                 string          `json:"crop"`
	ExpectedYieldPerAcre decimal.Decimal `json:"expected_yield_per_acre"`
	ExpectedPrice        decimal.Decimal `json:"expected_price"`
}

// HarvestResponse represents a recorded harvest
type HarvestResponse struct {
	ID              uuid.UUID       `json:"id"`
	FieldID         uuid.UUID       `json:"field_id"`
	Year            int             `json:"year"`
	Crop            string          `json:"crop"`
	Bushels         decimal.Decimal `json:"bushels"`
	MoisturePercent decimal.Decimal `json:"moisture_percent"`
	HarvestedAt     time.Time       `json:"harvested_at"`
}

// BudgetResponse is a field's projected and actual economics for a year
type BudgetResponse struct {
	FieldID          uuid.UUID            `json:"field_id"`
	Year             int                  `json:"year"`
	Crop             string               `json:"crop"`
	Acres            decimal.Decimal      `json:"acres"`
	Costs            cropping.CostBuckets `json:"costs"`
	CostPerAcre      decimal.Decimal      `json:"cost_per_acre"`
	TotalCost        decimal.Decimal      `json:"total_cost"`
	ProjectedRevenue decimal.Decimal      `json:"projected_revenue"`
	ProjectedMargin  decimal.Decimal      `json:"projected_margin"`
	HarvestedBushels decimal.Decimal      `json:"harvested_bushels"`
	ActualYield      *decimal.Decimal     `json:"actual_yield"`
	BreakEvenPrice   *decimal.Decimal     `json:"break_even_price"`
}

func toBudgetResponse(b cropping.FieldBudget) BudgetResponse {
	return BudgetResponse{
		FieldID:          b.FieldID,
		Year:             b.Year,
		Crop:             b.Crop,
		Acres:            b.Acres,
		Costs:            b.Costs,
		CostPerAcre:      b.CostPerAcre,
		TotalCost:        b.TotalCost,
		ProjectedRevenue: b.ProjectedRevenue,
		ProjectedMargin:  b.ProjectedMargin,
		HarvestedBushels: b.HarvestedBushels,
		ActualYield:      b.ActualYield,
		BreakEvenPrice:   b.BreakEvenPrice,
	}
}
