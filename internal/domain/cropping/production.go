package cropping

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Projection is the expected yield and price for a field's crop
type Projection struct {
	shared.BaseEntity
	FieldID              uuid.UUID
	Year                 int
	Crop                 string
	ExpectedYieldPerAcre decimal.Decimal // bushels
	ExpectedPrice        decimal.Decimal // per bushel
}

// NewProjection validates a production projection
func NewProjection(fieldID uuid.UUID, year int, crop string, yieldPerAcre, price decimal.Decimal) (*Projection, error) {
	if fieldID == uuid.Nil {
		return nil, shared.NewValidationError("field is required")
	}
	if yieldPerAcre.IsNegative() || price.IsNegative() {
		return nil, shared.NewValidationError("yield and price cannot be negative")
	}
	return &Projection{
		BaseEntity:           shared.NewBaseEntity(),
		FieldID:              fieldID,
		Year:                 year,
		Crop:                 crop,
		ExpectedYieldPerAcre: yieldPerAcre,
		ExpectedPrice:        price,
	}, nil
}

// Harvest is a recorded harvest load or field total
type Harvest struct {
	shared.BaseEntity
	FieldID         uuid.UUID
	Year            int
	Crop            string
	Bushels         decimal.Decimal
	MoisturePercent decimal.Decimal
	HarvestedAt     time.Time
}

// NewHarvest validates a harvest record
func NewHarvest(fieldID uuid.UUID, year int, crop string, bushels, moisture decimal.Decimal, at time.Time) (*Harvest, error) {
	if fieldID == uuid.Nil {
		return nil, shared.NewValidationError("field is required")
	}
	if !bushels.IsPositive() {
		return nil, shared.NewValidationError("bushels must be positive")
	}
	if moisture.IsNegative() || moisture.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("moisture must be between 0 and 100")
	}
	return &Harvest{
		BaseEntity:      shared.NewBaseEntity(),
		FieldID:         fieldID,
		Year:            year,
		Crop:            crop,
		Bushels:         bushels,
		MoisturePercent: moisture,
		HarvestedAt:     at,
	}, nil
}

// FieldBudget compares projected revenue with allocated costs for one field and year
type FieldBudget struct {
	FieldID          uuid.UUID
	Year             int
	Crop             string
	Acres            decimal.Decimal
	Costs            CostBuckets
	CostPerAcre      decimal.Decimal
	TotalCost        decimal.Decimal
	ProjectedRevenue decimal.Decimal
	ProjectedMargin  decimal.Decimal
	HarvestedBushels decimal.Decimal
	ActualYield      *decimal.Decimal // bushels per acre, nil before harvest
	BreakEvenPrice   *decimal.Decimal // cost per bushel, nil without a yield
}

// BuildFieldBudget combines the field's rolled-up costs with its projection and harvests
func BuildFieldBudget(f *Field, year int, projection *Projection, harvests []Harvest) FieldBudget {
	costs := f.CostsFor(year)
	perAcre := costs.Total()
	b := FieldBudget{
		FieldID:          f.ID,
		Year:             year,
		Crop:             f.CropFor(year),
		Acres:            f.Acres,
		Costs:            costs,
		CostPerAcre:      perAcre,
		TotalCost:        shared.RoundCents(perAcre.Mul(f.Acres)),
		ProjectedRevenue: decimal.Zero,
		HarvestedBushels: decimal.Zero,
	}
	if projection != nil {
		b.ProjectedRevenue = shared.RoundCents(f.Acres.Mul(projection.ExpectedYieldPerAcre).Mul(projection.ExpectedPrice))
	}
	b.ProjectedMargin = b.ProjectedRevenue.Sub(b.TotalCost)

	for _, h := range harvests {
		if h.FieldID == f.ID && h.Year == year {
			b.HarvestedBushels = b.HarvestedBushels.Add(h.Bushels)
		}
	}
	if b.HarvestedBushels.IsPositive() && f.Acres.IsPositive() {
		y := b.HarvestedBushels.Div(f.Acres).Round(1)
		b.ActualYield = &y
	}

	var yield decimal.Decimal
	switch {
	case b.ActualYield != nil:
		yield = *b.ActualYield
	case projection != nil:
		yield = projection.ExpectedYieldPerAcre
	}
	if yield.IsPositive() {
		be := perAcre.Div(yield).Round(2)
		b.BreakEvenPrice = &be
	}
	return b
}
