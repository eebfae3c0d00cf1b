package cropping

import (
	"database/sql/driver"
	"strings"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RentType is how the farm holds a field
type RentType string

const (
	RentOwned     RentType = "owned"
	RentCashRent  RentType = "cash_rent"
	RentCropShare RentType = "crop_share"
)

// IsValid checks if the rent type is known
func (r RentType) IsValid() bool {
	return r == RentOwned || r == RentCashRent || r == RentCropShare
}

// CropRotation maps a crop year to the crop planted, stored as JSONB
type CropRotation map[int]string

// Value implements driver.Valuer for JSONB storage
func (r CropRotation) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	return shared.JSONValue(r)
}

// Scan implements sql.Scanner for JSONB storage
func (r *CropRotation) Scan(value interface{}) error {
	*r = CropRotation{}
	return shared.ScanJSON(value, r)
}

// Field is a cropping field. Costs is a materialised roll-up of the crop
// expenses allocated to the field and is only written by the cost rollup.
type Field struct {
	shared.BaseAggregateRoot
	Farm               string
	Name               string
	Acres              decimal.Decimal
	Entity             string
	Crops              CropRotation
	RentType           RentType
	Landlord           string
	CashRentPerAcre    decimal.Decimal
	CropSharePercent   decimal.Decimal
	MarketValuePerAcre decimal.Decimal
	Costs              YearlyCosts
}

// NewFieldParams holds the fields needed to register a cropping field
type NewFieldParams struct {
	Farm               string
	Name               string
	Acres              decimal.Decimal
	Entity             string
	Crops              map[int]string
	RentType           RentType
	Landlord           string
	CashRentPerAcre    decimal.Decimal
	CropSharePercent   decimal.Decimal
	MarketValuePerAcre decimal.Decimal
}

// NewField validates and registers a field
func NewField(p NewFieldParams) (*Field, error) {
	if strings.TrimSpace(p.Farm) == "" || strings.TrimSpace(p.Name) == "" {
		return nil, shared.NewValidationError("farm and field name are required")
	}
	if !p.Acres.IsPositive() {
		return nil, shared.NewValidationError("acres must be positive")
	}
	rent := p.RentType
	if rent == "" {
		rent = RentOwned
	}
	if !rent.IsValid() {
		return nil, shared.NewValidationError("unknown rent type %q", p.RentType)
	}
	if rent != RentOwned && strings.TrimSpace(p.Landlord) == "" {
		return nil, shared.NewValidationError("rented fields need a landlord")
	}
	if p.CropSharePercent.IsNegative() || p.CropSharePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("crop share must be between 0 and 100")
	}
	if p.MarketValuePerAcre.IsNegative() || p.CashRentPerAcre.IsNegative() {
		return nil, shared.NewValidationError("per-acre values cannot be negative")
	}

	f := &Field{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Farm:               strings.TrimSpace(p.Farm),
		Name:               strings.TrimSpace(p.Name),
		Acres:              p.Acres,
		Entity:             strings.TrimSpace(p.Entity),
		Crops:              CropRotation{},
		RentType:           rent,
		Landlord:           strings.TrimSpace(p.Landlord),
		CashRentPerAcre:    p.CashRentPerAcre,
		CropSharePercent:   p.CropSharePercent,
		MarketValuePerAcre: p.MarketValuePerAcre,
		Costs:              YearlyCosts{},
	}
	for year, crop := range p.Crops {
		f.Crops[year] = strings.TrimSpace(crop)
	}
	return f, nil
}

// CropFor returns the crop planted in a year, empty when none
func (f *Field) CropFor(year int) string {
	return f.Crops[year]
}

// SetCrop plants a crop for a year
func (f *Field) SetCrop(year int, crop string) {
	if f.Crops == nil {
		f.Crops = CropRotation{}
	}
	f.Crops[year] = strings.TrimSpace(crop)
	f.Touch()
	f.IncrementVersion()
}

// CostsFor returns the rolled-up buckets for a year
func (f *Field) CostsFor(year int) CostBuckets {
	return f.Costs[year]
}

// ReplaceCosts overwrites the rolled-up buckets for a year
func (f *Field) ReplaceCosts(year int, buckets CostBuckets) {
	if f.Costs == nil {
		f.Costs = YearlyCosts{}
	}
	f.Costs[year] = buckets
	f.Touch()
}

// LandValue is acres times market value per acre
func (f *Field) LandValue() decimal.Decimal {
	return f.Acres.Mul(f.MarketValuePerAcre)
}

// IsOwned reports whether the farm owns the ground
func (f *Field) IsOwned() bool {
	return f.RentType == RentOwned
}

// Snapshot captures the allocation data copied into an expense
func (f *Field) Snapshot() FieldAllocation {
	return FieldAllocation{FieldID: f.ID, Farm: f.Farm, Field: f.Name, Acres: f.Acres}
}
