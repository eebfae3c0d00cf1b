package cropping

import (
	"database/sql/driver"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseCategory is one of the fixed per-acre cost buckets
type ExpenseCategory string

const (
	CategorySeed          ExpenseCategory = "seed"
	CategoryFertilizer    ExpenseCategory = "fertilizer"
	CategoryChemicals     ExpenseCategory = "chemicals"
	CategoryCropInsurance ExpenseCategory = "cropInsurance"
	CategoryFuelOil       ExpenseCategory = "fuelOil"
	CategoryRepairs       ExpenseCategory = "repairs"
	CategoryCustomHire    ExpenseCategory = "customHire"
	CategoryLandRent      ExpenseCategory = "landRent"
	CategoryDryingHauling ExpenseCategory = "dryingHauling"
	CategoryTaxes         ExpenseCategory = "taxes"
	CategoryMisc          ExpenseCategory = "misc"
)

// ExpenseCategories lists every bucket in display order
var ExpenseCategories = []ExpenseCategory{
	CategorySeed, CategoryFertilizer, CategoryChemicals, CategoryCropInsurance,
	CategoryFuelOil, CategoryRepairs, CategoryCustomHire, CategoryLandRent,
	CategoryDryingHauling, CategoryTaxes, CategoryMisc,
}

// IsValid checks if the category is one of the fixed buckets
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CostBuckets holds per-acre costs by category for one field and year
type CostBuckets struct {
	Seed          decimal.Decimal `json:"seed"`
	Fertilizer    decimal.Decimal `json:"fertilizer"`
	Chemicals     decimal.Decimal `json:"chemicals"`
	CropInsurance decimal.Decimal `json:"cropInsurance"`
	FuelOil       decimal.Decimal `json:"fuelOil"`
	Repairs       decimal.Decimal `json:"repairs"`
	CustomHire    decimal.Decimal `json:"customHire"`
	LandRent      decimal.Decimal `json:"landRent"`
	DryingHauling decimal.Decimal `json:"dryingHauling"`
	Taxes         decimal.Decimal `json:"taxes"`
	Misc          decimal.Decimal `json:"misc"`
}

func (b *CostBuckets) slot(c ExpenseCategory) *decimal.Decimal {
	switch c {
	case CategorySeed:
		return &b.Seed
	case CategoryFertilizer:
		return &b.Fertilizer
	case CategoryChemicals:
		return &b.Chemicals
	case CategoryCropInsurance:
		return &b.CropInsurance
	case CategoryFuelOil:
		return &b.FuelOil
	case CategoryRepairs:
		return &b.Repairs
	case CategoryCustomHire:
		return &b.CustomHire
	case CategoryLandRent:
		return &b.LandRent
	case CategoryDryingHauling:
		return &b.DryingHauling
	case CategoryTaxes:
		return &b.Taxes
	case CategoryMisc:
		return &b.Misc
	}
	return nil
}

// Add accumulates a per-acre amount into its bucket; unknown categories land in misc
func (b *CostBuckets) Add(c ExpenseCategory, perAcre decimal.Decimal) {
	s := b.slot(c)
	if s == nil {
		s = &b.Misc
	}
	*s = s.Add(perAcre)
}

// Get returns the bucket value for a category
func (b CostBuckets) Get(c ExpenseCategory) decimal.Decimal {
	if s := b.slot(c); s != nil {
		return *s
	}
	return decimal.Zero
}

// Total sums every bucket
func (b CostBuckets) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range ExpenseCategories {
		total = total.Add(b.Get(c))
	}
	return total
}

// IsZero reports whether every bucket is zero
func (b CostBuckets) IsZero() bool {
	return b.Total().IsZero()
}

// YearlyCosts maps a crop year to its cost buckets and is stored as JSONB
type YearlyCosts map[int]CostBuckets

// Value implements driver.Valuer for JSONB storage
func (y YearlyCosts) Value() (driver.Value, error) {
	if y == nil {
		return "{}", nil
	}
	return shared.JSONValue(y)
}

// Scan implements sql.Scanner for JSONB storage
func (y *YearlyCosts) Scan(value interface{}) error {
	*y = YearlyCosts{}
	return shared.ScanJSON(value, y)
}
