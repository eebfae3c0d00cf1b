package finance

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvestmentType classifies a capital investment
type InvestmentType string

const (
	InvestmentLand           InvestmentType = "land"
	InvestmentBuilding       InvestmentType = "building"
	InvestmentInfrastructure InvestmentType = "infrastructure"
	InvestmentVehicle        InvestmentType = "vehicle"
	InvestmentEquipment      InvestmentType = "equipment"
	InvestmentOther          InvestmentType = "other"
)

// IsValid checks if the type is known
func (t InvestmentType) IsValid() bool {
	switch t {
	case InvestmentLand, InvestmentBuilding, InvestmentInfrastructure,
		InvestmentVehicle, InvestmentEquipment, InvestmentOther:
		return true
	}
	return false
}

// Valuation is the latest appraisal of an investment
type Valuation struct {
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	ValuationDate  *time.Time      `json:"valuation_date,omitempty"`
	Method         string          `json:"method,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (v Valuation) Value() (driver.Value, error) {
	return shared.JSONValue(v)
}

// Scan implements sql.Scanner for JSONB storage
func (v *Valuation) Scan(value interface{}) error {
	*v = Valuation{}
	return shared.ScanJSON(value, v)
}

// Improvement is capital added after purchase
type Improvement struct {
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Cost        decimal.Decimal `json:"cost"`
}

// Improvements is a slice of Improvement stored as JSONB
type Improvements []Improvement

// Value implements driver.Valuer for JSONB storage
func (i Improvements) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	return shared.JSONValue(i)
}

// Scan implements sql.Scanner for JSONB storage
func (i *Improvements) Scan(value interface{}) error {
	*i = Improvements{}
	return shared.ScanJSON(value, i)
}

// Depreciation schedule; Method "none" for land
type Depreciation struct {
	Method          string          `json:"method"`
	UsefulLifeYears int             `json:"useful_life_years,omitempty"`
	SalvageValue    decimal.Decimal `json:"salvage_value"`
}

// Value implements driver.Valuer for JSONB storage
func (d Depreciation) Value() (driver.Value, error) {
	return shared.JSONValue(d)
}

// Scan implements sql.Scanner for JSONB storage
func (d *Depreciation) Scan(value interface{}) error {
	*d = Depreciation{}
	return shared.ScanJSON(value, d)
}

// CapitalInvestment is a long-lived asset purchase such as land or a building
type CapitalInvestment struct {
	shared.BaseAggregateRoot
	Name          string
	Type          InvestmentType
	Entity        string
	Acres         decimal.Decimal
	PurchaseDate  time.Time
	PurchasePrice decimal.Decimal
	CurrentValue  Valuation
	Improvements  Improvements
	Depreciation  Depreciation
	Status        string
}

// NewCapitalInvestment validates and records an investment
func NewCapitalInvestment(name string, invType InvestmentType, entity string, purchaseDate time.Time, purchasePrice decimal.Decimal) (*CapitalInvestment, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("investment name is required")
	}
	if !invType.IsValid() {
		return nil, shared.NewValidationError("unknown investment type %q", invType)
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewValidationError("purchase price cannot be negative")
	}
	method := "straight_line"
	if invType == InvestmentLand {
		method = "none"
	}
	return &CapitalInvestment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Type:              invType,
		Entity:            strings.TrimSpace(entity),
		PurchaseDate:      purchaseDate,
		PurchasePrice:     purchasePrice,
		CurrentValue:      Valuation{EstimatedValue: purchasePrice},
		Improvements:      Improvements{},
		Depreciation:      Depreciation{Method: method},
		Status:            "active",
	}, nil
}

// Revalue records a new appraisal
func (c *CapitalInvestment) Revalue(value decimal.Decimal, on time.Time, method string) error {
	if value.IsNegative() {
		return shared.NewValidationError("valuation cannot be negative")
	}
	c.CurrentValue = Valuation{EstimatedValue: value, ValuationDate: &on, Method: method}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AddImprovement capitalises an improvement
func (c *CapitalInvestment) AddImprovement(description string, on time.Time, cost decimal.Decimal) error {
	if !cost.IsPositive() {
		return shared.NewValidationError("improvement cost must be positive")
	}
	c.Improvements = append(c.Improvements, Improvement{Description: description, Date: on, Cost: cost})
	c.Touch()
	c.IncrementVersion()
	return nil
}

// CostBasis is purchase price plus improvements
func (c *CapitalInvestment) CostBasis() decimal.Decimal {
	basis := c.PurchasePrice
	for _, imp := range c.Improvements {
		basis = basis.Add(imp.Cost)
	}
	return basis
}

// AnnualDepreciation is straight-line (basis - salvage) / life; zero when not depreciable
func (c *CapitalInvestment) AnnualDepreciation() decimal.Decimal {
	if c.Depreciation.Method != "straight_line" || c.Depreciation.UsefulLifeYears <= 0 {
		return decimal.Zero
	}
	depreciable := c.CostBasis().Sub(c.Depreciation.SalvageValue)
	if !depreciable.IsPositive() {
		return decimal.Zero
	}
	return shared.RoundCents(depreciable.Div(decimal.NewFromInt(int64(c.Depreciation.UsefulLifeYears))))
}

// IsActive reports whether the investment still counts as an asset
func (c *CapitalInvestment) IsActive() bool {
	return c.Status == "" || c.Status == "active"
}

// LinkedLoans is the derived view of loans secured against this investment
func (c *CapitalInvestment) LinkedLoans(loans []Loan) []Loan {
	linked := make([]Loan, 0)
	for _, l := range loans {
		if l.CapitalInvestmentID != nil && *l.CapitalInvestmentID == c.ID {
			linked = append(linked, l)
		}
	}
	return linked
}

// Equity is the current value less the balances of linked active loans
func (c *CapitalInvestment) Equity(loans []Loan) decimal.Decimal {
	return c.CurrentValue.EstimatedValue.Sub(LinkedDebt(c.ID, loans))
}

// LinkedDebt sums the balances of active loans linked to an investment
func LinkedDebt(investmentID uuid.UUID, loans []Loan) decimal.Decimal {
	debt := decimal.Zero
	for _, l := range loans {
		if l.Status == LoanStatusActive && l.CapitalInvestmentID != nil && *l.CapitalInvestmentID == investmentID {
			debt = debt.Add(l.CurrentBalance)
		}
	}
	return debt
}
