package assets

import (
	"database/sql/driver"
	"strings"

	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is a manually entered asset or liability
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineItems is stored as JSONB
type LineItems []LineItem

// Value implements driver.Valuer for JSONB storage
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return shared.JSONValue(l)
}

// Scan implements sql.Scanner for JSONB storage
func (l *LineItems) Scan(value interface{}) error {
	*l = LineItems{}
	return shared.ScanJSON(value, l)
}

// Total sums the amounts
func (l LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(item.Amount)
	}
	return total
}

// Validate rejects blank descriptions and negative amounts
func (l LineItems) Validate() error {
	for i, item := range l {
		if strings.TrimSpace(item.Description) == "" {
			return shared.NewValidationError("line %d: description is required", i+1)
		}
		if item.Amount.IsNegative() {
			return shared.NewValidationError("line %d: amount cannot be negative", i+1)
		}
	}
	return nil
}

// EntityAdjustments are the manual lines of one entity's statement
type EntityAdjustments struct {
	shared.BaseAggregateRoot
	Name                  string
	AdditionalAssets      LineItems
	AdditionalLiabilities LineItems
}

// NewEntityAdjustments creates empty adjustments for an entity
func NewEntityAdjustments(name string) *EntityAdjustments {
	return &EntityAdjustments{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Name:                  strings.TrimSpace(name),
		AdditionalAssets:      LineItems{},
		AdditionalLiabilities: LineItems{},
	}
}

// Replace overwrites both line lists
func (e *EntityAdjustments) Replace(assets, liabilities LineItems) error {
	if err := assets.Validate(); err != nil {
		return err
	}
	if err := liabilities.Validate(); err != nil {
		return err
	}
	e.AdditionalAssets = assets
	e.AdditionalLiabilities = liabilities
	e.Touch()
	e.IncrementVersion()
	return nil
}

// EntityStatement is one entity's balance sheet
type EntityStatement struct {
	Name              string          `json:"name"`
	Equipment         decimal.Decimal `json:"equipment"`
	RealEstate        decimal.Decimal `json:"real_estate"`
	FarmLand          decimal.Decimal `json:"farm_land"`
	OtherAssets       decimal.Decimal `json:"other_assets"`
	TotalAssets       decimal.Decimal `json:"total_assets"`
	EquipmentDebt     decimal.Decimal `json:"equipment_debt"`
	RealEstateDebt    decimal.Decimal `json:"real_estate_debt"`
	LandDebt          decimal.Decimal `json:"land_debt"`
	OtherLiabilities  decimal.Decimal `json:"other_liabilities"`
	TotalLiabilities  decimal.Decimal `json:"total_liabilities"`
	NetWorth          decimal.Decimal `json:"net_worth"`
	UnassignedRecords []string        `json:"unassigned_records,omitempty"`
}

func newStatement(name string) *EntityStatement {
	return &EntityStatement{
		Name:             name,
		Equipment:        decimal.Zero,
		RealEstate:       decimal.Zero,
		FarmLand:         decimal.Zero,
		OtherAssets:      decimal.Zero,
		EquipmentDebt:    decimal.Zero,
		RealEstateDebt:   decimal.Zero,
		LandDebt:         decimal.Zero,
		OtherLiabilities: decimal.Zero,
	}
}

func (s *EntityStatement) close() {
	s.TotalAssets = s.Equipment.Add(s.RealEstate).Add(s.FarmLand).Add(s.OtherAssets)
	s.TotalLiabilities = s.EquipmentDebt.Add(s.RealEstateDebt).Add(s.LandDebt).Add(s.OtherLiabilities)
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)
}

// NetWorthSummary is the per-entity and combined statement.
// Unassigned collects records whose entity tag is not configured; it is
// reported separately and excluded from the grand total.
type NetWorthSummary struct {
	Entities   []EntityStatement `json:"entities"`
	GrandTotal EntityStatement   `json:"grand_total"`
	Unassigned *EntityStatement  `json:"unassigned,omitempty"`
}

// NetWorthInputs is everything the rollup reads
type NetWorthInputs struct {
	Entities           shared.LegalEntities
	FarmlandEntity     string
	Equipment          []Equipment
	RealEstate         []RealEstate
	Adjustments        []EntityAdjustments
	Fields             []cropping.Field
	CapitalInvestments []finance.CapitalInvestment
	Loans              []finance.Loan
}

// SummarizeNetWorth rolls every asset and liability up to its entity.
// Owned cropping-field land and the debt on land investments are
// attributed to the farmland entity.
func SummarizeNetWorth(in NetWorthInputs) NetWorthSummary {
	names := in.Entities.Names()
	byName := make(map[string]*EntityStatement, len(names))
	for _, n := range names {
		byName[n] = newStatement(n)
	}
	unassigned := newStatement("Unassigned")

	target := func(entity, label string) *EntityStatement {
		if s, ok := byName[strings.TrimSpace(entity)]; ok {
			return s
		}
		unassigned.UnassignedRecords = append(unassigned.UnassignedRecords, label)
		return unassigned
	}

	for i := range in.Equipment {
		e := &in.Equipment[i]
		if !e.Counts() {
			continue
		}
		s := target(e.Entity, "equipment: "+e.Name)
		s.Equipment = s.Equipment.Add(e.Valuation.CurrentValue)
		s.EquipmentDebt = s.EquipmentDebt.Add(e.LoanBalance)
	}
	for i := range in.RealEstate {
		r := &in.RealEstate[i]
		s := target(r.Entity, "real estate: "+r.Name)
		s.RealEstate = s.RealEstate.Add(r.MarketValue)
		s.RealEstateDebt = s.RealEstateDebt.Add(r.LoanBalance)
	}
	for i := range in.Adjustments {
		a := &in.Adjustments[i]
		s := target(a.Name, "adjustments: "+a.Name)
		s.OtherAssets = s.OtherAssets.Add(a.AdditionalAssets.Total())
		s.OtherLiabilities = s.OtherLiabilities.Add(a.AdditionalLiabilities.Total())
	}

	if farm, ok := byName[strings.TrimSpace(in.FarmlandEntity)]; ok {
		for i := range in.Fields {
			f := &in.Fields[i]
			if f.IsOwned() {
				farm.FarmLand = farm.FarmLand.Add(f.LandValue())
			}
		}
		for i := range in.CapitalInvestments {
			ci := &in.CapitalInvestments[i]
			if ci.Type != finance.InvestmentLand || !ci.IsActive() {
				continue
			}
			farm.LandDebt = farm.LandDebt.Add(finance.LinkedDebt(ci.ID, in.Loans))
		}
	}

	summary := NetWorthSummary{Entities: make([]EntityStatement, 0, len(names))}
	grand := newStatement("Total")
	for _, n := range names {
		s := byName[n]
		s.close()
		summary.Entities = append(summary.Entities, *s)
		grand.Equipment = grand.Equipment.Add(s.Equipment)
		grand.RealEstate = grand.RealEstate.Add(s.RealEstate)
		grand.FarmLand = grand.FarmLand.Add(s.FarmLand)
		grand.OtherAssets = grand.OtherAssets.Add(s.OtherAssets)
		grand.EquipmentDebt = grand.EquipmentDebt.Add(s.EquipmentDebt)
		grand.RealEstateDebt = grand.RealEstateDebt.Add(s.RealEstateDebt)
		grand.LandDebt = grand.LandDebt.Add(s.LandDebt)
		grand.OtherLiabilities = grand.OtherLiabilities.Add(s.OtherLiabilities)
	}
	grand.close()
	summary.GrandTotal = *grand

	if len(unassigned.UnassignedRecords) > 0 {
		unassigned.close()
		summary.Unassigned = unassigned
	}
	return summary
}
