package herd

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GestationDays is the expected bovine gestation length used for calving dates
const GestationDays = 283

// Sex of an animal
type Sex string

const (
	SexBull   Sex = "bull"
	SexCow    Sex = "cow"
	SexHeifer Sex = "heifer"
	SexSteer  Sex = "steer"
	SexCalf   Sex = "calf"
)

// IsValid checks if the sex is known
func (s Sex) IsValid() bool {
	switch s {
	case SexBull, SexCow, SexHeifer, SexSteer, SexCalf:
		return true
	}
	return false
}

// IsFemale reports whether the animal can calve
func (s Sex) IsFemale() bool {
	return s == SexCow || s == SexHeifer
}

// Status of an animal in the herd
type Status string

const (
	StatusActive   Status = "active"
	StatusSold     Status = "sold"
	StatusDeceased Status = "deceased"
	StatusCulled   Status = "culled"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSold, StatusDeceased, StatusCulled:
		return true
	}
	return false
}

// ParentRef is a weak reference to a dam or sire. The parent may be an
// outside animal known only by tag, so ID is optional.
type ParentRef struct {
	TagNumber string     `json:"tag_number"`
	ID        *uuid.UUID `json:"id,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (p ParentRef) Value() (driver.Value, error) {
	return shared.JSONValue(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *ParentRef) Scan(value interface{}) error {
	*p = ParentRef{}
	return shared.ScanJSON(value, p)
}

// IsSet reports whether the reference names a parent
func (p ParentRef) IsSet() bool {
	return p.TagNumber != "" || p.ID != nil
}

// CattleValuation is the animal's estimated and market value
type CattleValuation struct {
	EstimatedValue     decimal.Decimal  `json:"estimated_value"`
	CurrentMarketValue *decimal.Decimal `json:"current_market_value,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (v CattleValuation) Value() (driver.Value, error) {
	return shared.JSONValue(v)
}

// Scan implements sql.Scanner for JSONB storage
func (v *CattleValuation) Scan(value interface{}) error {
	*v = CattleValuation{}
	return shared.ScanJSON(value, v)
}

// Cattle is one animal in the herd
type Cattle struct {
	shared.BaseAggregateRoot
	TagNumber       string
	Name            string
	Breed           string
	Sex             Sex
	BirthDate       *time.Time
	Status          Status
	Dam             ParentRef
	Sire            ParentRef
	Pasture         string
	PurchasePrice   decimal.Decimal
	Valuation       CattleValuation
	WeightRecords   WeightRecords
	HealthRecords   HealthRecords
	BreedingRecords BreedingRecords
	CalvingHistory  CalvingRecords
	SoldAt          *time.Time
	SalePrice       decimal.Decimal
	Notes           string
}

// NewCattleParams holds the registration details of an animal
type NewCattleParams struct {
	TagNumber      string
	Name           string
	Breed          string
	Sex            Sex
	BirthDate      *time.Time
	Dam            ParentRef
	Sire           ParentRef
	Pasture        string
	PurchasePrice  decimal.Decimal
	EstimatedValue decimal.Decimal
	Notes          string
}

// NormalizeTag canonicalises a tag number for uniqueness checks
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// NewCattle registers an active animal
func NewCattle(p NewCattleParams) (*Cattle, error) {
	tag := NormalizeTag(p.TagNumber)
	if tag == "" {
		return nil, shared.NewValidationError("tag number is required")
	}
	if !p.Sex.IsValid() {
		return nil, shared.NewValidationError("unknown sex %q", p.Sex)
	}
	if p.BirthDate != nil && p.BirthDate.After(time.Now()) {
		return nil, shared.NewValidationError("birth date cannot be in the future")
	}
	if p.PurchasePrice.IsNegative() || p.EstimatedValue.IsNegative() {
		return nil, shared.NewValidationError("values cannot be negative")
	}
	p.Dam.TagNumber = NormalizeTag(p.Dam.TagNumber)
	p.Sire.TagNumber = NormalizeTag(p.Sire.TagNumber)
	if p.Dam.TagNumber == tag || p.Sire.TagNumber == tag {
		return nil, shared.NewValidationError("an animal cannot be its own parent")
	}

	return &Cattle{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TagNumber:         tag,
		Name:              strings.TrimSpace(p.Name),
		Breed:             strings.TrimSpace(p.Breed),
		Sex:               p.Sex,
		BirthDate:         p.BirthDate,
		Status:            StatusActive,
		Dam:               p.Dam,
		Sire:              p.Sire,
		Pasture:           strings.TrimSpace(p.Pasture),
		PurchasePrice:     p.PurchasePrice,
		Valuation:         CattleValuation{EstimatedValue: p.EstimatedValue},
		WeightRecords:     WeightRecords{},
		HealthRecords:     HealthRecords{},
		BreedingRecords:   BreedingRecords{},
		CalvingHistory:    CalvingRecords{},
		Notes:             p.Notes,
	}, nil
}

func (c *Cattle) changed() {
	c.Touch()
	c.IncrementVersion()
}

// AddWeight appends a weigh-in
func (c *Cattle) AddWeight(on time.Time, weight decimal.Decimal, notes string) error {
	if !weight.IsPositive() {
		return shared.NewValidationError("weight must be positive")
	}
	c.WeightRecords = append(c.WeightRecords, WeightRecord{Date: on, Weight: weight, Notes: notes})
	c.changed()
	return nil
}

// AddHealthRecord appends a treatment and derives its withdrawal date
func (c *Cattle) AddHealthRecord(r HealthRecord) (*HealthRecord, error) {
	if strings.TrimSpace(r.Treatment) == "" {
		return nil, shared.NewValidationError("treatment is required")
	}
	if r.WithdrawalDays < 0 {
		return nil, shared.NewValidationError("withdrawal days cannot be negative")
	}
	if r.Date.IsZero() {
		r.Date = time.Now()
	}
	r.WithdrawalDate = nil
	if r.WithdrawalDays > 0 {
		w := r.Date.AddDate(0, 0, r.WithdrawalDays)
		r.WithdrawalDate = &w
	}
	c.HealthRecords = append(c.HealthRecords, r)
	c.changed()
	return &r, nil
}

// AddBreeding records a breeding and its expected calving date
func (c *Cattle) AddBreeding(on time.Time, method BreedingMethod, sireTag string) (*BreedingRecord, error) {
	if !c.Sex.IsFemale() {
		return nil, shared.NewValidationError("only cows and heifers can be bred")
	}
	if method != BreedingNatural && method != BreedingAI {
		return nil, shared.NewValidationError("unknown breeding method %q", method)
	}
	r := BreedingRecord{
		Date:                on,
		Method:              method,
		SireTag:             NormalizeTag(sireTag),
		ExpectedCalvingDate: on.AddDate(0, 0, GestationDays),
	}
	c.BreedingRecords = append(c.BreedingRecords, r)
	c.changed()
	return &r, nil
}

// RecordCalving appends a calving to the dam's history. The calf itself is
// created separately; both writes happen in one store transaction.
func (c *Cattle) RecordCalving(calf *Cattle, ease CalvingEase, notes string) error {
	if !c.Sex.IsFemale() {
		return shared.NewValidationError("%s is not a cow or heifer", c.TagNumber)
	}
	if c.Status != StatusActive {
		return shared.NewValidationError("%s is %s", c.TagNumber, c.Status)
	}
	if calf == nil || calf.BirthDate == nil {
		return shared.NewValidationError("calf birth date is required")
	}
	calfID := calf.ID
	var birthWeight decimal.Decimal
	if w := calf.LatestWeight(); w != nil {
		birthWeight = w.Weight
	}
	c.CalvingHistory = append(c.CalvingHistory, CalvingRecord{
		Date:        *calf.BirthDate,
		CalfTag:     calf.TagNumber,
		CalfID:      &calfID,
		CalfSex:     calf.Sex,
		BirthWeight: birthWeight,
		Ease:        ease,
		Notes:       notes,
	})
	if c.Sex == SexHeifer {
		c.Sex = SexCow
	}
	c.changed()
	return nil
}

// MarkSold records a sale
func (c *Cattle) MarkSold(on time.Time, price decimal.Decimal) error {
	if c.Status != StatusActive {
		return shared.NewValidationError("%s is already %s", c.TagNumber, c.Status)
	}
	if !price.IsPositive() {
		return shared.NewValidationError("sale price must be positive")
	}
	c.Status = StatusSold
	c.SoldAt = &on
	c.SalePrice = price
	c.changed()
	return nil
}

// SetStatus moves the animal to deceased or culled
func (c *Cattle) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewValidationError("unknown status %q", status)
	}
	if status == StatusSold {
		return shared.NewValidationError("use a sale to mark an animal sold")
	}
	c.Status = status
	c.changed()
	return nil
}

// SetMarketValue records the latest market valuation
func (c *Cattle) SetMarketValue(v decimal.Decimal) error {
	if v.IsNegative() {
		return shared.NewValidationError("market value cannot be negative")
	}
	c.Valuation.CurrentMarketValue = &v
	c.changed()
	return nil
}

// CattleDetails holds the editable descriptive attributes of an animal.
// Nil pointers leave the current value in place.
type CattleDetails struct {
	Name        string
	Breed       string
	Pasture     string
	Notes       string
	BirthDate   *time.Time
	MarketValue *decimal.Decimal
	Status      *Status
}

// Update replaces the descriptive attributes as a single change
func (c *Cattle) Update(d CattleDetails) error {
	if d.BirthDate != nil && d.BirthDate.After(time.Now()) {
		return shared.NewValidationError("birth date cannot be in the future")
	}
	if d.MarketValue != nil && d.MarketValue.IsNegative() {
		return shared.NewValidationError("market value cannot be negative")
	}
	if d.Status != nil && *d.Status != c.Status {
		if !d.Status.IsValid() {
			return shared.NewValidationError("unknown status %q", *d.Status)
		}
		if *d.Status == StatusSold {
			return shared.NewValidationError("use a sale to mark an animal sold")
		}
		c.Status = *d.Status
	}
	c.Name = strings.TrimSpace(d.Name)
	c.Breed = strings.TrimSpace(d.Breed)
	c.Pasture = strings.TrimSpace(d.Pasture)
	c.Notes = d.Notes
	if d.BirthDate != nil {
		c.BirthDate = d.BirthDate
	}
	if d.MarketValue != nil {
		v := *d.MarketValue
		c.Valuation.CurrentMarketValue = &v
	}
	c.changed()
	return nil
}

// MarketValue is the current market value, falling back to the estimate
func (c *Cattle) MarketValue() decimal.Decimal {
	if c.Valuation.CurrentMarketValue != nil {
		return *c.Valuation.CurrentMarketValue
	}
	return c.Valuation.EstimatedValue
}

// LatestWeight returns the most recent weigh-in, nil when never weighed
func (c *Cattle) LatestWeight() *WeightRecord {
	var latest *WeightRecord
	for i := range c.WeightRecords {
		if latest == nil || !c.WeightRecords[i].Date.Before(latest.Date) {
			latest = &c.WeightRecords[i]
		}
	}
	return latest
}

// AverageDailyGain is (last - first weight) / days between them; nil with fewer than two weigh-ins
func (c *Cattle) AverageDailyGain() *decimal.Decimal {
	if len(c.WeightRecords) < 2 {
		return nil
	}
	first, last := c.WeightRecords[0], c.WeightRecords[0]
	for _, w := range c.WeightRecords[1:] {
		if w.Date.Before(first.Date) {
			first = w
		}
		if !w.Date.Before(last.Date) {
			last = w
		}
	}
	days := int64(last.Date.Sub(first.Date).Hours() / 24)
	if days <= 0 {
		return nil
	}
	adg := last.Weight.Sub(first.Weight).Div(decimal.NewFromInt(days)).Round(2)
	return &adg
}

// InWithdrawal reports whether any treatment's withdrawal period is still running
func (c *Cattle) InWithdrawal(now time.Time) bool {
	for _, h := range c.HealthRecords {
		if h.WithdrawalDate != nil && now.Before(*h.WithdrawalDate) {
			return true
		}
	}
	return false
}

// AgeInMonths returns the age in whole months, -1 when the birth date is unknown
func (c *Cattle) AgeInMonths(now time.Time) int {
	if c.BirthDate == nil {
		return -1
	}
	b := *c.BirthDate
	months := (now.Year()-b.Year())*12 + int(now.Month()) - int(b.Month())
	if now.Day() < b.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
