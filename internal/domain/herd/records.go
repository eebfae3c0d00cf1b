package herd

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WeightRecord is one weigh-in, pounds
type WeightRecord struct {
	Date   time.Time       `json:"date"`
	Weight decimal.Decimal `json:"weight"`
	Notes  string          `json:"notes,omitempty"`
}

// WeightRecords is stored as JSONB
type WeightRecords []WeightRecord

// Value implements driver.Valuer for JSONB storage
func (r WeightRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return shared.JSONValue(r)
}

// Scan implements sql.Scanner for JSONB storage
func (r *WeightRecords) Scan(value interface{}) error {
	*r = WeightRecords{}
	return shared.ScanJSON(value, r)
}

// HealthRecord is a treatment. WithdrawalDate is Date plus WithdrawalDays.
type HealthRecord struct {
	Date           time.Time  `json:"date"`
	Treatment      string     `json:"treatment"`
	Medication     string     `json:"medication,omitempty"`
	Dosage         string     `json:"dosage,omitempty"`
	WithdrawalDays int        `json:"withdrawal_days"`
	WithdrawalDate *time.Time `json:"withdrawal_date,omitempty"`
	Veterinarian   string     `json:"veterinarian,omitempty"`
}

// HealthRecords is stored as JSONB
type HealthRecords []HealthRecord

// Value implements driver.Valuer for JSONB storage
func (r HealthRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return shared.JSONValue(r)
}

// Scan implements sql.Scanner for JSONB storage
func (r *HealthRecords) Scan(value interface{}) error {
	*r = HealthRecords{}
	return shared.ScanJSON(value, r)
}

// BreedingMethod is natural service or artificial insemination
type BreedingMethod string

const (
	BreedingNatural BreedingMethod = "natural"
	BreedingAI      BreedingMethod = "ai"
)

// BreedingRecord is one breeding
type BreedingRecord struct {
	Date                time.Time      `json:"date"`
	Method              BreedingMethod `json:"method"`
	SireTag             string         `json:"sire_tag,omitempty"`
	ExpectedCalvingDate time.Time      `json:"expected_calving_date"`
	Confirmed           bool           `json:"confirmed"`
}

// BreedingRecords is stored as JSONB
type BreedingRecords []BreedingRecord

// Value implements driver.Valuer for JSONB storage
func (r BreedingRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return shared.JSONValue(r)
}

// Scan implements sql.Scanner for JSONB storage
func (r *BreedingRecords) Scan(value interface{}) error {
	*r = BreedingRecords{}
	return shared.ScanJSON(value, r)
}

// CalvingEase scores the difficulty of a birth
type CalvingEase string

const (
	EaseUnassisted CalvingEase = "unassisted"
	EaseEasyPull   CalvingEase = "easy_pull"
	EaseHardPull   CalvingEase = "hard_pull"
	EaseCSection   CalvingEase = "c_section"
)

// CalvingRecord is one entry in a dam's calving history
type CalvingRecord struct {
	Date        time.Time       `json:"date"`
	CalfTag     string          `json:"calf_tag"`
	CalfID      *uuid.UUID      `json:"calf_id,omitempty"`
	CalfSex     Sex             `json:"calf_sex"`
	BirthWeight decimal.Decimal `json:"birth_weight"`
	Ease        CalvingEase     `json:"ease,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// CalvingRecords is stored as JSONB
type CalvingRecords []CalvingRecord

// Value implements driver.Valuer for JSONB storage
func (r CalvingRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return shared.JSONValue(r)
}

// Scan implements sql.Scanner for JSONB storage
func (r *CalvingRecords) Scan(value interface{}) error {
	*r = CalvingRecords{}
	return shared.ScanJSON(value, r)
}
