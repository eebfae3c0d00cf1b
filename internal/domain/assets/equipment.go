package assets

import (
	"database/sql/driver"
	"strings"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EquipmentStatus is the ownership state of a machine
type EquipmentStatus string

const (
	EquipmentOwned   EquipmentStatus = "owned"
	EquipmentForSale EquipmentStatus = "for_sale"
	EquipmentSold    EquipmentStatus = "sold"
)

// IsValid checks if the status is known
func (s EquipmentStatus) IsValid() bool {
	return s == EquipmentOwned || s == EquipmentForSale || s == EquipmentSold
}

// EquipmentValuation holds purchase price and current value
type EquipmentValuation struct {
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
}

// Value implements driver.Valuer for JSONB storage
func (v EquipmentValuation) Value() (driver.Value, error) {
	return shared.JSONValue(v)
}

// Scan implements sql.Scanner for JSONB storage
func (v *EquipmentValuation) Scan(value interface{}) error {
	*v = EquipmentValuation{}
	return shared.ScanJSON(value, v)
}

// Equipment is a machine or vehicle owned by one of the entities
type Equipment struct {
	shared.BaseAggregateRoot
	Name         string
	Category     string
	Make         string
	Model        string
	Year         int
	SerialNumber string
	Entity       string
	Valuation    EquipmentValuation
	LoanBalance  decimal.Decimal
	Status       EquipmentStatus
	AskingPrice  decimal.Decimal
}

// NewEquipmentParams holds the registration details of a machine
type NewEquipmentParams struct {
	Name          string
	Category      string
	Make          string
	Model         string
	Year          int
	SerialNumber  string
	Entity        string
	PurchasePrice decimal.Decimal
	CurrentValue  decimal.Decimal
	LoanBalance   decimal.Decimal
}

// NewEquipment validates and registers a machine
func NewEquipment(p NewEquipmentParams) (*Equipment, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, shared.NewValidationError("equipment name is required")
	}
	if p.PurchasePrice.IsNegative() || p.CurrentValue.IsNegative() || p.LoanBalance.IsNegative() {
		return nil, shared.NewValidationError("values cannot be negative")
	}
	if p.Year != 0 && (p.Year < 1900 || p.Year > 2100) {
		return nil, shared.NewValidationError("model year %d is out of range", p.Year)
	}
	return &Equipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(p.Name),
		Category:          strings.TrimSpace(p.Category),
		Make:              strings.TrimSpace(p.Make),
		Model:             strings.TrimSpace(p.Model),
		Year:              p.Year,
		SerialNumber:      strings.TrimSpace(p.SerialNumber),
		Entity:            strings.TrimSpace(p.Entity),
		Valuation:         EquipmentValuation{PurchasePrice: p.PurchasePrice, CurrentValue: p.CurrentValue},
		LoanBalance:       p.LoanBalance,
		Status:            EquipmentOwned,
	}, nil
}

// ListForSale offers the machine at an asking price
func (e *Equipment) ListForSale(asking decimal.Decimal) error {
	if e.Status == EquipmentSold {
		return shared.NewValidationError("%s is already sold", e.Name)
	}
	if !asking.IsPositive() {
		return shared.NewValidationError("asking price must be positive")
	}
	e.Status = EquipmentForSale
	e.AskingPrice = asking
	e.Touch()
	e.IncrementVersion()
	return nil
}

// MarkSold removes the machine from the balance sheet
func (e *Equipment) MarkSold() error {
	if e.Status == EquipmentSold {
		return nil
	}
	e.Status = EquipmentSold
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Counts reports whether the machine still belongs on the balance sheet
func (e *Equipment) Counts() bool {
	return e.Status != EquipmentSold
}
