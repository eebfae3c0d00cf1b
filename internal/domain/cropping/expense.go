package cropping

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaidBy records who carries an expense on rented ground
type PaidBy string

const (
	PaidByFarmer   PaidBy = "farmer"
	PaidByLandlord PaidBy = "landlord"
	PaidBySplit    PaidBy = "split"
)

// ExpenseStatus is the commitment state of an expense
type ExpenseStatus string

const (
	ExpensePlanned   ExpenseStatus = "planned"
	ExpenseCommitted ExpenseStatus = "committed"
	ExpensePaid      ExpenseStatus = "paid"
)

// FieldAllocation is the snapshot of a field taken when an expense is allocated
type FieldAllocation struct {
	FieldID uuid.UUID       `json:"field_id"`
	Farm    string          `json:"farm"`
	Field   string          `json:"field"`
	Acres   decimal.Decimal `json:"acres"`
}

// FieldAllocations is a slice of FieldAllocation stored as JSONB
type FieldAllocations []FieldAllocation

// Value implements driver.Valuer for JSONB storage
func (a FieldAllocations) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return shared.JSONValue(a)
}

// Scan implements sql.Scanner for JSONB storage
func (a *FieldAllocations) Scan(value interface{}) error {
	*a = FieldAllocations{}
	return shared.ScanJSON(value, a)
}

// FieldIDs returns the allocated field ids
func (a FieldAllocations) FieldIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a))
	for _, f := range a {
		ids = append(ids, f.FieldID)
	}
	return ids
}

// Includes reports whether the allocation covers a field
func (a FieldAllocations) Includes(id uuid.UUID) bool {
	for _, f := range a {
		if f.FieldID == id {
			return true
		}
	}
	return false
}

// Expense is a per-acre crop cost allocated across a set of fields
type Expense struct {
	shared.BaseAggregateRoot
	CropCode    string
	CropName    string
	Year        int
	Date        time.Time
	Description string
	Category    ExpenseCategory
	CostPerAcre decimal.Decimal
	Fields      FieldAllocations
	PaidBy      PaidBy
	Vendor      string
	Status      ExpenseStatus
	ReceiptKey  string
}

// NewExpenseParams holds the caller-supplied part of an expense
type NewExpenseParams struct {
	CropCode    string
	Date        time.Time
	Description string
	Category    ExpenseCategory
	CostPerAcre decimal.Decimal
	PaidBy      PaidBy
	Vendor      string
	Status      ExpenseStatus
}

// NewExpense validates an expense and snapshots the resolved fields
func NewExpense(p NewExpenseParams, fields []Field) (*Expense, error) {
	code, err := ParseCropCode(p.CropCode)
	if err != nil {
		return nil, err
	}
	e := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CropCode:          strings.ToUpper(code.Raw),
		CropName:          code.CropName,
		Year:              code.Year,
	}
	if err := e.apply(p); err != nil {
		return nil, err
	}
	if err := e.Allocate(fields); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Expense) apply(p NewExpenseParams) error {
	if strings.TrimSpace(p.Description) == "" {
		return shared.NewValidationError("description is required")
	}
	if !p.Category.IsValid() {
		return shared.NewValidationError("unknown expense category %q", p.Category)
	}
	if p.CostPerAcre.IsNegative() {
		return shared.NewValidationError("cost per acre cannot be negative")
	}
	paidBy := p.PaidBy
	if paidBy == "" {
		paidBy = PaidByFarmer
	}
	if paidBy != PaidByFarmer && paidBy != PaidByLandlord && paidBy != PaidBySplit {
		return shared.NewValidationError("unknown payer %q", p.PaidBy)
	}
	status := p.Status
	if status == "" {
		status = ExpensePlanned
	}
	if status != ExpensePlanned && status != ExpenseCommitted && status != ExpensePaid {
		return shared.NewValidationError("unknown expense status %q", p.Status)
	}
	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	e.Date = date
	e.Description = strings.TrimSpace(p.Description)
	e.Category = p.Category
	e.CostPerAcre = p.CostPerAcre
	e.PaidBy = paidBy
	e.Vendor = strings.TrimSpace(p.Vendor)
	e.Status = status
	return nil
}

// Allocate replaces the field snapshot
func (e *Expense) Allocate(fields []Field) error {
	if len(fields) == 0 {
		return shared.NewValidationError("expense %s matches no fields", e.CropCode)
	}
	allocs := make(FieldAllocations, 0, len(fields))
	seen := make(map[uuid.UUID]bool, len(fields))
	for i := range fields {
		if seen[fields[i].ID] {
			continue
		}
		seen[fields[i].ID] = true
		allocs = append(allocs, fields[i].Snapshot())
	}
	e.Fields = allocs
	return nil
}

// Update changes the editable attributes. A new crop code moves the
// expense to another crop and year; callers re-resolve fields afterwards.
func (e *Expense) Update(p NewExpenseParams) error {
	if p.CropCode != "" && !strings.EqualFold(p.CropCode, e.CropCode) {
		code, err := ParseCropCode(p.CropCode)
		if err != nil {
			return err
		}
		e.CropCode = strings.ToUpper(code.Raw)
		e.CropName = code.CropName
		e.Year = code.Year
	}
	if err := e.apply(p); err != nil {
		return err
	}
	e.Touch()
	e.IncrementVersion()
	return nil
}

// TotalAcres sums the snapshot acres
func (e *Expense) TotalAcres() decimal.Decimal {
	total := decimal.Zero
	for _, f := range e.Fields {
		total = total.Add(f.Acres)
	}
	return total
}

// TotalCost is cost per acre times total acres
func (e *Expense) TotalCost() decimal.Decimal {
	return e.CostPerAcre.Mul(e.TotalAcres())
}

// AttachReceipt records the storage key of an uploaded receipt
func (e *Expense) AttachReceipt(key string) {
	e.ReceiptKey = key
	e.Touch()
	e.IncrementVersion()
}

// RollupCosts sums per-acre costs by category over the expenses of one field
func RollupCosts(fieldID uuid.UUID, expenses []Expense) CostBuckets {
	var buckets CostBuckets
	for _, e := range expenses {
		if e.Fields.Includes(fieldID) {
			buckets.Add(e.Category, e.CostPerAcre)
		}
	}
	return buckets
}

// CropSummary aggregates every expense of one crop code
type CropSummary struct {
	CropCode     string
	ExpenseCount int
	TotalCost    decimal.Decimal
	ByCategory   map[ExpenseCategory]decimal.Decimal
}

// SummarizeExpenses totals expenses by category
func SummarizeExpenses(cropCode string, expenses []Expense) CropSummary {
	s := CropSummary{
		CropCode:   strings.ToUpper(cropCode),
		TotalCost:  decimal.Zero,
		ByCategory: make(map[ExpenseCategory]decimal.Decimal),
	}
	for _, e := range expenses {
		cost := e.TotalCost()
		s.ExpenseCount++
		s.TotalCost = s.TotalCost.Add(cost)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(cost)
	}
	return s
}
