package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FieldModel is the persistence model for the Field aggregate.
type FieldModel struct {
	AggregateModel
	Farm               string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_field_farm_name,priority:1"`
	Name               string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_field_farm_name,priority:2"`
	Acres              decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Entity             string                `gorm:"type:varchar(100);not null;index"`
	Crops              cropping.CropRotation `gorm:"type:jsonb;default:'{}'"`
	RentType           cropping.RentType     `gorm:"type:varchar(20);not null"`
	Landlord           string                `gorm:"type:varchar(200);index"`
	CashRentPerAcre    decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	CropSharePercent   decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	MarketValuePerAcre decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Costs              cropping.YearlyCosts  `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (FieldModel) TableName() string {
	return "fields"
}

// ToDomain converts the persistence model to a domain Field aggregate.
func (m *FieldModel) ToDomain() *cropping.Field {
	return &cropping.Field{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		Farm:               m.Farm,
		Name:               m.Name,
		Acres:              m.Acres,
		Entity:             m.Entity,
		Crops:              m.Crops,
		RentType:           m.RentType,
		Landlord:           m.Landlord,
		CashRentPerAcre:    m.CashRentPerAcre,
		CropSharePercent:   m.CropSharePercent,
		MarketValuePerAcre: m.MarketValuePerAcre,
		Costs:              m.Costs,
	}
}

// FromDomain populates the persistence model from a domain Field aggregate.
func (m *FieldModel) FromDomain(f *cropping.Field) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.Farm = f.Farm
	m.Name = f.Name
	m.Acres = f.Acres
	m.Entity = f.Entity
	m.Crops = f.Crops
	m.RentType = f.RentType
	m.Landlord = f.Landlord
	m.CashRentPerAcre = f.CashRentPerAcre
	m.CropSharePercent = f.CropSharePercent
	m.MarketValuePerAcre = f.MarketValuePerAcre
	m.Costs = f.Costs
}

// FieldModelFromDomain creates a new persistence model from a domain Field aggregate.
func FieldModelFromDomain(f *cropping.Field) *FieldModel {
	m := &FieldModel{}
	m.FromDomain(f)
	return m
}

// ExpenseModel is the persistence model for the Expense aggregate.
type ExpenseModel struct {
	AggregateModel
	CropCode    string                    `gorm:"type:varchar(20);not null;index"`
	CropName    string                    `gorm:"type:varchar(50);not null"`
	Year        int                       `gorm:"not null;index"`
	Date        time.Time                 `gorm:"not null"`
	Description string                    `gorm:"type:varchar(500);not null"`
	Category    cropping.ExpenseCategory  `gorm:"type:varchar(30);not null;index"`
	CostPerAcre decimal.Decimal           `gorm:"type:decimal(12,4);not null"`
	Fields      cropping.FieldAllocations `gorm:"type:jsonb;default:'[]'"`
	PaidBy      cropping.PaidBy           `gorm:"type:varchar(20);not null"`
	Vendor      string                    `gorm:"type:varchar(200)"`
	Status      cropping.ExpenseStatus    `gorm:"type:varchar(20);not null"`
	ReceiptKey  string                    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "crop_expenses"
}

// ToDomain converts the persistence model to a domain Expense aggregate.
func (m *ExpenseModel) ToDomain() *cropping.Expense {
	return &cropping.Expense{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CropCode:          m.CropCode,
		CropName:          m.CropName,
		Year:              m.Year,
		Date:              m.Date,
		Description:       m.Description,
		Category:          m.Category,
		CostPerAcre:       m.CostPerAcre,
		Fields:            m.Fields,
		PaidBy:            m.PaidBy,
		Vendor:            m.Vendor,
		Status:            m.Status,
		ReceiptKey:        m.ReceiptKey,
	}
}

// FromDomain populates the persistence model from a domain Expense aggregate.
func (m *ExpenseModel) FromDomain(e *cropping.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.CropCode = e.CropCode
	m.CropName = e.CropName
	m.Year = e.Year
	m.Date = e.Date
	m.Description = e.Description
	m.Category = e.Category
	m.CostPerAcre = e.CostPerAcre
	m.Fields = e.Fields
	m.PaidBy = e.PaidBy
	m.Vendor = e.Vendor
	m.Status = e.Status
	m.ReceiptKey = e.ReceiptKey
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense aggregate.
func ExpenseModelFromDomain(e *cropping.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

// ExpenseFieldModel indexes which fields an expense is allocated to.
type ExpenseFieldModel struct {
	ExpenseID uuid.UUID `gorm:"type:uuid;primary_key"`
	FieldID   uuid.UUID `gorm:"type:uuid;primary_key;index"`
	Year      int       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ExpenseFieldModel) TableName() string {
	return "crop_expense_fields"
}

// ExpenseFieldRows builds the join rows for an expense allocation
func ExpenseFieldRows(e *cropping.Expense) []ExpenseFieldModel {
	rows := make([]ExpenseFieldModel, 0, len(e.Fields))
	for _, id := range e.Fields.FieldIDs() {
		rows = append(rows, ExpenseFieldModel{ExpenseID: e.ID, FieldID: id, Year: e.Year})
	}
	return rows
}

// ProjectionModel is the persistence model for a production projection.
type ProjectionModel struct {
	BaseModel
	FieldID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_projection_field_year,priority:1"`
	Year                 int             `gorm:"not null;uniqueIndex:idx_projection_field_year,priority:2"`
	Crop                 string          `gorm:"type:varchar(50);not null"`
	ExpectedYieldPerAcre decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpectedPrice        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

// TableName returns the table name for GORM
func (ProjectionModel) TableName() string {
	return "production_projections"
}

// ToDomain converts the persistence model to a domain Projection.
func (m *ProjectionModel) ToDomain() *cropping.Projection {
	return &cropping.Projection{
		BaseEntity:           m.BaseModel.ToDomain(),
		FieldID:              m.FieldID,
		Year:                 m.Year,
		Crop:                 m.Crop,
		ExpectedYieldPerAcre: m.ExpectedYieldPerAcre,
		ExpectedPrice:        m.ExpectedPrice,
	}
}

// ProjectionModelFromDomain creates a new persistence model from a domain Projection.
func ProjectionModelFromDomain(p *cropping.Projection) *ProjectionModel {
	m := &ProjectionModel{
		FieldID:              p.FieldID,
		Year:                 p.Year,
		Crop:                 p.Crop,
		ExpectedYieldPerAcre: p.ExpectedYieldPerAcre,
		ExpectedPrice:        p.ExpectedPrice,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// HarvestModel is the persistence model for a harvest record.
type HarvestModel struct {
	BaseModel
	FieldID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_harvest_field_year,priority:1"`
	Year            int             `gorm:"not null;index:idx_harvest_field_year,priority:2"`
	Crop            string          `gorm:"type:varchar(50);not null"`
	Bushels         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MoisturePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	HarvestedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (HarvestModel) TableName() string {
	return "harvests"
}

// ToDomain converts the persistence model to a domain Harvest.
func (m *HarvestModel) ToDomain() cropping.Harvest {
	return cropping.Harvest{
		BaseEntity:      shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		FieldID:         m.FieldID,
		Year:            m.Year,
		Crop:            m.Crop,
		Bushels:         m.Bushels,
		MoisturePercent: m.MoisturePercent,
		HarvestedAt:     m.HarvestedAt,
	}
}

// HarvestModelFromDomain creates a new persistence model from a domain Harvest.
func HarvestModelFromDomain(h *cropping.Harvest) *HarvestModel {
	m := &HarvestModel{
		FieldID:         h.FieldID,
		Year:            h.Year,
		Crop:            h.Crop,
		Bushels:         h.Bushels,
		MoisturePercent: h.MoisturePercent,
		HarvestedAt:     h.HarvestedAt,
	}
	m.FromDomainBaseEntity(h.BaseEntity)
	return m
}
