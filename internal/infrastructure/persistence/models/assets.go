package models

import (
	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EquipmentModel is the persistence model for the Equipment aggregate.
type EquipmentModel struct {
	AggregateModel
	Name         string                    `gorm:"type:varchar(200);not null"`
	Category     string                    `gorm:"type:varchar(100);index"`
	Make         string                    `gorm:"type:varchar(100)"`
	Model        string                    `gorm:"type:varchar(100)"`
	Year         int                       `gorm:"not null;default:0"`
	SerialNumber string                    `gorm:"type:varchar(100)"`
	Entity       string                    `gorm:"type:varchar(100);not null;index"`
	Valuation    assets.EquipmentValuation `gorm:"type:jsonb"`
	LoanBalance  decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	Status       assets.EquipmentStatus    `gorm:"type:varchar(20);not null;default:'owned';index"`
	AskingPrice  decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (EquipmentModel) TableName() string {
	return "equipment"
}

// ToDomain converts the persistence model to a domain Equipment aggregate.
func (m *EquipmentModel) ToDomain() *assets.Equipment {
	return &assets.Equipment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		Make:              m.Make,
		Model:             m.Model,
		Year:              m.Year,
		SerialNumber:      m.SerialNumber,
		Entity:            m.Entity,
		Valuation:         m.Valuation,
		LoanBalance:       m.LoanBalance,
		Status:            m.Status,
		AskingPrice:       m.AskingPrice,
	}
}

// EquipmentModelFromDomain creates a new persistence model from a domain Equipment aggregate.
func EquipmentModelFromDomain(e *assets.Equipment) *EquipmentModel {
	m := &EquipmentModel{
		Name:         e.Name,
		Category:     e.Category,
		Make:         e.Make,
		Model:        e.Model,
		Year:         e.Year,
		SerialNumber: e.SerialNumber,
		Entity:       e.Entity,
		Valuation:    e.Valuation,
		LoanBalance:  e.LoanBalance,
		Status:       e.Status,
		AskingPrice:  e.AskingPrice,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// RealEstateModel is the persistence model for a non-farmland property.
type RealEstateModel struct {
	AggregateModel
	Name        string              `gorm:"type:varchar(200);not null"`
	Entity      string              `gorm:"type:varchar(100);not null;index"`
	Acres       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Address     valueobject.Address `gorm:"type:jsonb"`
	MarketValue decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	LoanBalance decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (RealEstateModel) TableName() string {
	return "real_estate"
}

// ToDomain converts the persistence model to a domain RealEstate aggregate.
func (m *RealEstateModel) ToDomain() *assets.RealEstate {
	return &assets.RealEstate{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Entity:            m.Entity,
		Acres:             m.Acres,
		Address:           m.Address,
		MarketValue:       m.MarketValue,
		LoanBalance:       m.LoanBalance,
	}
}

// RealEstateModelFromDomain creates a new persistence model from a domain RealEstate aggregate.
func RealEstateModelFromDomain(r *assets.RealEstate) *RealEstateModel {
	m := &RealEstateModel{
		Name:        r.Name,
		Entity:      r.Entity,
		Acres:       r.Acres,
		Address:     r.Address,
		MarketValue: r.MarketValue,
		LoanBalance: r.LoanBalance,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// EntityAdjustmentsModel stores the manual net-worth lines of one legal entity.
type EntityAdjustmentsModel struct {
	AggregateModel
	Name                  string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	AdditionalAssets      assets.LineItems `gorm:"type:jsonb;default:'[]'"`
	AdditionalLiabilities assets.LineItems `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (EntityAdjustmentsModel) TableName() string {
	return "entity_adjustments"
}

// ToDomain converts the persistence model to domain EntityAdjustments.
func (m *EntityAdjustmentsModel) ToDomain() *assets.EntityAdjustments {
	return &assets.EntityAdjustments{
		BaseAggregateRoot:     m.ToAggregateRoot(),
		Name:                  m.Name,
		AdditionalAssets:      m.AdditionalAssets,
		AdditionalLiabilities: m.AdditionalLiabilities,
	}
}

// EntityAdjustmentsModelFromDomain creates a new persistence model from domain EntityAdjustments.
func EntityAdjustmentsModelFromDomain(a *assets.EntityAdjustments) *EntityAdjustmentsModel {
	m := &EntityAdjustmentsModel{
		Name:                  a.Name,
		AdditionalAssets:      a.AdditionalAssets,
		AdditionalLiabilities: a.AdditionalLiabilities,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}
