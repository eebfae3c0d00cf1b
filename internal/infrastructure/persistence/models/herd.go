package models

import (
	"time"

	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/shopspring/decimal"
)

// CattleModel is the persistence model for the Cattle aggregate.
type CattleModel struct {
	AggregateModel
	TagNumber       string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string               `gorm:"type:varchar(100)"`
	Breed           string               `gorm:"type:varchar(100)"`
	Sex             herd.Sex             `gorm:"type:varchar(20);not null;index"`
	BirthDate       *time.Time           `gorm:"index"`
	Status          herd.Status          `gorm:"type:varchar(20);not null;default:'active';index"`
	Dam             herd.ParentRef       `gorm:"type:jsonb"`
	DamTag          string               `gorm:"type:varchar(50);index"`
	Sire            herd.ParentRef       `gorm:"type:jsonb"`
	Pasture         string               `gorm:"type:varchar(100);index"`
	PurchasePrice   decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Valuation       herd.CattleValuation `gorm:"type:jsonb"`
	WeightRecords   herd.WeightRecords   `gorm:"type:jsonb;default:'[]'"`
	HealthRecords   herd.HealthRecords   `gorm:"type:jsonb;default:'[]'"`
	BreedingRecords herd.BreedingRecords `gorm:"type:jsonb;default:'[]'"`
	CalvingHistory  herd.CalvingRecords  `gorm:"type:jsonb;default:'[]'"`
	SoldAt          *time.Time
	SalePrice       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CattleModel) TableName() string {
	return "cattle"
}

// ToDomain converts the persistence model to a domain Cattle aggregate.
func (m *CattleModel) ToDomain() *herd.Cattle {
	return &herd.Cattle{
		BaseAggregateRoot: m.ToAggregateRoot(),
		TagNumber:         m.TagNumber,
		Name:              m.Name,
		Breed:             m.Breed,
		Sex:               m.Sex,
		BirthDate:         m.BirthDate,
		Status:            m.Status,
		Dam:               m.Dam,
		Sire:              m.Sire,
		Pasture:           m.Pasture,
		PurchasePrice:     m.PurchasePrice,
		Valuation:         m.Valuation,
		WeightRecords:     m.WeightRecords,
		HealthRecords:     m.HealthRecords,
		BreedingRecords:   m.BreedingRecords,
		CalvingHistory:    m.CalvingHistory,
		SoldAt:            m.SoldAt,
		SalePrice:         m.SalePrice,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Cattle aggregate.
// DamTag is denormalised so offspring lookups do not scan JSON.
func (m *CattleModel) FromDomain(c *herd.Cattle) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.TagNumber = c.TagNumber
	m.Name = c.Name
	m.Breed = c.Breed
	m.Sex = c.Sex
	m.BirthDate = c.BirthDate
	m.Status = c.Status
	m.Dam = c.Dam
	m.DamTag = c.Dam.TagNumber
	m.Sire = c.Sire
	m.Pasture = c.Pasture
	m.PurchasePrice = c.PurchasePrice
	m.Valuation = c.Valuation
	m.WeightRecords = c.WeightRecords
	m.HealthRecords = c.HealthRecords
	m.BreedingRecords = c.BreedingRecords
	m.CalvingHistory = c.CalvingHistory
	m.SoldAt = c.SoldAt
	m.SalePrice = c.SalePrice
	m.Notes = c.Notes
}

// CattleModelFromDomain creates a new persistence model from a domain Cattle aggregate.
func CattleModelFromDomain(c *herd.Cattle) *CattleModel {
	m := &CattleModel{}
	m.FromDomain(c)
	return m
}
