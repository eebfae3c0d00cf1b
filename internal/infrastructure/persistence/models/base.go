package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain aggregate base
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// All returns every model in migration order, used by AutoMigrate in tests
// and the development bootstrap.
func All() []any {
	return []any{
		&UserModel{},
		&CattleModel{},
		&FieldModel{},
		&ExpenseModel{},
		&ExpenseFieldModel{},
		&ProjectionModel{},
		&HarvestModel{},
		&InvoiceModel{},
		&LedgerEntryModel{},
		&LoanModel{},
		&BankAccountModel{},
		&TransactionModel{},
		&CapitalInvestmentModel{},
		&EquipmentModel{},
		&RealEstateModel{},
		&EntityAdjustmentsModel{},
		&HuntingBookingModel{},
		&EquipmentOfferModel{},
	}
}
