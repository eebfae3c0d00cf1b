package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEquipmentRepository implements assets.EquipmentRepository using GORM
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GormEquipmentRepository
func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

// FindByID finds a piece of equipment by its ID
func (r *GormEquipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.Equipment, error) {
	var model models.EquipmentModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists equipment; Filters accepts "status", "entity" and "category"
func (r *GormEquipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assets.Equipment, error) {
	var rows []models.EquipmentModel
	query := search(r.db.WithContext(ctx).Model(&models.EquipmentModel{}), filter.Search, "name", "make", "model", "serial_number")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "entity":
			query = query.Where("entity = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		}
	}
	if err := paginate(query, filter, EquipmentSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	equipment := make([]assets.Equipment, len(rows))
	for i := range rows {
		equipment[i] = *rows[i].ToDomain()
	}
	return equipment, nil
}

// Save creates or updates a piece of equipment
func (r *GormEquipmentRepository) Save(ctx context.Context, equipment *assets.Equipment) error {
	return translateError(r.db.WithContext(ctx).Save(models.EquipmentModelFromDomain(equipment)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormEquipmentRepository) SaveWithLock(ctx context.Context, equipment *assets.Equipment) error {
	return saveWithLock(ctx, r.db, models.EquipmentModelFromDomain(equipment), equipment.ID, equipment.Version)
}

// GormRealEstateRepository implements assets.RealEstateRepository using GORM
type GormRealEstateRepository struct {
	db *gorm.DB
}

// NewGormRealEstateRepository creates a new GormRealEstateRepository
func NewGormRealEstateRepository(db *gorm.DB) *GormRealEstateRepository {
	return &GormRealEstateRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormRealEstateRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.RealEstate, error) {
	var model models.RealEstateModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists properties; Filters accepts "entity"
func (r *GormRealEstateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assets.RealEstate, error) {
	var rows []models.RealEstateModel
	query := search(r.db.WithContext(ctx).Model(&models.RealEstateModel{}), filter.Search, "name")
	if entity, ok := filter.Filters["entity"]; ok {
		query = query.Where("entity = ?", entity)
	}
	if err := paginate(query, filter, RealEstateSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	properties := make([]assets.RealEstate, len(rows))
	for i := range rows {
		properties[i] = *rows[i].ToDomain()
	}
	return properties, nil
}

// Save creates or updates a property
func (r *GormRealEstateRepository) Save(ctx context.Context, property *assets.RealEstate) error {
	return translateError(r.db.WithContext(ctx).Save(models.RealEstateModelFromDomain(property)).Error)
}

// GormAdjustmentRepository implements assets.AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByName finds the adjustments of a legal entity
func (r *GormAdjustmentRepository) FindByName(ctx context.Context, name string) (*assets.EntityAdjustments, error) {
	var model models.EntityAdjustmentsModel
	if err := findOne(ctx, r.db, &model, "name = ?", name); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the adjustments of every entity
func (r *GormAdjustmentRepository) FindAll(ctx context.Context) ([]assets.EntityAdjustments, error) {
	var rows []models.EntityAdjustmentsModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	adjustments := make([]assets.EntityAdjustments, len(rows))
	for i := range rows {
		adjustments[i] = *rows[i].ToDomain()
	}
	return adjustments, nil
}

// Save creates or updates the adjustments of an entity
func (r *GormAdjustmentRepository) Save(ctx context.Context, adj *assets.EntityAdjustments) error {
	return translateError(r.db.WithContext(ctx).Save(models.EntityAdjustmentsModelFromDomain(adj)).Error)
}

var (
	_ assets.EquipmentRepository  = (*GormEquipmentRepository)(nil)
	_ assets.RealEstateRepository = (*GormRealEstateRepository)(nil)
	_ assets.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
)
