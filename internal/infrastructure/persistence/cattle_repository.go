package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/m77ag/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCattleRepository implements herd.CattleRepository using GORM
type GormCattleRepository struct {
	db *gorm.DB
}

// NewGormCattleRepository creates a new GormCattleRepository
func NewGormCattleRepository(db *gorm.DB) *GormCattleRepository {
	return &GormCattleRepository{db: db}
}

// FindByID finds an animal by its ID
func (r *GormCattleRepository) FindByID(ctx context.Context, id uuid.UUID) (*herd.Cattle, error) {
	var model models.CattleModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTag finds an animal by its normalised tag number
func (r *GormCattleRepository) FindByTag(ctx context.Context, tag string) (*herd.Cattle, error) {
	var model models.CattleModel
	if err := findOne(ctx, r.db, &model, "tag_number = ?", herd.NormalizeTag(tag)); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByTag checks if a tag number is already registered
func (r *GormCattleRepository) ExistsByTag(ctx context.Context, tag string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CattleModel{}).
		Where("tag_number = ?", herd.NormalizeTag(tag)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all animals matching the filter
func (r *GormCattleRepository) FindAll(ctx context.Context, filter herd.CattleFilter) ([]herd.Cattle, error) {
	var rows []models.CattleModel
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.CattleModel{}), filter),
		filter.Filter, CattleSortFields, "tag_number")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	cattle := make([]herd.Cattle, len(rows))
	for i := range rows {
		cattle[i] = *rows[i].ToDomain()
	}
	return cattle, nil
}

// Count counts animals matching the filter
func (r *GormCattleRepository) Count(ctx context.Context, filter herd.CattleFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CattleModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates an animal
func (r *GormCattleRepository) Save(ctx context.Context, cattle *herd.Cattle) error {
	return translateError(r.db.WithContext(ctx).Save(models.CattleModelFromDomain(cattle)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormCattleRepository) SaveWithLock(ctx context.Context, cattle *herd.Cattle) error {
	return saveWithLock(ctx, r.db, models.CattleModelFromDomain(cattle), cattle.ID, cattle.Version)
}

func (r *GormCattleRepository) applyFilter(query *gorm.DB, filter herd.CattleFilter) *gorm.DB {
	query = search(query, filter.Search, "tag_number", "name", "breed")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Sex != nil {
		query = query.Where("sex = ?", *filter.Sex)
	}
	if filter.Pasture != "" {
		query = query.Where("pasture = ?", filter.Pasture)
	}
	if filter.DamTag != "" {
		query = query.Where("dam_tag = ?", herd.NormalizeTag(filter.DamTag))
	}
	return query
}

// Ensure GormCattleRepository implements CattleRepository
var _ herd.CattleRepository = (*GormCattleRepository)(nil)
