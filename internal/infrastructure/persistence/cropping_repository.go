package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFieldRepository implements cropping.FieldRepository using GORM
type GormFieldRepository struct {
	db *gorm.DB
}

// NewGormFieldRepository creates a new GormFieldRepository
func NewGormFieldRepository(db *gorm.DB) *GormFieldRepository {
	return &GormFieldRepository{db: db}
}

// FindByID finds a field by its ID
func (r *GormFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*cropping.Field, error) {
	var model models.FieldModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads every requested field in request order
func (r *GormFieldRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]cropping.Field, error) {
	if len(ids) == 0 {
		return []cropping.Field{}, nil
	}
	var rows []models.FieldModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.FieldModel, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	fields := make([]cropping.Field, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, shared.NewNotFoundError("field", id)
		}
		fields = append(fields, *m.ToDomain())
	}
	return fields, nil
}

// FindAll lists fields
func (r *GormFieldRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cropping.Field, error) {
	var rows []models.FieldModel
	query := search(r.db.WithContext(ctx).Model(&models.FieldModel{}), filter.Search, "farm", "name", "landlord")
	if entity, ok := filter.Filters["entity"]; ok {
		query = query.Where("entity = ?", entity)
	}
	if err := paginate(query, filter, FieldSortFields, "farm").Find(&rows).Error; err != nil {
		return nil, err
	}
	fields := make([]cropping.Field, len(rows))
	for i := range rows {
		fields[i] = *rows[i].ToDomain()
	}
	return fields, nil
}

// Save creates or updates a field. The costs column is owned by the
// rollup and only written through UpdateCosts.
func (r *GormFieldRepository) Save(ctx context.Context, field *cropping.Field) error {
	return translateError(r.db.WithContext(ctx).Omit("costs").Save(models.FieldModelFromDomain(field)).Error)
}

// UpdateCosts overwrites the rolled-up cost buckets of a field
func (r *GormFieldRepository) UpdateCosts(ctx context.Context, id uuid.UUID, costs cropping.YearlyCosts) error {
	result := r.db.WithContext(ctx).Model(&models.FieldModel{}).Where("id = ?", id).Update("costs", costs)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormExpenseRepository implements cropping.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*cropping.Expense, error) {
	var model models.ExpenseModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds expenses matching the filter
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter cropping.ExpenseFilter) ([]cropping.Expense, error) {
	var rows []models.ExpenseModel
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter),
		filter.Filter, ExpenseSortFields, "date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toExpenses(rows), nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter cropping.ExpenseFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter).Count(&count).Error
	return count, err
}

// FindByFieldAndYear returns every expense of the year allocated to the field
func (r *GormExpenseRepository) FindByFieldAndYear(ctx context.Context, fieldID uuid.UUID, year int) ([]cropping.Expense, error) {
	var rows []models.ExpenseModel
	err := r.db.WithContext(ctx).
		Where("year = ? AND id IN (?)", year, r.allocatedTo(fieldID)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toExpenses(rows), nil
}

// Save creates or updates an expense and rewrites its field index rows
func (r *GormExpenseRepository) Save(ctx context.Context, expense *cropping.Expense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.ExpenseModelFromDomain(expense)).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseFieldModel{}).Error; err != nil {
			return err
		}
		rows := models.ExpenseFieldRows(expense)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Delete removes an expense and its field index rows
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&models.ExpenseFieldModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ExpenseModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormExpenseRepository) allocatedTo(fieldID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.ExpenseFieldModel{}).Select("expense_id").Where("field_id = ?", fieldID)
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter cropping.ExpenseFilter) *gorm.DB {
	query = search(query, filter.Search, "description", "vendor")
	if filter.CropCode != "" {
		query = query.Where("crop_code = ?", filter.CropCode)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FieldID != nil {
		query = query.Where("id IN (?)", r.allocatedTo(*filter.FieldID))
	}
	return query
}

func toExpenses(rows []models.ExpenseModel) []cropping.Expense {
	expenses := make([]cropping.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses
}

// GormProductionRepository implements cropping.ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// SaveProjection upserts the projection of a field and year
func (r *GormProductionRepository) SaveProjection(ctx context.Context, p *cropping.Projection) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "field_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"crop", "expected_yield_per_acre", "expected_price", "updated_at"}),
	}).Create(models.ProjectionModelFromDomain(p)).Error
}

// FindProjection finds the projection of a field and year
func (r *GormProductionRepository) FindProjection(ctx context.Context, fieldID uuid.UUID, year int) (*cropping.Projection, error) {
	var model models.ProjectionModel
	if err := findOne(ctx, r.db, &model, "field_id = ? AND year = ?", fieldID, year); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveHarvest records a harvest
func (r *GormProductionRepository) SaveHarvest(ctx context.Context, h *cropping.Harvest) error {
	return r.db.WithContext(ctx).Create(models.HarvestModelFromDomain(h)).Error
}

// FindHarvests lists the harvest records of a field and year
func (r *GormProductionRepository) FindHarvests(ctx context.Context, fieldID uuid.UUID, year int) ([]cropping.Harvest, error) {
	var rows []models.HarvestModel
	if err := r.db.WithContext(ctx).
		Where("field_id = ? AND year = ?", fieldID, year).
		Order("harvested_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	harvests := make([]cropping.Harvest, len(rows))
	for i := range rows {
		harvests[i] = rows[i].ToDomain()
	}
	return harvests, nil
}

var (
	_ cropping.FieldRepository      = (*GormFieldRepository)(nil)
	_ cropping.ExpenseRepository    = (*GormExpenseRepository)(nil)
	_ cropping.ProductionRepository = (*GormProductionRepository)(nil)
)
