package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerRepository implements finance.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds ledger entries matching the filter
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter finance.LedgerFilter) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), filter),
		filter.Filter, LedgerSortFields, "due_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

// Count counts ledger entries matching the filter
func (r *GormLedgerRepository) Count(ctx context.Context, filter finance.LedgerFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), filter).Count(&count).Error
	return count, err
}

// FindOpen returns entries that are neither paid nor cancelled
func (r *GormLedgerRepository) FindOpen(ctx context.Context) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []finance.LedgerStatus{finance.LedgerStatusPaid, finance.LedgerStatusCancelled}).
		Order("due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	return translateError(r.db.WithContext(ctx).Save(models.LedgerEntryModelFromDomain(entry)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormLedgerRepository) SaveWithLock(ctx context.Context, entry *finance.LedgerEntry) error {
	return saveWithLock(ctx, r.db, models.LedgerEntryModelFromDomain(entry), entry.ID, entry.Version)
}

func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter finance.LedgerFilter) *gorm.DB {
	query = search(query, filter.Search, "landlord", "description")
	if filter.Landlord != "" {
		query = query.Where("landlord = ?", filter.Landlord)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FieldID != nil {
		query = query.Where("field_id = ?", *filter.FieldID)
	}
	return query
}

func toLedgerEntries(rows []models.LedgerEntryModel) []finance.LedgerEntry {
	entries := make([]finance.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ finance.LedgerRepository = (*GormLedgerRepository)(nil)
