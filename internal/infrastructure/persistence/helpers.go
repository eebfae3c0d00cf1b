package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saveWithLock writes every column of model only if the stored version is
// the one the aggregate was loaded at. Aggregates bump their version on
// each mutation, so the expected stored version is version-1.
func saveWithLock(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, version int) error {
	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Select("*").
		Omit("created_at").
		Updates(model)
	return checkLocked(result)
}

// findOne loads a single row into model, mapping a miss to shared.ErrNotFound
func findOne(ctx context.Context, db *gorm.DB, model any, query string, args ...any) error {
	return translateError(db.WithContext(ctx).Where(query, args...).First(model).Error)
}
