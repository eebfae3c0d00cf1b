package cropping

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
)

// FieldRepository defines the interface for cropping field persistence
type FieldRepository interface {
	// FindByID finds a field by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Field, error)

	// FindByIDs finds fields by ID; a missing id is a not-found error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Field, error)

	// FindAll lists fields
	FindAll(ctx context.Context, filter shared.Filter) ([]Field, error)

	// Save creates or updates a field
	Save(ctx context.Context, field *Field) error

	// UpdateCosts overwrites the rolled-up costs column only
	UpdateCosts(ctx context.Context, id uuid.UUID, costs YearlyCosts) error
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	CropCode string
	Year     int
	Category ExpenseCategory
	FieldID  *uuid.UUID
}

// ExpenseRepository defines the interface for crop expense persistence
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)

	// FindByFieldAndYear returns every expense of the year whose allocation includes the field
	FindByFieldAndYear(ctx context.Context, fieldID uuid.UUID, year int) ([]Expense, error)

	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductionRepository stores projections and harvest records
type ProductionRepository interface {
	SaveProjection(ctx context.Context, p *Projection) error
	FindProjection(ctx context.Context, fieldID uuid.UUID, year int) (*Projection, error)
	SaveHarvest(ctx context.Context, h *Harvest) error
	FindHarvests(ctx context.Context, fieldID uuid.UUID, year int) ([]Harvest, error)
}
