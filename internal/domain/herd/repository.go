package herd

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
)

// CattleFilter defines filtering options for herd queries
type CattleFilter struct {
	shared.Filter
	Status  *Status
	Sex     *Sex
	Pasture string
	DamTag  string
}

// CattleRepository defines the interface for herd persistence
type CattleRepository interface {
	// FindByID finds an animal by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cattle, error)

	// FindByTag finds an animal by normalised tag number
	FindByTag(ctx context.Context, tag string) (*Cattle, error)

	// ExistsByTag checks tag uniqueness
	ExistsByTag(ctx context.Context, tag string) (bool, error)

	// FindAll lists animals matching the filter
	FindAll(ctx context.Context, filter CattleFilter) ([]Cattle, error)

	// Count counts animals matching the filter
	Count(ctx context.Context, filter CattleFilter) (int64, error)

	// Save creates or updates an animal
	Save(ctx context.Context, cattle *Cattle) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, cattle *Cattle) error
}
