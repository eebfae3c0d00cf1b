package assets

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
)

// EquipmentRepository defines the interface for equipment persistence
type EquipmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Equipment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Equipment, error)
	Save(ctx context.Context, equipment *Equipment) error
	SaveWithLock(ctx context.Context, equipment *Equipment) error
}

// RealEstateRepository defines the interface for real estate persistence
type RealEstateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RealEstate, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RealEstate, error)
	Save(ctx context.Context, property *RealEstate) error
}

// AdjustmentRepository stores the manual net-worth lines per entity
type AdjustmentRepository interface {
	FindByName(ctx context.Context, name string) (*EntityAdjustments, error)
	FindAll(ctx context.Context) ([]EntityAdjustments, error)
	Save(ctx context.Context, adj *EntityAdjustments) error
}
