package cropping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FieldService manages cropping fields and their production records
type FieldService struct {
	fieldRepo      cropping.FieldRepository
	productionRepo cropping.ProductionRepository
	entities       shared.LegalEntities
	logger         *zap.Logger
}

// NewFieldService creates a new FieldService
func NewFieldService(
	fieldRepo cropping.FieldRepository,
	productionRepo cropping.ProductionRepository,
	entities shared.LegalEntities,
	logger *zap.Logger,
) *FieldService {
	return &FieldService{
		fieldRepo:      fieldRepo,
		productionRepo: productionRepo,
		entities:       entities,
		logger:         logger,
	}
}

// Create registers a field owned or rented by one of the legal entities
func (s *FieldService) Create(ctx context.Context, req CreateFieldRequest) (*FieldResponse, error) {
	if err := s.entities.Validate(req.Entity); err != nil {
		return nil, err
	}
	field, err := cropping.NewField(cropping.NewFieldParams{
		Farm:               req.Farm,
		Name:               req.Name,
		Acres:              req.Acres,
		Entity:             req.Entity,
		Crops:              req.Crops,
		RentType:           cropping.RentType(req.RentType),
		Landlord:           req.Landlord,
		CashRentPerAcre:    req.CashRentPerAcre,
		CropSharePercent:   req.CropSharePercent,
		MarketValuePerAcre: req.MarketValuePerAcre,
	})
	if err != nil {
		return nil, err
	}
	if err := s.fieldRepo.Save(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to save field: %w", err)
	}

	s.logger.Info("Field registered",
		zap.String("field_id", field.ID.String()),
		zap.String("farm", field.Farm),
		zap.String("field", field.Name),
	)
	resp := ToFieldResponse(field)
	return &resp, nil
}

// GetByID returns one field with its rolled-up costs
func (s *FieldService) GetByID(ctx context.Context, id uuid.UUID) (*FieldResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFieldResponse(field)
	return &resp, nil
}

// List returns fields, optionally limited to one entity
func (s *FieldService) List(ctx context.Context, q common.PageQuery, entity string) ([]FieldResponse, error) {
	filter := q.Filter("farm")
	filter.OrderDir = orDefault(q.OrderDir, "asc")
	if entity != "" {
		filter.Filters["entity"] = entity
	}
	fields, err := s.fieldRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]FieldResponse, len(fields))
	for i := range fields {
		out[i] = ToFieldResponse(&fields[i])
	}
	return out, nil
}

// SetProjection saves the expected yield and price of a field's crop for a
// year. The crop defaults to the one planted that year.
func (s *FieldService) SetProjection(ctx context.Context, fieldID uuid.UUID, req ProjectionRequest) (*ProjectionResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	crop := orDefault(req.Crop, field.CropFor(req.Year))
	projection, err := cropping.NewProjection(field.ID, req.Year, crop, req.ExpectedYieldPerAcre, req.ExpectedPrice)
	if err != nil {
		return nil, err
	}
	if err := s.productionRepo.SaveProjection(ctx, projection); err != nil {
		return nil, fmt.Errorf("failed to save projection: %w", err)
	}
	return &ProjectionResponse{
		FieldID:              projection.FieldID,
		Year:                 projection.Year,
		Crop:                 projection.Crop,
		ExpectedYieldPerAcre: projection.ExpectedYieldPerAcre,
		ExpectedPrice:        projection.ExpectedPrice,
	}, nil
}

// RecordHarvest adds a harvest ticket to a field
func (s *FieldService) RecordHarvest(ctx context.Context, fieldID uuid.UUID, req HarvestRequest) (*HarvestResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	at := req.HarvestedAt
	if at.IsZero() {
		at = time.Now()
	}
	crop := orDefault(req.Crop, field.CropFor(req.Year))
	harvest, err := cropping.NewHarvest(field.ID, req.Year, crop, req.Bushels, req.MoisturePercent, at)
	if err != nil {
		return nil, err
	}
	if err := s.productionRepo.SaveHarvest(ctx, harvest); err != nil {
		return nil, fmt.Errorf("failed to save harvest: %w", err)
	}
	return &HarvestResponse{
		ID:              harvest.ID,
		FieldID:         harvest.FieldID,
		Year:            harvest.Year,
		Crop:            harvest.Crop,
		Bushels:         harvest.Bushels,
		MoisturePercent: harvest.MoisturePercent,
		HarvestedAt:     harvest.HarvestedAt,
	}, nil
}

// Budget returns the projected and actual economics of a field for a year
func (s *FieldService) Budget(ctx context.Context, fieldID uuid.UUID, year int) (*BudgetResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	projection, err := s.productionRepo.FindProjection(ctx, fieldID, year)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		projection = nil
	}
	harvests, err := s.productionRepo.FindHarvests(ctx, fieldID, year)
	if err != nil {
		return nil, err
	}
	resp := toBudgetResponse(cropping.BuildFieldBudget(field, year, projection, harvests))
	return &resp, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
