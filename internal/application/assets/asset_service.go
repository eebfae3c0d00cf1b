package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// AssetService manages the equipment, real estate and manual adjustments
// that feed the net-worth statement
type AssetService struct {
	equipmentRepo  assets.EquipmentRepository
	realEstateRepo assets.RealEstateRepository
	adjustmentRepo assets.AdjustmentRepository
	entities       shared.LegalEntities
	logger         *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(
	equipmentRepo assets.EquipmentRepository,
	realEstateRepo assets.RealEstateRepository,
	adjustmentRepo assets.AdjustmentRepository,
	entities shared.LegalEntities,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		equipmentRepo:  equipmentRepo,
		realEstateRepo: realEstateRepo,
		adjustmentRepo: adjustmentRepo,
		entities:       entities,
		logger:         logger,
	}
}

// CreateEquipment registers a machine under a known entity
func (s *AssetService) CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (*EquipmentResponse, error) {
	if err := s.entities.Validate(req.Entity); err != nil {
		return nil, err
	}
	e, err := assets.NewEquipment(assets.NewEquipmentParams{
		Name:          req.Name,
		Category:      req.Category,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		SerialNumber:  req.SerialNumber,
		Entity:        req.Entity,
		PurchasePrice: req.PurchasePrice,
		CurrentValue:  req.CurrentValue,
		LoanBalance:   req.LoanBalance,
	})
	if err != nil {
		return nil, err
	}
	if err := s.equipmentRepo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save equipment: %w", err)
	}
	s.logger.Info("Equipment registered", zap.String("equipment_id", e.ID.String()), zap.String("name", e.Name))
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// GetEquipment returns a machine
func (s *AssetService) GetEquipment(ctx context.Context, id uuid.UUID) (*EquipmentResponse, error) {
	e, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// ListEquipment returns machines ordered by name
func (s *AssetService) ListEquipment(ctx context.Context, f AssetListFilter) ([]EquipmentResponse, error) {
	filter := f.PageQuery.Filter("name")
	filter.Filters = map[string]interface{}{}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Entity != "" {
		filter.Filters["entity"] = f.Entity
	}
	rows, err := s.equipmentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]EquipmentResponse, len(rows))
	for i := range rows {
		out[i] = ToEquipmentResponse(&rows[i])
	}
	return out, nil
}

// ListForSale puts a machine on the market so buyers can make offers
func (s *AssetService) ListForSale(ctx context.Context, id uuid.UUID, req ListForSaleRequest) (*EquipmentResponse, error) {
	e, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.ListForSale(req.AskingPrice); err != nil {
		return nil, err
	}
	if err := s.equipmentRepo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Equipment listed for sale", zap.String("equipment_id", e.ID.String()), zap.String("asking", e.AskingPrice.StringFixed(2)))
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// CreateRealEstate registers a parcel or building under a known entity
func (s *AssetService) CreateRealEstate(ctx context.Context, req CreateRealEstateRequest) (*RealEstateResponse, error) {
	if err := s.entities.Validate(req.Entity); err != nil {
		return nil, err
	}
	addr := valueobject.Address{
		Street: strings.TrimSpace(req.Address.Street),
		City:   strings.TrimSpace(req.Address.City),
		County: strings.TrimSpace(req.Address.County),
		State:  strings.ToUpper(strings.TrimSpace(req.Address.State)),
		Zip:    strings.TrimSpace(req.Address.Zip),
	}
	r, err := assets.NewRealEstate(req.Name, req.Entity, req.Acres, addr, req.MarketValue, req.LoanBalance)
	if err != nil {
		return nil, err
	}
	if err := s.realEstateRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save real estate: %w", err)
	}
	s.logger.Info("Real estate registered", zap.String("property_id", r.ID.String()), zap.String("name", r.Name))
	resp := ToRealEstateResponse(r)
	return &resp, nil
}

// ListRealEstate returns parcels ordered by name
func (s *AssetService) ListRealEstate(ctx context.Context, f AssetListFilter) ([]RealEstateResponse, error) {
	filter := f.PageQuery.Filter("name")
	if f.Entity != "" {
		filter.Filters = map[string]interface{}{"entity": f.Entity}
	}
	rows, err := s.realEstateRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]RealEstateResponse, len(rows))
	for i := range rows {
		out[i] = ToRealEstateResponse(&rows[i])
	}
	return out, nil
}

// ReplaceAdjustments overwrites the manual asset and liability lines of an
// entity, creating the record on first use
func (s *AssetService) ReplaceAdjustments(ctx context.Context, name string, req UpdateAdjustmentsRequest) (*AdjustmentsResponse, error) {
	if err := s.entities.Validate(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	adj, err := s.adjustmentRepo.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		adj = assets.NewEntityAdjustments(name)
	}
	if err := adj.Replace(toLineItems(req.AdditionalAssets), toLineItems(req.AdditionalLiabilities)); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return nil, fmt.Errorf("failed to save adjustments: %w", err)
	}
	s.logger.Info("Net-worth adjustments replaced",
		zap.String("entity", name),
		zap.Int("assets", len(adj.AdditionalAssets)),
		zap.Int("liabilities", len(adj.AdditionalLiabilities)),
	)
	resp := ToAdjustmentsResponse(adj)
	return &resp, nil
}
