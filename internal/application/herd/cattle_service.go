package herd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CattleService handles herd records
type CattleService struct {
	cattleRepo herd.CattleRepository
	txScope    common.TransactionScope
	logger     *zap.Logger
	now        func() time.Time
}

// NewCattleService creates a new CattleService
func NewCattleService(cattleRepo herd.CattleRepository, txScope common.TransactionScope, logger *zap.Logger) *CattleService {
	return &CattleService{
		cattleRepo: cattleRepo,
		txScope:    txScope,
		logger:     logger,
		now:        time.Now,
	}
}

// Create registers an animal. Dam and sire tags found in the herd are
// linked by id; unknown tags stay as tag-only references.
func (s *CattleService) Create(ctx context.Context, req CreateCattleRequest) (*CattleResponse, error) {
	exists, err := s.cattleRepo.ExistsByTag(ctx, req.TagNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("Tag %s is already in the herd", herd.NormalizeTag(req.TagNumber)))
	}

	dam, err := s.parentRef(ctx, s.cattleRepo, req.DamTag)
	if err != nil {
		return nil, err
	}
	sire, err := s.parentRef(ctx, s.cattleRepo, req.SireTag)
	if err != nil {
		return nil, err
	}

	animal, err := herd.NewCattle(herd.NewCattleParams{
		TagNumber:      req.TagNumber,
		Name:           req.Name,
		Breed:          req.Breed,
		Sex:            herd.Sex(req.Sex),
		BirthDate:      req.BirthDate,
		Dam:            dam,
		Sire:           sire,
		Pasture:        req.Pasture,
		PurchasePrice:  req.PurchasePrice,
		EstimatedValue: req.EstimatedValue,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cattleRepo.Save(ctx, animal); err != nil {
		return nil, fmt.Errorf("failed to save animal: %w", err)
	}

	s.logger.Info("Animal registered", zap.String("tag_number", animal.TagNumber), zap.String("sex", string(animal.Sex)))
	return s.respond(animal), nil
}

// Update replaces the descriptive attributes of an animal
func (s *CattleService) Update(ctx context.Context, id uuid.UUID, req UpdateCattleRequest) (*CattleResponse, error) {
	details := herd.CattleDetails{
		Name:        req.Name,
		Breed:       req.Breed,
		Pasture:     req.Pasture,
		Notes:       req.Notes,
		BirthDate:   req.BirthDate,
		MarketValue: req.MarketValue,
	}
	if req.Status != nil {
		status := herd.Status(*req.Status)
		details.Status = &status
	}
	return s.mutate(ctx, id, func(c *herd.Cattle) error { return c.Update(details) })
}

// GetByID returns one animal
func (s *CattleService) GetByID(ctx context.Context, id uuid.UUID) (*CattleResponse, error) {
	animal, err := s.cattleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(animal), nil
}

// List returns a page of animals
func (s *CattleService) List(ctx context.Context, f CattleListFilter) (shared.Paginated[CattleResponse], error) {
	filter := herd.CattleFilter{
		Filter:  f.PageQuery.Filter("tag_number"),
		Pasture: f.Pasture,
		DamTag:  f.DamTag,
	}
	if f.PageQuery.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	if f.Status != "" {
		status := herd.Status(f.Status)
		filter.Status = &status
	}
	if f.Sex != "" {
		sex := herd.Sex(f.Sex)
		filter.Sex = &sex
	}

	animals, err := s.cattleRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CattleResponse]{}, err
	}
	total, err := s.cattleRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[CattleResponse]{}, err
	}
	now := s.now()
	items := make([]CattleResponse, len(animals))
	for i := range animals {
		items[i] = ToCattleResponse(&animals[i], now)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// AddWeight records a weigh-in
func (s *CattleService) AddWeight(ctx context.Context, id uuid.UUID, req WeightRequest) (*CattleResponse, error) {
	on := req.Date
	if on.IsZero() {
		on = s.now()
	}
	return s.mutate(ctx, id, func(c *herd.Cattle) error { return c.AddWeight(on, req.Weight, req.Notes) })
}

// AddHealthRecord records a treatment
func (s *CattleService) AddHealthRecord(ctx context.Context, id uuid.UUID, req HealthRequest) (*CattleResponse, error) {
	return s.mutate(ctx, id, func(c *herd.Cattle) error {
		_, err := c.AddHealthRecord(herd.HealthRecord{
			Date:           req.Date,
			Treatment:      req.Treatment,
			Medication:     req.Medication,
			Dosage:         req.Dosage,
			WithdrawalDays: req.WithdrawalDays,
			Veterinarian:   req.Veterinarian,
		})
		return err
	})
}

// AddBreeding records a breeding
func (s *CattleService) AddBreeding(ctx context.Context, id uuid.UUID, req BreedingRequest) (*CattleResponse, error) {
	return s.mutate(ctx, id, func(c *herd.Cattle) error {
		_, err := c.AddBreeding(req.Date, herd.BreedingMethod(req.Method), req.SireTag)
		return err
	})
}

// Sell marks an animal sold
func (s *CattleService) Sell(ctx context.Context, id uuid.UUID, req SellRequest) (*CattleResponse, error) {
	on := req.SoldOn
	if on.IsZero() {
		on = s.now()
	}
	resp, err := s.mutate(ctx, id, func(c *herd.Cattle) error { return c.MarkSold(on, req.Price) })
	if err != nil {
		return nil, err
	}
	s.logger.Info("Animal sold", zap.String("tag_number", resp.TagNumber), zap.String("price", req.Price.StringFixed(2)))
	return resp, nil
}

// RecordCalving registers a calf and appends it to the dam's calving
// history in one transaction. The dam is saved with a version check.
func (s *CattleService) RecordCalving(ctx context.Context, damID uuid.UUID, req CalvingRequest) (*CalvingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "herd", "record_calving", telemetry.SpanAttrTagNumber, req.CalfTag)
	defer span.End()

	var dam, calf *herd.Cattle
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		cattle := repos.Cattle()
		var err error
		dam, err = cattle.FindByID(ctx, damID)
		if err != nil {
			return err
		}
		exists, err := cattle.ExistsByTag(ctx, req.CalfTag)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("Tag %s is already in the herd", herd.NormalizeTag(req.CalfTag)))
		}
		sire, err := s.parentRef(ctx, cattle, req.SireTag)
		if err != nil {
			return err
		}

		damRef := dam.ID
		birth := req.BirthDate
		calf, err = herd.NewCattle(herd.NewCattleParams{
			TagNumber: req.CalfTag,
			Breed:     dam.Breed,
			Sex:       herd.Sex(req.Sex),
			BirthDate: &birth,
			Dam:       herd.ParentRef{TagNumber: dam.TagNumber, ID: &damRef},
			Sire:      sire,
			Pasture:   dam.Pasture,
		})
		if err != nil {
			return err
		}
		if req.BirthWeight.IsPositive() {
			if err := calf.AddWeight(birth, req.BirthWeight, "birth weight"); err != nil {
				return err
			}
		}
		if err := dam.RecordCalving(calf, herd.CalvingEase(req.Ease), req.Notes); err != nil {
			return err
		}
		if err := cattle.Save(ctx, calf); err != nil {
			return fmt.Errorf("failed to save calf: %w", err)
		}
		return cattle.SaveWithLock(ctx, dam)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Calving recorded", zap.String("dam", dam.TagNumber), zap.String("calf", calf.TagNumber))
	now := s.now()
	return &CalvingResponse{Dam: ToCattleResponse(dam, now), Calf: ToCattleResponse(calf, now)}, nil
}

// Summary counts and values the herd
func (s *CattleService) Summary(ctx context.Context) (*SummaryResponse, error) {
	animals, err := s.cattleRepo.FindAll(ctx, herd.CattleFilter{Filter: shared.Unpaged()})
	if err != nil {
		return nil, err
	}
	resp := toSummaryResponse(herd.Summarize(animals, s.now()))
	return &resp, nil
}

// mutate loads an animal, applies one change and saves it with a version check
func (s *CattleService) mutate(ctx context.Context, id uuid.UUID, change func(*herd.Cattle) error) (*CattleResponse, error) {
	animal, err := s.cattleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(animal); err != nil {
		return nil, err
	}
	if err := s.cattleRepo.SaveWithLock(ctx, animal); err != nil {
		return nil, err
	}
	return s.respond(animal), nil
}

func (s *CattleService) parentRef(ctx context.Context, repo herd.CattleRepository, tag string) (herd.ParentRef, error) {
	tag = herd.NormalizeTag(tag)
	if tag == "" {
		return herd.ParentRef{}, nil
	}
	parent, err := repo.FindByTag(ctx, tag)
	if err != nil {
		if shared.IsNotFound(err) {
			return herd.ParentRef{TagNumber: tag}, nil
		}
		return herd.ParentRef{}, err
	}
	id := parent.ID
	return herd.ParentRef{TagNumber: tag, ID: &id}, nil
}

func (s *CattleService) respond(c *herd.Cattle) *CattleResponse {
	resp := ToCattleResponse(c, s.now())
	return &resp
}
