package assets

import (
	"context"
	"fmt"

	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NetWorthSources are the repositories the rollup reads from
type NetWorthSources struct {
	Equipment          assets.EquipmentRepository
	RealEstate         assets.RealEstateRepository
	Adjustments        assets.AdjustmentRepository
	Fields             cropping.FieldRepository
	CapitalInvestments finance.CapitalInvestmentRepository
	Loans              finance.LoanRepository
}

// NetWorthService rolls the balance sheet up per legal entity
type NetWorthService struct {
	src            NetWorthSources
	entities       shared.LegalEntities
	farmlandEntity string
	logger         *zap.Logger
}

// NewNetWorthService creates a new NetWorthService
func NewNetWorthService(src NetWorthSources, entities shared.LegalEntities, farmlandEntity string, logger *zap.Logger) *NetWorthService {
	return &NetWorthService{
		src:            src,
		entities:       entities,
		farmlandEntity: farmlandEntity,
		logger:         logger,
	}
}

// Summarize returns the per-entity statements and the grand total
func (s *NetWorthService) Summarize(ctx context.Context) (*assets.NetWorthSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assets", "net_worth")
	defer span.End()

	in := assets.NetWorthInputs{Entities: s.entities, FarmlandEntity: s.farmlandEntity}
	all := shared.Unpaged()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Equipment, err = s.src.Equipment.FindAll(gctx, all)
		return wrap("equipment", err)
	})
	g.Go(func() (err error) {
		in.RealEstate, err = s.src.RealEstate.FindAll(gctx, all)
		return wrap("real estate", err)
	})
	g.Go(func() (err error) {
		in.Adjustments, err = s.src.Adjustments.FindAll(gctx)
		return wrap("adjustments", err)
	})
	g.Go(func() (err error) {
		in.Fields, err = s.src.Fields.FindAll(gctx, all)
		return wrap("fields", err)
	})
	g.Go(func() (err error) {
		in.CapitalInvestments, err = s.src.CapitalInvestments.FindAll(gctx, all)
		return wrap("capital investments", err)
	})
	g.Go(func() (err error) {
		in.Loans, err = s.src.Loans.FindAll(gctx, finance.LoanFilter{Filter: all})
		return wrap("loans", err)
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary := assets.SummarizeNetWorth(in)
	if summary.Unassigned != nil {
		s.logger.Warn("Records tagged with an unknown entity",
			zap.Strings("records", summary.Unassigned.UnassignedRecords),
		)
	}
	return &summary, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}
