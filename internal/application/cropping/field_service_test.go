package cropping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFieldService(fx *croppingFixture) *FieldService {
	return NewFieldService(fx.fields, persistence.NewGormProductionRepository(fx.db), shared.NewLegalEntities(), zap.NewNop())
}

func TestFieldService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newFieldService(newCroppingFixture(t))

	resp, err := svc.Create(ctx, CreateFieldRequest{
		Farm:               "Home",
		Name:               "North 80",
		Acres:              decimal.NewFromInt(80),
		Entity:             "M77 AG",
		Crops:              map[int]string{2026: "Corn"},
		MarketValuePerAcre: decimal.NewFromInt(6000),
	})
	require.NoError(t, err)
	assert.Equal(t, "owned", resp.RentType)
	assert.True(t, resp.LandValue.Equal(decimal.NewFromInt(480000)))

	_, err = svc.Create(ctx, CreateFieldRequest{
		Farm: "Home", Name: "South", Acres: decimal.NewFromInt(10), Entity: "Somebody Else LLC",
	})
	assert.True(t, shared.IsValidationError(err))

	_, err = svc.Create(ctx, CreateFieldRequest{
		Farm: "Home", Name: "Rented", Acres: decimal.NewFromInt(10), Entity: "M77 AG", RentType: "cash_rent",
	})
	assert.True(t, shared.IsValidationError(err))

	list, err := svc.List(ctx, common.PageQuery{}, "M77 AG")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFieldService_Budget(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	svc := newFieldService(fx)
	field := fx.addField(t, "North", 100, map[int]string{2026: "Corn"})

	_, err := fx.service.Create(ctx, seedRequest("CORN26", 100))
	require.NoError(t, err)

	empty, err := svc.Budget(ctx, field.ID, 2026)
	require.NoError(t, err)
	assert.Nil(t, empty.ActualYield)
	assert.True(t, empty.TotalCost.Equal(decimal.NewFromInt(10000)))

	projection, err := svc.SetProjection(ctx, field.ID, ProjectionRequest{
		Year:                 2026,
		ExpectedYieldPerAcre: decimal.NewFromInt(200),
		ExpectedPrice:        decimal.NewFromFloat(4.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Corn", projection.Crop)

	_, err = svc.RecordHarvest(ctx, field.ID, HarvestRequest{
		Year:        2026,
		Bushels:     decimal.NewFromInt(20000),
		HarvestedAt: time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	budget, err := svc.Budget(ctx, field.ID, 2026)
	require.NoError(t, err)
	assert.True(t, budget.ProjectedRevenue.Equal(decimal.NewFromInt(90000)))
	require.NotNil(t, budget.ActualYield)
	assert.True(t, budget.ActualYield.Equal(decimal.NewFromInt(200)))

	_, err = svc.Budget(ctx, uuid.New(), 2026)
	assert.True(t, shared.IsNotFound(err))
}
