package herd

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCattleRepository is a mock implementation of herd.CattleRepository
type MockCattleRepository struct {
	mock.Mock
}

func (m *MockCattleRepository) FindByID(ctx context.Context, id uuid.UUID) (*herd.Cattle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*herd.Cattle), args.Error(1)
}

func (m *MockCattleRepository) FindByTag(ctx context.Context, tag string) (*herd.Cattle, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*herd.Cattle), args.Error(1)
}

func (m *MockCattleRepository) ExistsByTag(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

func (m *MockCattleRepository) FindAll(ctx context.Context, filter herd.CattleFilter) ([]herd.Cattle, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]herd.Cattle), args.Error(1)
}

func (m *MockCattleRepository) Count(ctx context.Context, filter herd.CattleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCattleRepository) Save(ctx context.Context, c *herd.Cattle) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCattleRepository) SaveWithLock(ctx context.Context, c *herd.Cattle) error {
	return m.Called(ctx, c).Error(0)
}

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockCattleRepository) *CattleService {
	svc := NewCattleService(repo, common.NewNoOpTransactionScope(&common.Repositories{CattleRepo: repo}), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func newCow(t *testing.T, tag string) *herd.Cattle {
	t.Helper()
	born := time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC)
	cow, err := herd.NewCattle(herd.NewCattleParams{
		TagNumber:      tag,
		Breed:          "Angus",
		Sex:            herd.SexHeifer,
		BirthDate:      &born,
		Pasture:        "North",
		EstimatedValue: decimal.NewFromInt(1800),
	})
	require.NoError(t, err)
	return cow
}

func TestCattleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("links a known dam", func(t *testing.T) {
		repo := new(MockCattleRepository)
		svc := newTestService(repo)
		dam := newCow(t, "D-1")

		repo.On("ExistsByTag", ctx, "c-9").Return(false, nil)
		repo.On("FindByTag", ctx, "D-1").Return(dam, nil)
		repo.On("FindByTag", ctx, "OUTSIDE-BULL").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*herd.Cattle")).Return(nil)

		resp, err := svc.Create(ctx, CreateCattleRequest{
			TagNumber: "c-9", Sex: "steer", DamTag: "d-1", SireTag: "outside-bull",
		})
		require.NoError(t, err)
		assert.Equal(t, "C-9", resp.TagNumber)
		require.NotNil(t, resp.Dam.ID)
		assert.Equal(t, dam.ID, *resp.Dam.ID)
		assert.Nil(t, resp.Sire.ID)
		assert.Equal(t, "OUTSIDE-BULL", resp.Sire.TagNumber)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate tag", func(t *testing.T) {
		repo := new(MockCattleRepository)
		svc := newTestService(repo)
		repo.On("ExistsByTag", ctx, "A-1").Return(true, nil)

		_, err := svc.Create(ctx, CreateCattleRequest{TagNumber: "A-1", Sex: "cow"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCattleService_RecordCalving(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCattleRepository)
	svc := newTestService(repo)
	dam := newCow(t, "D-1")

	repo.On("FindByID", mock.Anything, dam.ID).Return(dam, nil)
	repo.On("ExistsByTag", mock.Anything, "D-1-26").Return(false, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *herd.Cattle) bool { return c.TagNumber == "D-1-26" })).Return(nil)
	repo.On("SaveWithLock", mock.Anything, dam).Return(nil)

	resp, err := svc.RecordCalving(ctx, dam.ID, CalvingRequest{
		CalfTag:     "D-1-26",
		Sex:         "heifer",
		BirthDate:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		BirthWeight: decimal.NewFromInt(78),
		Ease:        "unassisted",
	})
	require.NoError(t, err)

	assert.Equal(t, "cow", resp.Dam.Sex)
	require.Len(t, resp.Dam.CalvingHistory, 1)
	assert.Equal(t, "D-1-26", resp.Dam.CalvingHistory[0].CalfTag)
	assert.True(t, resp.Dam.CalvingHistory[0].BirthWeight.Equal(decimal.NewFromInt(78)))
	assert.Equal(t, 2, resp.Dam.Version)

	assert.Equal(t, "Angus", resp.Calf.Breed)
	assert.Equal(t, "North", resp.Calf.Pasture)
	require.NotNil(t, resp.Calf.Dam.ID)
	assert.Equal(t, dam.ID, *resp.Calf.Dam.ID)
	repo.AssertExpectations(t)
}

func TestCattleService_RecordCalvingConflict(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCattleRepository)
	svc := newTestService(repo)
	dam := newCow(t, "D-2")

	repo.On("FindByID", mock.Anything, dam.ID).Return(dam, nil)
	repo.On("ExistsByTag", mock.Anything, "D-2-26").Return(false, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	repo.On("SaveWithLock", mock.Anything, dam).Return(shared.ErrConcurrencyConflict)

	_, err := svc.RecordCalving(ctx, dam.ID, CalvingRequest{
		CalfTag: "D-2-26", Sex: "bull", BirthDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestCattleService_RecordCalvingRejectsSteer(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCattleRepository)
	svc := newTestService(repo)
	steer, err := herd.NewCattle(herd.NewCattleParams{TagNumber: "S-1", Sex: herd.SexSteer})
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, steer.ID).Return(steer, nil)
	repo.On("ExistsByTag", mock.Anything, "S-1-26").Return(false, nil)

	_, err = svc.RecordCalving(ctx, steer.ID, CalvingRequest{
		CalfTag: "S-1-26", Sex: "calf", BirthDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.True(t, shared.IsValidationError(err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCattleService_MutationsUseVersionCheck(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCattleRepository)
	svc := newTestService(repo)
	cow := newCow(t, "A-5")

	repo.On("FindByID", ctx, cow.ID).Return(cow, nil)
	repo.On("SaveWithLock", ctx, cow).Return(nil)

	resp, err := svc.AddHealthRecord(ctx, cow.ID, HealthRequest{
		Date: fixedNow.AddDate(0, 0, -2), Treatment: "Pinkeye", Medication: "LA-200", WithdrawalDays: 28,
	})
	require.NoError(t, err)
	assert.True(t, resp.InWithdrawal)

	_, err = svc.AddWeight(ctx, cow.ID, WeightRequest{Weight: decimal.NewFromInt(1150)})
	require.NoError(t, err)

	sold, err := svc.Sell(ctx, cow.ID, SellRequest{Price: decimal.NewFromInt(2100)})
	require.NoError(t, err)
	assert.Equal(t, "sold", sold.Status)

	_, err = svc.Sell(ctx, cow.ID, SellRequest{Price: decimal.NewFromInt(2100)})
	assert.True(t, shared.IsValidationError(err))
	repo.AssertNumberOfCalls(t, "SaveWithLock", 3)
}

func TestCattleService_Summary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCattleRepository)
	svc := newTestService(repo)

	a, b := newCow(t, "A-1"), newCow(t, "A-2")
	require.NoError(t, b.MarkSold(fixedNow, decimal.NewFromInt(1500)))
	repo.On("FindAll", ctx, mock.AnythingOfType("herd.CattleFilter")).Return([]herd.Cattle{*a, *b}, nil)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalHead)
	assert.Equal(t, 1, summary.ActiveHead)
	assert.Equal(t, 1, summary.ByStatus["sold"])
	assert.True(t, summary.MarketValue.Equal(decimal.NewFromInt(1800)))
}
