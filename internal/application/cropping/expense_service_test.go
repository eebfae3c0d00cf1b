package cropping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockReceiptStorage is a mock implementation of ReceiptStorage
type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStorage) DownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type croppingFixture struct {
	db       *gorm.DB
	fields   *persistence.GormFieldRepository
	expenses *persistence.GormExpenseRepository
	service  *ExpenseService
}

func newCroppingFixture(t *testing.T) *croppingFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, (&persistence.Database{DB: db}).AutoMigrate(context.Background()))

	expenses := persistence.NewGormExpenseRepository(db)
	return &croppingFixture{
		db:       db,
		fields:   persistence.NewGormFieldRepository(db),
		expenses: expenses,
		service:  NewExpenseService(expenses, persistence.NewGormTransactionScope(db), zap.NewNop()),
	}
}

func (f *croppingFixture) addField(t *testing.T, name string, acres int64, crops map[int]string) *cropping.Field {
	t.Helper()
	field, err := cropping.NewField(cropping.NewFieldParams{
		Farm:               "Home",
		Name:               name,
		Acres:              decimal.NewFromInt(acres),
		Entity:             "M77 AG",
		Crops:              crops,
		MarketValuePerAcre: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	require.NoError(t, f.fields.Save(context.Background(), field))
	return field
}

func (f *croppingFixture) costs(t *testing.T, id uuid.UUID, year int) cropping.CostBuckets {
	t.Helper()
	field, err := f.fields.FindByID(context.Background(), id)
	require.NoError(t, err)
	return field.CostsFor(year)
}

func seedRequest(code string, perAcre int64) CreateExpenseRequest {
	return CreateExpenseRequest{
		CropCode:    code,
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Seed corn",
		Category:    string(cropping.CategorySeed),
		CostPerAcre: decimal.NewFromInt(perAcre),
		Vendor:      "Pioneer",
	}
}

func TestExpenseService_CreateAllocatesByCropCode(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	north := fx.addField(t, "North", 100, map[int]string{2026: "Corn"})
	south := fx.addField(t, "South", 50, map[int]string{2026: "corn", 2025: "Soybeans"})
	west := fx.addField(t, "West", 80, map[int]string{2026: "Soybeans"})

	resp, err := fx.service.Create(ctx, seedRequest("corn26", 10))
	require.NoError(t, err)

	assert.Equal(t, "CORN26", resp.CropCode)
	assert.Equal(t, 2026, resp.Year)
	assert.Len(t, resp.Fields, 2)
	assert.True(t, resp.TotalAcres.Equal(decimal.NewFromInt(150)))
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(1500)))

	assert.True(t, fx.costs(t, north.ID, 2026).Seed.Equal(decimal.NewFromInt(10)))
	assert.True(t, fx.costs(t, south.ID, 2026).Seed.Equal(decimal.NewFromInt(10)))
	assert.True(t, fx.costs(t, west.ID, 2026).IsZero())
}

func TestExpenseService_CreateWithoutMatchingFields(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	fx.addField(t, "North", 100, map[int]string{2026: "Corn"})

	_, err := fx.service.Create(ctx, seedRequest("CORN27", 10))
	require.Error(t, err)
	assert.True(t, shared.IsValidationError(err))

	_, err = fx.service.Create(ctx, seedRequest("CORN", 10))
	assert.True(t, shared.IsValidationError(err))

	count, err := fx.expenses.Count(ctx, cropping.ExpenseFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExpenseService_CreateWithExplicitFields(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	north := fx.addField(t, "North", 100, nil)

	req := seedRequest("CORN26", 12)
	req.FieldIDs = []uuid.UUID{north.ID}
	resp, err := fx.service.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(1200)))

	req.FieldIDs = []uuid.UUID{north.ID, uuid.New()}
	_, err = fx.service.Create(ctx, req)
	assert.True(t, shared.IsNotFound(err))

	// the failed create rolled back and left the first rollup alone
	assert.True(t, fx.costs(t, north.ID, 2026).Seed.Equal(decimal.NewFromInt(12)))
}

func TestExpenseService_DeleteRecomputesToZero(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	north := fx.addField(t, "North", 100, map[int]string{2026: "Corn"})
	south := fx.addField(t, "South", 50, map[int]string{2026: "Corn"})

	seed, err := fx.service.Create(ctx, seedRequest("CORN26", 10))
	require.NoError(t, err)
	fert := seedRequest("CORN26", 40)
	fert.Category = string(cropping.CategoryFertilizer)
	fert.Description = "Anhydrous"
	_, err = fx.service.Create(ctx, fert)
	require.NoError(t, err)

	require.NoError(t, fx.service.Delete(ctx, seed.ID))

	for _, id := range []uuid.UUID{north.ID, south.ID} {
		buckets := fx.costs(t, id, 2026)
		assert.True(t, buckets.Seed.IsZero())
		assert.True(t, buckets.Fertilizer.Equal(decimal.NewFromInt(40)))
	}

	summary, err := fx.service.SummaryByCropCode(ctx, "CORN26")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ExpenseCount)
	assert.True(t, summary.TotalCost.Equal(decimal.NewFromInt(6000)))

	_, err = fx.service.GetByID(ctx, seed.ID)
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, shared.IsNotFound(fx.service.Delete(ctx, seed.ID)))
}

func TestExpenseService_UpdateMovesAllocation(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	corn := fx.addField(t, "North", 100, map[int]string{2026: "Corn"})
	beans := fx.addField(t, "West", 80, map[int]string{2027: "Soybeans"})

	created, err := fx.service.Create(ctx, seedRequest("CORN26", 10))
	require.NoError(t, err)

	req := seedRequest("SOYBEANS27", 15)
	updated, err := fx.service.Update(ctx, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, 2027, updated.Year)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, beans.ID, updated.Fields[0].FieldID)
	assert.Equal(t, created.Version+1, updated.Version)

	assert.True(t, fx.costs(t, corn.ID, 2026).IsZero())
	assert.True(t, fx.costs(t, beans.ID, 2027).Seed.Equal(decimal.NewFromInt(15)))

	// same code, new price: the existing allocation is kept
	req.CostPerAcre = decimal.NewFromInt(20)
	_, err = fx.service.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.True(t, fx.costs(t, beans.ID, 2027).Seed.Equal(decimal.NewFromInt(20)))
}

func TestExpenseService_UpdateKeepsAcreageSnapshot(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	north := fx.addField(t, "North", 100, map[int]string{2026: "Corn"})
	south := fx.addField(t, "South", 50, map[int]string{2026: "Corn"})

	created, err := fx.service.Create(ctx, seedRequest("CORN26", 10))
	require.NoError(t, err)
	require.True(t, created.TotalCost.Equal(decimal.NewFromInt(1500)))

	resized, err := fx.fields.FindByID(ctx, north.ID)
	require.NoError(t, err)
	resized.Acres = decimal.NewFromInt(300)
	require.NoError(t, fx.fields.Save(ctx, resized))

	req := seedRequest("CORN26", 10)
	req.Description = "Seed corn, treated"
	updated, err := fx.service.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Seed corn, treated", updated.Description)
	assert.True(t, updated.TotalAcres.Equal(decimal.NewFromInt(150)))
	assert.True(t, updated.TotalCost.Equal(decimal.NewFromInt(1500)))

	// a removed field no longer blocks edits to its old expenses
	require.NoError(t, fx.db.Exec("DELETE FROM fields WHERE id = ?", north.ID).Error)
	req.CostPerAcre = decimal.NewFromInt(12)
	updated, err = fx.service.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.TotalCost.Equal(decimal.NewFromInt(1800)))

	// explicit field ids retake the snapshot
	req.FieldIDs = []uuid.UUID{south.ID}
	updated, err = fx.service.Update(ctx, created.ID, req)
	require.NoError(t, err)
	require.Len(t, updated.Fields, 1)
	assert.True(t, updated.TotalCost.Equal(decimal.NewFromInt(600)))
	assert.True(t, fx.costs(t, south.ID, 2026).Seed.Equal(decimal.NewFromInt(12)))
}

func TestExpenseService_List(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	north := fx.addField(t, "North", 100, map[int]string{2026: "Corn", 2027: "Corn"})

	for _, code := range []string{"CORN26", "CORN26", "CORN27"} {
		_, err := fx.service.Create(ctx, seedRequest(code, 5))
		require.NoError(t, err)
	}

	page, err := fx.service.List(ctx, ExpenseListFilter{CropCode: "corn26"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = fx.service.List(ctx, ExpenseListFilter{FieldID: &north.ID, Year: 2027})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestExpenseService_AttachReceipt(t *testing.T) {
	ctx := context.Background()
	fx := newCroppingFixture(t)
	fx.addField(t, "North", 100, map[int]string{2026: "Corn"})
	created, err := fx.service.Create(ctx, seedRequest("CORN26", 10))
	require.NoError(t, err)

	t.Run("storage not configured", func(t *testing.T) {
		_, err := fx.service.AttachReceipt(ctx, created.ID, "r.pdf", "application/pdf", []byte("pdf"))
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	storage := new(MockReceiptStorage)
	fx.service.SetReceiptStorage(storage)

	t.Run("stores and links", func(t *testing.T) {
		storage.On("Put", ctx, mock.AnythingOfType("string"), []byte("pdf"), "application/pdf").
			Return("farm/receipts/2026/x.pdf", nil).Once()
		storage.On("DownloadURL", ctx, "farm/receipts/2026/x.pdf").Return("https://example.test/x.pdf", nil).Once()

		resp, err := fx.service.AttachReceipt(ctx, created.ID, "Receipt.PDF", "application/pdf", []byte("pdf"))
		require.NoError(t, err)
		assert.Equal(t, "farm/receipts/2026/x.pdf", resp.Key)
		assert.Equal(t, "https://example.test/x.pdf", resp.DownloadURL)

		key := storage.Calls[0].Arguments.String(1)
		assert.Contains(t, key, "receipts/2026/"+created.ID.String()+"/")
		assert.True(t, len(key) > 4 && key[len(key)-4:] == ".pdf")

		loaded, err := fx.service.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "farm/receipts/2026/x.pdf", loaded.ReceiptKey)
	})

	t.Run("upload failure", func(t *testing.T) {
		storage.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("denied")).Once()
		_, err := fx.service.AttachReceipt(ctx, created.ID, "r.jpg", "image/jpeg", []byte("jpg"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := fx.service.AttachReceipt(ctx, created.ID, "r.jpg", "image/jpeg", nil)
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("delete removes receipt", func(t *testing.T) {
		storage.On("Delete", ctx, "farm/receipts/2026/x.pdf").Return(nil).Once()
		require.NoError(t, fx.service.Delete(ctx, created.ID))
		storage.AssertExpectations(t)
	})
}

func TestDedupeTargets(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	out := dedupeTargets([]RollupTarget{{a, 2027}, {b, 2026}, {a, 2027}, {a, 2026}})
	require.Len(t, out, 3)
	assert.Equal(t, 2026, out[0].Year)
	assert.Equal(t, 2027, out[2].Year)
}
