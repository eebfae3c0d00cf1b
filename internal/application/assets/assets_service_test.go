package assets

import (
	"context"
	"testing"
	"time"

	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testEntities = shared.NewLegalEntities("M77 AG", "McConnell Enterprises")

type assetsFixture struct {
	src      NetWorthSources
	assets   *AssetService
	netWorth *NetWorthService
}

func newAssetsFixture(t *testing.T) *assetsFixture {
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

	src := NetWorthSources{
		Equipment:          persistence.NewGormEquipmentRepository(db),
		RealEstate:         persistence.NewGormRealEstateRepository(db),
		Adjustments:        persistence.NewGormAdjustmentRepository(db),
		Fields:             persistence.NewGormFieldRepository(db),
		CapitalInvestments: persistence.NewGormCapitalInvestmentRepository(db),
		Loans:              persistence.NewGormLoanRepository(db),
	}
	return &assetsFixture{
		src:      src,
		assets:   NewAssetService(src.Equipment, src.RealEstate, src.Adjustments, testEntities, zap.NewNop()),
		netWorth: NewNetWorthService(src, testEntities, "M77 AG", zap.NewNop()),
	}
}

func TestAssetService_RejectsUnknownEntity(t *testing.T) {
	ctx := context.Background()
	f := newAssetsFixture(t)

	_, err := f.assets.CreateEquipment(ctx, CreateEquipmentRequest{Name: "Baler", Entity: "Someone Else"})
	assert.True(t, shared.IsValidationError(err))

	_, err = f.assets.CreateRealEstate(ctx, CreateRealEstateRequest{Name: "Shop", Entity: "Someone Else"})
	assert.True(t, shared.IsValidationError(err))

	_, err = f.assets.ReplaceAdjustments(ctx, "Someone Else", UpdateAdjustmentsRequest{})
	assert.True(t, shared.IsValidationError(err))
}

func TestAssetService_EquipmentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newAssetsFixture(t)

	created, err := f.assets.CreateEquipment(ctx, CreateEquipmentRequest{
		Name:          "8R 370",
		Make:          "John Deere",
		Year:          2021,
		Entity:        "M77 AG",
		PurchasePrice: decimal.NewFromInt(400000),
		CurrentValue:  decimal.NewFromInt(310000),
		LoanBalance:   decimal.NewFromInt(120000),
	})
	require.NoError(t, err)
	assert.Equal(t, "owned", created.Status)
	assert.True(t, created.Equity.Equal(decimal.NewFromInt(190000)))

	listed, err := f.assets.ListForSale(ctx, created.ID, ListForSaleRequest{AskingPrice: decimal.NewFromInt(325000)})
	require.NoError(t, err)
	assert.Equal(t, "for_sale", listed.Status)

	forSale, err := f.assets.ListEquipment(ctx, AssetListFilter{Status: "for_sale"})
	require.NoError(t, err)
	require.Len(t, forSale, 1)
	assert.True(t, forSale[0].AskingPrice.Equal(decimal.NewFromInt(325000)))

	owned, err := f.assets.ListEquipment(ctx, AssetListFilter{Status: "owned"})
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestAssetService_ReplaceAdjustments(t *testing.T) {
	ctx := context.Background()
	f := newAssetsFixture(t)

	first, err := f.assets.ReplaceAdjustments(ctx, "M77 AG", UpdateAdjustmentsRequest{
		AdditionalAssets: []LineItemRequest{{Description: "Stored grain", Amount: decimal.NewFromInt(8000)}},
	})
	require.NoError(t, err)
	assert.True(t, first.TotalAssets.Equal(decimal.NewFromInt(8000)))

	second, err := f.assets.ReplaceAdjustments(ctx, "M77 AG", UpdateAdjustmentsRequest{
		AdditionalAssets:      []LineItemRequest{{Description: "Stored grain", Amount: decimal.NewFromInt(10000)}},
		AdditionalLiabilities: []LineItemRequest{{Description: "Accrued taxes", Amount: decimal.NewFromInt(2500)}},
	})
	require.NoError(t, err)
	assert.True(t, second.TotalAssets.Equal(decimal.NewFromInt(10000)))
	assert.True(t, second.TotalLiabilities.Equal(decimal.NewFromInt(2500)))

	all, err := f.src.Adjustments.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = f.assets.ReplaceAdjustments(ctx, "M77 AG", UpdateAdjustmentsRequest{
		AdditionalAssets: []LineItemRequest{{Description: "", Amount: decimal.NewFromInt(1)}},
	})
	assert.True(t, shared.IsValidationError(err))
}

func TestNetWorthService_Summarize(t *testing.T) {
	ctx := context.Background()
	f := newAssetsFixture(t)

	_, err := f.assets.CreateEquipment(ctx, CreateEquipmentRequest{
		Name: "Combine", Entity: "M77 AG", CurrentValue: decimal.NewFromInt(50000), LoanBalance: decimal.NewFromInt(20000),
	})
	require.NoError(t, err)

	sold, err := assets.NewEquipment(assets.NewEquipmentParams{Name: "Old swather", Entity: "M77 AG", CurrentValue: decimal.NewFromInt(9000)})
	require.NoError(t, err)
	require.NoError(t, sold.MarkSold())
	require.NoError(t, f.src.Equipment.Save(ctx, sold))

	legacy, err := assets.NewEquipment(assets.NewEquipmentParams{Name: "Grain cart", Entity: "Old Co", CurrentValue: decimal.NewFromInt(7000)})
	require.NoError(t, err)
	require.NoError(t, f.src.Equipment.Save(ctx, legacy))

	_, err = f.assets.CreateRealEstate(ctx, CreateRealEstateRequest{
		Name: "Town house", Entity: "McConnell Enterprises", Address: AddressRequest{State: "ks"},
		MarketValue: decimal.NewFromInt(300000), LoanBalance: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	_, err = f.assets.ReplaceAdjustments(ctx, "M77 AG", UpdateAdjustmentsRequest{
		AdditionalAssets:      []LineItemRequest{{Description: "Stored grain", Amount: decimal.NewFromInt(10000)}},
		AdditionalLiabilities: []LineItemRequest{{Description: "Accrued taxes", Amount: decimal.NewFromInt(2500)}},
	})
	require.NoError(t, err)

	owned, err := cropping.NewField(cropping.NewFieldParams{
		Farm: "Home", Name: "North", Acres: decimal.NewFromInt(160), Entity: "M77 AG", MarketValuePerAcre: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	require.NoError(t, f.src.Fields.Save(ctx, owned))
	rented, err := cropping.NewField(cropping.NewFieldParams{
		Farm: "Home", Name: "South", Acres: decimal.NewFromInt(80), Entity: "M77 AG", RentType: cropping.RentCashRent,
		Landlord: "Smith", CashRentPerAcre: decimal.NewFromInt(90), MarketValuePerAcre: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	require.NoError(t, f.src.Fields.Save(ctx, rented))

	land, err := finance.NewCapitalInvestment("Home quarter", finance.InvestmentLand, "M77 AG", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(200000))
	require.NoError(t, err)
	require.NoError(t, f.src.CapitalInvestments.Save(ctx, land))
	loan, err := finance.NewLoan(finance.NewLoanParams{
		Lender:              "Farm Credit",
		LoanType:            finance.LoanTypeRealEstate,
		Entity:              "M77 AG",
		OriginalAmount:      decimal.NewFromInt(100000),
		PaymentAmount:       decimal.NewFromInt(10000),
		PaymentFrequency:    finance.FrequencyAnnual,
		OriginationDate:     time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		CapitalInvestmentID: &land.ID,
	})
	require.NoError(t, err)
	require.NoError(t, f.src.Loans.Save(ctx, loan))

	summary, err := f.netWorth.Summarize(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Entities, 2)

	farm := summary.Entities[0]
	assert.Equal(t, "M77 AG", farm.Name)
	assert.True(t, farm.Equipment.Equal(decimal.NewFromInt(50000)))
	assert.True(t, farm.FarmLand.Equal(decimal.NewFromInt(640000)))
	assert.True(t, farm.OtherAssets.Equal(decimal.NewFromInt(10000)))
	assert.True(t, farm.TotalAssets.Equal(decimal.NewFromInt(700000)))
	assert.True(t, farm.LandDebt.Equal(decimal.NewFromInt(100000)))
	assert.True(t, farm.TotalLiabilities.Equal(decimal.NewFromInt(122500)))
	assert.True(t, farm.NetWorth.Equal(decimal.NewFromInt(577500)))

	family := summary.Entities[1]
	assert.True(t, family.NetWorth.Equal(decimal.NewFromInt(200000)))

	grand := summary.GrandTotal
	assert.True(t, grand.TotalAssets.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, grand.TotalAssets.Sub(grand.TotalLiabilities).Equal(grand.NetWorth))
	assert.True(t, grand.NetWorth.Equal(decimal.NewFromInt(777500)))

	require.NotNil(t, summary.Unassigned)
	assert.True(t, summary.Unassigned.Equipment.Equal(decimal.NewFromInt(7000)))
	assert.Equal(t, []string{"equipment: Grain cart"}, summary.Unassigned.UnassignedRecords)
}
