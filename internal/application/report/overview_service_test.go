package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/m77ag/backend/internal/domain/report"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/cache"
	"github.com/m77ag/backend/internal/infrastructure/export"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

type overviewFixture struct {
	db  *gorm.DB
	src Sources
}

func newOverviewFixture(t *testing.T) *overviewFixture {
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

	return &overviewFixture{
		db: db,
		src: Sources{
			BankAccounts:       persistence.NewGormBankAccountRepository(db),
			Invoices:           persistence.NewGormInvoiceRepository(db),
			CapitalInvestments: persistence.NewGormCapitalInvestmentRepository(db),
			Loans:              persistence.NewGormLoanRepository(db),
			Transactions:       persistence.NewGormTransactionRepository(db),
			Equipment:          persistence.NewGormEquipmentRepository(db),
			Cattle:             persistence.NewGormCattleRepository(db),
		},
	}
}

func (f *overviewFixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	account, err := finance.NewBankAccount("First State", "Operating", finance.AccountTypeChecking, "1234", "M77 AG", decimal.NewFromInt(10000))
	require.NoError(t, err)
	require.NoError(t, f.src.BankAccounts.Save(ctx, account))

	inv, err := finance.NewInvoice(finance.NewInvoiceParams{
		InvoiceNumber: "INV-2026-0001",
		Customer:      finance.Customer{Name: "Sale Barn"},
		Items:         []finance.InvoiceItem{{Description: "Steers", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(1500)}},
		IssueDate:     fixedNow.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	require.NoError(t, inv.Send(fixedNow.AddDate(0, -1, 0)))
	require.NoError(t, f.src.Invoices.Save(ctx, inv))

	tractor, err := assets.NewEquipment(assets.NewEquipmentParams{
		Name: "8R 370", Entity: "M77 AG", PurchasePrice: decimal.NewFromInt(90000), CurrentValue: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	require.NoError(t, f.src.Equipment.Save(ctx, tractor))

	cow, err := herd.NewCattle(herd.NewCattleParams{TagNumber: "A-1", Sex: herd.SexCow, EstimatedValue: decimal.NewFromInt(1800)})
	require.NoError(t, err)
	require.NoError(t, f.src.Cattle.Save(ctx, cow))

	land, err := finance.NewCapitalInvestment("Home quarter", finance.InvestmentLand, "M77 AG", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(200000))
	require.NoError(t, err)
	require.NoError(t, f.src.CapitalInvestments.Save(ctx, land))

	maturity := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)
	loan, err := finance.NewLoan(finance.NewLoanParams{
		Lender:              "Farm Credit",
		LoanType:            finance.LoanTypeRealEstate,
		Entity:              "M77 AG",
		OriginalAmount:      decimal.NewFromInt(100000),
		PaymentAmount:       decimal.NewFromInt(10000),
		PaymentFrequency:    finance.FrequencyAnnual,
		OriginationDate:     time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		MaturityDate:        &maturity,
		CapitalInvestmentID: &land.ID,
	})
	require.NoError(t, err)
	require.NoError(t, f.src.Loans.Save(ctx, loan))

	for _, p := range []finance.NewTransactionParams{
		{Date: fixedNow.AddDate(0, -2, 0), Type: finance.TransactionIncome, Category: "grain", Amount: decimal.NewFromInt(30000), Status: finance.TransactionCompleted},
		{Date: fixedNow.AddDate(0, -2, 0), Type: finance.TransactionExpense, Category: "fuel", Amount: decimal.NewFromInt(5000), Status: finance.TransactionCompleted},
		{Date: fixedNow.AddDate(0, -1, 0), Type: finance.TransactionIncome, Category: "grain", Amount: decimal.NewFromInt(99000), Status: finance.TransactionCompleted, IsProjected: true},
		{Date: fixedNow.AddDate(-1, 0, 0), Type: finance.TransactionIncome, Category: "grain", Amount: decimal.NewFromInt(77000), Status: finance.TransactionCompleted},
	} {
		tx, err := finance.NewTransaction(p)
		require.NoError(t, err)
		require.NoError(t, f.src.Transactions.Save(ctx, tx))
	}
}

func newTestOverviewService(f *overviewFixture, c Cache) *OverviewService {
	svc := NewOverviewService(f.src, c, time.Minute, export.WriteBankerOverview, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestOverviewService_BankerOverview(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture(t)
	f.seed(t)
	svc := newTestOverviewService(f, nil)

	o, err := svc.BankerOverview(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 2026, o.Year)
	assert.True(t, o.Assets.Cash.Equal(decimal.NewFromInt(10000)))
	assert.True(t, o.Assets.AccountsReceivable.Equal(decimal.NewFromInt(6000)))
	assert.True(t, o.Assets.Land.Equal(decimal.NewFromInt(200000)))
	assert.True(t, o.Assets.Equipment.Equal(decimal.NewFromInt(50000)))
	assert.True(t, o.Assets.Livestock.Equal(decimal.NewFromInt(1800)))
	assert.True(t, o.Assets.TotalAssets.Equal(decimal.NewFromInt(267800)))
	assert.True(t, o.Liabilities.TotalLiabilities.Equal(decimal.NewFromInt(100000)))
	assert.True(t, o.NetWorth.Equal(decimal.NewFromInt(167800)))

	// 30000 - 5000 realized in the year, over 10000 of annual debt service
	require.NotNil(t, o.Ratios.DSCR)
	assert.True(t, o.Ratios.DSCR.Equal(decimal.RequireFromString("2.5")), o.Ratios.DSCR.String())
	assert.Len(t, o.CashFlow, 12)
	require.Len(t, o.DebtSchedule, 1)

	_, err = svc.BankerOverview(ctx, 1999)
	assert.True(t, shared.IsValidationError(err))
}

func TestOverviewService_Cache(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture(t)
	f.seed(t)
	svc := newTestOverviewService(f, cache.NewInMemoryJSONCache())

	first, err := svc.BankerOverview(ctx, 2026)
	require.NoError(t, err)

	savings, err := finance.NewBankAccount("First State", "Savings", finance.AccountTypeSavings, "", "M77 AG", decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.NoError(t, f.src.BankAccounts.Save(ctx, savings))

	cached, err := svc.BankerOverview(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, cached.Assets.Cash.Equal(first.Assets.Cash))

	require.NoError(t, svc.Invalidate(ctx))
	fresh, err := svc.BankerOverview(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, fresh.Assets.Cash.Equal(decimal.NewFromInt(15000)))
}

func TestOverviewService_ExportOverview(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture(t)
	f.seed(t)

	var buf bytes.Buffer
	require.NoError(t, newTestOverviewService(f, nil).ExportOverview(ctx, 2026, &buf))
	assert.Equal(t, "PK", buf.String()[:2])

	failing := NewOverviewService(f.src, nil, 0, func(_ io.Writer, _ report.BankerOverview) error {
		return errors.New("disk full")
	}, zap.NewNop())
	assert.Error(t, failing.ExportOverview(ctx, 2026, &buf))
}

func TestOverviewService_ARAging(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture(t)
	f.seed(t)

	aging, err := newTestOverviewService(f, nil).ARAging(ctx)
	require.NoError(t, err)
	assert.True(t, aging.Total.Equal(decimal.NewFromInt(6000)))
	assert.True(t, aging.Current.Equal(decimal.NewFromInt(6000)))
	require.Len(t, aging.Invoices, 1)
	assert.Equal(t, report.BucketCurrent, aging.Invoices[0].Bucket)
}

func TestOverviewInvalidationHandler(t *testing.T) {
	ctx := context.Background()
	f := newOverviewFixture(t)
	f.seed(t)
	svc := newTestOverviewService(f, cache.NewInMemoryJSONCache())
	h := NewOverviewInvalidationHandler(svc, zap.NewNop())

	_, err := svc.BankerOverview(ctx, 2026)
	require.NoError(t, err)

	savings, err := finance.NewBankAccount("First State", "Savings", finance.AccountTypeSavings, "", "M77 AG", decimal.NewFromInt(2500))
	require.NoError(t, err)
	require.NoError(t, f.src.BankAccounts.Save(ctx, savings))

	inv, err := f.src.Invoices.FindByStatuses(ctx, finance.OutstandingInvoiceStatuses()...)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	require.NoError(t, h.Handle(ctx, finance.NewInvoiceSentEvent(&inv[0])))

	fresh, err := svc.BankerOverview(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, fresh.Assets.Cash.Equal(decimal.NewFromInt(12500)))
	assert.Contains(t, h.EventTypes(), finance.EventTypeLoanPaymentRecorded)
}
