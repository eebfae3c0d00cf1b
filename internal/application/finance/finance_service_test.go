package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
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

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// published flattens the event types of every Publish call
func (m *MockEventPublisher) published() []string {
	var types []string
	for _, call := range m.Calls {
		for _, evt := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, evt.EventType())
		}
	}
	return types
}

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newInvoiceService(t *testing.T, db *gorm.DB) (*InvoiceService, *MockEventPublisher) {
	t.Helper()
	svc := NewInvoiceService(persistence.NewGormInvoiceRepository(db), InvoiceSettings{DueDays: 30}, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	pub := new(MockEventPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc.SetEventPublisher(pub)
	return svc, pub
}

func steerInvoice(qty int64) CreateInvoiceRequest {
	return CreateInvoiceRequest{
		Category: "cattle_sale",
		Customer: CustomerRequest{Name: "Sale Barn", Email: "office@salebarn.example"},
		Items: []InvoiceItemRequest{{
			Description: "Feeder steers",
			Quantity:    decimal.NewFromInt(qty),
			UnitPrice:   decimal.NewFromInt(1500),
		}},
	}
}

func TestInvoiceService_CreateNumbersSequentially(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceService(t, newTestDB(t))

	preview, err := svc.NextNumber(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", preview.InvoiceNumber)

	first, err := svc.Create(ctx, steerInvoice(4))
	require.NoError(t, err)
	second, err := svc.Create(ctx, steerInvoice(2))
	require.NoError(t, err)

	assert.Equal(t, "INV-2026-0001", first.InvoiceNumber)
	assert.Equal(t, "INV-2026-0002", second.InvoiceNumber)
	assert.Equal(t, "draft", first.Status)
	assert.True(t, first.Total.Equal(decimal.NewFromInt(6000)))
	require.NotNil(t, first.DueDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), *first.DueDate)
}

func TestInvoiceService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, pub := newInvoiceService(t, newTestDB(t))

	inv, err := svc.Create(ctx, steerInvoice(4))
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, inv.ID, PaymentRequest{Amount: decimal.NewFromInt(100)})
	assert.True(t, shared.IsValidationError(err), "drafts reject payments")

	sent, err := svc.Send(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", sent.Status)
	assert.NotNil(t, sent.SentAt)

	viewed, err := svc.MarkViewed(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "viewed", viewed.Status)
	again, err := svc.MarkViewed(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, viewed.Version, again.Version)

	partial, err := svc.RecordPayment(ctx, inv.ID, PaymentRequest{Amount: decimal.NewFromInt(2000), Method: "check"})
	require.NoError(t, err)
	assert.Equal(t, "partial", partial.Status)
	assert.True(t, partial.BalanceDue.Equal(decimal.NewFromInt(4000)))

	_, err = svc.RecordPayment(ctx, inv.ID, PaymentRequest{Amount: decimal.RequireFromString("4000.01")})
	assert.True(t, shared.IsValidationError(err), "overpayment is rejected")
	unchanged, err := svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.BalanceDue.Equal(decimal.NewFromInt(4000)))
	assert.Len(t, unchanged.Payments, 1)

	paid, err := svc.RecordPayment(ctx, inv.ID, PaymentRequest{Amount: decimal.NewFromInt(4000)})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.True(t, paid.BalanceDue.IsZero())
	assert.NotNil(t, paid.PaidDate)

	_, err = svc.Cancel(ctx, inv.ID)
	assert.True(t, shared.IsValidationError(err))

	refunded, err := svc.Refund(ctx, inv.ID, RefundRequest{Reason: "Steer returned lame"})
	require.NoError(t, err)
	assert.Equal(t, "refunded", refunded.Status)

	assert.Equal(t, []string{
		finance.EventTypeInvoiceSent,
		finance.EventTypeInvoicePaymentRecorded,
		finance.EventTypeInvoicePaymentRecorded,
		finance.EventTypeInvoicePaid,
	}, pub.published())
}

func TestInvoiceService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceService(t, newTestDB(t))

	a, err := svc.Create(ctx, steerInvoice(1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, steerInvoice(2))
	require.NoError(t, err)
	_, err = svc.Send(ctx, a.ID)
	require.NoError(t, err)

	page, err := svc.List(ctx, InvoiceListFilter{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)
}

func TestStatusRefreshService_RefreshOverdue(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	invoices, _ := newInvoiceService(t, db)
	ledgerRepo := persistence.NewGormLedgerRepository(db)
	ledger := NewLedgerService(ledgerRepo, zap.NewNop())

	overdue, err := invoices.Create(ctx, steerInvoice(1))
	require.NoError(t, err)
	_, err = invoices.Send(ctx, overdue.ID)
	require.NoError(t, err)

	draft, err := invoices.Create(ctx, steerInvoice(1))
	require.NoError(t, err)

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rent, err := ledger.Create(ctx, CreateLedgerEntryRequest{
		OwedBy: "farmer", OwedTo: "landlord", Landlord: "Smith Trust",
		Year: 2026, Category: "cash_rent", Amount: decimal.NewFromInt(12000), DueDate: &due,
	})
	require.NoError(t, err)

	// falls due later in the month of the sweep
	june := time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC)
	hay, err := ledger.Create(ctx, CreateLedgerEntryRequest{
		OwedBy: "landlord", OwedTo: "farmer", Landlord: "Smith Trust",
		Year: 2026, Category: "input_share", Amount: decimal.NewFromInt(800), DueDate: &june,
	})
	require.NoError(t, err)

	refresher := NewStatusRefreshService(persistence.NewGormInvoiceRepository(db), ledgerRepo, zap.NewNop())
	refresher.now = func() time.Time { return fixedNow.AddDate(0, 2, 0) }

	result, err := refresher.RefreshOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.InvoicesChecked)
	assert.Equal(t, 1, result.InvoicesUpdated)
	assert.Equal(t, 2, result.LedgerUpdated)

	got, err := invoices.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, "overdue", got.Status)
	untouched, err := invoices.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", untouched.Status)

	entry, err := ledgerRepo.FindByID(ctx, rent.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.LedgerStatusOverdue, entry.Status)
	share, err := ledgerRepo.FindByID(ctx, hay.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.LedgerStatusDue, share.Status)

	second, err := refresher.RefreshOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.InvoicesUpdated)
	assert.Zero(t, second.LedgerUpdated)
}

func TestLedgerService_Payments(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(persistence.NewGormLedgerRepository(newTestDB(t)), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }

	entry, err := svc.Create(ctx, CreateLedgerEntryRequest{
		OwedBy: "landlord", OwedTo: "farmer", Landlord: "Smith Trust",
		Year: 2026, Category: "input_share", Amount: decimal.NewFromInt(900),
	})
	require.NoError(t, err)

	partial, err := svc.RecordPayment(ctx, entry.ID, PaymentRequest{Amount: decimal.NewFromInt(400)})
	require.NoError(t, err)
	assert.Equal(t, "partial_paid", partial.Status)
	assert.True(t, partial.BalanceRemaining.Equal(decimal.NewFromInt(500)))

	_, err = svc.RecordPayment(ctx, entry.ID, PaymentRequest{Amount: decimal.NewFromInt(501)})
	assert.True(t, shared.IsValidationError(err))

	_, err = svc.Cancel(ctx, entry.ID)
	assert.True(t, shared.IsValidationError(err), "entries with payments cannot be cancelled")

	paid, err := svc.RecordPayment(ctx, entry.ID, PaymentRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.True(t, paid.AmountPaid.Equal(decimal.NewFromInt(900)))
}

func TestLedgerService_Bill(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(persistence.NewGormLedgerRepository(newTestDB(t)), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }

	due := fixedNow.AddDate(0, 3, 0)
	entry, err := svc.Create(ctx, CreateLedgerEntryRequest{
		OwedBy: "farmer", OwedTo: "landlord", Landlord: "Smith Trust",
		Year: 2026, Category: "cash_rent", Amount: decimal.NewFromInt(12000), DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", entry.Status)

	billed, err := svc.Bill(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "due", billed.Status)

	_, err = svc.Bill(ctx, entry.ID)
	assert.True(t, shared.IsValidationError(err))

	_, err = svc.Bill(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestLoanService_PaymentsAndPayoff(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewLoanService(
		persistence.NewGormLoanRepository(db),
		persistence.NewGormCapitalInvestmentRepository(db),
		shared.NewLegalEntities(),
		zap.NewNop(),
	)
	pub := new(MockEventPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc.SetEventPublisher(pub)

	_, err := svc.Create(ctx, CreateLoanRequest{
		Lender: "Farm Credit", LoanType: "equipment", Entity: "Someone Else",
		OriginalAmount: decimal.NewFromInt(1000), PaymentFrequency: "annual", OriginationDate: fixedNow,
	})
	assert.True(t, shared.IsValidationError(err))

	_, err = svc.Create(ctx, CreateLoanRequest{
		Lender: "Farm Credit", LoanType: "equipment", Entity: "M77 AG",
		OriginalAmount: decimal.NewFromInt(1000), PaymentFrequency: "annual", OriginationDate: fixedNow,
		CapitalInvestmentID: ptr(uuid.New()),
	})
	assert.True(t, shared.IsValidationError(err), "linked investment must exist")

	loan, err := svc.Create(ctx, CreateLoanRequest{
		Lender: "Farm Credit", LoanType: "equipment", Entity: "M77 AG",
		OriginalAmount: decimal.NewFromInt(1000), PaymentAmount: decimal.NewFromInt(500),
		PaymentFrequency: "annual", OriginationDate: fixedNow,
	})
	require.NoError(t, err)
	assert.True(t, loan.AnnualDebtService.Equal(decimal.NewFromInt(500)))

	_, err = svc.RecordPayment(ctx, loan.ID, LoanPaymentRequest{Amount: decimal.NewFromInt(1001)})
	assert.True(t, shared.IsValidationError(err))

	half, err := svc.RecordPayment(ctx, loan.ID, LoanPaymentRequest{Amount: decimal.NewFromInt(500), PaidOn: fixedNow})
	require.NoError(t, err)
	assert.True(t, half.CurrentBalance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "active", half.Status)

	done, err := svc.RecordPayment(ctx, loan.ID, LoanPaymentRequest{Amount: decimal.NewFromInt(500), PaidOn: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "paid_off", done.Status)
	assert.True(t, done.CurrentBalance.IsZero())
	assert.True(t, done.YTDPrincipalPaid.Equal(decimal.NewFromInt(1000)))

	_, err = svc.RecordPayment(ctx, loan.ID, LoanPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.True(t, shared.IsValidationError(err), "paid off loans accept no payments")

	_, err = svc.Close(ctx, loan.ID, CloseLoanRequest{Status: "refinanced"})
	assert.True(t, shared.IsValidationError(err))

	assert.Equal(t, []string{
		finance.EventTypeLoanPaymentRecorded,
		finance.EventTypeLoanPaymentRecorded,
		finance.EventTypeLoanPaidOff,
	}, pub.published())
}

func TestAccountService_InvestmentsAndAccounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	loanRepo := persistence.NewGormLoanRepository(db)
	investments := persistence.NewGormCapitalInvestmentRepository(db)
	svc := NewAccountService(
		persistence.NewGormBankAccountRepository(db),
		persistence.NewGormTransactionRepository(db),
		investments,
		loanRepo,
		shared.NewLegalEntities(),
		zap.NewNop(),
	)
	loans := NewLoanService(loanRepo, investments, shared.NewLegalEntities(), zap.NewNop())

	land, err := svc.CreateCapitalInvestment(ctx, CreateCapitalInvestmentRequest{
		Name: "Home quarter", Type: "land", Entity: "M77 AG", Acres: decimal.NewFromInt(160),
		PurchaseDate: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), PurchasePrice: decimal.NewFromInt(640000),
		CurrentValue: ptr(decimal.NewFromInt(960000)),
	})
	require.NoError(t, err)
	assert.True(t, land.AnnualDepreciation.IsZero())

	_, err = loans.Create(ctx, CreateLoanRequest{
		Lender: "Farm Credit", LoanType: "real_estate", Entity: "M77 AG",
		OriginalAmount: decimal.NewFromInt(500000), CurrentBalance: ptr(decimal.NewFromInt(300000)),
		PaymentFrequency: "annual", OriginationDate: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		CapitalInvestmentID: &land.ID,
	})
	require.NoError(t, err)

	got, err := svc.GetCapitalInvestment(ctx, land.ID)
	require.NoError(t, err)
	require.Len(t, got.Loans, 1)
	assert.True(t, got.LinkedDebt.Equal(decimal.NewFromInt(300000)))
	assert.True(t, got.Equity.Equal(decimal.NewFromInt(660000)))

	account, err := svc.CreateBankAccount(ctx, CreateBankAccountRequest{
		BankName: "First State", AccountName: "Operating", AccountType: "checking",
		Last4: "1234", Entity: "M77 AG", OpeningBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	updated, err := svc.RecordBankTransaction(ctx, account.ID, BankTransactionRequest{Type: "check", Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(750)))
	require.Len(t, updated.Transactions, 1)
	assert.True(t, updated.Transactions[0].Delta.Equal(decimal.NewFromInt(-250)))

	_, err = svc.RecordBankTransaction(ctx, account.ID, BankTransactionRequest{Type: "bogus", Amount: decimal.NewFromInt(1)})
	assert.True(t, shared.IsValidationError(err))

	_, err = svc.CreateTransaction(ctx, CreateTransactionRequest{
		Type: "income", Category: "grain", Amount: decimal.NewFromInt(8000), Status: "completed", Date: fixedNow,
	})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, CreateTransactionRequest{
		Type: "expense", Category: "fuel", Amount: decimal.NewFromInt(300), IsProjected: true, Date: fixedNow,
	})
	require.NoError(t, err)

	realized, err := svc.ListTransactions(ctx, TransactionListFilter{RealizedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), realized.Total)
	assert.Equal(t, "grain", realized.Items[0].Category)
}

func ptr[T any](v T) *T { return &v }
