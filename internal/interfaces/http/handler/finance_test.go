package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/m77ag/backend/internal/application/finance"
	"github.com/m77ag/backend/internal/domain/identity"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFinanceRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newTestDB(t)
	entities := shared.NewLegalEntities()
	loans := persistence.NewGormLoanRepository(db)
	investments := persistence.NewGormCapitalInvestmentRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	ledger := persistence.NewGormLedgerRepository(db)

	h := NewFinanceHandler(FinanceServices{
		Accounts: financeapp.NewAccountService(persistence.NewGormBankAccountRepository(db), persistence.NewGormTransactionRepository(db), investments, loans, entities, zap.NewNop()),
		Invoices: financeapp.NewInvoiceService(invoices, financeapp.InvoiceSettings{Prefix: "INV", DueDays: 30}, zap.NewNop()),
		Ledger:   financeapp.NewLedgerService(ledger, zap.NewNop()),
		Loans:    financeapp.NewLoanService(loans, investments, entities, zap.NewNop()),
		Refresh:  financeapp.NewStatusRefreshService(invoices, ledger, zap.NewNop()),
	})

	router := newTestRouter(signedIn(uuid.New(), identity.RoleManager))
	api := router.Group("/api/v1")
	api.POST("/invoices", h.CreateInvoice)
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/next-number", h.NextInvoiceNumber)
	api.GET("/invoices/:id", h.GetInvoice)
	api.POST("/invoices/:id/send", h.SendInvoice)
	api.POST("/invoices/:id/payments", h.RecordInvoicePayment)
	api.POST("/invoices/:id/cancel", h.CancelInvoice)
	api.POST("/invoices/:id/refund", h.RefundInvoice)
	api.POST("/ledger", h.CreateLedgerEntry)
	api.POST("/ledger/:id/bill", h.BillLedgerEntry)
	api.POST("/ledger/:id/cancel", h.CancelLedgerEntry)
	api.POST("/loans", h.CreateLoan)
	api.GET("/loans/:id", h.GetLoan)
	api.POST("/loans/:id/payments", h.RecordLoanPayment)
	api.POST("/finance/refresh-statuses", h.RefreshStatuses)
	return router
}

func TestFinanceHandler_InvoiceLifecycle(t *testing.T) {
	router := newFinanceRouter(t)

	w, env := call(t, router, http.MethodPost, "/api/v1/invoices", map[string]any{
		"category": "cattle_sale",
		"customer": map[string]any{"name": "Sale Barn", "email": "office@salebarn.example"},
		"items":    []map[string]any{{"description": "Feeder steers", "quantity": "4", "unit_price": "1500"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[financeapp.InvoiceResponse](t, env)
	assert.Equal(t, "draft", inv.Status)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(6000)))
	path := "/api/v1/invoices/" + inv.ID.String()

	// drafts take no payments
	w, env = call(t, router, http.MethodPost, path+"/payments", map[string]any{"amount": "6000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	w, env = call(t, router, http.MethodPost, path+"/send", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "sent", decode[financeapp.InvoiceResponse](t, env).Status)

	w, env = call(t, router, http.MethodPost, path+"/payments", map[string]any{"amount": "2000", "method": "check"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	partial := decode[financeapp.InvoiceResponse](t, env)
	assert.Equal(t, "partial", partial.Status)
	assert.True(t, partial.BalanceDue.Equal(decimal.NewFromInt(4000)))

	w, env = call(t, router, http.MethodPost, path+"/payments", map[string]any{"amount": "4000", "method": "ach"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decode[financeapp.InvoiceResponse](t, env).Status)

	w, _ = call(t, router, http.MethodPost, path+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, router, http.MethodPost, path+"/refund", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, router, http.MethodPost, path+"/refund", map[string]any{"reason": "calves returned"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "refunded", decode[financeapp.InvoiceResponse](t, env).Status)

	w, env = call(t, router, http.MethodGet, "/api/v1/invoices?status=refunded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestFinanceHandler_NextNumber(t *testing.T) {
	router := newFinanceRouter(t)

	w, env := call(t, router, http.MethodGet, "/api/v1/invoices/next-number?year=2026", nil)
	require.Equal(t, http.StatusOK, w.Code)
	next := decode[financeapp.NextNumberResponse](t, env)
	assert.Equal(t, "INV-2026-0001", next.InvoiceNumber)
}

func TestFinanceHandler_LedgerBilling(t *testing.T) {
	router := newFinanceRouter(t)

	w, env := call(t, router, http.MethodPost, "/api/v1/ledger", map[string]any{
		"owed_by": "farmer", "owed_to": "landlord", "landlord": "Schmidt Trust",
		"year": 2099, "category": "cash_rent", "amount": "18000", "due_date": "2099-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[financeapp.LedgerEntryResponse](t, env)
	assert.Equal(t, "pending", entry.Status)
	path := "/api/v1/ledger/" + entry.ID.String()

	w, env = call(t, router, http.MethodPost, path+"/bill", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "due", decode[financeapp.LedgerEntryResponse](t, env).Status)

	w, env = call(t, router, http.MethodPost, path+"/bill", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	w, env = call(t, router, http.MethodPost, path+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[financeapp.LedgerEntryResponse](t, env).Status)

	w, _ = call(t, router, http.MethodPost, "/api/v1/ledger/"+uuid.NewString()+"/bill", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinanceHandler_Loans(t *testing.T) {
	router := newFinanceRouter(t)

	w, env := call(t, router, http.MethodPost, "/api/v1/loans", map[string]any{
		"lender":            "Farm Credit",
		"loan_type":         "equipment",
		"entity":            "M77 AG",
		"original_amount":   "120000",
		"interest_rate":     "6.5",
		"payment_amount":    "14500",
		"payment_frequency": "annual",
		"origination_date":  "2025-02-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loan := decode[financeapp.LoanResponse](t, env)
	assert.Equal(t, "active", loan.Status)
	assert.True(t, loan.CurrentBalance.Equal(decimal.NewFromInt(120000)))

	w, env = call(t, router, http.MethodPost, "/api/v1/loans/"+loan.ID.String()+"/payments", map[string]any{
		"amount": "14500", "principal": "10000", "interest": "4500", "paid_on": "2026-02-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[financeapp.LoanResponse](t, env)
	assert.True(t, paid.CurrentBalance.Equal(decimal.NewFromInt(110000)))
	assert.Len(t, paid.Payments, 1)

	w, env = call(t, router, http.MethodPost, "/api/v1/loans", map[string]any{
		"lender": "Bank", "loan_type": "operating", "entity": "Someone Else LLC",
		"original_amount": "5000", "payment_frequency": "annual", "origination_date": "2025-02-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	w, _ = call(t, router, http.MethodGet, "/api/v1/loans/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinanceHandler_RefreshStatuses(t *testing.T) {
	router := newFinanceRouter(t)

	w, env := call(t, router, http.MethodPost, "/api/v1/finance/refresh-statuses", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)
}
