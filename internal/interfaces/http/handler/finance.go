package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/m77ag/backend/internal/application/finance"
)

// FinanceHandler handles loans, bank accounts, invoices, the land ledger,
// cash-flow transactions and capital investments
type FinanceHandler struct {
	BaseHandler
	accounts *financeapp.AccountService
	invoices *financeapp.InvoiceService
	ledger   *financeapp.LedgerService
	loans    *financeapp.LoanService
	refresh  *financeapp.StatusRefreshService
}

// FinanceServices groups the services behind FinanceHandler
type FinanceServices struct {
	Accounts *financeapp.AccountService
	Invoices *financeapp.InvoiceService
	Ledger   *financeapp.LedgerService
	Loans    *financeapp.LoanService
	Refresh  *financeapp.StatusRefreshService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(s FinanceServices) *FinanceHandler {
	return &FinanceHandler{
		accounts: s.Accounts,
		invoices: s.Invoices,
		ledger:   s.Ledger,
		loans:    s.Loans,
		refresh:  s.Refresh,
	}
}

// ===================== Loans =====================

// CreateLoan godoc
// @Summary      Record a loan
// @Tags         finance-loans
// @Router       /loans [post]
func (h *FinanceHandler) CreateLoan(c *gin.Context) {
	var req financeapp.CreateLoanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	loan, err := h.loans.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, loan)
}

// ListLoans godoc
// @Summary      List loans
// @Tags         finance-loans
// @Param        status query string false "Loan status"
// @Param        entity query string false "Borrowing entity"
// @Router       /loans [get]
func (h *FinanceHandler) ListLoans(c *gin.Context) {
	var filter financeapp.LoanListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.loans.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetLoan godoc
// @Summary      Get a loan with its payments
// @Tags         finance-loans
// @Router       /loans/{id} [get]
func (h *FinanceHandler) GetLoan(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	loan, err := h.loans.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// RecordLoanPayment godoc
// @Summary      Apply a payment to a loan
// @Tags         finance-loans
// @Router       /loans/{id}/payments [post]
func (h *FinanceHandler) RecordLoanPayment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.LoanPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	loan, err := h.loans.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// CloseLoan godoc
// @Summary      Close a loan as paid off or refinanced
// @Tags         finance-loans
// @Router       /loans/{id}/close [post]
func (h *FinanceHandler) CloseLoan(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CloseLoanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	loan, err := h.loans.Close(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// ===================== Bank accounts =====================

// CreateBankAccount godoc
// @Summary      Open a bank account
// @Tags         finance-bank
// @Router       /bank-accounts [post]
func (h *FinanceHandler) CreateBankAccount(c *gin.Context) {
	var req financeapp.CreateBankAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// ListBankAccounts godoc
// @Summary      List bank accounts
// @Tags         finance-bank
// @Param        active query bool false "Only active accounts"
// @Router       /bank-accounts [get]
func (h *FinanceHandler) ListBankAccounts(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	accounts, err := h.accounts.ListBankAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// RecordBankTransaction godoc
// @Summary      Post a deposit, withdrawal or fee to an account
// @Tags         finance-bank
// @Router       /bank-accounts/{id}/transactions [post]
func (h *FinanceHandler) RecordBankTransaction(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.BankTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.RecordBankTransaction(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ===================== Invoices =====================

// CreateInvoice godoc
// @Summary      Create a draft invoice
// @Tags         finance-invoices
// @Router       /invoices [post]
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req financeapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListInvoices godoc
// @Summary      List invoices
// @Tags         finance-invoices
// @Param        status query string false "Invoice status"
// @Param        category query string false "Invoice category"
// @Param        due_from query string false "Due on or after (YYYY-MM-DD)"
// @Param        due_to query string false "Due on or before (YYYY-MM-DD)"
// @Router       /invoices [get]
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	var filter financeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// NextInvoiceNumber godoc
// @Summary      Preview the next invoice number for a year
// @Tags         finance-invoices
// @Param        year query int false "Invoice year"
// @Router       /invoices/next-number [get]
func (h *FinanceHandler) NextInvoiceNumber(c *gin.Context) {
	year, ok := h.queryYear(c)
	if !ok {
		return
	}

	next, err := h.invoices.NextNumber(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, next)
}

// GetInvoice godoc
// @Summary      Get an invoice
// @Tags         finance-invoices
// @Router       /invoices/{id} [get]
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// SendInvoice godoc
// @Summary      Send a draft invoice to the customer
// @Tags         finance-invoices
// @Router       /invoices/{id}/send [post]
func (h *FinanceHandler) SendInvoice(c *gin.Context) {
	h.invoiceAction(c, h.invoices.Send)
}

// MarkInvoiceViewed godoc
// @Summary      Record that the customer opened the invoice
// @Tags         finance-invoices
// @Router       /invoices/{id}/view [post]
func (h *FinanceHandler) MarkInvoiceViewed(c *gin.Context) {
	h.invoiceAction(c, h.invoices.MarkViewed)
}

// CancelInvoice godoc
// @Summary      Cancel an unpaid invoice
// @Tags         finance-invoices
// @Router       /invoices/{id}/cancel [post]
func (h *FinanceHandler) CancelInvoice(c *gin.Context) {
	h.invoiceAction(c, h.invoices.Cancel)
}

// RecordInvoicePayment godoc
// @Summary      Record a payment against an invoice
// @Tags         finance-invoices
// @Router       /invoices/{id}/payments [post]
func (h *FinanceHandler) RecordInvoicePayment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RefundInvoice godoc
// @Summary      Refund a paid invoice
// @Tags         finance-invoices
// @Router       /invoices/{id}/refund [post]
func (h *FinanceHandler) RefundInvoice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RefundRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.Refund(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

func (h *FinanceHandler) invoiceAction(c *gin.Context, action func(context.Context, uuid.UUID) (*financeapp.InvoiceResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ===================== Land ledger =====================

// CreateLedgerEntry godoc
// @Summary      Record a rent, lease or share obligation
// @Tags         finance-ledger
// @Router       /ledger [post]
func (h *FinanceHandler) CreateLedgerEntry(c *gin.Context) {
	var req financeapp.CreateLedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.ledger.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListLedgerEntries godoc
// @Summary      List land ledger entries
// @Tags         finance-ledger
// @Param        landlord query string false "Owed to or by"
// @Param        year query int false "Crop year"
// @Param        status query string false "Entry status"
// @Router       /ledger [get]
func (h *FinanceHandler) ListLedgerEntries(c *gin.Context) {
	var filter financeapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// RecordLedgerPayment godoc
// @Summary      Record a payment against a ledger entry
// @Tags         finance-ledger
// @Router       /ledger/{id}/payments [post]
func (h *FinanceHandler) RecordLedgerPayment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.ledger.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// CancelLedgerEntry godoc
// @Summary      Cancel a ledger entry
// @Tags         finance-ledger
// @Router       /ledger/{id}/cancel [post]
func (h *FinanceHandler) CancelLedgerEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledger.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// BillLedgerEntry godoc
// @Summary      Mark a pending ledger entry as billed
// @Tags         finance-ledger
// @Router       /ledger/{id}/bill [post]
func (h *FinanceHandler) BillLedgerEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledger.Bill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// ===================== Cash flow =====================

// CreateTransaction godoc
// @Summary      Record income or an expense
// @Tags         finance-transactions
// @Router       /transactions [post]
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req financeapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.accounts.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// ListTransactions godoc
// @Summary      List cash-flow transactions
// @Tags         finance-transactions
// @Param        type query string false "income or expense"
// @Param        from query string false "On or after (YYYY-MM-DD)"
// @Param        to query string false "On or before (YYYY-MM-DD)"
// @Param        realized_only query bool false "Completed only"
// @Router       /transactions [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	var filter financeapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.accounts.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateCapitalInvestment godoc
// @Summary      Record a capital purchase
// @Tags         finance-capital
// @Router       /capital-investments [post]
func (h *FinanceHandler) CreateCapitalInvestment(c *gin.Context) {
	var req financeapp.CreateCapitalInvestmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	investment, err := h.accounts.CreateCapitalInvestment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, investment)
}

// ListCapitalInvestments godoc
// @Summary      List capital investments
// @Tags         finance-capital
// @Router       /capital-investments [get]
func (h *FinanceHandler) ListCapitalInvestments(c *gin.Context) {
	investments, err := h.accounts.ListCapitalInvestments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, investments)
}

// GetCapitalInvestment godoc
// @Summary      Get a capital investment with its financing
// @Tags         finance-capital
// @Router       /capital-investments/{id} [get]
func (h *FinanceHandler) GetCapitalInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	investment, err := h.accounts.GetCapitalInvestment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, investment)
}

// RefreshStatuses godoc
// @Summary      Mark past-due invoices and ledger entries overdue
// @Tags         finance
// @Router       /finance/refresh-statuses [post]
func (h *FinanceHandler) RefreshStatuses(c *gin.Context) {
	result, err := h.refresh.RefreshOverdue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
