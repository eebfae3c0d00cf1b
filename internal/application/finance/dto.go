package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Payments
// =============================================================================

// PaymentRequest records money received against an invoice or ledger entry
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	PaidOn    time.Time       `json:"paid_on"`
	Method    string          `json:"method" binding:"omitempty,oneof=check cash ach wire card offset"`
	Reference string          `json:"reference" binding:"max=100"`
}

func (r PaymentRequest) input() finance.PaymentInput {
	return finance.PaymentInput{
		Amount:    r.Amount,
		PaidOn:    r.PaidOn,
		Method:    finance.PaymentMethod(r.Method),
		Reference: r.Reference,
	}
}

// PaymentResponse is one applied payment
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidOn    time.Time       `json:"paid_on"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

func toPaymentResponses(records finance.PaymentRecords) []PaymentResponse {
	out := make([]PaymentResponse, len(records))
	for i, p := range records {
		out[i] = PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			PaidOn:    p.PaidOn,
			Method:    string(p.Method),
			Reference: p.Reference,
		}
	}
	return out
}

// =============================================================================
// Invoices
// =============================================================================

// CustomerRequest is the billed party of an invoice
type CustomerRequest struct {
	Name    string              `json:"name" binding:"required,max=200"`
	Email   string              `json:"email" binding:"omitempty,email"`
	Phone   string              `json:"phone" binding:"max=50"`
	Address valueobject.Address `json:"address"`
}

// InvoiceItemRequest is one billed line
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
	TaxRate     decimal.Decimal `json:"tax_rate" binding:"decimal_gte0"`
}

// CreateInvoiceRequest drafts an invoice. The number is assigned by the
// service; DueDate defaults to the configured payment terms.
type CreateInvoiceRequest struct {
	Category       string               `json:"category" binding:"omitempty,oneof=cattle_sale grain_sale custom_hire hunting_lease equipment_sale other"`
	Customer       CustomerRequest      `json:"customer" binding:"required"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount decimal.Decimal      `json:"discount_amount" binding:"decimal_gte0"`
	IssueDate      time.Time            `json:"issue_date"`
	DueDate        *time.Time           `json:"due_date"`
	Notes          string               `json:"notes" binding:"max=2000"`
}

// RefundRequest carries the reason for refunding a paid invoice
type RefundRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InvoiceListFilter narrows an invoice listing
type InvoiceListFilter struct {
	common.PageQuery
	Status   string     `form:"status"`
	Category string     `form:"category"`
	DueFrom  *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo    *time.Time `form:"due_to" time_format:"2006-01-02"`
}

// InvoiceItemResponse is one billed line with its computed amount
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	Category       string                `json:"category"`
	Customer       finance.Customer      `json:"customer"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxTotal       decimal.Decimal       `json:"tax_total"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	Total          decimal.Decimal       `json:"total"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	BalanceDue     decimal.Decimal       `json:"balance_due"`
	Status         string                `json:"status"`
	IssueDate      time.Time             `json:"issue_date"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	ViewedAt       *time.Time            `json:"viewed_at,omitempty"`
	PaidDate       *time.Time            `json:"paid_date,omitempty"`
	DaysPastDue    int                   `json:"days_past_due"`
	Payments       []PaymentResponse     `json:"payments"`
	Notes          string                `json:"notes,omitempty"`
	RefundReason   string                `json:"refund_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *finance.Invoice, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      it.Amount,
		}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		Category:       string(inv.Category),
		Customer:       inv.Customer,
		Items:          items,
		Subtotal:       inv.Subtotal,
		TaxTotal:       inv.TaxTotal,
		DiscountAmount: inv.DiscountAmount,
		Total:          inv.Total,
		AmountPaid:     inv.AmountPaid,
		BalanceDue:     inv.BalanceDue,
		Status:         string(inv.Status),
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		SentAt:         inv.SentAt,
		ViewedAt:       inv.ViewedAt,
		PaidDate:       inv.PaidDate,
		DaysPastDue:    inv.DaysPastDue(now),
		Payments:       toPaymentResponses(inv.Payments),
		Notes:          inv.Notes,
		RefundReason:   inv.RefundReason,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
}

// NextNumberResponse previews the number the next invoice would receive
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// =============================================================================
// Ledger
// =============================================================================

// CreateLedgerEntryRequest opens an obligation between farmer and landlord
type CreateLedgerEntryRequest struct {
	OwedBy      string          `json:"owed_by" binding:"required,oneof=farmer landlord"`
	OwedTo      string          `json:"owed_to" binding:"required,oneof=farmer landlord"`
	Landlord    string          `json:"landlord" binding:"required,max=200"`
	FieldID     *uuid.UUID      `json:"field_id"`
	Year        int             `json:"year" binding:"required"`
	Category    string          `json:"category" binding:"required,oneof=cash_rent crop_share input_share reimbursement other"`
	Description string          `json:"description" binding:"max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	DueDate     *time.Time      `json:"due_date"`
}

// LedgerListFilter narrows a ledger listing
type LedgerListFilter struct {
	common.PageQuery
	Landlord string     `form:"landlord"`
	Year     int        `form:"year"`
	Status   string     `form:"status"`
	FieldID  *uuid.UUID `form:"field_id"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID               uuid.UUID         `json:"id"`
	OwedBy           string            `json:"owed_by"`
	OwedTo           string            `json:"owed_to"`
	Landlord         string            `json:"landlord"`
	FieldID          *uuid.UUID        `json:"field_id,omitempty"`
	Year             int               `json:"year"`
	Category         string            `json:"category"`
	Description      string            `json:"description,omitempty"`
	Amount           decimal.Decimal   `json:"amount"`
	AmountPaid       decimal.Decimal   `json:"amount_paid"`
	BalanceRemaining decimal.Decimal   `json:"balance_remaining"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	Status           string            `json:"status"`
	PaidDate         *time.Time        `json:"paid_date,omitempty"`
	Payments         []PaymentResponse `json:"payments"`
	Version          int               `json:"version"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry to LedgerEntryResponse
func ToLedgerEntryResponse(e *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:               e.ID,
		OwedBy:           string(e.OwedBy),
		OwedTo:           string(e.OwedTo),
		Landlord:         e.Landlord,
		FieldID:          e.FieldID,
		Year:             e.Year,
		Category:         string(e.Category),
		Description:      e.Description,
		Amount:           e.Amount,
		AmountPaid:       e.AmountPaid,
		BalanceRemaining: e.BalanceRemaining,
		DueDate:          e.DueDate,
		Status:           string(e.Status),
		PaidDate:         e.PaidDate,
		Payments:         toPaymentResponses(e.Payments),
		Version:          e.Version,
	}
}

// =============================================================================
// Loans
// =============================================================================

// CollateralRequest describes property pledged against a loan
type CollateralRequest struct {
	Type           string          `json:"type" binding:"required,max=50"`
	Description    string          `json:"description" binding:"max=500"`
	EstimatedValue decimal.Decimal `json:"estimated_value" binding:"decimal_gte0"`
}

// CreateLoanRequest opens a loan
type CreateLoanRequest struct {
	LoanNumber          string             `json:"loan_number" binding:"max=50"`
	Lender              string             `json:"lender" binding:"required,max=200"`
	LoanType            string             `json:"loan_type" binding:"required,oneof=operating real_estate equipment livestock line_of_credit other"`
	Entity              string             `json:"entity" binding:"required"`
	OriginalAmount      decimal.Decimal    `json:"original_amount" binding:"decimal_gt0"`
	CurrentBalance      *decimal.Decimal   `json:"current_balance"`
	InterestRate        decimal.Decimal    `json:"interest_rate" binding:"decimal_gte0"`
	PaymentAmount       decimal.Decimal    `json:"payment_amount" binding:"decimal_gte0"`
	PaymentFrequency    string             `json:"payment_frequency" binding:"required,oneof=monthly quarterly semi_annual annual"`
	OriginationDate     time.Time          `json:"origination_date" binding:"required"`
	MaturityDate        *time.Time         `json:"maturity_date"`
	Collateral          *CollateralRequest `json:"collateral"`
	CapitalInvestmentID *uuid.UUID         `json:"capital_investment_id"`
	Notes               string             `json:"notes" binding:"max=2000"`
}

// LoanPaymentRequest records a loan payment. Principal and Interest are
// optional; without them the split comes from the rate and frequency.
type LoanPaymentRequest struct {
	Amount    decimal.Decimal  `json:"amount" binding:"decimal_gt0"`
	Principal *decimal.Decimal `json:"principal"`
	Interest  *decimal.Decimal `json:"interest"`
	PaidOn    time.Time        `json:"paid_on"`
	Remark    string           `json:"remark" binding:"max=500"`
}

// CloseLoanRequest ends a loan as refinanced or defaulted
type CloseLoanRequest struct {
	Status string `json:"status" binding:"required,oneof=refinanced defaulted"`
	Note   string `json:"note" binding:"max=500"`
}

// LoanListFilter narrows a loan listing
type LoanListFilter struct {
	common.PageQuery
	Status              string     `form:"status"`
	Entity              string     `form:"entity"`
	CapitalInvestmentID *uuid.UUID `form:"capital_investment_id"`
}

// LoanPaymentResponse is one payment against a loan
type LoanPaymentResponse struct {
	ID           uuid.UUID       `json:"id"`
	PaidOn       time.Time       `json:"paid_on"`
	Amount       decimal.Decimal `json:"amount"`
	Principal    decimal.Decimal `json:"principal"`
	Interest     decimal.Decimal `json:"interest"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Remark       string          `json:"remark,omitempty"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                  uuid.UUID             `json:"id"`
	LoanNumber          string                `json:"loan_number,omitempty"`
	Lender              string                `json:"lender"`
	LoanType            string                `json:"loan_type"`
	Entity              string                `json:"entity"`
	OriginalAmount      decimal.Decimal       `json:"original_amount"`
	CurrentBalance      decimal.Decimal       `json:"current_balance"`
	InterestRate        decimal.Decimal       `json:"interest_rate"`
	PaymentAmount       decimal.Decimal       `json:"payment_amount"`
	PaymentFrequency    string                `json:"payment_frequency"`
	AnnualDebtService   decimal.Decimal       `json:"annual_debt_service"`
	OriginationDate     time.Time             `json:"origination_date"`
	MaturityDate        *time.Time            `json:"maturity_date,omitempty"`
	Collateral          *finance.Collateral   `json:"collateral,omitempty"`
	LTV                 *decimal.Decimal      `json:"ltv,omitempty"`
	CapitalInvestmentID *uuid.UUID            `json:"capital_investment_id,omitempty"`
	YTDPrincipalPaid    decimal.Decimal       `json:"ytd_principal_paid"`
	YTDInterestPaid     decimal.Decimal       `json:"ytd_interest_paid"`
	Payments            []LoanPaymentResponse `json:"payments"`
	Status              string                `json:"status"`
	PaidOffAt           *time.Time            `json:"paid_off_at,omitempty"`
	Notes               string                `json:"notes,omitempty"`
	Version             int                   `json:"version"`
}

// ToLoanResponse converts a domain Loan to LoanResponse
func ToLoanResponse(l *finance.Loan) LoanResponse {
	payments := make([]LoanPaymentResponse, len(l.Payments))
	for i, p := range l.Payments {
		payments[i] = LoanPaymentResponse{
			ID:           p.ID,
			PaidOn:       p.PaidOn,
			Amount:       p.Amount,
			Principal:    p.Principal,
			Interest:     p.Interest,
			BalanceAfter: p.BalanceAfter,
			Remark:       p.Remark,
		}
	}
	return LoanResponse{
		ID:                  l.ID,
		LoanNumber:          l.LoanNumber,
		Lender:              l.Lender,
		LoanType:            string(l.LoanType),
		Entity:              l.Entity,
		OriginalAmount:      l.OriginalAmount,
		CurrentBalance:      l.CurrentBalance,
		InterestRate:        l.InterestRate,
		PaymentAmount:       l.PaymentAmount,
		PaymentFrequency:    string(l.PaymentFrequency),
		AnnualDebtService:   l.AnnualDebtService(),
		OriginationDate:     l.OriginationDate,
		MaturityDate:        l.MaturityDate,
		Collateral:          l.Collateral,
		LTV:                 l.LTV(),
		CapitalInvestmentID: l.CapitalInvestmentID,
		YTDPrincipalPaid:    l.YTDPrincipalPaid,
		YTDInterestPaid:     l.YTDInterestPaid,
		Payments:            payments,
		Status:              string(l.Status),
		PaidOffAt:           l.PaidOffAt,
		Notes:               l.Notes,
		Version:             l.Version,
	}
}

// =============================================================================
// Bank accounts
// =============================================================================

// CreateBankAccountRequest opens a bank account
type CreateBankAccountRequest struct {
	BankName       string          `json:"bank_name" binding:"required,max=200"`
	AccountName    string          `json:"account_name" binding:"required,max=200"`
	AccountType    string          `json:"account_type" binding:"required,oneof=checking savings money_market line_of_credit"`
	Last4          string          `json:"last4" binding:"omitempty,numeric,max=4"`
	Entity         string          `json:"entity" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// BankTransactionRequest posts a movement to an account
type BankTransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=deposit interest transfer_in withdrawal check fee transfer_out"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Description string          `json:"description" binding:"max=500"`
	PostedOn    time.Time       `json:"posted_on"`
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID               uuid.UUID                 `json:"id"`
	BankName         string                    `json:"bank_name"`
	AccountName      string                    `json:"account_name"`
	AccountType      string                    `json:"account_type"`
	Last4            string                    `json:"last4,omitempty"`
	Entity           string                    `json:"entity"`
	CurrentBalance   decimal.Decimal           `json:"current_balance"`
	AvailableBalance decimal.Decimal           `json:"available_balance"`
	IsActive         bool                      `json:"is_active"`
	Transactions     []finance.BankTransaction `json:"transactions"`
	Version          int                       `json:"version"`
}

// ToBankAccountResponse converts a domain BankAccount to BankAccountResponse
func ToBankAccountResponse(a *finance.BankAccount) BankAccountResponse {
	txs := a.Transactions
	if txs == nil {
		txs = finance.BankTransactions{}
	}
	return BankAccountResponse{
		ID:               a.ID,
		BankName:         a.BankName,
		AccountName:      a.AccountName,
		AccountType:      string(a.AccountType),
		Last4:            a.Last4,
		Entity:           a.Entity,
		CurrentBalance:   a.CurrentBalance,
		AvailableBalance: a.AvailableBalance,
		IsActive:         a.IsActive,
		Transactions:     txs,
		Version:          a.Version,
	}
}

// =============================================================================
// Cash-flow transactions
// =============================================================================

// CreateTransactionRequest records income or expense
type CreateTransactionRequest struct {
	Date        time.Time       `json:"date"`
	Type        string          `json:"type" binding:"required,oneof=income expense"`
	Category    string          `json:"category" binding:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Description string          `json:"description" binding:"max=500"`
	Entity      string          `json:"entity"`
	Status      string          `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	IsProjected bool            `json:"is_projected"`
	Reference   string          `json:"reference" binding:"max=100"`
}

// TransactionListFilter narrows a cash-flow listing
type TransactionListFilter struct {
	common.PageQuery
	Type         string     `form:"type"`
	Status       string     `form:"status"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	RealizedOnly bool       `form:"realized_only"`
}

// TransactionResponse represents a cash-flow record in API responses
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Entity      string          `json:"entity,omitempty"`
	Status      string          `json:"status"`
	IsProjected bool            `json:"is_projected"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain Transaction to TransactionResponse
func ToTransactionResponse(t *finance.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		Type:        string(t.Type),
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		Entity:      t.Entity,
		Status:      string(t.Status),
		IsProjected: t.IsProjected,
		Reference:   t.Reference,
		CreatedAt:   t.CreatedAt,
	}
}

// =============================================================================
// Capital investments
// =============================================================================

// CreateCapitalInvestmentRequest records a capital purchase
type CreateCapitalInvestmentRequest struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Type          string           `json:"type" binding:"required,oneof=land building infrastructure vehicle equipment other"`
	Entity        string           `json:"entity" binding:"required"`
	Acres         decimal.Decimal  `json:"acres" binding:"decimal_gte0"`
	PurchaseDate  time.Time        `json:"purchase_date" binding:"required"`
	PurchasePrice decimal.Decimal  `json:"purchase_price" binding:"decimal_gte0"`
	CurrentValue  *decimal.Decimal `json:"current_value"`
	UsefulLife    int              `json:"useful_life_years" binding:"omitempty,min=1,max=100"`
	SalvageValue  decimal.Decimal  `json:"salvage_value" binding:"decimal_gte0"`
}

// CapitalInvestmentResponse represents a capital investment with the loans secured by it
type CapitalInvestmentResponse struct {
	ID                 uuid.UUID            `json:"id"`
	Name               string               `json:"name"`
	Type               string               `json:"type"`
	Entity             string               `json:"entity"`
	Acres              decimal.Decimal      `json:"acres"`
	PurchaseDate       time.Time            `json:"purchase_date"`
	PurchasePrice      decimal.Decimal      `json:"purchase_price"`
	CurrentValue       finance.Valuation    `json:"current_value"`
	Improvements       finance.Improvements `json:"improvements"`
	CostBasis          decimal.Decimal      `json:"cost_basis"`
	AnnualDepreciation decimal.Decimal      `json:"annual_depreciation"`
	LinkedDebt         decimal.Decimal      `json:"linked_debt"`
	Equity             decimal.Decimal      `json:"equity"`
	Loans              []LoanResponse       `json:"loans,omitempty"`
	Status             string               `json:"status"`
}

// ToCapitalInvestmentResponse converts an investment and the loans linked to it
func ToCapitalInvestmentResponse(c *finance.CapitalInvestment, loans []finance.Loan) CapitalInvestmentResponse {
	linked := c.LinkedLoans(loans)
	loanResponses := make([]LoanResponse, len(linked))
	for i := range linked {
		loanResponses[i] = ToLoanResponse(&linked[i])
	}
	improvements := c.Improvements
	if improvements == nil {
		improvements = finance.Improvements{}
	}
	return CapitalInvestmentResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               string(c.Type),
		Entity:             c.Entity,
		Acres:              c.Acres,
		PurchaseDate:       c.PurchaseDate,
		PurchasePrice:      c.PurchasePrice,
		CurrentValue:       c.CurrentValue,
		Improvements:       improvements,
		CostBasis:          c.CostBasis(),
		AnnualDepreciation: c.AnnualDepreciation(),
		LinkedDebt:         finance.LinkedDebt(c.ID, loans),
		Equity:             c.Equity(loans),
		Loans:              loanResponses,
		Status:             c.Status,
	}
}

// RefreshResult reports how many records the status sweep changed
type RefreshResult struct {
	InvoicesChecked int `json:"invoices_checked"`
	InvoicesUpdated int `json:"invoices_updated"`
	LedgerChecked   int `json:"ledger_checked"`
	LedgerUpdated   int `json:"ledger_updated"`
}
