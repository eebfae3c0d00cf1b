package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankerOverview is the read model handed to lenders: a balance sheet,
// ratios, monthly cash flow and collateral coverage for one year.
// It is an eventually-consistent snapshot; the underlying collections
// are read independently.
type BankerOverview struct {
	Year         int                  `json:"year"`
	AsOf         time.Time            `json:"as_of"`
	Assets       AssetSection         `json:"assets"`
	Liabilities  LiabilitySection     `json:"liabilities"`
	NetWorth     decimal.Decimal      `json:"net_worth"` // TotalAssets - TotalLiabilities
	Ratios       Ratios               `json:"ratios"`
	CashFlow     []MonthlyCashFlow    `json:"cash_flow"`
	Collateral   []CollateralCoverage `json:"collateral"`
	DebtSchedule []DebtScheduleRow    `json:"debt_schedule"`
	ARAging      ARAging              `json:"ar_aging"`
}

// AssetSection splits assets into current and fixed
type AssetSection struct {
	Cash               decimal.Decimal `json:"cash"`
	AccountsReceivable decimal.Decimal `json:"accounts_receivable"`
	TotalCurrent       decimal.Decimal `json:"total_current"`
	Land               decimal.Decimal `json:"land"`
	Buildings          decimal.Decimal `json:"buildings"`
	Infrastructure     decimal.Decimal `json:"infrastructure"`
	Equipment          decimal.Decimal `json:"equipment"`
	Livestock          decimal.Decimal `json:"livestock"`
	TotalFixed         decimal.Decimal `json:"total_fixed"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
}

// LiabilitySection splits loan balances into current and long-term.
// The current portion is an estimate: loans maturing within twelve
// months count in full, others contribute their year-to-date principal.
// Loans only track the running year's principal, so an overview for a
// past year uses today's balances with no year-to-date principal.
type LiabilitySection struct {
	Current          decimal.Decimal `json:"current"`
	LongTerm         decimal.Decimal `json:"long_term"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	LoanCount        int             `json:"loan_count"`
}

// Ratios are rounded to two decimals; nil when the denominator is zero
type Ratios struct {
	DSCR               *decimal.Decimal `json:"dscr"`
	DebtToAsset        *decimal.Decimal `json:"debt_to_asset"` // percent
	CurrentRatio       *decimal.Decimal `json:"current_ratio"`
	LoanToValue        *decimal.Decimal `json:"loan_to_value"` // percent
	NetOperatingIncome decimal.Decimal  `json:"net_operating_income"`
	AnnualDebtService  decimal.Decimal  `json:"annual_debt_service"`
}

// MonthlyCashFlow is one calendar month of realised cash flow
type MonthlyCashFlow struct {
	Month       int             `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	DebtService decimal.Decimal `json:"debt_service"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
}

// CollateralCoverage describes one collateralised loan
type CollateralCoverage struct {
	LoanID          uuid.UUID        `json:"loan_id"`
	Lender          string           `json:"lender"`
	CollateralType  string           `json:"collateral_type"`
	Description     string           `json:"description,omitempty"`
	CollateralValue decimal.Decimal  `json:"collateral_value"`
	Balance         decimal.Decimal  `json:"balance"`
	LTV             *decimal.Decimal `json:"ltv"`
	Equity          decimal.Decimal  `json:"equity"`
}

// DebtScheduleRow is one active loan in the debt schedule
type DebtScheduleRow struct {
	LoanID            uuid.UUID       `json:"loan_id"`
	Lender            string          `json:"lender"`
	LoanType          string          `json:"loan_type"`
	Balance           decimal.Decimal `json:"balance"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	AnnualDebtService decimal.Decimal `json:"annual_debt_service"`
	MaturityDate      *time.Time      `json:"maturity_date,omitempty"`
	MonthsToMaturity  *int            `json:"months_to_maturity,omitempty"`
	CurrentPortion    decimal.Decimal `json:"current_portion"`
	LongTermPortion   decimal.Decimal `json:"long_term_portion"`
}

// ARAging buckets outstanding invoice balances by days past due
type ARAging struct {
	Current    decimal.Decimal `json:"current"`
	Days1To30  decimal.Decimal `json:"days_1_30"`
	Days31To60 decimal.Decimal `json:"days_31_60"`
	Days61To90 decimal.Decimal `json:"days_61_90"`
	Over90     decimal.Decimal `json:"over_90"`
	Total      decimal.Decimal `json:"total"`
	Invoices   []AgedInvoice   `json:"invoices"`
}

// AgedInvoice is one outstanding invoice in the aging report
type AgedInvoice struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Customer      string          `json:"customer"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	DaysPastDue   int             `json:"days_past_due"`
	Bucket        string          `json:"bucket"`
}
