package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber  string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category       finance.InvoiceCategory `gorm:"type:varchar(30);not null;index"`
	Customer       finance.Customer        `gorm:"type:jsonb;not null"`
	CustomerName   string                  `gorm:"type:varchar(200);not null;index"`
	Items          finance.InvoiceItems    `gorm:"type:jsonb;default:'[]'"`
	Subtotal       decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	TaxTotal       decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	AmountPaid     decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceDue     decimal.Decimal         `gorm:"type:decimal(18,2);not null;index"`
	Status         finance.InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssueDate      time.Time               `gorm:"not null"`
	DueDate        *time.Time              `gorm:"index"`
	SentAt         *time.Time
	ViewedAt       *time.Time
	PaidDate       *time.Time
	Payments       finance.PaymentRecords `gorm:"type:jsonb;default:'[]'"`
	Notes          string                 `gorm:"type:text"`
	RefundReason   string                 `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		Category:          m.Category,
		Customer:          m.Customer,
		Items:             m.Items,
		Subtotal:          m.Subtotal,
		TaxTotal:          m.TaxTotal,
		DiscountAmount:    m.DiscountAmount,
		Total:             m.Total,
		AmountPaid:        m.AmountPaid,
		BalanceDue:        m.BalanceDue,
		Status:            m.Status,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		SentAt:            m.SentAt,
		ViewedAt:          m.ViewedAt,
		PaidDate:          m.PaidDate,
		Payments:          m.Payments,
		Notes:             m.Notes,
		RefundReason:      m.RefundReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice aggregate.
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.Category = inv.Category
	m.Customer = inv.Customer
	m.CustomerName = inv.Customer.Name
	m.Items = inv.Items
	m.Subtotal = inv.Subtotal
	m.TaxTotal = inv.TaxTotal
	m.DiscountAmount = inv.DiscountAmount
	m.Total = inv.Total
	m.AmountPaid = inv.AmountPaid
	m.BalanceDue = inv.BalanceDue
	m.Status = inv.Status
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.SentAt = inv.SentAt
	m.ViewedAt = inv.ViewedAt
	m.PaidDate = inv.PaidDate
	m.Payments = inv.Payments
	m.Notes = inv.Notes
	m.RefundReason = inv.RefundReason
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice aggregate.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// LedgerEntryModel is the persistence model for a landlord ledger entry.
type LedgerEntryModel struct {
	AggregateModel
	OwedBy           finance.LedgerParty    `gorm:"type:varchar(20);not null"`
	OwedTo           finance.LedgerParty    `gorm:"type:varchar(20);not null"`
	Landlord         string                 `gorm:"type:varchar(200);not null;index"`
	FieldID          *uuid.UUID             `gorm:"type:uuid;index"`
	Year             int                    `gorm:"not null;index"`
	Category         finance.LedgerCategory `gorm:"type:varchar(30);not null"`
	Description      string                 `gorm:"type:varchar(500)"`
	Amount           decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	AmountPaid       decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceRemaining decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	DueDate          *time.Time             `gorm:"index"`
	Status           finance.LedgerStatus   `gorm:"type:varchar(20);not null;index"`
	PaidDate         *time.Time
	Payments         finance.PaymentRecords `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "landlord_ledger"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	return &finance.LedgerEntry{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OwedBy:            m.OwedBy,
		OwedTo:            m.OwedTo,
		Landlord:          m.Landlord,
		FieldID:           m.FieldID,
		Year:              m.Year,
		Category:          m.Category,
		Description:       m.Description,
		Amount:            m.Amount,
		AmountPaid:        m.AmountPaid,
		BalanceRemaining:  m.BalanceRemaining,
		DueDate:           m.DueDate,
		Status:            m.Status,
		PaidDate:          m.PaidDate,
		Payments:          m.Payments,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.OwedBy = e.OwedBy
	m.OwedTo = e.OwedTo
	m.Landlord = e.Landlord
	m.FieldID = e.FieldID
	m.Year = e.Year
	m.Category = e.Category
	m.Description = e.Description
	m.Amount = e.Amount
	m.AmountPaid = e.AmountPaid
	m.BalanceRemaining = e.BalanceRemaining
	m.DueDate = e.DueDate
	m.Status = e.Status
	m.PaidDate = e.PaidDate
	m.Payments = e.Payments
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// LoanModel is the persistence model for the Loan aggregate.
type LoanModel struct {
	AggregateModel
	LoanNumber          string                   `gorm:"type:varchar(50);index"`
	Lender              string                   `gorm:"type:varchar(200);not null"`
	LoanType            finance.LoanType         `gorm:"type:varchar(30);not null;index"`
	Entity              string                   `gorm:"type:varchar(100);not null;index"`
	OriginalAmount      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	CurrentBalance      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	InterestRate        decimal.Decimal          `gorm:"type:decimal(7,4);not null"`
	PaymentAmount       decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	PaymentFrequency    finance.PaymentFrequency `gorm:"type:varchar(20);not null"`
	OriginationDate     time.Time                `gorm:"not null"`
	MaturityDate        *time.Time               `gorm:"index"`
	Collateral          *finance.Collateral      `gorm:"type:jsonb"`
	CapitalInvestmentID *uuid.UUID               `gorm:"type:uuid;index"`
	Payments            finance.LoanPayments     `gorm:"type:jsonb;default:'[]'"`
	YTDPrincipalPaid    decimal.Decimal          `gorm:"column:ytd_principal_paid;type:decimal(18,2);not null;default:0"`
	YTDInterestPaid     decimal.Decimal          `gorm:"column:ytd_interest_paid;type:decimal(18,2);not null;default:0"`
	YTDYear             int                      `gorm:"column:ytd_year;not null;default:0"`
	Status              finance.LoanStatus       `gorm:"type:varchar(20);not null;default:'active';index"`
	PaidOffAt           *time.Time
	Notes               string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// ToDomain converts the persistence model to a domain Loan aggregate.
func (m *LoanModel) ToDomain() *finance.Loan {
	return &finance.Loan{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		LoanNumber:          m.LoanNumber,
		Lender:              m.Lender,
		LoanType:            m.LoanType,
		Entity:              m.Entity,
		OriginalAmount:      m.OriginalAmount,
		CurrentBalance:      m.CurrentBalance,
		InterestRate:        m.InterestRate,
		PaymentAmount:       m.PaymentAmount,
		PaymentFrequency:    m.PaymentFrequency,
		OriginationDate:     m.OriginationDate,
		MaturityDate:        m.MaturityDate,
		Collateral:          m.Collateral,
		CapitalInvestmentID: m.CapitalInvestmentID,
		Payments:            m.Payments,
		YTDPrincipalPaid:    m.YTDPrincipalPaid,
		YTDInterestPaid:     m.YTDInterestPaid,
		YTDYear:             m.YTDYear,
		Status:              m.Status,
		PaidOffAt:           m.PaidOffAt,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Loan aggregate.
func (m *LoanModel) FromDomain(l *finance.Loan) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.LoanNumber = l.LoanNumber
	m.Lender = l.Lender
	m.LoanType = l.LoanType
	m.Entity = l.Entity
	m.OriginalAmount = l.OriginalAmount
	m.CurrentBalance = l.CurrentBalance
	m.InterestRate = l.InterestRate
	m.PaymentAmount = l.PaymentAmount
	m.PaymentFrequency = l.PaymentFrequency
	m.OriginationDate = l.OriginationDate
	m.MaturityDate = l.MaturityDate
	m.Collateral = l.Collateral
	m.CapitalInvestmentID = l.CapitalInvestmentID
	m.Payments = l.Payments
	m.YTDPrincipalPaid = l.YTDPrincipalPaid
	m.YTDInterestPaid = l.YTDInterestPaid
	m.YTDYear = l.YTDYear
	m.Status = l.Status
	m.PaidOffAt = l.PaidOffAt
	m.Notes = l.Notes
}

// LoanModelFromDomain creates a new persistence model from a domain Loan aggregate.
func LoanModelFromDomain(l *finance.Loan) *LoanModel {
	m := &LoanModel{}
	m.FromDomain(l)
	return m
}

// BankAccountModel is the persistence model for the BankAccount aggregate.
type BankAccountModel struct {
	AggregateModel
	BankName         string                   `gorm:"type:varchar(200);not null"`
	AccountName      string                   `gorm:"type:varchar(200);not null"`
	AccountType      finance.AccountType      `gorm:"type:varchar(20);not null"`
	Last4            string                   `gorm:"column:last4;type:varchar(4)"`
	Entity           string                   `gorm:"type:varchar(100);not null;index"`
	CurrentBalance   decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	AvailableBalance decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	IsActive         bool                     `gorm:"not null;default:true;index"`
	Transactions     finance.BankTransactions `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount aggregate.
func (m *BankAccountModel) ToDomain() *finance.BankAccount {
	return &finance.BankAccount{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BankName:          m.BankName,
		AccountName:       m.AccountName,
		AccountType:       m.AccountType,
		Last4:             m.Last4,
		Entity:            m.Entity,
		CurrentBalance:    m.CurrentBalance,
		AvailableBalance:  m.AvailableBalance,
		IsActive:          m.IsActive,
		Transactions:      m.Transactions,
	}
}

// BankAccountModelFromDomain creates a new persistence model from a domain BankAccount aggregate.
func BankAccountModelFromDomain(a *finance.BankAccount) *BankAccountModel {
	m := &BankAccountModel{
		BankName:         a.BankName,
		AccountName:      a.AccountName,
		AccountType:      a.AccountType,
		Last4:            a.Last4,
		Entity:           a.Entity,
		CurrentBalance:   a.CurrentBalance,
		AvailableBalance: a.AvailableBalance,
		IsActive:         a.IsActive,
		Transactions:     a.Transactions,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// TransactionModel is the persistence model for a cash-flow transaction.
type TransactionModel struct {
	AggregateModel
	Date        time.Time                 `gorm:"not null;index"`
	Type        finance.TransactionType   `gorm:"type:varchar(20);not null;index"`
	Category    string                    `gorm:"type:varchar(100);not null"`
	Amount      decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Description string                    `gorm:"type:varchar(500)"`
	Entity      string                    `gorm:"type:varchar(100);index"`
	Status      finance.TransactionStatus `gorm:"type:varchar(20);not null;index"`
	IsProjected bool                      `gorm:"not null;default:false"`
	Reference   string                    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "cash_transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *TransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Date:              m.Date,
		Type:              m.Type,
		Category:          m.Category,
		Amount:            m.Amount,
		Description:       m.Description,
		Entity:            m.Entity,
		Status:            m.Status,
		IsProjected:       m.IsProjected,
		Reference:         m.Reference,
	}
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction.
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{
		Date:        t.Date,
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		Entity:      t.Entity,
		Status:      t.Status,
		IsProjected: t.IsProjected,
		Reference:   t.Reference,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// CapitalInvestmentModel is the persistence model for a capital investment.
type CapitalInvestmentModel struct {
	AggregateModel
	Name          string                 `gorm:"type:varchar(200);not null"`
	Type          finance.InvestmentType `gorm:"type:varchar(30);not null;index"`
	Entity        string                 `gorm:"type:varchar(100);not null;index"`
	Acres         decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseDate  time.Time              `gorm:"not null"`
	PurchasePrice decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	CurrentValue  finance.Valuation      `gorm:"type:jsonb"`
	Improvements  finance.Improvements   `gorm:"type:jsonb;default:'[]'"`
	Depreciation  finance.Depreciation   `gorm:"type:jsonb"`
	Status        string                 `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (CapitalInvestmentModel) TableName() string {
	return "capital_investments"
}

// ToDomain converts the persistence model to a domain CapitalInvestment.
func (m *CapitalInvestmentModel) ToDomain() *finance.CapitalInvestment {
	return &finance.CapitalInvestment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Entity:            m.Entity,
		Acres:             m.Acres,
		PurchaseDate:      m.PurchaseDate,
		PurchasePrice:     m.PurchasePrice,
		CurrentValue:      m.CurrentValue,
		Improvements:      m.Improvements,
		Depreciation:      m.Depreciation,
		Status:            m.Status,
	}
}

// CapitalInvestmentModelFromDomain creates a new persistence model from a domain CapitalInvestment.
func CapitalInvestmentModelFromDomain(c *finance.CapitalInvestment) *CapitalInvestmentModel {
	m := &CapitalInvestmentModel{
		Name:          c.Name,
		Type:          c.Type,
		Entity:        c.Entity,
		Acres:         c.Acres,
		PurchaseDate:  c.PurchaseDate,
		PurchasePrice: c.PurchasePrice,
		CurrentValue:  c.CurrentValue,
		Improvements:  c.Improvements,
		Depreciation:  c.Depreciation,
		Status:        c.Status,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
