package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	Statuses []InvoiceStatus
	Category *InvoiceCategory
	DueFrom  *time.Time
	DueTo    *time.Time
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)

	// FindByStatuses returns every invoice in one of the given statuses
	FindByStatuses(ctx context.Context, statuses ...InvoiceStatus) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// NextInvoiceNumber returns the next "{prefix}-{year}-{seq}" number
	NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error)
}

// LedgerFilter defines filtering options for ledger queries
type LedgerFilter struct {
	shared.Filter
	Landlord string
	Year     int
	Status   *LedgerStatus
	FieldID  *uuid.UUID
}

// LedgerRepository defines the interface for landlord ledger persistence
type LedgerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	FindAll(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, error)
	Count(ctx context.Context, filter LedgerFilter) (int64, error)
	FindOpen(ctx context.Context) ([]LedgerEntry, error)
	Save(ctx context.Context, entry *LedgerEntry) error
	SaveWithLock(ctx context.Context, entry *LedgerEntry) error
}

// LoanFilter defines filtering options for loan queries
type LoanFilter struct {
	shared.Filter
	Status              *LoanStatus
	Entity              string
	CapitalInvestmentID *uuid.UUID
}

// LoanRepository defines the interface for loan persistence
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindAll(ctx context.Context, filter LoanFilter) ([]Loan, error)
	Count(ctx context.Context, filter LoanFilter) (int64, error)
	Save(ctx context.Context, loan *Loan) error
	SaveWithLock(ctx context.Context, loan *Loan) error
}

// BankAccountRepository defines the interface for bank account persistence
type BankAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	FindAll(ctx context.Context, activeOnly bool) ([]BankAccount, error)
	Save(ctx context.Context, account *BankAccount) error
	SaveWithLock(ctx context.Context, account *BankAccount) error
}

// TransactionFilter defines filtering options for cash-flow queries
type TransactionFilter struct {
	shared.Filter
	Type         *TransactionType
	Status       *TransactionStatus
	From         *time.Time
	To           *time.Time
	RealizedOnly bool
}

// TransactionRepository defines the interface for cash-flow persistence
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
	Save(ctx context.Context, tx *Transaction) error
}

// CapitalInvestmentRepository defines the interface for capital investment persistence
type CapitalInvestmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CapitalInvestment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CapitalInvestment, error)
	Save(ctx context.Context, inv *CapitalInvestment) error
}
