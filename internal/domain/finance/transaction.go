package finance

import (
	"strings"
	"time"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType separates income from expense
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionStatus is the settlement state of a cash-flow record
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is a cash-flow record. Projected transactions feed budgets
// but never the realised figures in the banker's overview.
type Transaction struct {
	shared.BaseAggregateRoot
	Date        time.Time
	Type        TransactionType
	Category    string
	Amount      decimal.Decimal
	Description string
	Entity      string
	Status      TransactionStatus
	IsProjected bool
	Reference   string
}

// NewTransactionParams holds the fields of a cash-flow record
type NewTransactionParams struct {
	Date        time.Time
	Type        TransactionType
	Category    string
	Amount      decimal.Decimal
	Description string
	Entity      string
	Status      TransactionStatus
	IsProjected bool
	Reference   string
}

// NewTransaction validates and creates a cash-flow record
func NewTransaction(p NewTransactionParams) (*Transaction, error) {
	if p.Type != TransactionIncome && p.Type != TransactionExpense {
		return nil, shared.NewValidationError("transaction type must be income or expense")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewValidationError("transaction amount must be positive")
	}
	if strings.TrimSpace(p.Category) == "" {
		return nil, shared.NewValidationError("category is required")
	}
	status := p.Status
	if status == "" {
		status = TransactionPending
	}
	if status != TransactionPending && status != TransactionCompleted && status != TransactionCancelled {
		return nil, shared.NewValidationError("unknown transaction status %q", p.Status)
	}
	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Type:              p.Type,
		Category:          strings.TrimSpace(p.Category),
		Amount:            p.Amount,
		Description:       p.Description,
		Entity:            strings.TrimSpace(p.Entity),
		Status:            status,
		IsProjected:       p.IsProjected,
		Reference:         p.Reference,
	}, nil
}

// IsRealized reports whether the record counts toward actual cash flow
func (t *Transaction) IsRealized() bool {
	return t.Status == TransactionCompleted && !t.IsProjected
}

// SignedAmount returns the amount as income-positive
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
