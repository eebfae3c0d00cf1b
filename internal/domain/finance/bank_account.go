package finance

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxRetainedTransactions caps the embedded transaction history of an account
const MaxRetainedTransactions = 100

// AccountType classifies a bank account
type AccountType string

const (
	AccountTypeChecking     AccountType = "checking"
	AccountTypeSavings      AccountType = "savings"
	AccountTypeMoneyMarket  AccountType = "money_market"
	AccountTypeLineOfCredit AccountType = "line_of_credit"
)

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeMoneyMarket, AccountTypeLineOfCredit:
		return true
	}
	return false
}

// BankTransactionType is the kind of account movement
type BankTransactionType string

const (
	BankTxDeposit     BankTransactionType = "deposit"
	BankTxInterest    BankTransactionType = "interest"
	BankTxTransferIn  BankTransactionType = "transfer_in"
	BankTxWithdrawal  BankTransactionType = "withdrawal"
	BankTxCheck       BankTransactionType = "check"
	BankTxFee         BankTransactionType = "fee"
	BankTxTransferOut BankTransactionType = "transfer_out"
)

// Sign returns +1 for credits, -1 for debits and 0 for unknown types
func (t BankTransactionType) Sign() int64 {
	switch t {
	case BankTxDeposit, BankTxInterest, BankTxTransferIn:
		return 1
	case BankTxWithdrawal, BankTxCheck, BankTxFee, BankTxTransferOut:
		return -1
	}
	return 0
}

// BankTransaction is one retained account movement
type BankTransaction struct {
	ID           uuid.UUID           `json:"id"`
	Type         BankTransactionType `json:"type"`
	Amount       decimal.Decimal     `json:"amount"`
	Delta        decimal.Decimal     `json:"delta"`
	Description  string              `json:"description,omitempty"`
	PostedOn     time.Time           `json:"posted_on"`
	BalanceAfter decimal.Decimal     `json:"balance_after"`
}

// BankTransactions is a slice of BankTransaction stored as JSONB
type BankTransactions []BankTransaction

// Value implements driver.Valuer for JSONB storage
func (t BankTransactions) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return shared.JSONValue(t)
}

// Scan implements sql.Scanner for JSONB storage
func (t *BankTransactions) Scan(value interface{}) error {
	*t = BankTransactions{}
	return shared.ScanJSON(value, t)
}

// BankAccount is a cash account held by one of the legal entities
type BankAccount struct {
	shared.BaseAggregateRoot
	BankName         string
	AccountName      string
	AccountType      AccountType
	Last4            string
	Entity           string
	CurrentBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	IsActive         bool
	Transactions     BankTransactions
}

// NewBankAccount opens an active account with an opening balance
func NewBankAccount(bankName, accountName string, accountType AccountType, last4, entity string, opening decimal.Decimal) (*BankAccount, error) {
	if strings.TrimSpace(bankName) == "" {
		return nil, shared.NewValidationError("bank name is required")
	}
	if strings.TrimSpace(accountName) == "" {
		return nil, shared.NewValidationError("account name is required")
	}
	if !accountType.IsValid() {
		return nil, shared.NewValidationError("unknown account type %q", accountType)
	}
	if len(last4) > 4 {
		return nil, shared.NewValidationError("only the last four digits of the account number may be stored")
	}
	return &BankAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BankName:          strings.TrimSpace(bankName),
		AccountName:       strings.TrimSpace(accountName),
		AccountType:       accountType,
		Last4:             last4,
		Entity:            strings.TrimSpace(entity),
		CurrentBalance:    opening,
		AvailableBalance:  opening,
		IsActive:          true,
		Transactions:      BankTransactions{},
	}, nil
}

// RecordTransaction applies a signed delta to both balances and keeps the
// most recent MaxRetainedTransactions entries
func (a *BankAccount) RecordTransaction(txType BankTransactionType, amount decimal.Decimal, description string, postedOn time.Time) (*BankTransaction, error) {
	if !a.IsActive {
		return nil, shared.NewValidationError("account %s is closed", a.AccountName)
	}
	sign := txType.Sign()
	if sign == 0 {
		return nil, shared.NewValidationError("unknown transaction type %q", txType)
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("transaction amount must be positive")
	}
	if postedOn.IsZero() {
		postedOn = time.Now()
	}

	delta := amount.Mul(decimal.NewFromInt(sign))
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.AvailableBalance = a.AvailableBalance.Add(delta)

	tx := BankTransaction{
		ID:           uuid.New(),
		Type:         txType,
		Amount:       amount,
		Delta:        delta,
		Description:  description,
		PostedOn:     postedOn,
		BalanceAfter: a.CurrentBalance,
	}
	a.Transactions = append(a.Transactions, tx)
	if n := len(a.Transactions); n > MaxRetainedTransactions {
		a.Transactions = append(BankTransactions(nil), a.Transactions[n-MaxRetainedTransactions:]...)
	}

	a.Touch()
	a.IncrementVersion()
	return &tx, nil
}

// Deactivate closes the account; closed accounts are excluded from cash
func (a *BankAccount) Deactivate() {
	a.IsActive = false
	a.Touch()
	a.IncrementVersion()
}
