package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService handles bank accounts, cash-flow transactions and
// capital investments
type AccountService struct {
	accountRepo    finance.BankAccountRepository
	txRepo         finance.TransactionRepository
	investmentRepo finance.CapitalInvestmentRepository
	loanRepo       finance.LoanRepository
	entities       shared.LegalEntities
	logger         *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo finance.BankAccountRepository,
	txRepo finance.TransactionRepository,
	investmentRepo finance.CapitalInvestmentRepository,
	loanRepo finance.LoanRepository,
	entities shared.LegalEntities,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		txRepo:         txRepo,
		investmentRepo: investmentRepo,
		loanRepo:       loanRepo,
		entities:       entities,
		logger:         logger,
	}
}

// =============================================================================
// Bank accounts
// =============================================================================

// CreateBankAccount opens an account with its opening balance
func (s *AccountService) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	if err := s.entities.Validate(req.Entity); err != nil {
		return nil, err
	}
	account, err := finance.NewBankAccount(req.BankName, req.AccountName, finance.AccountType(req.AccountType), req.Last4, req.Entity, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}
	s.logger.Info("Bank account opened", zap.String("bank", account.BankName), zap.String("account", account.AccountName))
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// ListBankAccounts returns accounts, optionally only the active ones
func (s *AccountService) ListBankAccounts(ctx context.Context, activeOnly bool) ([]BankAccountResponse, error) {
	accounts, err := s.accountRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToBankAccountResponse(&accounts[i])
	}
	return out, nil
}

// RecordBankTransaction posts a movement with a version check so concurrent
// postings cannot lose an update
func (s *AccountService) RecordBankTransaction(ctx context.Context, accountID uuid.UUID, req BankTransactionRequest) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, err := account.RecordTransaction(finance.BankTransactionType(req.Type), req.Amount, req.Description, req.PostedOn); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// =============================================================================
// Cash-flow transactions
// =============================================================================

// CreateTransaction records income or expense
func (s *AccountService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	if req.Entity != "" {
		if err := s.entities.Validate(req.Entity); err != nil {
			return nil, err
		}
	}
	tx, err := finance.NewTransaction(finance.NewTransactionParams{
		Date:        req.Date,
		Type:        finance.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Entity:      req.Entity,
		Status:      finance.TransactionStatus(req.Status),
		IsProjected: req.IsProjected,
		Reference:   req.Reference,
	})
	if err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// ListTransactions returns a page of cash-flow records
func (s *AccountService) ListTransactions(ctx context.Context, f TransactionListFilter) (shared.Paginated[TransactionResponse], error) {
	filter := finance.TransactionFilter{
		Filter:       f.PageQuery.Filter("date"),
		From:         f.From,
		To:           f.To,
		RealizedOnly: f.RealizedOnly,
	}
	if f.Type != "" {
		t := finance.TransactionType(f.Type)
		filter.Type = &t
	}
	if f.Status != "" {
		st := finance.TransactionStatus(f.Status)
		filter.Status = &st
	}
	txs, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	total, err := s.txRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	items := make([]TransactionResponse, len(txs))
	for i := range txs {
		items[i] = ToTransactionResponse(&txs[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// =============================================================================
// Capital investments
// =============================================================================

// CreateCapitalInvestment records a capital purchase
func (s *AccountService) CreateCapitalInvestment(ctx context.Context, req CreateCapitalInvestmentRequest) (*CapitalInvestmentResponse, error) {
	if err := s.entities.Validate(req.Entity); err != nil {
		return nil, err
	}
	inv, err := finance.NewCapitalInvestment(req.Name, finance.InvestmentType(req.Type), req.Entity, req.PurchaseDate, req.PurchasePrice)
	if err != nil {
		return nil, err
	}
	inv.Acres = req.Acres
	if req.UsefulLife > 0 && inv.Depreciation.Method != "none" {
		inv.Depreciation.UsefulLifeYears = req.UsefulLife
		inv.Depreciation.SalvageValue = req.SalvageValue
	}
	if req.CurrentValue != nil {
		if err := inv.Revalue(*req.CurrentValue, req.PurchaseDate, "owner_estimate"); err != nil {
			return nil, err
		}
	}
	if err := s.investmentRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save capital investment: %w", err)
	}
	resp := ToCapitalInvestmentResponse(inv, nil)
	return &resp, nil
}

// GetCapitalInvestment returns an investment with the loans secured by it
func (s *AccountService) GetCapitalInvestment(ctx context.Context, id uuid.UUID) (*CapitalInvestmentResponse, error) {
	inv, err := s.investmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.FindAll(ctx, finance.LoanFilter{Filter: shared.Unpaged(), CapitalInvestmentID: &id})
	if err != nil {
		return nil, err
	}
	resp := ToCapitalInvestmentResponse(inv, loans)
	return &resp, nil
}

// ListCapitalInvestments returns every investment with its linked debt
func (s *AccountService) ListCapitalInvestments(ctx context.Context) ([]CapitalInvestmentResponse, error) {
	invs, err := s.investmentRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.FindAll(ctx, finance.LoanFilter{Filter: shared.Unpaged()})
	if err != nil {
		return nil, err
	}
	out := make([]CapitalInvestmentResponse, len(invs))
	for i := range invs {
		out[i] = ToCapitalInvestmentResponse(&invs[i], loans)
	}
	return out, nil
}
