package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLoanRepository implements finance.LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Loan, error) {
	var model models.LoanModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds loans matching the filter
func (r *GormLoanRepository) FindAll(ctx context.Context, filter finance.LoanFilter) ([]finance.Loan, error) {
	var rows []models.LoanModel
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter),
		filter.Filter, LoanSortFields, "maturity_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	loans := make([]finance.Loan, len(rows))
	for i := range rows {
		loans[i] = *rows[i].ToDomain()
	}
	return loans, nil
}

// Count counts loans matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, filter finance.LoanFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, loan *finance.Loan) error {
	return translateError(r.db.WithContext(ctx).Save(models.LoanModelFromDomain(loan)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, loan *finance.Loan) error {
	return saveWithLock(ctx, r.db, models.LoanModelFromDomain(loan), loan.ID, loan.Version)
}

func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter finance.LoanFilter) *gorm.DB {
	query = search(query, filter.Search, "lender", "loan_number")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.CapitalInvestmentID != nil {
		query = query.Where("capital_investment_id = ?", *filter.CapitalInvestmentID)
	}
	return query
}

// GormBankAccountRepository implements finance.BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds a bank account by its ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	var model models.BankAccountModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists bank accounts, optionally only active ones
func (r *GormBankAccountRepository) FindAll(ctx context.Context, activeOnly bool) ([]finance.BankAccount, error) {
	var rows []models.BankAccountModel
	query := r.db.WithContext(ctx).Order("bank_name ASC, account_name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]finance.BankAccount, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, account *finance.BankAccount) error {
	return translateError(r.db.WithContext(ctx).Save(models.BankAccountModelFromDomain(account)).Error)
}

// SaveWithLock saves with optimistic locking
func (r *GormBankAccountRepository) SaveWithLock(ctx context.Context, account *finance.BankAccount) error {
	return saveWithLock(ctx, r.db, models.BankAccountModelFromDomain(account), account.ID, account.Version)
}

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a cash-flow record by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds cash-flow records matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	var rows []models.TransactionModel
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter),
		filter.Filter, TransactionSortFields, "date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]finance.Transaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, nil
}

// Count counts cash-flow records matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a cash-flow record
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	return translateError(r.db.WithContext(ctx).Save(models.TransactionModelFromDomain(tx)).Error)
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	query = search(query, filter.Search, "category", "description")
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.RealizedOnly {
		query = query.Where("status = ? AND is_projected = ?", finance.TransactionCompleted, false)
	}
	return query
}

// GormCapitalInvestmentRepository implements finance.CapitalInvestmentRepository using GORM
type GormCapitalInvestmentRepository struct {
	db *gorm.DB
}

// NewGormCapitalInvestmentRepository creates a new GormCapitalInvestmentRepository
func NewGormCapitalInvestmentRepository(db *gorm.DB) *GormCapitalInvestmentRepository {
	return &GormCapitalInvestmentRepository{db: db}
}

// FindByID finds a capital investment by its ID
func (r *GormCapitalInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CapitalInvestment, error) {
	var model models.CapitalInvestmentModel
	if err := findOne(ctx, r.db, &model, "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists capital investments
func (r *GormCapitalInvestmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.CapitalInvestment, error) {
	var rows []models.CapitalInvestmentModel
	query := search(r.db.WithContext(ctx).Model(&models.CapitalInvestmentModel{}), filter.Search, "name")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := paginate(query, filter, CommonSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	investments := make([]finance.CapitalInvestment, len(rows))
	for i := range rows {
		investments[i] = *rows[i].ToDomain()
	}
	return investments, nil
}

// Save creates or updates a capital investment
func (r *GormCapitalInvestmentRepository) Save(ctx context.Context, inv *finance.CapitalInvestment) error {
	return translateError(r.db.WithContext(ctx).Save(models.CapitalInvestmentModelFromDomain(inv)).Error)
}

var (
	_ finance.LoanRepository              = (*GormLoanRepository)(nil)
	_ finance.BankAccountRepository       = (*GormBankAccountRepository)(nil)
	_ finance.TransactionRepository       = (*GormTransactionRepository)(nil)
	_ finance.CapitalInvestmentRepository = (*GormCapitalInvestmentRepository)(nil)
)
