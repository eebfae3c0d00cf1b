package persistence

import (
	"context"

	"github.com/m77ag/backend/internal/application/common"
	"gorm.io/gorm"
)

// GormTransactionScope implements common.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back; otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos common.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(RepositoriesFor(tx))
	})
}

// RepositoriesFor binds every transactional repository to db
func RepositoriesFor(db *gorm.DB) *common.Repositories {
	return &common.Repositories{
		FieldRepo:     NewGormFieldRepository(db),
		ExpenseRepo:   NewGormExpenseRepository(db),
		CattleRepo:    NewGormCattleRepository(db),
		InvoiceRepo:   NewGormInvoiceRepository(db),
		BookingRepo:   NewGormBookingRepository(db),
		OfferRepo:     NewGormOfferRepository(db),
		EquipmentRepo: NewGormEquipmentRepository(db),
		CashRepo:      NewGormTransactionRepository(db),
	}
}

// Ensure GormTransactionScope implements TransactionScope
var _ common.TransactionScope = (*GormTransactionScope)(nil)
