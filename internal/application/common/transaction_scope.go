package common

import (
	"context"

	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/herd"
)

// TransactionScope runs a unit of work atomically. Every repository handed
// to fn shares one database transaction, committed when fn returns nil and
// rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories that take part in
// multi-aggregate writes.
//
//   - Fields/Expenses: expense writes and the cost rollup
//   - Cattle: calving (calf insert plus dam update)
//   - Bookings/Invoices: booking confirmation raises the deposit invoice
//   - Offers/Equipment/Transactions: a paid offer sells the equipment and books the income
type TransactionalRepositories interface {
	Fields() cropping.FieldRepository
	Expenses() cropping.ExpenseRepository
	Cattle() herd.CattleRepository
	Invoices() finance.InvoiceRepository
	Bookings() booking.BookingRepository
	Offers() booking.OfferRepository
	Equipment() assets.EquipmentRepository
	Transactions() finance.TransactionRepository
}

// Repositories is a plain TransactionalRepositories value
type Repositories struct {
	FieldRepo     cropping.FieldRepository
	ExpenseRepo   cropping.ExpenseRepository
	CattleRepo    herd.CattleRepository
	InvoiceRepo   finance.InvoiceRepository
	BookingRepo   booking.BookingRepository
	OfferRepo     booking.OfferRepository
	EquipmentRepo assets.EquipmentRepository
	CashRepo      finance.TransactionRepository
}

func (r *Repositories) Fields() cropping.FieldRepository { return r.FieldRepo }
func (r *Repositories) Expenses() cropping.ExpenseRepository { return r.ExpenseRepo }
func (r *Repositories) Cattle() herd.CattleRepository { return r.CattleRepo }
func (r *Repositories) Invoices() finance.InvoiceRepository { return r.InvoiceRepo }
func (r *Repositories) Bookings() booking.BookingRepository { return r.BookingRepo }
func (r *Repositories) Offers() booking.OfferRepository { return r.OfferRepo }
func (r *Repositories) Equipment() assets.EquipmentRepository { return r.EquipmentRepo }
func (r *Repositories) Transactions() finance.TransactionRepository { return r.CashRepo }

// NoOpTransactionScope runs fn against fixed repositories without a real
// transaction. Used by unit tests.
type NoOpTransactionScope struct {
	Repos *Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos *Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{Repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*Repositories)(nil)
)
