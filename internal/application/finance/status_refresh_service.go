package finance

import (
	"context"
	"errors"
	"time"

	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StatusRefreshService re-derives the status of open invoices and ledger
// entries, which is how unpaid records become overdue without a payment
type StatusRefreshService struct {
	invoiceRepo finance.InvoiceRepository
	ledgerRepo  finance.LedgerRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewStatusRefreshService creates a new StatusRefreshService
func NewStatusRefreshService(invoiceRepo finance.InvoiceRepository, ledgerRepo finance.LedgerRepository, logger *zap.Logger) *StatusRefreshService {
	return &StatusRefreshService{
		invoiceRepo: invoiceRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// RefreshOverdue sweeps outstanding invoices and open ledger entries and
// persists every status change. A record modified concurrently is skipped
// and picked up by the next sweep.
func (s *StatusRefreshService) RefreshOverdue(ctx context.Context) (*RefreshResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "finance", "refresh_overdue")
	defer span.End()

	now := s.now()
	result := &RefreshResult{}

	invoices, err := s.invoiceRepo.FindByStatuses(ctx, finance.OutstandingInvoiceStatuses()...)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	result.InvoicesChecked = len(invoices)
	for i := range invoices {
		inv := &invoices[i]
		if !inv.Refresh(now) {
			continue
		}
		inv.UpdatedAt = now
		inv.IncrementVersion()
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Warn("Invoice changed during refresh, skipping", zap.String("invoice_number", inv.InvoiceNumber))
				continue
			}
			telemetry.RecordError(span, err)
			return nil, err
		}
		result.InvoicesUpdated++
	}

	entries, err := s.ledgerRepo.FindOpen(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	result.LedgerChecked = len(entries)
	for i := range entries {
		entry := &entries[i]
		if !entry.Refresh(now) {
			continue
		}
		entry.UpdatedAt = now
		entry.IncrementVersion()
		if err := s.ledgerRepo.SaveWithLock(ctx, entry); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Warn("Ledger entry changed during refresh, skipping", zap.String("ledger_id", entry.ID.String()))
				continue
			}
			telemetry.RecordError(span, err)
			return nil, err
		}
		result.LedgerUpdated++
	}

	s.logger.Info("Status refresh finished",
		zap.Int("invoices_updated", result.InvoicesUpdated),
		zap.Int("ledger_updated", result.LedgerUpdated),
	)
	return result, nil
}
