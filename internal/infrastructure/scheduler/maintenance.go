package scheduler

import (
	"context"

	financeapp "github.com/m77ag/backend/internal/application/finance"
	"go.uber.org/zap"
)

// Nightly task names
const (
	TaskRefreshOverdue   = "refresh_overdue"
	TaskInvalidateReport = "invalidate_overview"
)

// OverdueRefresher moves unpaid invoices and ledger entries past due
type OverdueRefresher interface {
	RefreshOverdue(ctx context.Context) (*financeapp.RefreshResult, error)
}

// OverviewInvalidator drops cached banker overviews
type OverviewInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RegisterMaintenance registers the nightly farm tasks. The refresh drops
// the cached overviews once its sweep is saved; invalidate_overview only
// runs when submitted by name.
func RegisterMaintenance(s *Scheduler, refresher OverdueRefresher, overview OverviewInvalidator, logger *zap.Logger) error {
	if err := s.Register(TaskRefreshOverdue, func(ctx context.Context) error {
		result, err := refresher.RefreshOverdue(ctx)
		if err != nil {
			return err
		}
		logger.Info("Overdue refresh finished",
			zap.Int("invoices_updated", result.InvoicesUpdated),
			zap.Int("ledger_updated", result.LedgerUpdated),
		)
		return overview.Invalidate(ctx)
	}); err != nil {
		return err
	}
	return s.RegisterManual(TaskInvalidateReport, overview.Invalidate)
}
