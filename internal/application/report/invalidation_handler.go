package report

import (
	"context"

	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OverviewInvalidationHandler drops cached overviews when receivables or
// debt balances move, so the next read rebuilds them
type OverviewInvalidationHandler struct {
	overview *OverviewService
	logger   *zap.Logger
}

// NewOverviewInvalidationHandler creates a new OverviewInvalidationHandler
func NewOverviewInvalidationHandler(overview *OverviewService, logger *zap.Logger) *OverviewInvalidationHandler {
	return &OverviewInvalidationHandler{overview: overview, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OverviewInvalidationHandler) EventTypes() []string {
	return []string{
		finance.EventTypeInvoiceSent,
		finance.EventTypeInvoicePaymentRecorded,
		finance.EventTypeLoanPaymentRecorded,
		finance.EventTypeLoanPaidOff,
		booking.EventTypeBookingConfirmed,
	}
}

// Handle invalidates the overview cache
func (h *OverviewInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.overview.Invalidate(ctx); err != nil {
		h.logger.Warn("Failed to invalidate overview cache", zap.String("event_type", event.EventType()), zap.Error(err))
		return err
	}
	return nil
}

var _ shared.EventHandler = (*OverviewInvalidationHandler)(nil)
