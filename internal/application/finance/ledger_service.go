package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerService handles amounts owed between the farmer and landlords
type LedgerService struct {
	ledgerRepo finance.LedgerRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo finance.LedgerRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, logger: logger, now: time.Now}
}

// Create opens a ledger entry
func (s *LedgerService) Create(ctx context.Context, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := finance.NewLedgerEntry(finance.NewLedgerEntryParams{
		OwedBy:      finance.LedgerParty(req.OwedBy),
		OwedTo:      finance.LedgerParty(req.OwedTo),
		Landlord:    req.Landlord,
		FieldID:     req.FieldID,
		Year:        req.Year,
		Category:    finance.LedgerCategory(req.Category),
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save ledger entry: %w", err)
	}
	s.logger.Info("Ledger entry opened",
		zap.String("landlord", entry.Landlord),
		zap.Int("year", entry.Year),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// List returns a page of ledger entries
func (s *LedgerService) List(ctx context.Context, f LedgerListFilter) (shared.Paginated[LedgerEntryResponse], error) {
	filter := finance.LedgerFilter{
		Filter:   f.PageQuery.Filter("due_date"),
		Landlord: f.Landlord,
		Year:     f.Year,
		FieldID:  f.FieldID,
	}
	if f.Status != "" {
		status := finance.LedgerStatus(f.Status)
		filter.Status = &status
	}
	entries, err := s.ledgerRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[LedgerEntryResponse]{}, err
	}
	total, err := s.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[LedgerEntryResponse]{}, err
	}
	items := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		items[i] = ToLedgerEntryResponse(&entries[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// RecordPayment applies a payment delta
func (s *LedgerService) RecordPayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*LedgerEntryResponse, error) {
	return s.mutate(ctx, id, func(e *finance.LedgerEntry, now time.Time) error {
		_, err := e.RecordPayment(req.input(), now)
		return err
	})
}

// Cancel voids an entry without payments
func (s *LedgerService) Cancel(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	return s.mutate(ctx, id, func(e *finance.LedgerEntry, now time.Time) error { return e.Cancel(now) })
}

// Bill marks a pending entry due ahead of its due month
func (s *LedgerService) Bill(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	return s.mutate(ctx, id, func(e *finance.LedgerEntry, now time.Time) error {
		if !e.MarkDue(now) {
			return shared.NewValidationError("cannot bill a %s ledger entry", e.Status)
		}
		return nil
	})
}

func (s *LedgerService) mutate(ctx context.Context, id uuid.UUID, change func(*finance.LedgerEntry, time.Time) error) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(entry, s.now()); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.SaveWithLock(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}
