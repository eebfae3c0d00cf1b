package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/m77ag/backend/internal/domain/assets"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/m77ag/backend/internal/domain/report"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const overviewKeyPrefix = "overview:"

// Cache stores computed read models
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// OverviewWriter renders an overview into a downloadable document
type OverviewWriter func(w io.Writer, o report.BankerOverview) error

// Sources are the repositories the overview reads from
type Sources struct {
	BankAccounts       finance.BankAccountRepository
	Invoices           finance.InvoiceRepository
	CapitalInvestments finance.CapitalInvestmentRepository
	Loans              finance.LoanRepository
	Transactions       finance.TransactionRepository
	Equipment          assets.EquipmentRepository
	Cattle             herd.CattleRepository
}

// OverviewService builds the banker overview and the AR aging report
type OverviewService struct {
	src    Sources
	cache  Cache
	ttl    time.Duration
	writer OverviewWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewOverviewService creates a new OverviewService. A nil cache or a zero
// ttl disables caching.
func NewOverviewService(src Sources, cache Cache, ttl time.Duration, writer OverviewWriter, logger *zap.Logger) *OverviewService {
	return &OverviewService{
		src:    src,
		cache:  cache,
		ttl:    ttl,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// BankerOverview returns the overview for a year, from cache when fresh
func (s *OverviewService) BankerOverview(ctx context.Context, year int) (*report.BankerOverview, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if year < 2000 || year > now.Year()+1 {
		return nil, shared.NewValidationError("year %d is out of range", year)
	}

	key := fmt.Sprintf("%s%d", overviewKeyPrefix, year)
	if s.caching() {
		var cached report.BankerOverview
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Overview cache read failed", zap.Int("year", year), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "banker_overview", telemetry.SpanAttrYear, year)
	defer span.End()

	in, err := s.fetch(ctx, year, report.AsOfDate(year, now))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	overview := report.BuildOverview(*in)

	if s.caching() {
		if err := s.cache.Set(ctx, key, overview, s.ttl); err != nil {
			s.logger.Warn("Overview cache write failed", zap.Int("year", year), zap.Error(err))
		}
	}
	return &overview, nil
}

// ExportOverview writes the overview for a year as a workbook
func (s *OverviewService) ExportOverview(ctx context.Context, year int, w io.Writer) error {
	if s.writer == nil {
		return shared.NewDomainError(shared.CodeInvalidState, "Overview export is not configured")
	}
	overview, err := s.BankerOverview(ctx, year)
	if err != nil {
		return err
	}
	return s.writer(w, *overview)
}

// ARAging buckets the outstanding receivables by days past due
func (s *OverviewService) ARAging(ctx context.Context) (*report.ARAging, error) {
	invoices, err := s.src.Invoices.FindByStatuses(ctx, finance.OutstandingInvoiceStatuses()...)
	if err != nil {
		return nil, err
	}
	aging := report.BuildARAging(invoices, s.now())
	return &aging, nil
}

// Invalidate drops every cached overview
func (s *OverviewService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, overviewKeyPrefix)
}

// fetch reads the collections concurrently. The reads are independent, so
// the result is a snapshot that may straddle concurrent writes.
func (s *OverviewService) fetch(ctx context.Context, year int, asOf time.Time) (*report.OverviewInputs, error) {
	in := &report.OverviewInputs{Year: year, AsOf: asOf}
	all := shared.Unpaged()
	from := time.Date(year, 1, 1, 0, 0, 0, 0, asOf.Location())
	to := time.Date(year, 12, 31, 23, 59, 59, 0, asOf.Location())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.BankAccounts, err = s.src.BankAccounts.FindAll(gctx, true)
		return wrap("bank accounts", err)
	})
	g.Go(func() (err error) {
		in.Invoices, err = s.src.Invoices.FindByStatuses(gctx, finance.OutstandingInvoiceStatuses()...)
		return wrap("invoices", err)
	})
	g.Go(func() (err error) {
		in.CapitalInvestments, err = s.src.CapitalInvestments.FindAll(gctx, all)
		return wrap("capital investments", err)
	})
	g.Go(func() (err error) {
		in.Loans, err = s.src.Loans.FindAll(gctx, finance.LoanFilter{Filter: all})
		return wrap("loans", err)
	})
	g.Go(func() (err error) {
		in.Transactions, err = s.src.Transactions.FindAll(gctx, finance.TransactionFilter{Filter: all, From: &from, To: &to})
		return wrap("transactions", err)
	})
	g.Go(func() (err error) {
		in.Equipment, err = s.src.Equipment.FindAll(gctx, all)
		return wrap("equipment", err)
	})
	g.Go(func() (err error) {
		active := herd.StatusActive
		in.Cattle, err = s.src.Cattle.FindAll(gctx, herd.CattleFilter{Filter: all, Status: &active})
		return wrap("cattle", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *OverviewService) caching() bool {
	return s.cache != nil && s.ttl > 0
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}
