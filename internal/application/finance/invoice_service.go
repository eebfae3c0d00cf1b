package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// numberAttempts bounds retries when two drafts race for the same invoice number
const numberAttempts = 3

// InvoiceSettings are the configured invoice numbering and payment terms
type InvoiceSettings struct {
	Prefix  string
	DueDays int
}

// InvoiceService handles customer invoices
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	settings       InvoiceSettings
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo finance.InvoiceRepository, settings InvoiceSettings, logger *zap.Logger) *InvoiceService {
	if settings.Prefix == "" {
		settings.Prefix = finance.DefaultInvoicePrefix
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create drafts an invoice with the next number for its issue year
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.Draft(ctx, s.invoiceRepo, req)
	if err != nil {
		return nil, err
	}
	return s.respond(inv), nil
}

// Draft numbers, builds and saves an invoice through repo. Callers running
// inside a transaction pass the transactional repository.
func (s *InvoiceService) Draft(ctx context.Context, repo finance.InvoiceRepository, req CreateInvoiceRequest) (*finance.Invoice, error) {
	issue := req.IssueDate
	if issue.IsZero() {
		issue = s.now()
	}
	due := req.DueDate
	if due == nil && s.settings.DueDays > 0 {
		d := issue.AddDate(0, 0, s.settings.DueDays)
		due = &d
	}
	items := make([]finance.InvoiceItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = finance.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		}
	}

	for attempt := 1; ; attempt++ {
		number, err := repo.NextInvoiceNumber(ctx, s.settings.Prefix, issue.Year())
		if err != nil {
			return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		inv, err := finance.NewInvoice(finance.NewInvoiceParams{
			InvoiceNumber: number,
			Category:      finance.InvoiceCategory(req.Category),
			Customer: finance.Customer{
				Name:    req.Customer.Name,
				Email:   req.Customer.Email,
				Phone:   req.Customer.Phone,
				Address: req.Customer.Address,
			},
			Items:          items,
			DiscountAmount: req.DiscountAmount,
			IssueDate:      issue,
			DueDate:        due,
			Notes:          req.Notes,
		})
		if err != nil {
			return nil, err
		}
		err = repo.Save(ctx, inv)
		if err == nil {
			s.logger.Info("Invoice drafted",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.String("customer", inv.Customer.Name),
				zap.String("total", inv.Total.StringFixed(2)),
			)
			return inv, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == numberAttempts {
			return nil, fmt.Errorf("failed to save invoice: %w", err)
		}
		s.logger.Warn("Invoice number taken, retrying", zap.String("invoice_number", number))
	}
}

// NextNumber previews the next invoice number for a year
func (s *InvoiceService) NextNumber(ctx context.Context, year int) (*NextNumberResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}
	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, s.settings.Prefix, year)
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{InvoiceNumber: number}, nil
}

// GetByID returns one invoice
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(inv), nil
}

// List returns a page of invoices
func (s *InvoiceService) List(ctx context.Context, f InvoiceListFilter) (shared.Paginated[InvoiceResponse], error) {
	filter := finance.InvoiceFilter{
		Filter:  f.PageQuery.Filter("issue_date"),
		DueFrom: f.DueFrom,
		DueTo:   f.DueTo,
	}
	if f.Status != "" {
		filter.Statuses = []finance.InvoiceStatus{finance.InvoiceStatus(f.Status)}
	}
	if f.Category != "" {
		category := finance.InvoiceCategory(f.Category)
		filter.Category = &category
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}
	now := s.now()
	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i], now)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Send moves a draft to sent. Subscribers of InvoiceSent email the customer.
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, id, "send", func(inv *finance.Invoice, now time.Time) error { return inv.Send(now) })
}

// MarkViewed records that the customer opened the invoice. Repeated views are a no-op.
func (s *InvoiceService) MarkViewed(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.MarkViewed(s.now()) {
		return s.respond(inv), nil
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return s.respond(inv), nil
}

// RecordPayment applies a payment and re-derives the status
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "record_payment",
		telemetry.SpanAttrInvoiceID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)
	defer span.End()

	resp, err := s.mutate(ctx, id, "payment", func(inv *finance.Invoice, now time.Time) error {
		_, err := inv.RecordPayment(req.input(), now)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

// Cancel voids an invoice without payments
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, id, "cancel", func(inv *finance.Invoice, now time.Time) error { return inv.Cancel(now) })
}

// Refund marks a paid invoice refunded
func (s *InvoiceService) Refund(ctx context.Context, id uuid.UUID, req RefundRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, id, "refund", func(inv *finance.Invoice, now time.Time) error { return inv.Refund(req.Reason, now) })
}

// mutate loads an invoice, applies one change, saves it with a version
// check and then publishes the events the change raised
func (s *InvoiceService) mutate(ctx context.Context, id uuid.UUID, action string, change func(*finance.Invoice, time.Time) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(inv, s.now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice updated",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("action", action),
		zap.String("status", string(inv.Status)),
	)
	if err := shared.PublishAndClear(ctx, s.eventPublisher, inv); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
	}
	return s.respond(inv), nil
}

func (s *InvoiceService) respond(inv *finance.Invoice) *InvoiceResponse {
	resp := ToInvoiceResponse(inv, s.now())
	return &resp
}
