package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/common"
	financeapp "github.com/m77ag/backend/internal/application/finance"
	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceDrafter numbers and saves an invoice through the given repository
type InvoiceDrafter interface {
	Draft(ctx context.Context, repo finance.InvoiceRepository, req financeapp.CreateInvoiceRequest) (*finance.Invoice, error)
}

// BookingService handles hunting lease bookings
type BookingService struct {
	bookingRepo    booking.BookingRepository
	invoices       InvoiceDrafter
	txScope        common.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo booking.BookingRepository, invoices InvoiceDrafter, txScope common.TransactionScope, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		invoices:    invoices,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BookingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a pending booking
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error) {
	b, err := booking.NewHuntingBooking(booking.NewBookingParams{
		HunterName:     req.HunterName,
		Email:          req.Email,
		Phone:          req.Phone,
		Season:         req.Season,
		LeaseArea:      req.LeaseArea,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		HunterCount:    req.HunterCount,
		PricePerHunter: req.PricePerHunter,
		Deposit:        req.Deposit,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	s.logger.Info("Hunting booking requested",
		zap.String("booking_id", b.ID.String()),
		zap.String("hunter", b.HunterName),
		zap.String("lease_area", b.LeaseArea),
	)
	resp := ToBookingResponse(b)
	return &resp, nil
}

// GetByID returns a booking
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// List returns a page of bookings ordered by start date
func (s *BookingService) List(ctx context.Context, f BookingListFilter) (shared.Paginated[BookingResponse], error) {
	filter := f.PageQuery.Filter("start_date")
	rows, total, err := s.bookingRepo.FindAll(ctx, filter, booking.BookingStatus(f.Status))
	if err != nil {
		return shared.Paginated[BookingResponse]{}, err
	}
	items := make([]BookingResponse, len(rows))
	for i := range rows {
		items[i] = ToBookingResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Confirm drafts the lease invoice and confirms the booking in one
// transaction, then announces the confirmation so the hunter is emailed
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "confirm", telemetry.SpanAttrBookingID, id.String())
	defer span.End()

	var confirmed *booking.HuntingBooking
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		b, err := repos.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status != booking.BookingPending {
			return shared.NewDomainError(shared.CodeInvalidState, "only pending bookings can be confirmed")
		}
		inv, err := s.invoices.Draft(ctx, repos.Invoices(), leaseInvoice(b))
		if err != nil {
			return fmt.Errorf("failed to draft lease invoice: %w", err)
		}
		if err := b.Confirm(inv.ID); err != nil {
			return err
		}
		if err := repos.Bookings().SaveWithLock(ctx, b); err != nil {
			return err
		}
		confirmed = b
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Hunting booking confirmed",
		zap.String("booking_id", confirmed.ID.String()),
		zap.String("invoice_id", confirmed.InvoiceID.String()),
	)
	if err := shared.PublishAndClear(ctx, s.eventPublisher, confirmed); err != nil {
		s.logger.Warn("Failed to publish booking events", zap.String("booking_id", confirmed.ID.String()), zap.Error(err))
	}
	resp := ToBookingResponse(confirmed)
	return &resp, nil
}

// Complete closes a confirmed hunt
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.mutate(ctx, id, "completed", (*booking.HuntingBooking).Complete)
}

// Cancel withdraws a booking that has not been completed
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.mutate(ctx, id, "cancelled", (*booking.HuntingBooking).Cancel)
}

func (s *BookingService) mutate(ctx context.Context, id uuid.UUID, action string, change func(*booking.HuntingBooking) error) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SaveWithLock(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Hunting booking "+action, zap.String("booking_id", b.ID.String()))
	resp := ToBookingResponse(b)
	return &resp, nil
}

// leaseInvoice bills the party size at the per-hunter price
func leaseInvoice(b *booking.HuntingBooking) financeapp.CreateInvoiceRequest {
	desc := "Hunting lease: " + b.LeaseArea
	if b.Season != "" {
		desc += " (" + b.Season + ")"
	}
	notes := fmt.Sprintf("Hunt %s to %s", b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"))
	if b.Deposit.IsPositive() {
		notes += fmt.Sprintf(". Deposit due: %s", b.Deposit.StringFixed(2))
	}
	return financeapp.CreateInvoiceRequest{
		Category: string(finance.InvoiceCategoryHuntingLease),
		Customer: financeapp.CustomerRequest{
			Name:  b.HunterName,
			Email: b.Email,
			Phone: b.Phone,
		},
		Items: []financeapp.InvoiceItemRequest{{
			Description: desc,
			Quantity:    decimal.NewFromInt(int64(b.HunterCount)),
			UnitPrice:   b.PricePerHunter,
		}},
		Notes: notes,
	}
}
