package notification

import (
	"context"
	"fmt"

	"github.com/m77ag/backend/internal/domain/booking"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EmailHandler mails customers, hunters and buyers when their invoice,
// booking or offer changes state. Delivery failures are logged and
// swallowed; the write that raised the event has already committed.
type EmailHandler struct {
	notifier Notifier
	farmName string
	logger   *zap.Logger
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(notifier Notifier, farmName string, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{
		notifier: notifier,
		farmName: farmName,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *EmailHandler) EventTypes() []string {
	return []string{
		finance.EventTypeInvoiceSent,
		finance.EventTypeInvoicePaid,
		booking.EventTypeBookingConfirmed,
		booking.EventTypeOfferAccepted,
	}
}

// Handle renders and sends the message for one event
func (h *EmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	email, err := h.compose(event)
	if err != nil {
		h.logger.Error("Failed to compose email", zap.String("event_type", event.EventType()), zap.Error(err))
		return nil
	}
	if email == nil {
		return nil
	}
	if email.To == "" {
		h.logger.Debug("No recipient address, email skipped",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)
		return nil
	}
	if err := h.notifier.Send(ctx, *email); err != nil {
		h.logger.Warn("Failed to send email",
			zap.String("event_type", event.EventType()),
			zap.String("to", email.To),
			zap.Error(err),
		)
	}
	return nil
}

func (h *EmailHandler) compose(event shared.DomainEvent) (*Email, error) {
	var (
		to, subject, tmpl string
	)
	switch e := event.(type) {
	case *finance.InvoiceSentEvent:
		to, tmpl = e.CustomerEmail, "invoice_sent"
		subject = fmt.Sprintf("Invoice %s from %s", e.InvoiceNumber, h.farmName)
	case *finance.InvoicePaidEvent:
		to, tmpl = e.CustomerEmail, "invoice_paid"
		subject = fmt.Sprintf("Payment received for invoice %s", e.InvoiceNumber)
	case *booking.BookingConfirmedEvent:
		to, tmpl = e.Email, "booking_confirmed"
		subject = fmt.Sprintf("Your hunt with %s is confirmed", h.farmName)
	case *booking.OfferAcceptedEvent:
		to, tmpl = e.BuyerEmail, "offer_accepted"
		subject = fmt.Sprintf("%s accepted your offer", h.farmName)
	default:
		return nil, nil
	}
	html, err := render(tmpl, event)
	if err != nil {
		return nil, err
	}
	return &Email{To: to, Subject: subject, HTML: html}, nil
}

var _ shared.EventHandler = (*EmailHandler)(nil)
