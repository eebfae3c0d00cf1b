package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookingapp "github.com/m77ag/backend/internal/application/booking"
)

// BookingHandler handles hunting bookings and equipment offers
type BookingHandler struct {
	BaseHandler
	bookings *bookingapp.BookingService
	offers   *bookingapp.OfferService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *bookingapp.BookingService, offers *bookingapp.OfferService) *BookingHandler {
	return &BookingHandler{bookings: bookings, offers: offers}
}

// CreateBooking godoc
// @Summary      Request a hunting booking
// @Tags         bookings
// @Router       /hunting-bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req bookingapp.CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, booking)
}

// ListBookings godoc
// @Summary      List hunting bookings
// @Tags         bookings
// @Param        status query string false "pending, confirmed, completed or cancelled"
// @Router       /hunting-bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var filter bookingapp.BookingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetBooking godoc
// @Summary      Get a hunting booking
// @Tags         bookings
// @Router       /hunting-bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.GetByID)
}

// ConfirmBooking godoc
// @Summary      Confirm a booking and invoice the balance
// @Tags         bookings
// @Router       /hunting-bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.Confirm)
}

// CompleteBooking godoc
// @Summary      Mark a hunt as completed
// @Tags         bookings
// @Router       /hunting-bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.Complete)
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Tags         bookings
// @Router       /hunting-bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.Cancel)
}

func (h *BookingHandler) bookingAction(c *gin.Context, action func(context.Context, uuid.UUID) (*bookingapp.BookingResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	booking, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, booking)
}

// SubmitOffer godoc
// @Summary      Make an offer on listed equipment
// @Tags         offers
// @Router       /equipment/{id}/offers [post]
func (h *BookingHandler) SubmitOffer(c *gin.Context) {
	equipmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req bookingapp.SubmitOfferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	offer, err := h.offers.Submit(c.Request.Context(), equipmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, offer)
}

// ListOffers godoc
// @Summary      Offers received for a machine
// @Tags         offers
// @Router       /equipment/{id}/offers [get]
func (h *BookingHandler) ListOffers(c *gin.Context) {
	equipmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	offers, err := h.offers.ListByEquipment(c.Request.Context(), equipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offers)
}

// AcceptOffer godoc
// @Summary      Accept an offer
// @Tags         offers
// @Router       /offers/{id}/accept [post]
func (h *BookingHandler) AcceptOffer(c *gin.Context) {
	h.offerAction(c, h.offers.Accept)
}

// RejectOffer godoc
// @Summary      Reject an offer
// @Tags         offers
// @Router       /offers/{id}/reject [post]
func (h *BookingHandler) RejectOffer(c *gin.Context) {
	h.offerAction(c, h.offers.Reject)
}

// WithdrawOffer godoc
// @Summary      Withdraw an offer
// @Tags         offers
// @Router       /offers/{id}/withdraw [post]
func (h *BookingHandler) WithdrawOffer(c *gin.Context) {
	h.offerAction(c, h.offers.Withdraw)
}

func (h *BookingHandler) offerAction(c *gin.Context, action func(context.Context, uuid.UUID) (*bookingapp.OfferResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	offer, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offer)
}
