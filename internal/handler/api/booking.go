package api

import (
	"errors"
	"net/http"

	"palmgrove-bookings/internal/domain/booking"
	reqdto "palmgrove-bookings/internal/handler/dto/request"
	resdto "palmgrove-bookings/internal/handler/dto/response"
	"palmgrove-bookings/internal/handler/httperr"
	"palmgrove-bookings/internal/handler/middleware"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/pkg/errs"
	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: bookingCommands,
		queries:  bookingQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid idempotency key format", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.commands.CreateBooking(c.Request.Context(), req.ToParams(), idempotencyKey)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	response := resdto.FromBookingView(result.Booking)
	if result.Coupon != nil {
		response.Quote.Coupon = &resdto.CouponOutcomeResponse{
			Code:           result.Coupon.Code,
			Applied:        result.Coupon.Applied,
			DiscountAmount: result.Coupon.DiscountAmount.Int64(),
			Reason:         result.Coupon.Reason,
		}
	}

	// A replayed creation returns the original booking, not a new one.
	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, response)
}

func (h *BookingHandler) QuoteCart(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.commands.Quote(c.Request.Context(), req.ToParams())
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuoteResult(result))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	contactID, ok := middleware.GetContactID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("contact identity missing after auth"), "Internal server error", nil)
		return
	}

	items, err := h.queries.ListByContact(c.Request.Context(), contactID)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.commands.Cancel(c.Request.Context(), id)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func getIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		// Absent header is fine; a derived key is computed downstream.
		return nil, nil
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return nil, errors.New("invalid idempotency key format")
	}
	return &key, nil
}

// abortBookingError classifies with errs.Is because the usecase layer marks
// sentinels onto causes; stdlib errors.Is cannot see those marks.
func abortBookingError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking request", nil)
	case errs.Is(err, commands.ErrRateUnavailable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Selected service is not bookable", nil)
	case errs.Is(err, commands.ErrCouponRejected):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Coupon was rejected", nil)
	case errs.Is(err, commands.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errs.Is(err, commands.ErrDuplicateSubmission):
		httperr.AbortWithError(c, http.StatusConflict, err, "Duplicate request with different parameters", nil)
	case errs.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is currently being processed", nil)
	case errs.Is(err, booking.ErrAlreadyCancelled), errs.Is(err, booking.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking state does not allow this operation", nil)
	case infra.IsKind(err, infra.KindNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
