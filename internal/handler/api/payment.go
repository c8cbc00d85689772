package api

import (
	"net/http"

	reqdto "palmgrove-bookings/internal/handler/dto/request"
	resdto "palmgrove-bookings/internal/handler/dto/response"
	"palmgrove-bookings/internal/handler/httperr"
	"palmgrove-bookings/internal/pkg/errs"
	"palmgrove-bookings/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments commands.PaymentCommands
}

func NewPaymentHandler(payments commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) OpenSession(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.payments.OpenSession(c.Request.Context(), bookingID)
	if err != nil {
		abortPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPaymentSessionView(view))
}

func (h *PaymentHandler) HandleCallback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid callback format", nil)
		return
	}

	result, err := h.payments.HandleCallback(c.Request.Context(), req.ToParams())
	if err != nil {
		abortPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCallbackResult(result))
}

// abortPaymentError classifies with errs.Is because the usecase layer marks
// sentinels onto causes; stdlib errors.Is cannot see those marks.
func abortPaymentError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment request", nil)
	case errs.Is(err, commands.ErrSignatureInvalid):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Callback signature verification failed", nil)
	case errs.Is(err, commands.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errs.Is(err, commands.ErrSessionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment session not found", nil)
	case errs.Is(err, commands.ErrBookingNotPayable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not payable", nil)
	case errs.Is(err, commands.ErrGatewayUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Payment gateway is unavailable, try again later", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
