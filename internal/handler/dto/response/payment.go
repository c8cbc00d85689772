package response

import (
	"time"

	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentSessionResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	PaymentID      *string   `json:"paymentId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CallbackResponse struct {
	BookingID     uuid.UUID `json:"bookingId"`
	PaymentStatus string    `json:"paymentStatus"`
	BookingStatus string    `json:"bookingStatus"`
	Replayed      bool      `json:"replayed"`
}

func FromPaymentSessionView(view *queries.PaymentSessionView) *PaymentSessionResponse {
	return &PaymentSessionResponse{
		ID:             view.ID,
		BookingID:      view.BookingID,
		GatewayOrderID: view.GatewayOrderID,
		Amount:         view.Amount.Int64(),
		Currency:       view.Currency,
		Status:         view.Status,
		PaymentID:      view.PaymentID,
		CreatedAt:      view.CreatedAt,
	}
}

func FromCallbackResult(result *commands.CallbackResult) *CallbackResponse {
	return &CallbackResponse{
		BookingID:     result.BookingID,
		PaymentStatus: result.PaymentStatus,
		BookingStatus: result.BookingStatus,
		Replayed:      result.Replayed,
	}
}
