package request

import (
	"palmgrove-bookings/internal/usecase/commands"
)

// PaymentCallbackRequest is the gateway's webhook payload. The signature
// covers "<gateway_order_id>|<payment_id>".
type PaymentCallbackRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

func (r PaymentCallbackRequest) ToParams() commands.CallbackParams {
	return commands.CallbackParams{
		GatewayOrderID: r.GatewayOrderID,
		PaymentID:      r.PaymentID,
		Signature:      r.Signature,
	}
}
