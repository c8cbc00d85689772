package queries

import (
	"encoding/json"
	"time"

	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type BookingView struct {
	ID                  uuid.UUID       `json:"id"`
	Category            string          `json:"category"`
	Details             json.RawMessage `json:"details"`
	GuestName           string          `json:"guest_name"`
	GuestEmail          string          `json:"guest_email"`
	GuestPhone          string          `json:"guest_phone"`
	CheckIn             time.Time       `json:"check_in"`
	CheckOut            time.Time       `json:"check_out"`
	Quote               pricing.Quote   `json:"quote"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	PaymentRef          *string         `json:"payment_ref,omitempty"`
	NeedsReconciliation bool            `json:"needs_reconciliation"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type BookingListItem struct {
	ID            uuid.UUID     `json:"id"`
	Category      string        `json:"category"`
	CheckIn       time.Time     `json:"check_in"`
	CheckOut      time.Time     `json:"check_out"`
	FinalTotal    pricing.Money `json:"final_total"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type PaymentSessionView struct {
	ID             uuid.UUID     `json:"id"`
	BookingID      uuid.UUID     `json:"booking_id"`
	GatewayOrderID string        `json:"gateway_order_id"`
	Amount         pricing.Money `json:"amount"`
	Currency       string        `json:"currency"`
	Status         string        `json:"status"`
	PaymentID      *string       `json:"payment_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type IdempotencyKeyView struct {
	Key             uuid.UUID  `json:"key"`
	ContactID       string     `json:"contact_id"`
	Endpoint        string     `json:"endpoint"`
	RequestHash     string     `json:"request_hash"`
	Status          string     `json:"status"`
	ResultBookingID *uuid.UUID `json:"result_booking_id,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
