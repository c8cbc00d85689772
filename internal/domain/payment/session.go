package payment

import (
	"errors"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrAmountMismatch    = errors.New("session amount does not match quoted total")
	ErrBookingNotPayable = errors.New("booking is not payable")
	ErrSessionClosed     = errors.New("payment session is already closed")
)

type SessionStatus string

const (
	SessionCreated  SessionStatus = "created"
	SessionCaptured SessionStatus = "captured"
	SessionFailed   SessionStatus = "failed"
)

func (s SessionStatus) String() string {
	return string(s)
}

// Session is the gateway-side order opened for one booking. The amount is
// pinned to the booking's frozen quote at construction; it is never
// re-derived at payment time, so a price or coupon change between quote and
// checkout cannot alter what gets charged.
type Session struct {
	id             uuid.UUID
	bookingID      uuid.UUID
	gatewayOrderID string
	amount         pricing.Money
	currency       string
	status         SessionStatus
	paymentID      string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSession opens a session for exactly the booking's final quoted total.
// Any other amount is a fatal mismatch, rejected before the gateway is ever
// contacted.
func NewSession(b *booking.Booking, gatewayOrderID string, amount pricing.Money, currency string, now time.Time) (*Session, error) {
	if !b.IsPayable() {
		return nil, ErrBookingNotPayable
	}
	if amount != b.Quote().FinalTotal {
		return nil, ErrAmountMismatch
	}
	return &Session{
		id:             uuid.New(),
		bookingID:      b.ID(),
		gatewayOrderID: gatewayOrderID,
		amount:         amount,
		currency:       currency,
		status:         SessionCreated,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructSession(
	id, bookingID uuid.UUID,
	gatewayOrderID string,
	amount pricing.Money,
	currency string,
	status SessionStatus,
	paymentID string,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:             id,
		bookingID:      bookingID,
		gatewayOrderID: gatewayOrderID,
		amount:         amount,
		currency:       currency,
		status:         status,
		paymentID:      paymentID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Capture closes the session on its first verified callback. A session only
// closes once; later callbacks hit ErrSessionClosed.
func (s *Session) Capture(paymentID string, now time.Time) error {
	if s.status != SessionCreated {
		return ErrSessionClosed
	}
	s.status = SessionCaptured
	s.paymentID = paymentID
	s.updatedAt = now
	return nil
}

func (s *Session) Fail(now time.Time) error {
	if s.status != SessionCreated {
		return ErrSessionClosed
	}
	s.status = SessionFailed
	s.updatedAt = now
	return nil
}

func (s *Session) ID() uuid.UUID          { return s.id }
func (s *Session) BookingID() uuid.UUID   { return s.bookingID }
func (s *Session) GatewayOrderID() string { return s.gatewayOrderID }
func (s *Session) Amount() pricing.Money  { return s.amount }
func (s *Session) Currency() string       { return s.currency }
func (s *Session) Status() SessionStatus  { return s.status }
func (s *Session) PaymentID() string      { return s.paymentID }
func (s *Session) CreatedAt() time.Time   { return s.createdAt }
func (s *Session) UpdatedAt() time.Time   { return s.updatedAt }
