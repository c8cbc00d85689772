package commands

import (
	"context"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/coupon"
	"palmgrove-bookings/internal/domain/payment"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra/db"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	// FindByIDForUpdate locks the booking row; the row is the unit of
	// mutual exclusion for payment/cancel races.
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateState(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	// CancelExpiredPending bulk-cancels unpaid pending bookings created
	// before the cutoff, returning how many were swept.
	CancelExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

// UsageLedger tracks per-contact coupon redemptions. Backed by Redis
// counters in infra.
type UsageLedger interface {
	UsageCount(ctx context.Context, code, contactID string) (int, error)
	RecordUse(ctx context.Context, code, contactID string) error
}

type PaymentSessionRepository interface {
	Create(ctx context.Context, tx db.DBTX, s *payment.Session) error
	FindByGatewayOrderID(ctx context.Context, dbtx db.DBTX, orderID string) (*payment.Session, error)
	FindByGatewayOrderIDForUpdate(ctx context.Context, tx db.DBTX, orderID string) (*payment.Session, error)
	FindOpenByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*payment.Session, error)
	UpdateState(ctx context.Context, tx db.DBTX, s *payment.Session) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key; false means another request holds it.
	TryInsert(ctx context.Context, key uuid.UUID, contactID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, contactID string) (*queries.IdempotencyKeyView, error)
	MarkCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, contactID string, resultBookingID uuid.UUID) error
	// Delete releases a processing claim after a failed create so a retry
	// with the same key is not locked out until expiry.
	Delete(ctx context.Context, key uuid.UUID, contactID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

// RateProvider is the room/resource-availability collaborator: it supplies
// the unit price for a selection and errors when the backing resource is not
// bookable for the range. Quoted prices are trusted as-is.
type RateProvider interface {
	PriceSelection(ctx context.Context, kind pricing.Kind, resourceID *uuid.UUID, stay pricing.DateRange) (pricing.Money, error)
}

// GatewayClient creates orders against the external payment gateway.
// Implementations wrap calls with a timeout and bounded retry.
type GatewayClient interface {
	CreateOrder(ctx context.Context, amount pricing.Money, currency, receipt string) (string, error)
}

// SignatureVerifier authenticates gateway callbacks.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}
