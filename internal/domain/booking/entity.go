package booking

import (
	"errors"
	"time"

	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidCategory   = errors.New("invalid booking category")
	ErrMissingQuote      = errors.New("booking requires a price quote")
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrInvalidTransition = errors.New("invalid booking state transition")
	ErrNotPayable        = errors.New("booking is not payable in its current state")
)

// Booking is the reservation of record. The quote is frozen at creation and
// never recomputed; only verified payment outcomes, cancellation and the
// check-in flow mutate state. Bookings are never deleted.
type Booking struct {
	id                  uuid.UUID
	category            Category
	details             Details
	contact             GuestContact
	dateRange           pricing.DateRange
	quote               pricing.Quote
	status              Status
	paymentStatus       PaymentStatus
	paymentRef          string
	needsReconciliation bool
	createdAt           time.Time
	updatedAt           time.Time
}

// NewBooking creates a pending reservation frozen at the given quote.
func NewBooking(
	category Category,
	details Details,
	contact GuestContact,
	dateRange pricing.DateRange,
	quote pricing.Quote,
	now time.Time,
) (*Booking, error) {
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if details == nil || details.detailsKind() != detailsKindFor(category) {
		return nil, ErrDetailsMismatch
	}
	if len(quote.Items) == 0 {
		return nil, ErrMissingQuote
	}

	return &Booking{
		id:            uuid.New(),
		category:      category,
		details:       details,
		contact:       contact,
		dateRange:     dateRange,
		quote:         quote,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	category Category,
	details Details,
	contact GuestContact,
	dateRange pricing.DateRange,
	quote pricing.Quote,
	status Status,
	paymentStatus PaymentStatus,
	paymentRef string,
	needsReconciliation bool,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                  id,
		category:            category,
		details:             details,
		contact:             contact,
		dateRange:           dateRange,
		quote:               quote,
		status:              status,
		paymentStatus:       paymentStatus,
		paymentRef:          paymentRef,
		needsReconciliation: needsReconciliation,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// MarkPaid applies a verified payment result. Repeat calls with the booking
// already paid return ErrAlreadyPaid so the caller can treat duplicate
// gateway callbacks as a no-op. A payment landing on a cancelled booking is
// recorded but flagged for manual reconciliation instead of reviving the
// reservation.
func (b *Booking) MarkPaid(paymentRef string, now time.Time) error {
	if b.paymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	b.paymentStatus = PaymentPaid
	b.paymentRef = paymentRef
	if b.status == StatusCancelled {
		b.needsReconciliation = true
	} else {
		b.status = StatusConfirmed
	}
	b.updatedAt = now
	return nil
}

// MarkFailed records a failed payment attempt. The booking stays pending so
// the guest can retry on the same reservation.
func (b *Booking) MarkFailed(now time.Time) error {
	if b.paymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	b.paymentStatus = PaymentFailed
	b.updatedAt = now
	return nil
}

// Cancel is terminal and only reachable from pending or confirmed.
func (b *Booking) Cancel(now time.Time) error {
	switch b.status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusPending, StatusConfirmed:
		b.status = StatusCancelled
		b.updatedAt = now
		return nil
	default:
		return ErrInvalidTransition
	}
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.status = StatusCheckedIn
	b.updatedAt = now
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.status != StatusCheckedIn {
		return ErrInvalidTransition
	}
	b.status = StatusCheckedOut
	b.updatedAt = now
	return nil
}

// IsPayable gates payment-session creation: only a fresh pending booking
// with no successful payment may open a session.
func (b *Booking) IsPayable() bool {
	return b.status == StatusPending && b.paymentStatus != PaymentPaid
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) Category() Category           { return b.category }
func (b *Booking) Details() Details             { return b.details }
func (b *Booking) Contact() GuestContact        { return b.contact }
func (b *Booking) DateRange() pricing.DateRange { return b.dateRange }
func (b *Booking) Quote() pricing.Quote         { return b.quote }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentRef() string           { return b.paymentRef }
func (b *Booking) NeedsReconciliation() bool    { return b.needsReconciliation }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
