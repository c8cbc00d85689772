//go:build unit

package booking_test

import (
	"testing"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)

func newPendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	b, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("starts pending with pending payment", func(t *testing.T) {
		b := newPendingBooking(t)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
		assert.False(t, b.NeedsReconciliation())
		assert.True(t, b.IsPayable())
	})

	t.Run("details must match the category", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().
			WithCategory(booking.CategoryYoga).
			BuildDomain()
		assert.ErrorIs(t, err, booking.ErrDetailsMismatch)
	})

	t.Run("quote is mandatory", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().
			WithQuote(pricing.Quote{}).
			BuildDomain()
		assert.ErrorIs(t, err, booking.ErrMissingQuote)
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("pending booking confirms", func(t *testing.T) {
		b := newPendingBooking(t)

		require.NoError(t, b.MarkPaid("pay_123", now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
		assert.Equal(t, "pay_123", b.PaymentRef())
		assert.False(t, b.IsPayable())
	})

	t.Run("second payment is rejected as already paid", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid("pay_123", now))

		err := b.MarkPaid("pay_456", now.Add(time.Minute))
		assert.ErrorIs(t, err, booking.ErrAlreadyPaid)
		// First payment reference wins.
		assert.Equal(t, "pay_123", b.PaymentRef())
	})

	t.Run("payment after cancellation flags reconciliation", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel(now))

		require.NoError(t, b.MarkPaid("pay_789", now.Add(time.Minute)))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
		assert.True(t, b.NeedsReconciliation())
	})

	t.Run("failed payment keeps booking retryable", func(t *testing.T) {
		b := newPendingBooking(t)

		require.NoError(t, b.MarkFailed(now))
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, booking.PaymentFailed, b.PaymentStatus())
		assert.True(t, b.IsPayable())

		// A later successful payment still lands.
		require.NoError(t, b.MarkPaid("pay_retry", now.Add(time.Hour)))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("failure report after payment loses", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid("pay_123", now))

		assert.ErrorIs(t, b.MarkFailed(now.Add(time.Minute)), booking.ErrAlreadyPaid)
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
	})
}

func TestCancel(t *testing.T) {
	t.Run("pending cancels", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("confirmed cancels", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid("pay_123", now))
		require.NoError(t, b.Cancel(now.Add(time.Minute)))
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel(now))
		assert.ErrorIs(t, b.Cancel(now.Add(time.Minute)), booking.ErrAlreadyCancelled)
	})

	t.Run("checked-in booking cannot cancel", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid("pay_123", now))
		require.NoError(t, b.CheckIn(now))
		assert.ErrorIs(t, b.Cancel(now), booking.ErrInvalidTransition)
	})
}

func TestCheckInFlow(t *testing.T) {
	t.Run("confirmed checks in then out", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid("pay_123", now))

		require.NoError(t, b.CheckIn(now))
		assert.Equal(t, booking.StatusCheckedIn, b.Status())

		require.NoError(t, b.CheckOut(now.Add(48*time.Hour)))
		assert.Equal(t, booking.StatusCheckedOut, b.Status())
	})

	t.Run("pending cannot check in", func(t *testing.T) {
		b := newPendingBooking(t)
		assert.ErrorIs(t, b.CheckIn(now), booking.ErrInvalidTransition)
	})

	t.Run("cannot check out without checking in", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.MarkPaid("pay_123", now))
		assert.ErrorIs(t, b.CheckOut(now), booking.ErrInvalidTransition)
	})
}

func TestGuestContact(t *testing.T) {
	t.Run("email is the contact id when present", func(t *testing.T) {
		contact, err := booking.NewGuestContact("Asha Nair", "Asha@Example.com", "+919800000001", "")
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", contact.ContactID())
	})

	t.Run("phone is the fallback contact id", func(t *testing.T) {
		contact, err := booking.NewGuestContact("Asha Nair", "", "+919800000001", "")
		require.NoError(t, err)
		assert.Equal(t, "+919800000001", contact.ContactID())
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := booking.NewGuestContact("  ", "asha@example.com", "", "")
		assert.ErrorIs(t, err, booking.ErrMissingGuestName)
	})

	t.Run("some reachable contact is required", func(t *testing.T) {
		_, err := booking.NewGuestContact("Asha Nair", "", "", "")
		assert.ErrorIs(t, err, booking.ErrMissingGuestContact)
	})

	t.Run("malformed email is rejected", func(t *testing.T) {
		_, err := booking.NewGuestContact("Asha Nair", "not-an-email", "", "")
		assert.ErrorIs(t, err, booking.ErrInvalidGuestEmail)
	})
}
