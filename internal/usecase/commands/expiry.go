package commands

import (
	"context"
	"log/slog"

	"palmgrove-bookings/internal/pkg/clock"
	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/pkg/errs"
)

// ExpirySweeper auto-cancels pending bookings whose payment never arrived,
// so abandoned checkouts stop holding inventory. Paid and cancelled rows are
// untouched; the repository update is conditional so a payment callback
// racing the sweep wins.
type ExpirySweeper struct {
	bookingRepo     BookingRepository
	idempotencyRepo IdempotencyRepository
	clock           clock.Clock
	cfg             config.BookingConfig
}

func NewExpirySweeper(
	bookingRepo BookingRepository,
	idempotencyRepo IdempotencyRepository,
	clock clock.Clock,
	cfg config.BookingConfig,
) *ExpirySweeper {
	return &ExpirySweeper{
		bookingRepo:     bookingRepo,
		idempotencyRepo: idempotencyRepo,
		clock:           clock,
		cfg:             cfg,
	}
}

func (s *ExpirySweeper) Sweep(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.cfg.PendingTTL)

	cancelled, err := s.bookingRepo.CancelExpiredPending(ctx, cutoff)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if cancelled > 0 {
		slog.Info("expired pending bookings cancelled", "count", cancelled, "cutoff", cutoff)
	}

	purged, err := s.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if purged > 0 {
		slog.Info("expired idempotency keys purged", "count", purged)
	}

	return nil
}
