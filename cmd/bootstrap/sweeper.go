package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		commands.NewExpirySweeper,
	),
	fx.Invoke(startSweeper),
)

// startSweeper runs the pending-booking expiry sweep on a fixed interval for
// the lifetime of the process.
func startSweeper(lc fx.Lifecycle, sweeper *commands.ExpirySweeper, cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Booking.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if err := sweeper.Sweep(ctx); err != nil {
							slog.Error("expiry sweep failed", "error", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
