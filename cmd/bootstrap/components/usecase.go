package components

import (
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/pkg/clock"
	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	func(cfg config.Config) config.GatewayConfig { return cfg.Gateway },
	func(cfg config.Config) *pricing.Engine {
		return pricing.NewEngine(cfg.Booking.ChildAgeThreshold)
	},
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCouponValidator,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
	),
)
