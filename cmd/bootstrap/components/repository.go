package components

import (
	"palmgrove-bookings/internal/infra/db"
	"palmgrove-bookings/internal/infra/ledger"
	repo_impl "palmgrove-bookings/internal/infra/repository"
	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		db.NewBeginner,
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentSessionRepository,
			fx.As(new(commands.PaymentSessionRepository)),
		),
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		fx.Annotate(
			repo_impl.NewRateRepository,
			fx.As(new(commands.RateProvider)),
		),
		fx.Annotate(
			ledger.NewRedisUsageLedger,
			fx.As(new(commands.UsageLedger)),
		),
		// Read-side repository for queries
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(queries.BookingViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
