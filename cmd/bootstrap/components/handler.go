package components

import (
	"palmgrove-bookings/internal/handler"
	"palmgrove-bookings/internal/handler/api"
	"palmgrove-bookings/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
