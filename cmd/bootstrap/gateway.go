package bootstrap

import (
	"palmgrove-bookings/internal/domain/payment"
	"palmgrove-bookings/internal/infra/gateway"
	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewGatewayClient,
			fx.As(new(commands.GatewayClient)),
		),
		fx.Annotate(
			NewSignatureVerifier,
			fx.As(new(commands.SignatureVerifier)),
		),
	),
)

func NewGatewayClient(cfg config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Gateway)
}

func NewSignatureVerifier(cfg config.Config) *payment.SignatureVerifier {
	return payment.NewSignatureVerifier(cfg.Gateway.WebhookSecret)
}
