package payment

import (
	"github.com/smallbiznis/telesim/internal/payment/adapters/sandbox"
	"go.uber.org/fx"
)

func provideRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(sandbox.NewFactory())
	return registry
}

// Module wires the payment gateway registry.
var Module = fx.Module("payment",
	fx.Provide(provideRegistry),
)
