package payment

import (
	"sync"

	"github.com/smallbiznis/telesim/internal/payment/domain"
)

// Registry maps gateway codes to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]domain.Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]domain.Factory)}
}

func (r *Registry) Register(factory domain.Factory) {
	r.mu.Lock()
	r.factories[factory.Gateway()] = factory
	r.mu.Unlock()
}

// Resolve builds a configured gateway for the given code.
func (r *Registry) Resolve(code string, cfg domain.GatewayConfig) (domain.Gateway, error) {
	r.mu.RLock()
	factory, ok := r.factories[code]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUnknownGateway
	}
	return factory.NewGateway(cfg)
}
