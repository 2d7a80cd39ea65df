package provider

import (
	"sync"

	"github.com/smallbiznis/telesim/internal/provider/domain"
)

// Resolver maps provider codes to their Contract implementations.
type Resolver struct {
	mu        sync.RWMutex
	contracts map[string]domain.Contract
}

func NewResolver() *Resolver {
	return &Resolver{contracts: make(map[string]domain.Contract)}
}

func (r *Resolver) Register(code string, contract domain.Contract) {
	r.mu.Lock()
	r.contracts[code] = contract
	r.mu.Unlock()
}

func (r *Resolver) Resolve(code string) (domain.Contract, error) {
	r.mu.RLock()
	contract, ok := r.contracts[code]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUnknownProvider
	}
	return contract, nil
}
