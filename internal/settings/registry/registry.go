package registry

import (
	"strings"
	"sync"

	"github.com/smallbiznis/telesim/internal/settings/domain"
)

// Registry holds the process-wide set of setting definitions. Definitions
// are registered during startup and frozen before the first read.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]domain.Definition
	order  []string
	frozen bool
}

func New() *Registry {
	return &Registry{
		defs: make(map[string]domain.Definition),
	}
}

// Register adds definitions to the registry. A duplicate key or an invalid
// declared type rejects the whole batch.
func (r *Registry) Register(defs ...domain.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return domain.ErrRegistryFrozen
	}

	for _, def := range defs {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return domain.ErrUnknownKey
		}
		if !def.Type.Valid() {
			return domain.ErrInvalidType
		}
		if _, exists := r.defs[key]; exists {
			return domain.ErrDuplicateKey
		}
	}

	for _, def := range defs {
		def.Key = strings.TrimSpace(def.Key)
		r.defs[def.Key] = def
		r.order = append(r.order, def.Key)
	}
	return nil
}

// Freeze closes the registry for further registration. Called once after
// startup registration so reads never race a late Register.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Get returns the definition registered for key.
func (r *Registry) Get(key string) (domain.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[key]
	return def, ok
}

// Keys returns every registered key in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// All returns every registered definition in registration order.
func (r *Registry) All() []domain.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]domain.Definition, 0, len(r.order))
	for _, key := range r.order {
		defs = append(defs, r.defs[key])
	}
	return defs
}
