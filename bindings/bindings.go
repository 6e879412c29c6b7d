package bindings

import (
	"context"
	"sync"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/errors"
)

// Initializer receives a freshly instantiated module and returns its
// binding surface. It runs exactly once per successful load attempt.
type Initializer func(ctx context.Context, inst wasmload.Instance) (map[string]any, error)

// Registry maps bindings references to initializers.
// Register everything before loading begins; Resolve is called from
// loading goroutines.
type Registry struct {
	mu    sync.RWMutex
	inits map[string]Initializer
}

// NewRegistry creates an empty initializer registry.
func NewRegistry() *Registry {
	return &Registry{inits: make(map[string]Initializer)}
}

// Register adds an initializer under a bindings reference.
func (r *Registry) Register(ref string, init Initializer) error {
	if ref == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "bindings reference is empty")
	}
	if init == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "initializer is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.inits[ref]; exists {
		return errors.Duplicate(errors.PhaseRegistry, "initializer", ref)
	}
	r.inits[ref] = init
	return nil
}

// Resolve looks up the initializer for a bindings reference.
func (r *Registry) Resolve(ref string) (Initializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	init, ok := r.inits[ref]
	return init, ok
}

// None is an initializer for modules that expose raw exports only.
func None(context.Context, wasmload.Instance) (map[string]any, error) {
	return nil, nil
}
