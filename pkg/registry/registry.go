package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the catalogue of primitive operations.
// Entries are registered once at startup and are immutable afterwards.
type Registry struct {
	mu         sync.RWMutex
	operations map[string]*Operation
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		operations: make(map[string]*Operation),
	}
}

// Register validates op and adds it to the registry.
// Registering the same name twice is a configuration error.
func (r *Registry) Register(op Operation) error {
	if err := op.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.operations[op.Name]; exists {
		return fmt.Errorf("operation %q already registered", op.Name)
	}
	op.Params = withDocumentParam(op.Scope, op.Params)
	r.operations[op.Name] = &op
	return nil
}

// MustRegister is Register for static catalogues; it panics on error.
func (r *Registry) MustRegister(ops ...Operation) {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operations[name]
	return op, ok
}

// List returns every operation sorted by name.
func (r *Registry) List() []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Operation, 0, len(r.operations))
	for _, op := range r.operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
