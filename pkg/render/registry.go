package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores presenters by name, providing discovery and duplication
// safeguards. Implementations can embed or wrap this for dependency injection.
type Registry struct {
	mu         sync.RWMutex
	presenters map[string]Presenter
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		presenters: make(map[string]Presenter),
	}
}

// Register adds a presenter by its Name(). Duplicate names return an error.
func (r *Registry) Register(presenter Presenter) error {
	if presenter == nil {
		return fmt.Errorf("render: presenter is required")
	}
	name := presenter.Name()
	if name == "" {
		return fmt.Errorf("render: presenter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.presenters[name]; exists {
		return fmt.Errorf("render: presenter %q already registered", name)
	}

	r.presenters[name] = presenter
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(presenter Presenter) {
	if err := r.Register(presenter); err != nil {
		panic(err)
	}
}

// Get retrieves a presenter by name.
func (r *Registry) Get(name string) (Presenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	presenter, ok := r.presenters[name]
	if !ok {
		return nil, fmt.Errorf("render: presenter %q not found", name)
	}
	return presenter, nil
}

// List returns a sorted list of presenter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presenters))
	for name := range r.presenters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a presenter is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.presenters[name]
	return ok
}
