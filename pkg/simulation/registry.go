package simulation

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps scenario names to factories. Scenario packages attach
// themselves in init, so a blank import is enough to make one runnable.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]func() Scenario
}

// NewRegistry creates an empty scenario registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]func() Scenario)}
}

// Register attaches a scenario factory under a name. Names are unique;
// a second registration under the same name is an error.
func (r *Registry) Register(name string, factory func() Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scenarios[name]; exists {
		return fmt.Errorf("scenario %s already registered", name)
	}
	r.scenarios[name] = factory
	return nil
}

// Get returns a fresh instance of the named scenario.
func (r *Registry) Get(name string) (Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.scenarios[name]
	if !exists {
		return nil, fmt.Errorf("scenario %s not found", name)
	}
	return factory(), nil
}

// List returns the registered scenario names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the registry the scenario packages attach to.
var DefaultRegistry = NewRegistry()
