// Package registry tracks named generation entry points. Configuration is
// fixed at registration: callers cannot change an entry's kind or dummy
// seeding per invocation.
package registry

import (
	"fmt"

	"stencil/internal/expand"
)

// Registry maps entry names to registered expansion entries.
type Registry struct {
	entries map[string]expand.Entry
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]expand.Entry)}
}

// Register adds an entry. The configuration is validated once here; a
// duplicate name or an invalid configuration is a registration error, not
// an invocation-time diagnostic.
func (r *Registry) Register(name string, cfg expand.Config, routine expand.Routine) error {
	if name == "" {
		return fmt.Errorf("registry: entry name must not be empty")
	}
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("registry: entry %q already registered", name)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("registry: entry %q: %w", name, err)
	}
	r.entries[name] = expand.Entry{Name: name, Config: cfg, Routine: routine}
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (expand.Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns entry names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int { return len(r.entries) }
