package plugin

import (
	"fmt"
	"sync"
)

// Registry is an ordered plugin list with a revision counter that changes
// on every modification.
type Registry struct {
	mu       sync.RWMutex
	plugins  []Plugin
	revision uint64
}

// NewRegistry creates a registry holding plugins.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{}
	if err := r.Set(plugins...); err != nil {
		return nil, err
	}
	return r, nil
}

func validate(plugins []Plugin) error {
	seen := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		if p == nil || p.Name() == "" {
			return ErrInvalidPlugin
		}
		if seen[p.Name()] {
			return fmt.Errorf("plugin %q: %w", p.Name(), ErrDuplicatePlugin)
		}
		seen[p.Name()] = true
	}
	return nil
}

// Set replaces the plugin list.
func (r *Registry) Set(plugins ...Plugin) error {
	if err := validate(plugins); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins = append([]Plugin(nil), plugins...)
	r.revision++
	return nil
}

// Add appends p to the plugin list.
func (r *Registry) Add(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(append([]Plugin(nil), r.plugins...), p)
	if err := validate(next); err != nil {
		return err
	}
	r.plugins = next
	r.revision++
	return nil
}

// Remove deletes the plugin called name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.plugins {
		if p.Name() == name {
			next := make([]Plugin, 0, len(r.plugins)-1)
			next = append(next, r.plugins[:i]...)
			r.plugins = append(next, r.plugins[i+1:]...)
			r.revision++
			return nil
		}
	}
	return fmt.Errorf("plugin %q: %w", name, ErrPluginNotFound)
}

// Get returns the plugin called name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Touch bumps the revision without changing the list. Call it after
// changing a registered plugin in place.
func (r *Registry) Touch() {
	r.mu.Lock()
	r.revision++
	r.mu.Unlock()
}

// Plugins returns a copy of the plugin list.
func (r *Registry) Plugins() []Plugin {
	plugins, _ := r.Snapshot()
	return plugins
}

// Revision returns the current revision.
func (r *Registry) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Snapshot returns the plugin list together with its revision.
func (r *Registry) Snapshot() ([]Plugin, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Plugin(nil), r.plugins...), r.revision
}

// Cache memoizes the Aggregator of a Registry.
type Cache struct {
	mu       sync.Mutex
	agg      *Aggregator
	revision uint64
	builds   int
}

// Get returns the aggregator for the current registry revision, building
// it when the revision has changed since the last call.
func (c *Cache) Get(r *Registry) *Aggregator {
	plugins, rev := r.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.agg != nil && c.revision == rev {
		return c.agg
	}
	c.agg = Aggregate(plugins)
	c.revision = rev
	c.builds++
	return c.agg
}

// Builds returns how many aggregators the cache has built.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
