package app

import (
	"context"
	"sync"

	"rosiface/internal/core"
	"rosiface/internal/ports"
	"rosiface/internal/types"
)

// Catalog is the registry as seen by queries: components that failed to
// load answer with their load error instead of an unknown component error.
type Catalog struct {
	registry *core.Registry

	mu       sync.RWMutex
	failures map[string]error
}

func NewCatalog(registry *core.Registry) *Catalog {
	return &Catalog{registry: registry, failures: map[string]error{}}
}

// Register registers descriptor and forgets an earlier load failure of it.
func (c *Catalog) Register(ctx context.Context, descriptor types.ComponentDescriptor) error {
	if err := c.registry.Register(ctx, descriptor); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.failures, descriptor.Name)
	c.mu.Unlock()
	return nil
}

// RecordFailure remembers why a component could not be loaded. Components
// that are already registered keep their last good descriptor.
func (c *Catalog) RecordFailure(component string, err error) {
	if component == "" || err == nil {
		return
	}
	if _, ok := c.registry.Descriptor(component); ok {
		return
	}
	c.mu.Lock()
	c.failures[component] = err
	c.mu.Unlock()
}

// Failures returns the recorded load failures keyed by component.
func (c *Catalog) Failures() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]error, len(c.failures))
	for component, err := range c.failures {
		out[component] = err
	}
	return out
}

func (c *Catalog) failure(component string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failures[component]
}

func (c *Catalog) Get(ctx context.Context, component string, track string) (types.ResolvedDescriptor, error) {
	resolved, err := c.registry.Get(ctx, component, track)
	if types.IsKind(err, types.ErrorKindUnknownComponent) {
		if failure := c.failure(component); failure != nil {
			return types.ResolvedDescriptor{}, failure
		}
	}
	return resolved, err
}

func (c *Catalog) Descriptor(component string) (types.ComponentDescriptor, bool) {
	return c.registry.Descriptor(component)
}

func (c *Catalog) ListComponents() []string {
	return c.registry.ListComponents()
}

func (c *Catalog) ListTracks(component string) ([]string, error) {
	tracks, err := c.registry.ListTracks(component)
	if types.IsKind(err, types.ErrorKindUnknownComponent) {
		if failure := c.failure(component); failure != nil {
			return nil, failure
		}
	}
	return tracks, err
}

var _ ports.RegistryPort = (*Catalog)(nil)
