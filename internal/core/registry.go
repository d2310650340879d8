package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"rosiface/internal/ports"
	"rosiface/internal/types"
)

// Registry stores component descriptors and caches their resolved tracks.
// Writes are serialized; cached reads run concurrently. Cache misses for the
// same (component, track, generation) are computed once.
type Registry struct {
	mu         sync.RWMutex
	order      []string
	components map[string]registeredComponent
	cache      map[string]map[string]types.ResolvedDescriptor
	generation uint64

	fills     singleflight.Group
	resolver  InheritanceResolver
	validator Validator
	metrics   ports.MetricsPort
}

type registeredComponent struct {
	descriptor types.ComponentDescriptor
	generation uint64
}

func NewRegistry(metrics ports.MetricsPort) *Registry {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Registry{
		components: map[string]registeredComponent{},
		cache:      map[string]map[string]types.ResolvedDescriptor{},
		resolver:   NewInheritanceResolver(),
		validator:  NewValidator(),
		metrics:    metrics,
	}
}

// Register inserts or replaces a component. Replacing keeps the component's
// original position and evicts every cached track of it.
func (r *Registry) Register(ctx context.Context, descriptor types.ComponentDescriptor) error {
	if strings.TrimSpace(descriptor.Name) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("component name is required")
	}
	if descriptor.Len() == 0 || !descriptor.HasConcrete() {
		return &types.DescriptorError{
			Kind:      types.ErrorKindParse,
			Component: descriptor.Name,
			Msg:       "component needs at least one concrete track",
		}
	}

	r.mu.Lock()
	r.generation++
	_, replaced := r.components[descriptor.Name]
	if !replaced {
		r.order = append(r.order, descriptor.Name)
	}
	r.components[descriptor.Name] = registeredComponent{descriptor: descriptor, generation: r.generation}
	delete(r.cache, descriptor.Name)
	r.mu.Unlock()

	r.metrics.ComponentRegistered(descriptor.Name)
	log.Ctx(ctx).Debug().
		Str("component", descriptor.Name).
		Bool("replaced", replaced).
		Int("tracks", descriptor.Len()).
		Msg("component registered")
	return nil
}

// Get returns the resolved and validated descriptor of a track. Failed
// resolutions are never cached.
func (r *Registry) Get(ctx context.Context, component string, track string) (types.ResolvedDescriptor, error) {
	r.mu.RLock()
	entry, ok := r.components[component]
	cached, hit := r.cache[component][track]
	r.mu.RUnlock()

	if !ok {
		err := &types.DescriptorError{Kind: types.ErrorKindUnknownComponent, Component: component, Track: track}
		r.metrics.ResolutionFailed(component, err.Kind)
		return types.ResolvedDescriptor{}, err
	}
	if hit {
		r.metrics.CacheHit(component)
		log.Ctx(ctx).Debug().Str("component", component).Str("track", track).Msg("resolution cache hit")
		return cached.Clone(), nil
	}
	r.metrics.CacheMiss(component)

	key := fmt.Sprintf("%s\x00%s\x00%d", component, track, entry.generation)
	value, err, _ := r.fills.Do(key, func() (any, error) {
		resolved, err := r.resolver.Resolve(ctx, entry.descriptor, track)
		if err != nil {
			return nil, err
		}
		if err := r.validator.Validate(ctx, resolved); err != nil {
			return nil, err
		}
		r.store(entry.generation, resolved)
		return resolved, nil
	})
	if err != nil {
		if kind, ok := types.KindOf(err); ok {
			r.metrics.ResolutionFailed(component, kind)
		}
		return types.ResolvedDescriptor{}, err
	}
	return value.(types.ResolvedDescriptor).Clone(), nil
}

// store caches resolved unless the component was re-registered while it was
// being computed.
func (r *Registry) store(generation uint64, resolved types.ResolvedDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.components[resolved.Component]
	if !ok || current.generation != generation {
		return
	}
	tracks, ok := r.cache[resolved.Component]
	if !ok {
		tracks = map[string]types.ResolvedDescriptor{}
		r.cache[resolved.Component] = tracks
	}
	tracks[resolved.Track] = resolved
}

func (r *Registry) Descriptor(component string) (types.ComponentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.components[component]
	return entry.descriptor, ok
}

// ListComponents returns component names in registration order.
func (r *Registry) ListComponents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ListTracks returns the tracks of a component in declaration order.
func (r *Registry) ListTracks(component string) ([]string, error) {
	descriptor, ok := r.Descriptor(component)
	if !ok {
		return nil, &types.DescriptorError{Kind: types.ErrorKindUnknownComponent, Component: component}
	}
	return descriptor.TrackNames(), nil
}

// cachedTracks reports how many tracks of component are cached.
func (r *Registry) cachedTracks(component string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache[component])
}

type nopMetrics struct{}

func (nopMetrics) ComponentRegistered(string) {}
func (nopMetrics) CacheHit(string) {}
func (nopMetrics) CacheMiss(string) {}
func (nopMetrics) ResolutionFailed(string, types.ErrorKind) {}

var _ ports.RegistryPort = (*Registry)(nil)
