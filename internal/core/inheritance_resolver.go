package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"rosiface/internal/types"
)

// InheritanceResolver materializes a track by following its base chain.
// It holds no state and is safe to share between goroutines.
type InheritanceResolver struct{}

func NewInheritanceResolver() InheritanceResolver {
	return InheritanceResolver{}
}

// Resolve follows base references from track until a concrete descriptor is
// reached. Inheritance is pure substitution: the concrete descriptor's entries
// become the result verbatim.
func (r InheritanceResolver) Resolve(ctx context.Context, component types.ComponentDescriptor, track string) (types.ResolvedDescriptor, error) {
	current, ok := component.Track(track)
	if !ok {
		return types.ResolvedDescriptor{}, &types.DescriptorError{
			Kind:      types.ErrorKindUnknownTrack,
			Component: component.Name,
			Track:     track,
		}
	}

	visited := map[string]struct{}{}
	chain := []string{}
	for {
		visited[current.Name] = struct{}{}
		chain = append(chain, current.Name)

		if iface, concrete := current.Interface(); concrete {
			assert.NotEmpty(ctx, current.Name, "concrete track must be named")
			log.Ctx(ctx).Debug().
				Str("component", component.Name).
				Str("track", track).
				Str("origin", current.Name).
				Int("depth", len(chain)).
				Msg("track resolved")
			return types.ResolvedDescriptor{
				Component: component.Name,
				Track:     track,
				Origin:    current.Name,
				Chain:     chain,
				Interface: iface,
			}, nil
		}

		base, _ := current.BaseTrack()
		if _, seen := visited[base]; seen {
			return types.ResolvedDescriptor{}, &types.DescriptorError{
				Kind:      types.ErrorKindCycleDetected,
				Component: component.Name,
				Track:     track,
				Path:      cyclePath(chain, base),
			}
		}
		next, ok := component.Track(base)
		if !ok {
			return types.ResolvedDescriptor{}, &types.DescriptorError{
				Kind:      types.ErrorKindUnknownBase,
				Component: component.Name,
				Track:     track,
				Path:      append(append([]string(nil), chain...), base),
				Msg:       "base track " + base + " is not declared",
			}
		}
		current = next
	}
}

// cyclePath returns the followed chain closed by the repeated track, e.g.
// kinetic -> a -> b -> a.
func cyclePath(chain []string, repeated string) []string {
	path := append([]string(nil), chain...)
	return append(path, repeated)
}
