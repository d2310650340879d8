package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rosiface/internal/policies"
	"rosiface/internal/ports"
	"rosiface/internal/types"
)

// QueryAPI is the read-only facade over a registry.
type QueryAPI struct {
	Registry ports.RegistryPort
}

func NewQueryAPI(registry ports.RegistryPort) QueryAPI {
	return QueryAPI{Registry: registry}
}

func (q QueryAPI) EffectiveInterface(ctx context.Context, component string, track string, category types.Category) ([]types.InterfaceEntry, error) {
	if !category.Valid() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown interface category: %s", category))
	}
	resolved, err := q.Registry.Get(ctx, component, track)
	if err != nil {
		return nil, err
	}
	return resolved.Entries(category), nil
}

func (q QueryAPI) Diff(ctx context.Context, component string, trackA string, trackB string) (types.DiffResult, error) {
	a, err := q.Registry.Get(ctx, component, trackA)
	if err != nil {
		return types.DiffResult{}, err
	}
	b, err := q.Registry.Get(ctx, component, trackB)
	if err != nil {
		return types.DiffResult{}, err
	}
	return types.DiffResult{
		Component:  component,
		TrackA:     trackA,
		TrackB:     trackB,
		Categories: DiffInterfaces(a.Interface, b.Interface),
	}, nil
}

// ValidateComponent resolves and validates every track of a component. Track
// failures are collected in the report; only an unknown component fails the
// call itself.
func (q QueryAPI) ValidateComponent(ctx context.Context, component string) (types.ComponentReport, error) {
	tracks, err := q.Registry.ListTracks(component)
	if err != nil {
		return types.ComponentReport{}, err
	}
	report := types.ComponentReport{Component: component}
	for _, track := range tracks {
		resolved, err := q.Registry.Get(ctx, component, track)
		report.Tracks = append(report.Tracks, types.TrackReport{
			Track:  track,
			Origin: resolved.Origin,
			Err:    err,
		})
	}
	return report, nil
}

// ResolveNames computes the full graph name of every entry of a track as
// seen by the node nodeFQN.
func (q QueryAPI) ResolveNames(ctx context.Context, component string, track string, nodeFQN string) ([]types.ResolvedName, error) {
	policy, err := policies.NewNamePolicy(nodeFQN)
	if err != nil {
		return nil, err
	}
	resolved, err := q.Registry.Get(ctx, component, track)
	if err != nil {
		return nil, err
	}
	var names []types.ResolvedName
	for _, category := range types.Categories {
		for _, entry := range resolved.Entries(category) {
			names = append(names, types.ResolvedName{
				Category: category,
				FullName: policy.ResolveEntry(entry.Name, entry.NamespaceHint),
				Entry:    entry,
			})
		}
	}
	return names, nil
}

// FindEntries searches every component for entries named name, honouring ?
// markers in declared names. An empty track searches all tracks. Tracks that
// fail to resolve are skipped.
func (q QueryAPI) FindEntries(ctx context.Context, track string, name string) ([]types.EntryMatch, error) {
	if name == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("entry name is required")
	}
	var matches []types.EntryMatch
	for _, component := range q.Registry.ListComponents() {
		tracks := []string{track}
		if track == "" {
			all, err := q.Registry.ListTracks(component)
			if err != nil {
				continue
			}
			tracks = all
		}
		for _, candidate := range tracks {
			descriptor, ok := q.Registry.Descriptor(component)
			if !ok {
				break
			}
			if _, declared := descriptor.Track(candidate); !declared {
				continue
			}
			resolved, err := q.Registry.Get(ctx, component, candidate)
			if err != nil {
				log.Ctx(ctx).Debug().Str("component", component).Str("track", candidate).Err(err).Msg("track skipped")
				continue
			}
			for _, category := range types.Categories {
				for _, entry := range resolved.Entries(category) {
					if policies.MatchName(entry.Name, name) {
						matches = append(matches, types.EntryMatch{
							Component: component,
							Track:     candidate,
							Category:  category,
							Entry:     entry,
						})
					}
				}
			}
		}
	}
	return matches, nil
}

var _ ports.QueryPort = QueryAPI{}
