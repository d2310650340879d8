package ports

import (
	"context"

	"rosiface/internal/types"
)

// RegistryPort is the read side of the descriptor registry.
type RegistryPort interface {
	Get(ctx context.Context, component string, track string) (types.ResolvedDescriptor, error)
	Descriptor(component string) (types.ComponentDescriptor, bool)
	ListComponents() []string
	ListTracks(component string) ([]string, error)
}

// QueryPort answers read queries over registered components.
type QueryPort interface {
	EffectiveInterface(ctx context.Context, component string, track string, category types.Category) ([]types.InterfaceEntry, error)
	Diff(ctx context.Context, component string, trackA string, trackB string) (types.DiffResult, error)
	ValidateComponent(ctx context.Context, component string) (types.ComponentReport, error)
	ResolveNames(ctx context.Context, component string, track string, nodeFQN string) ([]types.ResolvedName, error)
	FindEntries(ctx context.Context, track string, name string) ([]types.EntryMatch, error)
}
