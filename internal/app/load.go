package app

import (
	"context"
	"errors"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"rosiface/internal/core"
	"rosiface/internal/shared"
	"rosiface/internal/types"
)

// LoadDescriptors discovers descriptor files, parses them concurrently and
// registers their components in file order. Malformed files and components
// are reported in the result and do not stop the others from loading; only
// discovery errors fail the call.
func (s Service) LoadDescriptors(ctx context.Context, req LoadRequest) (LoadResult, error) {
	files, err := s.Source.Discover(req.Paths)
	if err != nil {
		return LoadResult{}, err
	}
	docs := make([]types.RawDocument, len(files))
	docErrs := make([]error, len(files))

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for idx, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			docs[idx], docErrs[idx] = s.Source.LoadDocument(path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return LoadResult{}, err
	}

	result := LoadResult{Files: files}
	loader := core.NewLoader()
	for idx, doc := range docs {
		if docErrs[idx] != nil {
			s.loadFailed(ctx, files[idx], "", docErrs[idx])
			result.Failures = append(result.Failures, docErrs[idx])
			continue
		}
		s.registerDocument(ctx, loader, doc, &result)
	}
	log.Ctx(ctx).Debug().
		Int("files", len(files)).
		Int("components", len(result.Registered)).
		Int("failures", len(result.Failures)).
		Msgf("loaded %d %s", len(result.Registered), shared.Plural(len(result.Registered), "component"))
	return result, nil
}

// registerDocument registers every well-formed component of doc and records
// the failures of the others.
func (s Service) registerDocument(ctx context.Context, loader core.Loader, doc types.RawDocument, result *LoadResult) {
	loaded := loader.Load(ctx, doc.Root)
	for _, failure := range loaded.Failures {
		component := failedComponent(failure)
		s.loadFailed(ctx, doc.Source, component, failure)
		s.Catalog.RecordFailure(component, failure)
		result.Failures = append(result.Failures, failure)
	}
	for _, component := range loaded.Components {
		component.Source = doc.Source
		if err := s.Catalog.Register(ctx, component); err != nil {
			s.loadFailed(ctx, doc.Source, component.Name, err)
			s.Catalog.RecordFailure(component.Name, err)
			result.Failures = append(result.Failures, err)
			continue
		}
		result.Registered = append(result.Registered, component.Name)
	}
}

func (s Service) loadFailed(ctx context.Context, source string, component string, err error) {
	if s.Metrics != nil {
		s.Metrics.LoadFailed()
	}
	event := log.Ctx(ctx).Warn().Str("source", source).Err(err)
	if component != "" {
		event = event.Str("component", component)
	}
	event.Msg("descriptor not loaded")
}

func failedComponent(err error) string {
	var descErr *types.DescriptorError
	if errors.As(err, &descErr) {
		return descErr.Component
	}
	return ""
}
