package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rosiface/internal/types"
)

func (s Service) GetInterface(ctx context.Context, req GetInterfaceRequest) (GetInterfaceResult, error) {
	if err := requireArgs(map[string]string{"component": req.Component, "track": req.Track, "category": req.Category}); err != nil {
		return GetInterfaceResult{}, err
	}
	category := types.Category(strings.TrimSpace(req.Category))
	entries, err := s.Query.EffectiveInterface(ctx, req.Component, req.Track, category)
	if err != nil {
		return GetInterfaceResult{}, err
	}
	return GetInterfaceResult{
		Component: req.Component,
		Track:     req.Track,
		Category:  category,
		Entries:   entries,
	}, nil
}

// Diff compares two tracks. With Unified set, the exported YAML documents of
// both tracks are also rendered as a line diff.
func (s Service) Diff(ctx context.Context, req DiffRequest) (DiffResult, error) {
	if err := requireArgs(map[string]string{"component": req.Component, "track a": req.TrackA, "track b": req.TrackB}); err != nil {
		return DiffResult{}, err
	}
	diff, err := s.Query.Diff(ctx, req.Component, req.TrackA, req.TrackB)
	if err != nil {
		return DiffResult{}, err
	}
	result := DiffResult{Diff: diff}
	if !req.Unified {
		return result, nil
	}
	docA, err := s.exportInterface(ctx, req.Component, req.TrackA)
	if err != nil {
		return DiffResult{}, err
	}
	docB, err := s.exportInterface(ctx, req.Component, req.TrackB)
	if err != nil {
		return DiffResult{}, err
	}
	result.Unified = s.TextDiff.Unified(
		req.Component+"@"+req.TrackA, docA,
		req.Component+"@"+req.TrackB, docB,
	)
	return result, nil
}

// exportInterface renders a track with a neutral track key so that two
// tracks only differ in their entries.
func (s Service) exportInterface(ctx context.Context, component string, track string) (string, error) {
	resolved, err := s.Catalog.Get(ctx, component, track)
	if err != nil {
		return "", err
	}
	resolved.Track = "interface"
	data, err := s.Exporter.Export(resolved, types.OutputFormatYAML)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Validate resolves and validates every track of one component, or of all
// components with All. Failures are part of the result; the returned error
// summarizes them so callers can exit non-zero.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	component := strings.TrimSpace(req.Component)
	if component == "" && !req.All {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("component is required unless all components are validated")
	}
	components := []string{component}
	result := ValidateResult{}
	if req.All {
		components = s.Catalog.ListComponents()
		failures := s.Catalog.Failures()
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			result.LoadFailures = append(result.LoadFailures, types.ComponentReport{
				Component: name,
				Tracks:    []types.TrackReport{{Track: "-", Err: failures[name]}},
			})
		}
	}

	failed, total := len(result.LoadFailures), 0
	for _, name := range components {
		report, err := s.Query.ValidateComponent(ctx, name)
		if err != nil {
			return ValidateResult{}, err
		}
		result.Reports = append(result.Reports, report)
		total += len(report.Tracks)
		failed += len(report.Failures())
	}
	if failed > 0 {
		return result, &types.DescriptorError{
			Kind:      types.ErrorKindValidation,
			Component: component,
			Msg:       validationSummary(failed, total, len(result.LoadFailures)),
		}
	}
	return result, nil
}

func validationSummary(failed int, total int, loadFailures int) string {
	summary := fmt.Sprintf("%d of %d tracks failed", failed-loadFailures, total)
	if loadFailures > 0 {
		summary += fmt.Sprintf(", %d components not loaded", loadFailures)
	}
	return summary
}

func (s Service) List(_ context.Context, req ListRequest) (ListResult, error) {
	component := strings.TrimSpace(req.Component)
	if component == "" {
		return ListResult{Components: s.Catalog.ListComponents()}, nil
	}
	tracks, err := s.Catalog.ListTracks(component)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Component: component, Tracks: tracks}, nil
}

func (s Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if err := requireArgs(map[string]string{"component": req.Component, "track": req.Track}); err != nil {
		return ExportResult{}, err
	}
	resolved, err := s.Catalog.Get(ctx, req.Component, req.Track)
	if err != nil {
		return ExportResult{}, err
	}
	data, err := s.Exporter.Export(resolved, req.Format)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Data: data}, nil
}

func (s Service) Names(ctx context.Context, req NamesRequest) (NamesResult, error) {
	if err := requireArgs(map[string]string{"component": req.Component, "track": req.Track, "node": req.Node}); err != nil {
		return NamesResult{}, err
	}
	names, err := s.Query.ResolveNames(ctx, req.Component, req.Track, req.Node)
	if err != nil {
		return NamesResult{}, err
	}
	return NamesResult{Names: names}, nil
}

func (s Service) Find(ctx context.Context, req FindRequest) (FindResult, error) {
	matches, err := s.Query.FindEntries(ctx, strings.TrimSpace(req.Track), strings.TrimSpace(req.Name))
	if err != nil {
		return FindResult{}, err
	}
	return FindResult{Matches: matches}, nil
}

// requireArgs fails with the first empty argument in a stable order.
func requireArgs(args map[string]string) error {
	for _, name := range []string{"component", "track", "track a", "track b", "category", "node"} {
		value, ok := args[name]
		if ok && strings.TrimSpace(value) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(name + " is required")
		}
	}
	return nil
}
