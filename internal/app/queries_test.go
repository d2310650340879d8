package app

import (
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosiface/internal/types"
)

func TestGetInterfaceInheritedTrack(t *testing.T) {
	service := loadedService(t, fixturePath("prosilica_node.yaml"), fixturePath("robots"))

	indigo, err := service.GetInterface(t.Context(), GetInterfaceRequest{Component: "prosilica_node", Track: "indigo", Category: "readParam"})
	require.NoError(t, err)
	kinetic, err := service.GetInterface(t.Context(), GetInterfaceRequest{Component: "prosilica_node", Track: "kinetic", Category: "readParam"})
	require.NoError(t, err)
	if diff := cmp.Diff(indigo.Entries, kinetic.Entries); diff != "" {
		t.Fatalf("kinetic differs from indigo (-indigo +kinetic):\n%s", diff)
	}
	require.Len(t, kinetic.Entries, 3)
	assert.Equal(t, types.CategoryReadParam, kinetic.Category)
}

func TestGetInterfaceErrors(t *testing.T) {
	service := loadedService(t, fixturePath("prosilica_node.yaml"), fixturePath("robots"))

	tests := []struct {
		name  string
		req   GetInterfaceRequest
		check func(t *testing.T, err error)
	}{
		{
			name: "missing category",
			req:  GetInterfaceRequest{Component: "prosilica_node", Track: "indigo"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			},
		},
		{
			name: "cycle",
			req:  GetInterfaceRequest{Component: "looping_node", Track: "kinetic", Category: "advertise"},
			check: func(t *testing.T, err error) {
				assert.True(t, types.IsKind(err, types.ErrorKindCycleDetected))
				assert.Contains(t, err.Error(), "kinetic -> lunar -> melodic -> lunar")
			},
		},
		{
			name: "unknown base",
			req:  GetInterfaceRequest{Component: "orphan_node", Track: "kinetic", Category: "subscribe"},
			check: func(t *testing.T, err error) {
				assert.True(t, types.IsKind(err, types.ErrorKindUnknownBase))
			},
		},
		{
			name: "unknown track",
			req:  GetInterfaceRequest{Component: "prosilica_node", Track: "noetic", Category: "advertise"},
			check: func(t *testing.T, err error) {
				assert.True(t, types.IsKind(err, types.ErrorKindUnknownTrack))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetInterface(t.Context(), tt.req)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDiffTracks(t *testing.T) {
	service := loadedService(t, fixturePath("prosilica_node.yaml"), fixturePath("robots"))

	same, err := service.Diff(t.Context(), DiffRequest{Component: "prosilica_node", TrackA: "indigo", TrackB: "melodic", Unified: true})
	require.NoError(t, err)
	assert.True(t, same.Diff.Empty())
	assert.Empty(t, same.Unified)

	changed, err := service.Diff(t.Context(), DiffRequest{Component: "arm_driver", TrackA: "melodic", TrackB: "noetic", Unified: true})
	require.NoError(t, err)
	advertise := changed.Diff.Category(types.CategoryAdvertise)
	require.Len(t, advertise.Added, 1)
	assert.Equal(t, "diagnostics", advertise.Added[0].Name)
	require.Len(t, advertise.Changed, 2)
	assert.Equal(t, "joint_states", advertise.Changed[0].Name)
	assert.Equal(t, []types.FieldChange{{Field: "queue", Before: "10", After: "20"}}, advertise.Changed[0].Fields)
	assert.True(t, changed.Diff.Category(types.CategorySubscribe).Empty())

	assert.True(t, strings.HasPrefix(changed.Unified, "--- arm_driver@melodic\n+++ arm_driver@noetic\n"))
	assert.Contains(t, changed.Unified, "-        queue: 10\n")
	assert.Contains(t, changed.Unified, "+        queue: 20\n")
	assert.Contains(t, changed.Unified, "+      - name: diagnostics\n")
}

func TestValidateComponentAndAll(t *testing.T) {
	service := loadedService(t, fixturePath("prosilica_node.yaml"), fixturePath("invalid"))

	result, err := service.Validate(t.Context(), ValidateRequest{Component: "prosilica_node"})
	require.NoError(t, err)
	require.Len(t, result.Reports, 1)
	assert.Len(t, result.Reports[0].Tracks, 4)

	result, err = service.Validate(t.Context(), ValidateRequest{Component: "duplicate_node"})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindValidation))
	assert.Contains(t, err.Error(), "2 of 2 tracks failed")
	require.Len(t, result.Reports, 1)
	var descErr *types.DescriptorError
	require.ErrorAs(t, result.Reports[0].Tracks[0].Err, &descErr)
	assert.Len(t, descErr.Violations, 2)

	_, err = service.Validate(t.Context(), ValidateRequest{Component: "broken_node"})
	assert.True(t, types.IsKind(err, types.ErrorKindParse))

	result, err = service.Validate(t.Context(), ValidateRequest{All: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 7 tracks failed, 1 components not loaded")
	assert.Len(t, result.Reports, 3)
	assert.Len(t, result.LoadFailures, 1)

	_, err = service.Validate(t.Context(), ValidateRequest{})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestListExportNamesFind(t *testing.T) {
	service := loadedService(t, fixturePath("prosilica_node.yaml"), fixturePath("robots"))

	list, err := service.List(t.Context(), ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"prosilica_node", "arm_driver", "looping_node", "orphan_node"}, list.Components)

	list, err = service.List(t.Context(), ListRequest{Component: "arm_driver"})
	require.NoError(t, err)
	assert.Equal(t, []string{"melodic", "noetic", "kinetic"}, list.Tracks)

	exported, err := service.Export(t.Context(), ExportRequest{Component: "arm_driver", Track: "kinetic", Format: types.OutputFormatYAML})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(exported.Data), "arm_driver:\n  kinetic:\n"))
	assert.NotContains(t, string(exported.Data), "base:")

	names, err := service.Names(t.Context(), NamesRequest{Component: "arm_driver", Track: "noetic", Node: "/robot/arm_driver"})
	require.NoError(t, err)
	full := map[string]string{}
	for _, name := range names.Names {
		full[name.Entry.Name] = name.FullName
	}
	assert.Equal(t, "/robot/joint_states", full["joint_states"])
	assert.Equal(t, "/arm/command", full["/arm/command"])
	assert.Equal(t, "/robot/arm_driver/calibrate", full["~calibrate"])
	assert.Equal(t, "/robot/arm_driver/joint_count", full["joint_count"])

	found, err := service.Find(t.Context(), FindRequest{Name: "joint_4/temperature", Track: "noetic"})
	require.NoError(t, err)
	require.Len(t, found.Matches, 1)
	assert.Equal(t, "arm_driver", found.Matches[0].Component)

	_, err = service.Names(t.Context(), NamesRequest{Component: "arm_driver", Track: "noetic"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
