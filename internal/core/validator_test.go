package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosiface/internal/types"
)

func resolvedWith(iface types.InterfaceSet) types.ResolvedDescriptor {
	return types.ResolvedDescriptor{
		Component: "node",
		Track:     "indigo",
		Origin:    "indigo",
		Chain:     []string{"indigo"},
		Interface: iface,
	}
}

func TestValidatorAcceptsProsilica(t *testing.T) {
	resolved, err := NewInheritanceResolver().Resolve(t.Context(), prosilicaComponent(), "melodic")
	require.NoError(t, err)
	require.NoError(t, NewValidator().Validate(t.Context(), resolved))
}

func TestValidatorDuplicateNames(t *testing.T) {
	dynamic := entry("joint_?/state", "sensor_msgs/JointState")
	dynamic.Repeats = true

	tests := []struct {
		name    string
		entries []types.InterfaceEntry
		wantErr bool
	}{
		{
			name:    "duplicate without repeats",
			entries: []types.InterfaceEntry{entry("chatter", "std_msgs/String"), entry("chatter", "std_msgs/String")},
			wantErr: true,
		},
		{
			name:    "duplicate with repeats on both",
			entries: []types.InterfaceEntry{dynamic, dynamic},
			wantErr: false,
		},
		{
			name:    "duplicate with repeats on one",
			entries: []types.InterfaceEntry{dynamic, entry("joint_?/state", "sensor_msgs/JointState")},
			wantErr: true,
		},
		{
			name:    "distinct names",
			entries: []types.InterfaceEntry{entry("a", "std_msgs/String"), entry("b", "std_msgs/String")},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidator().Validate(t.Context(), resolvedWith(types.InterfaceSet{
				types.CategoryAdvertise: tt.entries,
			}))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsKind(err, types.ErrorKindValidation))
		})
	}
}

func TestValidatorSameNameInDifferentCategories(t *testing.T) {
	err := NewValidator().Validate(t.Context(), resolvedWith(types.InterfaceSet{
		types.CategoryAdvertise: {entry("chatter", "std_msgs/String")},
		types.CategorySubscribe: {entry("chatter", "std_msgs/String")},
	}))
	require.NoError(t, err)
}

func TestValidatorCollectsAllViolations(t *testing.T) {
	negative := entry("scan", "sensor_msgs/LaserScan")
	negative.QueueOrDepth = -1
	blankCondition := entry("cmd_vel", "geometry_msgs/Twist")
	blankCondition.Conditions = []string{"teleop", ""}

	err := NewValidator().Validate(t.Context(), resolvedWith(types.InterfaceSet{
		types.CategoryAdvertise: {negative, entry("", "std_msgs/String")},
		types.CategorySubscribe: {blankCondition, blankCondition},
		types.Category("publish"): {},
	}))
	require.Error(t, err)

	var descErr *types.DescriptorError
	require.ErrorAs(t, err, &descErr)
	assert.Equal(t, "node", descErr.Component)
	assert.Equal(t, "indigo", descErr.Track)

	rules := map[string]int{}
	for _, violation := range descErr.Violations {
		rules[violation.Rule]++
	}
	assert.Equal(t, map[string]int{
		"queue":     1,
		"name":      1,
		"condition": 2,
		"duplicate": 1,
		"category":  1,
	}, rules)
	assert.Contains(t, err.Error(), "6 violation(s)")
}

func TestValidatorViolationOrderFollowsCategories(t *testing.T) {
	negative := entry("scan", "sensor_msgs/LaserScan")
	negative.QueueOrDepth = -3
	err := NewValidator().Validate(t.Context(), resolvedWith(types.InterfaceSet{
		types.CategoryWriteParam: {negative},
		types.CategoryAdvertise:  {entry("", "std_msgs/String")},
	}))
	var descErr *types.DescriptorError
	require.ErrorAs(t, err, &descErr)
	require.Len(t, descErr.Violations, 2)
	assert.Equal(t, types.CategoryAdvertise, descErr.Violations[0].Category)
	assert.Equal(t, types.CategoryWriteParam, descErr.Violations[1].Category)
	assert.Contains(t, descErr.Violations[1].Message, "got -3")
}
