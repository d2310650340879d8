package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rosiface/internal/core"
	"rosiface/internal/types"
)

func cameraEntry(name string, typeName string) types.InterfaceEntry {
	return types.InterfaceEntry{Name: name, TypeName: typeName, Conditions: []string{}}
}

func cameraDescriptor() types.ComponentDescriptor {
	info := cameraEntry("camera/camera_info", "sensor_msgs/CameraInfo")
	info.QueueOrDepth = 1
	address := cameraEntry("ip_address", "string")
	address.NamespaceHint = "~"
	return types.NewComponentDescriptor("prosilica_node",
		types.NewConcreteTrack("indigo", types.InterfaceSet{
			types.CategoryAdvertise: {cameraEntry("camera/image_raw", "sensor_msgs/Image"), info},
			types.CategoryService:   {cameraEntry("set_camera_info", "sensor_msgs/SetCameraInfo")},
			types.CategoryReadParam: {address},
		}),
		types.NewInheritedTrack("kinetic", "indigo"),
		types.NewInheritedTrack("noetic", "jade"),
	)
}

func cameraRegistry(t *testing.T) *core.Registry {
	t.Helper()
	registry := core.NewRegistry(nil)
	require.NoError(t, registry.Register(t.Context(), cameraDescriptor()))
	return registry
}
