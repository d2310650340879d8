package core

import "rosiface/internal/types"

func entry(name string, typeName string) types.InterfaceEntry {
	return types.InterfaceEntry{Name: name, TypeName: typeName, Conditions: []string{}}
}

func prosilicaInterface() types.InterfaceSet {
	return types.InterfaceSet{
		types.CategoryAdvertise: {
			entry("camera/image_raw", "sensor_msgs/Image"),
			entry("camera/camera_info", "sensor_msgs/CameraInfo"),
		},
		types.CategorySubscribe: {},
		types.CategoryService: {
			entry("set_camera_info", "sensor_msgs/SetCameraInfo"),
			entry("request_image", "polled_camera/GetPolledImage"),
		},
		types.CategoryClient: {},
		types.CategoryReadParam: {
			entry("ip_address", "string"),
			entry("guid", "string"),
		},
		types.CategoryWriteParam: {},
	}
}

func prosilicaComponent() types.ComponentDescriptor {
	return types.NewComponentDescriptor("prosilica_node",
		types.NewConcreteTrack("indigo", prosilicaInterface()),
		types.NewInheritedTrack("kinetic", "indigo"),
		types.NewInheritedTrack("lunar", "indigo"),
		types.NewInheritedTrack("melodic", "indigo"),
	)
}

func prosilicaRaw() map[string]any {
	return map[string]any{
		"indigo": map[string]any{
			"advertise": []any{
				map[string]any{"name": "camera/image_raw", "type": "sensor_msgs/Image", "queue": 1},
				map[string]any{"name": "camera/camera_info", "type": "sensor_msgs/CameraInfo", "queue": 1},
			},
			"service": []any{
				map[string]any{"name": "set_camera_info", "type": "sensor_msgs/SetCameraInfo"},
				map[string]any{"name": "request_image", "type": "polled_camera/GetPolledImage"},
			},
			"readParam": []any{
				map[string]any{"name": "ip_address", "type": "string", "namespace": "~", "location": nil},
				map[string]any{"name": "guid", "type": "string", "namespace": "~"},
			},
		},
		"kinetic": map[string]any{"base": "indigo"},
		"lunar":   map[string]any{"base": "indigo"},
		"melodic": map[string]any{"base": "indigo"},
	}
}
