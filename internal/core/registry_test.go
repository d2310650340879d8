package core

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"rosiface/internal/types"
)

type recordingMetrics struct {
	mu         sync.Mutex
	registered int
	hits       int
	misses     int
	failures   map[types.ErrorKind]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{failures: map[types.ErrorKind]int{}}
}

func (m *recordingMetrics) ComponentRegistered(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered++
}

func (m *recordingMetrics) CacheHit(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *recordingMetrics) CacheMiss(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *recordingMetrics) ResolutionFailed(_ string, kind types.ErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind]++
}

func TestRegistryGetCachesResolution(t *testing.T) {
	metrics := newRecordingMetrics()
	registry := NewRegistry(metrics)
	require.NoError(t, registry.Register(t.Context(), prosilicaComponent()))

	first, err := registry.Get(t.Context(), "prosilica_node", "kinetic")
	require.NoError(t, err)
	second, err := registry.Get(t.Context(), "prosilica_node", "kinetic")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("consecutive gets differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, registry.cachedTracks("prosilica_node"))
}

func TestRegistryRegisterInvalidatesCache(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(t.Context(), prosilicaComponent()))
	_, err := registry.Get(t.Context(), "prosilica_node", "kinetic")
	require.NoError(t, err)
	_, err = registry.Get(t.Context(), "prosilica_node", "lunar")
	require.NoError(t, err)
	require.Equal(t, 2, registry.cachedTracks("prosilica_node"))

	replacement := types.NewComponentDescriptor("prosilica_node",
		types.NewConcreteTrack("indigo", types.InterfaceSet{
			types.CategoryAdvertise: {entry("camera/image_rect", "sensor_msgs/Image")},
		}),
		types.NewInheritedTrack("kinetic", "indigo"),
	)
	require.NoError(t, registry.Register(t.Context(), replacement))
	assert.Equal(t, 0, registry.cachedTracks("prosilica_node"))

	resolved, err := registry.Get(t.Context(), "prosilica_node", "kinetic")
	require.NoError(t, err)
	require.Len(t, resolved.Entries(types.CategoryAdvertise), 1)
	assert.Equal(t, "camera/image_rect", resolved.Entries(types.CategoryAdvertise)[0].Name)

	_, err = registry.Get(t.Context(), "prosilica_node", "lunar")
	assert.True(t, types.IsKind(err, types.ErrorKindUnknownTrack))
}

func TestRegistryNeverCachesFailures(t *testing.T) {
	metrics := newRecordingMetrics()
	registry := NewRegistry(metrics)
	component := types.NewComponentDescriptor("node",
		types.NewConcreteTrack("indigo", types.InterfaceSet{
			types.CategoryAdvertise: {entry("a", "std_msgs/String"), entry("a", "std_msgs/String")},
		}),
		types.NewInheritedTrack("kinetic", "melodic"),
		types.NewInheritedTrack("melodic", "kinetic"),
	)
	require.NoError(t, registry.Register(t.Context(), component))

	for i := 0; i < 2; i++ {
		_, err := registry.Get(t.Context(), "node", "indigo")
		assert.True(t, types.IsKind(err, types.ErrorKindValidation))
		_, err = registry.Get(t.Context(), "node", "kinetic")
		assert.True(t, types.IsKind(err, types.ErrorKindCycleDetected))
	}
	assert.Equal(t, 0, registry.cachedTracks("node"))
	assert.Equal(t, 4, metrics.misses)
	assert.Equal(t, 2, metrics.failures[types.ErrorKindValidation])
	assert.Equal(t, 2, metrics.failures[types.ErrorKindCycleDetected])
}

func TestRegistryUnknownComponent(t *testing.T) {
	registry := NewRegistry(nil)
	_, err := registry.Get(t.Context(), "missing", "indigo")
	assert.True(t, types.IsKind(err, types.ErrorKindUnknownComponent))
	_, err = registry.ListTracks("missing")
	assert.True(t, types.IsKind(err, types.ErrorKindUnknownComponent))
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	registry := NewRegistry(nil)
	require.Error(t, registry.Register(t.Context(), types.NewComponentDescriptor("")))

	err := registry.Register(t.Context(), types.NewComponentDescriptor("node",
		types.NewInheritedTrack("kinetic", "indigo"),
	))
	assert.True(t, types.IsKind(err, types.ErrorKindParse))
	assert.Empty(t, registry.ListComponents())
}

func TestRegistryListsInRegistrationOrder(t *testing.T) {
	registry := NewRegistry(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(t.Context(), types.NewComponentDescriptor(name,
			types.NewConcreteTrack("indigo", types.InterfaceSet{}),
		)))
	}
	require.NoError(t, registry.Register(t.Context(), types.NewComponentDescriptor("alpha",
		types.NewConcreteTrack("noetic", types.InterfaceSet{}),
		types.NewInheritedTrack("melodic", "noetic"),
	)))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, registry.ListComponents())
	tracks, err := registry.ListTracks("alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"noetic", "melodic"}, tracks)
}

func TestRegistryReturnsCopies(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(t.Context(), prosilicaComponent()))
	first, err := registry.Get(t.Context(), "prosilica_node", "indigo")
	require.NoError(t, err)
	first.Interface[types.CategoryService][0].Name = "mutated"

	second, err := registry.Get(t.Context(), "prosilica_node", "indigo")
	require.NoError(t, err)
	assert.Equal(t, "set_camera_info", second.Entries(types.CategoryService)[0].Name)
}

func TestRegistryConcurrentGetAndRegister(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(t.Context(), prosilicaComponent()))
	alternate := types.NewComponentDescriptor("prosilica_node",
		types.NewConcreteTrack("indigo", types.InterfaceSet{
			types.CategoryAdvertise: {entry("other", "std_msgs/String")},
		}),
		types.NewInheritedTrack("kinetic", "indigo"),
	)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if worker == 0 && i%10 == 0 {
					descriptor := prosilicaComponent()
					if i%20 == 0 {
						descriptor = alternate
					}
					_ = registry.Register(context.Background(), descriptor)
					continue
				}
				resolved, err := registry.Get(context.Background(), "prosilica_node", "kinetic")
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				advertise := resolved.Entries(types.CategoryAdvertise)
				if len(advertise) != 1 && len(advertise) != 2 {
					t.Errorf("torn read: %d advertise entries", len(advertise))
					return
				}
			}
		}(worker)
	}
	wg.Wait()
}

// Registry state must always match the last registration of each component.
func TestRegistryCacheConsistencyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		registry := NewRegistry(nil)
		latest := map[string]string{}
		names := []string{"camera", "laser", "imu"}

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for step := 0; step < steps; step++ {
			name := rapid.SampledFrom(names).Draw(t, "component")
			if rapid.Bool().Draw(t, "register") {
				topic := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "topic")
				descriptor := types.NewComponentDescriptor(name,
					types.NewConcreteTrack("indigo", types.InterfaceSet{
						types.CategoryAdvertise: {entry(topic, "std_msgs/String")},
					}),
					types.NewInheritedTrack("kinetic", "indigo"),
				)
				if err := registry.Register(ctx, descriptor); err != nil {
					t.Fatalf("register: %v", err)
				}
				latest[name] = topic
				continue
			}

			track := rapid.SampledFrom([]string{"indigo", "kinetic"}).Draw(t, "track")
			resolved, err := registry.Get(ctx, name, track)
			want, registered := latest[name]
			if !registered {
				if !types.IsKind(err, types.ErrorKindUnknownComponent) {
					t.Fatalf("expected unknown component, got %v", err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			got := resolved.Entries(types.CategoryAdvertise)[0].Name
			if got != want {
				t.Fatalf("stale cache: got %q want %q", got, want)
			}
		}
	})
}
