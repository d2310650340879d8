package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorWatcherAdapter_EmitsChangedDescriptors(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	changes, err := NewDescriptorWatcherAdapter(20*time.Millisecond).Watch(ctx, []string{root})
	require.NoError(t, err)

	path := filepath.Join(root, "camera.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	select {
	case batch := <-changes:
		assert.Equal(t, []string{path}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for descriptor change")
	}

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDescriptorWatcherAdapter_MissingPath(t *testing.T) {
	_, err := NewDescriptorWatcherAdapter(0).Watch(t.Context(), []string{"/nonexistent/descriptors"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestNewDescriptorWatcherAdapterDefaultsDebounce(t *testing.T) {
	assert.Equal(t, defaultWatchDebounce, NewDescriptorWatcherAdapter(0).Debounce)
}
