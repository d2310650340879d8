package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeAnswersQueriesAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node:\n  indigo:\n    advertise:\n      - {name: a, type: std_msgs/String}\n"), 0644))
	service := loadedService(t, dir)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- service.serve(ctx, listener, ServeRequest{Paths: []string{dir}, Watch: true, Debounce: 20 * time.Millisecond})
	}()
	base := "http://" + listener.Addr().String()

	first := waitForEntry(t, base+"/components/node/tracks/indigo/interface/advertise", "a")
	assert.True(t, first)

	require.NoError(t, os.WriteFile(path, []byte("node:\n  indigo:\n    advertise:\n      - {name: b, type: std_msgs/String}\n"), 0644))
	assert.True(t, waitForEntry(t, base+"/components/node/tracks/indigo/interface/advertise", "b"), "reload was not picked up")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func waitForEntry(t *testing.T, url string, name string) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if firstEntryName(url) == name {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func firstEntryName(url string) string {
	resp, err := http.Get(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	var body struct {
		Entries []struct {
			Name string `json:"name"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Entries) == 0 {
		return ""
	}
	return body.Entries[0].Name
}
