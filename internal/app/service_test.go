package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixturePath(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "fixtures"}, parts...)...)
}

func loadedService(t *testing.T, paths ...string) Service {
	t.Helper()
	service := NewService()
	_, err := service.LoadDescriptors(t.Context(), LoadRequest{Paths: paths})
	require.NoError(t, err)
	return service
}
