// Package testutil provides shared test helpers for the e2e tests.
package testutil

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// BuildCLI compiles the rosiface binary into a temporary directory.
func BuildCLI(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "rosiface")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/rosiface")
	cmd.Dir = RepoRoot(t)
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return binary
}

// Result is the captured outcome of one CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunCLI runs binary from the repository root.
func RunCLI(t *testing.T, binary string, args ...string) Result {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = RepoRoot(t)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "run failed: %v\n%s", err, result.Stderr)
		result.ExitCode = exitErr.ExitCode()
	}
	return result
}
