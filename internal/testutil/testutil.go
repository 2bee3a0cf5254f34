// Package testutil provides common test utilities for the bookwyrm project.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnv provides a sandboxed test environment that validates all paths
// stay within a temporary directory. It is cleaned up automatically when
// the test completes.
type TestEnv struct {
	t       *testing.T
	rootDir string
}

// NewTestEnv creates a new sandboxed test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{
		t:       t,
		rootDir: t.TempDir(),
	}
}

// RootDir returns the root directory of the test environment.
func (e *TestEnv) RootDir() string {
	return e.rootDir
}

// Path returns an absolute path within the test environment, failing the
// test if the path would escape the sandbox.
func (e *TestEnv) Path(elem ...string) string {
	e.t.Helper()

	relPath := filepath.Join(elem...)
	cleanPath := filepath.Clean(filepath.Join(e.rootDir, relPath))

	if !e.isWithinSandbox(cleanPath) {
		e.t.Fatalf("path %q escapes test sandbox %q", cleanPath, e.rootDir)
	}
	return cleanPath
}

// WriteFile writes a file inside the sandbox, creating parent
// directories as needed.
func (e *TestEnv) WriteFile(relPath string, data []byte) string {
	e.t.Helper()

	path := e.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %q: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.t.Fatalf("writing %q: %v", path, err)
	}
	return path
}

// FileExists reports whether a file exists inside the sandbox.
func (e *TestEnv) FileExists(relPath string) bool {
	e.t.Helper()
	info, err := os.Stat(e.Path(relPath))
	return err == nil && !info.IsDir()
}

// DirExists reports whether a directory exists inside the sandbox.
func (e *TestEnv) DirExists(relPath string) bool {
	e.t.Helper()
	info, err := os.Stat(e.Path(relPath))
	return err == nil && info.IsDir()
}

func (e *TestEnv) isWithinSandbox(path string) bool {
	cleanRoot := filepath.Clean(e.rootDir)
	cleanPath := filepath.Clean(path)
	return cleanPath == cleanRoot || strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator))
}
