// Package testutil holds helpers shared by the CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Setup writes files, keyed by relative path, into a temporary directory and
// returns it.
func Setup(tb testing.TB, files map[string]string) string {
	tb.Helper()

	root := tb.TempDir()
	for relPath, content := range files {
		fullPath := filepath.Join(root, relPath)

		dir := filepath.Dir(fullPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			tb.Fatalf("creating directory %s: %v", dir, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
			tb.Fatalf("writing file %s: %v", fullPath, err)
		}
	}
	return root
}

// ReadFile returns the content of path or fails the test.
func ReadFile(tb testing.TB, path string) string {
	tb.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
