package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and its parents) with a small placeholder payload.
func WriteFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte{0x42}, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTree creates every slash-separated relative path under root.
func WriteTree(t testing.TB, root string, paths ...string) {
	t.Helper()

	for _, rel := range paths {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)))
	}
}
