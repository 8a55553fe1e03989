package testsupport

import (
	"context"
	"testing"

	"unify/internal/config"
	"unify/internal/index"
)

// MustOpenIndex opens an index.Store for tests and registers cleanup.
func MustOpenIndex(t testing.TB, cfg *config.Config) *index.Store {
	t.Helper()

	store, err := index.Open(cfg, nil)
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustAdd indexes each identifier under runID and fails the test on error.
func MustAdd(t testing.TB, store *index.Store, runID string, identifiers ...string) {
	t.Helper()

	for _, id := range identifiers {
		if _, _, err := store.Add(context.Background(), id, runID); err != nil {
			t.Fatalf("store.Add(%q): %v", id, err)
		}
	}
}
