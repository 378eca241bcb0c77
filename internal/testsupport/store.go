package testsupport

import (
	"testing"

	"ggnmatch/internal/resultstore"
)

// MustOpenStore opens a resultstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *resultstore.Store {
	t.Helper()

	store, err := resultstore.Open(path)
	if err != nil {
		t.Fatalf("resultstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
