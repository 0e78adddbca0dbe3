package store

import (
	"path/filepath"
	"testing"

	"github.com/Cult-DSP/LUSID/internal/testutil"
)

// createTestStore creates a new store in a temp dir with sequential run ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithRunIDs(&testutil.SequentialRunIDGenerator{}))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
