package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/hotel-occupancy/internal/persistence/sqlite"
)

// SQLiteHarness provides a migrated room store backed by a temporary SQLite file
// for integration-style tests.
type SQLiteHarness struct {
	Storage *sqlite.Storage
	Path    string

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a fresh database under the test's temporary directory. Callers may
// invoke Close early; the harness also registers a cleanup callback with tb.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "hotel.db")
	storage, err := sqlite.Open(context.Background(), sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage: storage,
		Path:    path,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
