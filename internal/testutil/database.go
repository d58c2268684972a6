// Package testutil provides shared fakes and fixtures for tests across the
// mood2movie packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/mood2movie/internal/storage"
)

// SetupSQLiteStore creates a migrated in-memory SQLite library store that is
// closed when the test ends.
func SetupSQLiteStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SetupJSONStore creates a file-backed library store in a temp directory and
// returns the directory so tests can plant documents in it.
func SetupJSONStore(t *testing.T) (*storage.JSONStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewJSONStore(dir)
	if err != nil {
		t.Fatalf("failed to create json store: %v", err)
	}
	return store, dir
}
