package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/mood2movie/internal/config"
	"github.com/Veraticus/mood2movie/internal/service"
)

// Open returns the library store selected by cfg, migrated and ready to use.
func Open(ctx context.Context, cfg config.StorageConfig) (service.LibraryStore, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewJSONStore(cfg.Dir)
	case config.BackendSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
