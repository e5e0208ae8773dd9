// Package storage provides the key-value stores the session snapshots itself into
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riordanpawley/codeflow/internal/config"
)

// Store is a minimal key-value store.
//
// Get returns an error wrapping domain.ErrNotFound when the key is absent.
// Remove of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the store selected by cfg.Backend
func Open(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "file", "":
		return NewFileStore(cfg.Path, logger), nil
	case "sqlite":
		return OpenSQLStore(sqlitePath(cfg.Path), logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
