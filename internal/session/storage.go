package session

import (
	"context"
	"fmt"

	"github.com/getmentor/supercoach-admin/config"
)

// Storage is the persistent key-value store sessions live in.
// SetMany and DeleteMany apply all keys as one unit: readers never observe a partial batch.
type Storage interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys []string) error
	Close() error
}

// OpenStorage creates the backend selected by configuration
func OpenStorage(cfg config.SessionConfig) (Storage, error) {
	switch cfg.Backend {
	case config.SessionBackendMemory:
		return NewMemoryStorage(), nil
	case config.SessionBackendSQLite:
		return NewSQLiteStorage(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
