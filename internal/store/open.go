package store

import (
	"fmt"

	"git.sr.ht/~jakintosh/tempo/internal/config"
	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

// Open returns the slot backend selected by cfg.
func Open(cfg config.StorageConfig) (domain.Storage, error) {
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "memory":
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
