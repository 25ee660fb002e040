package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/tocata/internal/shared"
)

// KV is a synchronous string key-value store.
type KV interface {
	Get(key string) (value string, ok bool, err error) // Get returns ok=false when the key does not exist
	Set(key, value string) error                       // Set creates or replaces the value under key
	Remove(key string) error                           // Remove deletes key; removing a missing key is not an error
}

// Backend is a [KV] that holds resources which must be released.
type Backend interface {
	KV
	io.Closer
}

// Open creates the backend named by cfg.Driver.
func Open(cfg shared.StorageConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		return NewSQLite(cfg.Path, cfg.MaxOpenConns, cfg.MaxIdleConns)
	case "redis":
		return NewRedis(cfg.RedisURL)
	case "file", "dir":
		return NewDir(cfg.Dir)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, cfg.Driver)
	}
}
