package store

import (
	"fmt"
	"path/filepath"
)

// KV is a small persistent key-value store, the local counterpart of a
// browser's localStorage. Writes are atomic per key.
type KV interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Supported storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates the KV store for the given backend rooted at dir.
// An empty dir resolves to CacheDir().
func Open(backend, format, dir string) (KV, error) {
	if dir == "" {
		dir = CacheDir()
	}
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir, format)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "storage.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
