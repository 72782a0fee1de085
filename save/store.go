// Package save provides the small key-value stores that persist player progress.
package save

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("key not found")
	ErrUnknownBackend = errors.New("unknown save backend")
	ErrEmptyKey       = errors.New("key is required")
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a string-keyed byte store
// Get returns ErrNotFound for keys never written
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open constructs the backend named by backend; path is ignored for memory
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		fs, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendSQLite:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
