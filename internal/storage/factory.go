package storage

import (
	"fmt"

	"github.com/rs/zerolog"
)

// NewStore builds an uninitialised store for the named backend.
func NewStore(kind, path string, logger zerolog.Logger) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(path, logger), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownBackend)
	}
}
