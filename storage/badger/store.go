package badger

import (
	"context"
	"log/slog"

	"github.com/promptstash/promptstash/storage"
)

// Store implements the full storage contract on top of BadgerDB.
// Every operation runs inside a single transaction, so a crash mid-write
// can never leave a document and its index entries out of step.
type Store struct {
	backend *Backend
	logger  *slog.Logger
}

var (
	_ storage.Store          = (*Store)(nil)
	_ storage.CategoryFinder = (*Store)(nil)
	_ storage.ClientFinder   = (*Store)(nil)
)

// Open opens (or creates) a database at the given path.
//
// Returns storage.Store to enforce abstraction: callers select a backend
// by configuration, not by concrete type.
func Open(path string) (storage.Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

// NewStore creates a Store on an already-opened backend.
func NewStore(backend *Backend) *Store {
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "badger-store"),
	}
}

// Clear empties all collections. BadgerDB's DropAll removes every key
// in one operation, so collections can never be observed individually
// cleared.
func (s *Store) Clear(ctx context.Context) error {
	s.logger.Warn("clearing all collections")
	return s.backend.DropAll()
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
