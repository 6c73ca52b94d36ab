package badger

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/promptstash/promptstash/storage"
)

// schemaVersion is the schema this binary writes. Upgrades are additive
// only: a migration may backfill new index entries but never destroys
// existing documents.
//
// History:
//
//	1 - documents keyed by id
//	2 - category and client secondary indexes on prompts
const schemaVersion = 2

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
//
// A database held open by another process surfaces as storage.ErrBlocked,
// which is recoverable by closing the other session; every other open
// failure surfaces as storage.ErrConnection. After opening, the stored
// schema version is checked and any missing index structures are
// backfilled additively.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, fmt.Errorf("%w: %v", storage.ErrConnection, err)
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", storage.ErrConnection, err)
				}
			} else {
				return nil, fmt.Errorf("%w: %v", storage.ErrConnection, err)
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", storage.ErrConnection, filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		// Badger reports a held directory lock only through the error text.
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, fmt.Errorf("%w: %v", storage.ErrBlocked, err)
		}
		return nil, fmt.Errorf("%w: %v", storage.ErrConnection, err)
	}

	b := &Backend{
		db:     db,
		logger: slog.Default(),
	}

	if err := b.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// DropAll removes every key and rewrites the schema version marker.
func (b *Backend) DropAll() error {
	if err := b.db.DropAll(); err != nil {
		return err
	}
	return b.writeSchemaVersion(schemaVersion)
}

// migrate checks the stored schema version and applies additive upgrades.
func (b *Backend) migrate() error {
	stored, err := b.readSchemaVersion()
	if err != nil {
		return fmt.Errorf("%w: reading schema version: %v", storage.ErrConnection, err)
	}

	switch {
	case stored == 0:
		// Fresh database: stamp the current version.
		return b.writeSchemaVersion(schemaVersion)
	case stored > schemaVersion:
		return fmt.Errorf("%w: database schema version %d is newer than supported version %d",
			storage.ErrConnection, stored, schemaVersion)
	case stored == schemaVersion:
		return nil
	}

	b.logger.Info("upgrading storage schema", "from", stored, "to", schemaVersion)

	if stored < 2 {
		if err := b.backfillPromptIndexes(); err != nil {
			return fmt.Errorf("%w: backfilling prompt indexes: %v", storage.ErrConnection, err)
		}
	}

	return b.writeSchemaVersion(schemaVersion)
}

// backfillPromptIndexes rebuilds the category and client secondary
// indexes from the stored prompts. Runs inside a single transaction.
func (b *Backend) backfillPromptIndexes() error {
	return b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(promptPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var indexErr error
			err := iter.Item().Value(func(val []byte) error {
				p, err := storage.UnmarshalPrompt(val)
				if err != nil {
					return err
				}
				indexErr = setPromptIndexEntries(tx, p)
				return nil
			})
			if err != nil {
				return err
			}
			if indexErr != nil {
				return indexErr
			}
		}
		// Badger requires all iterators to be closed before Commit.
		iter.Close()
		return tx.Commit()
	}, true)
}

func (b *Backend) readSchemaVersion() (int, error) {
	var version int
	err := b.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(schemaVersionKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			v, err := strconv.Atoi(string(val))
			if err != nil {
				return err
			}
			version = v
			return nil
		})
	}, false)
	return version, err
}

func (b *Backend) writeSchemaVersion(version int) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(schemaVersionKey), []byte(strconv.Itoa(version))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
