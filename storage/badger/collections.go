package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage"
)

// ListCollections returns every saved filter collection.
func (s *Store) ListCollections(ctx context.Context) ([]*core.Collection, error) {
	results := []*core.Collection{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collectionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				c, err := storage.UnmarshalCollection(val)
				if err != nil {
					return err
				}
				results = append(results, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PutCollection upserts a collection by id.
func (s *Store) PutCollection(ctx context.Context, c *core.Collection) error {
	value, err := storage.MarshalCollection(c)
	if err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCollectionKey(c.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteCollection removes a collection by id. Idempotent.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCollectionKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
