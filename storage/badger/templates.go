package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage"
)

// ListTemplates returns every stored template. Order is unspecified.
func (s *Store) ListTemplates(ctx context.Context) ([]*core.Template, error) {
	results := []*core.Template{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(templatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				t, err := storage.UnmarshalTemplate(val)
				if err != nil {
					return err
				}
				results = append(results, t)
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

// PutTemplate upserts a template by id.
func (s *Store) PutTemplate(ctx context.Context, t *core.Template) error {
	value, err := storage.MarshalTemplate(t)
	if err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeTemplateKey(t.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteTemplate removes a template by id. Idempotent.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeTemplateKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
