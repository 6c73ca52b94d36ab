package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage"
)

// ListPrompts returns every stored prompt. Order is unspecified.
func (s *Store) ListPrompts(ctx context.Context) ([]*core.Prompt, error) {
	results := []*core.Prompt{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(promptPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				p, err := storage.UnmarshalPrompt(val)
				if err != nil {
					return err
				}
				results = append(results, p)
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

// PutPrompt upserts a prompt and maintains the category and client
// secondary indexes within the same transaction.
func (s *Store) PutPrompt(ctx context.Context, p *core.Prompt) error {
	value, err := storage.MarshalPrompt(p)
	if err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makePromptKey(p.Id)

		old, err := readPrompt(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			if err := deletePromptIndexEntries(tx, old); err != nil {
				return err
			}
		}

		if err := tx.Set(key, value); err != nil {
			return err
		}
		if err := setPromptIndexEntries(tx, p); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeletePrompt removes a prompt and its index entries. Deleting an id
// that does not exist is a no-op.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makePromptKey(id)

		old, err := readPrompt(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}

		if err := deletePromptIndexEntries(tx, old); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindPromptsByCategory returns prompts with the exact category, using
// the secondary index instead of a full scan.
func (s *Store) FindPromptsByCategory(ctx context.Context, category string) ([]*core.Prompt, error) {
	return s.findPromptsByIndex(makePartialCategoryKey(category))
}

// FindPromptsByClient returns prompts with the exact client, using the
// secondary index instead of a full scan.
func (s *Store) FindPromptsByClient(ctx context.Context, client string) ([]*core.Prompt, error) {
	return s.findPromptsByIndex(makePartialClientKey(client))
}

func (s *Store) findPromptsByIndex(prefix []byte) ([]*core.Prompt, error) {
	results := []*core.Prompt{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			// The index value is the document id.
			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			p, err := readPrompt(tx, makePromptKey(id))
			if err != nil {
				return err
			}
			if p != nil {
				results = append(results, p)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Helper functions

// readPrompt reads a prompt from the transaction, or nil if absent.
func readPrompt(tx *badger.Txn, key []byte) (*core.Prompt, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var p *core.Prompt
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		p, unmarshalErr = storage.UnmarshalPrompt(val)
		return unmarshalErr
	})
	return p, err
}

// setPromptIndexEntries writes category and client index entries for a
// prompt. Empty fields are not indexed.
func setPromptIndexEntries(tx *badger.Txn, p *core.Prompt) error {
	if p.Category != "" {
		if err := tx.Set(makeCategoryKey(p.Category, p.Id), []byte(p.Id)); err != nil {
			return err
		}
	}
	if p.Client != "" {
		if err := tx.Set(makeClientKey(p.Client, p.Id), []byte(p.Id)); err != nil {
			return err
		}
	}
	return nil
}

// deletePromptIndexEntries removes index entries for a prompt.
func deletePromptIndexEntries(tx *badger.Txn, p *core.Prompt) error {
	if p.Category != "" {
		if err := tx.Delete(makeCategoryKey(p.Category, p.Id)); err != nil {
			return err
		}
	}
	if p.Client != "" {
		if err := tx.Delete(makeClientKey(p.Client, p.Id)); err != nil {
			return err
		}
	}
	return nil
}
