package promptstash

import (
	"context"

	"github.com/promptstash/promptstash/storage"
)

// TransferStats counts the documents copied by Transfer.
type TransferStats struct {
	Prompts     int
	Templates   int
	Collections int
}

// Transfer copies every document from src to dst, embeddings included,
// so a vault exported from an indexed database needs no reindexing on
// the other side. With replace set, dst is cleared first; otherwise
// documents merge by id, overwriting same-id entries.
//
// Both backends implement the same contract, so this one function
// covers vault-to-database import and database-to-vault export.
func Transfer(ctx context.Context, src, dst storage.Store, replace bool) (*TransferStats, error) {
	if replace {
		if err := dst.Clear(ctx); err != nil {
			return nil, err
		}
	}

	stats := &TransferStats{}

	prompts, err := src.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if err := dst.PutPrompt(ctx, p); err != nil {
			return stats, err
		}
		stats.Prompts++
	}

	templates, err := src.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if err := dst.PutTemplate(ctx, t); err != nil {
			return stats, err
		}
		stats.Templates++
	}

	collections, err := src.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range collections {
		if err := dst.PutCollection(ctx, c); err != nil {
			return stats, err
		}
		stats.Collections++
	}

	return stats, nil
}
