package promptstash_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	promptstash "github.com/promptstash/promptstash"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage/badger"
	"github.com/promptstash/promptstash/storage/vault"
)

func TestTransferVaultToDatabase(t *testing.T) {
	ctx := context.Background()

	src, err := vault.Open(t.TempDir())
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, src.PutPrompt(ctx, &core.Prompt{
		Id: "p1", Title: "From vault", Text: "x", Status: core.StatusDraft,
		Embedding: []float32{1, 0}, EmbeddingHash: "stale-on-purpose",
	}))
	require.NoError(t, src.PutTemplate(ctx, &core.Template{
		Id: "t1", Description: "D", Template: "y",
	}))

	dst, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer dst.Close()

	stats, err := promptstash.Transfer(ctx, src, dst, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Prompts)
	assert.Equal(t, 1, stats.Templates)

	prompts, err := dst.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	// Embeddings travel with the document, staleness and all.
	assert.Equal(t, []float32{1, 0}, prompts[0].Embedding)

	templates, err := dst.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestTransferMergesById(t *testing.T) {
	ctx := context.Background()

	src, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, src.PutPrompt(ctx, &core.Prompt{Id: "shared", Title: "New", Text: "x", Status: core.StatusDraft}))

	dst, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, dst.PutPrompt(ctx, &core.Prompt{Id: "shared", Title: "Old", Text: "x", Status: core.StatusDraft}))
	require.NoError(t, dst.PutPrompt(ctx, &core.Prompt{Id: "keep", Title: "Keep", Text: "y", Status: core.StatusDraft}))

	_, err = promptstash.Transfer(ctx, src, dst, false)
	require.NoError(t, err)

	prompts, err := dst.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	byID := map[string]*core.Prompt{}
	for _, p := range prompts {
		byID[p.Id] = p
	}
	assert.Equal(t, "New", byID["shared"].Title)
	assert.Equal(t, "Keep", byID["keep"].Title)
}

func TestTransferReplaceClearsFirst(t *testing.T) {
	ctx := context.Background()

	src, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, src.PutPrompt(ctx, &core.Prompt{Id: "only", Title: "Only", Text: "x", Status: core.StatusDraft}))

	dst, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, dst.PutPrompt(ctx, &core.Prompt{Id: "doomed", Title: "Doomed", Text: "y", Status: core.StatusDraft}))

	stats, err := promptstash.Transfer(ctx, src, dst, true)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Prompts)

	prompts, err := dst.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "only", prompts[0].Id)
}
