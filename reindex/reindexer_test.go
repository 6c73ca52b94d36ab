package reindex_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptstash/promptstash/ai/mock"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/embedding"
	"github.com/promptstash/promptstash/reindex"
	"github.com/promptstash/promptstash/storage/badger"
)

func testConfig() *reindex.Config {
	cfg := reindex.DefaultConfig()
	cfg.BatchSize = 2
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func seedPrompts(t *testing.T, repo interface {
	PutPrompt(ctx context.Context, p *core.Prompt) error
}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := &core.Prompt{
			Id:     core.NewID(),
			Title:  "Prompt",
			Text:   string(rune('a'+i)) + " body",
			Status: core.StatusDraft,
		}
		require.NoError(t, repo.PutPrompt(context.Background(), p))
	}
}

func TestRunRefreshesStalePrompts(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	seedPrompts(t, store, 5)

	ix := embedding.NewIndex(mock.NewMockEmbedder())
	r, err := reindex.NewReindexer(store, ix, testConfig(), io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 5, stats.Stale)
	assert.Equal(t, 5, stats.Reindexed)
	assert.Zero(t, stats.Failed)

	prompts, err := store.ListPrompts(context.Background())
	require.NoError(t, err)
	for _, p := range prompts {
		assert.False(t, p.EmbeddingStale())
		assert.NotEmpty(t, p.Embedding)
	}
}

func TestRunSkipsFreshPrompts(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	m := mock.NewMockEmbedder()
	ix := embedding.NewIndex(m)

	fresh := &core.Prompt{Id: "fresh", Title: "F", Text: "x", Status: core.StatusDraft}
	require.NoError(t, ix.EmbedPrompt(context.Background(), fresh))
	require.NoError(t, store.PutPrompt(context.Background(), fresh))

	stale := &core.Prompt{Id: "stale", Title: "S", Text: "y", Status: core.StatusDraft}
	require.NoError(t, store.PutPrompt(context.Background(), stale))

	r, err := reindex.NewReindexer(store, ix, testConfig(), io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Stale)
	assert.Equal(t, 1, stats.Reindexed)
}

func TestRunWithNothingStale(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ix := embedding.NewIndex(mock.NewMockEmbedder())
	r, err := reindex.NewReindexer(store, ix, testConfig(), io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Reindexed)
}

func TestFailedBatchIsSkippedNotFatal(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	seedPrompts(t, store, 4)

	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model offline")
	}
	ix := embedding.NewIndex(m)

	cfg := testConfig()
	cfg.MaxRetries = 2
	r, err := reindex.NewReindexer(store, ix, cfg, io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Failed)
	assert.Zero(t, stats.Reindexed)

	// Nothing was persisted, so everything is still stale.
	prompts, err := store.ListPrompts(context.Background())
	require.NoError(t, err)
	for _, p := range prompts {
		assert.True(t, p.EmbeddingStale())
	}
}

func TestNewReindexerValidation(t *testing.T) {
	ix := embedding.NewIndex(mock.NewMockEmbedder())
	_, err := reindex.NewReindexer(nil, ix, nil, io.Discard)
	assert.True(t, errors.Is(err, reindex.ErrStoreRequired))

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	_, err = reindex.NewReindexer(store, nil, nil, io.Discard)
	assert.True(t, errors.Is(err, reindex.ErrIndexRequired))
}
