package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptstash/promptstash/ai/mock"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/embedding"
)

func TestEmbedPromptMakesFresh(t *testing.T) {
	ix := embedding.NewIndex(mock.NewMockEmbedder())
	p := &core.Prompt{Id: "p1", Title: "Title", Text: "body", Status: core.StatusDraft}
	require.True(t, p.EmbeddingStale())

	require.NoError(t, ix.EmbedPrompt(context.Background(), p))
	assert.NotEmpty(t, p.Embedding)
	assert.NotEmpty(t, p.EmbeddingHash)
	assert.False(t, p.EmbeddingStale())
}

func TestEditingIndexedFieldReintroducesStaleness(t *testing.T) {
	ix := embedding.NewIndex(mock.NewMockEmbedder())
	p := &core.Prompt{Id: "p1", Title: "Title", Text: "body", Status: core.StatusDraft}
	require.NoError(t, ix.EmbedPrompt(context.Background(), p))
	require.False(t, p.EmbeddingStale())

	p.Text = "edited body"
	assert.True(t, p.EmbeddingStale())
}

func TestEditingNonIndexedFieldKeepsFresh(t *testing.T) {
	ix := embedding.NewIndex(mock.NewMockEmbedder())
	p := &core.Prompt{Id: "p1", Title: "Title", Text: "body", Status: core.StatusDraft}
	require.NoError(t, ix.EmbedPrompt(context.Background(), p))

	p.Category = "work"
	p.Status = core.StatusLive
	p.Tags = "new,tags"
	assert.False(t, p.EmbeddingStale())
}

func TestEmbedPromptsBatch(t *testing.T) {
	ix := embedding.NewIndex(mock.NewMockEmbedder())
	prompts := []*core.Prompt{
		{Id: "p1", Title: "A", Text: "alpha", Status: core.StatusDraft},
		{Id: "p2", Title: "B", Text: "beta", Status: core.StatusDraft},
	}
	require.NoError(t, ix.EmbedPrompts(context.Background(), prompts))
	for _, p := range prompts {
		assert.False(t, p.EmbeddingStale())
	}
	assert.NotEqual(t, prompts[0].Embedding, prompts[1].Embedding)
}

func TestEmbedPromptsFailureMutatesNothing(t *testing.T) {
	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model offline")
	}
	ix := embedding.NewIndex(m)

	p := &core.Prompt{Id: "p1", Title: "A", Text: "alpha", Status: core.StatusDraft}
	err := ix.EmbedPrompts(context.Background(), []*core.Prompt{p})
	require.Error(t, err)
	assert.Empty(t, p.Embedding)
	assert.True(t, p.EmbeddingStale())
}

func TestScore(t *testing.T) {
	ix := embedding.NewIndex(mock.NewMockEmbedder())
	ctx := context.Background()

	p := &core.Prompt{Id: "p1", Title: "A", Text: "alpha", Status: core.StatusDraft}
	require.NoError(t, ix.EmbedPrompt(ctx, p))

	// A query embedded from the same text is the same vector.
	q, err := ix.EmbedQuery(ctx, p.EmbeddingText())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ix.Score(q, p), 1e-4)

	// Stale prompts always score zero.
	p.Text = "edited"
	assert.Zero(t, ix.Score(q, p))

	// Absent embeddings always score zero.
	bare := &core.Prompt{Id: "p2", Title: "B", Text: "beta", Status: core.StatusDraft}
	assert.Zero(t, ix.Score(q, bare))
}

func TestReadyReflectsEmbedder(t *testing.T) {
	m := mock.NewMockEmbedder()
	ix := embedding.NewIndex(m)
	assert.True(t, ix.Ready())

	m.NotReady = true
	assert.False(t, ix.Ready())
}
