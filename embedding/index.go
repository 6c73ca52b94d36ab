// Package embedding manages the vector lifecycle of prompts: computing
// embeddings from their indexable text, detecting staleness via content
// fingerprints, and scoring query vectors against stored ones.
package embedding

import (
	"context"
	"log/slog"

	"github.com/promptstash/promptstash/ai"
	"github.com/promptstash/promptstash/core"
)

// Index wraps an embedder with prompt-specific embedding logic. It is
// the single place that knows which fields feed the vector and how the
// staleness fingerprint is computed.
type Index struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewIndex creates an Index over the given embedder. The embedder may
// be an ai.LazyEmbedder; Ready then reflects its load state.
func NewIndex(embedder ai.Embedder) *Index {
	return &Index{
		embedder: embedder,
		logger:   slog.Default().With("component", "embedding-index"),
	}
}

// Ready reports whether the underlying model can embed right now.
// Embedders without load states are always ready.
func (ix *Index) Ready() bool {
	if r, ok := ix.embedder.(ai.ReadyReporter); ok {
		return r.Ready()
	}
	return ix.embedder != nil
}

// EmbedQuery embeds free search text.
func (ix *Index) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := ix.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	return Normalize(vec), nil
}

// EmbedPrompt computes the prompt's embedding from its indexable text
// and stamps the matching content fingerprint, making the prompt fresh.
// The prompt is mutated in place; persisting it is the caller's job.
func (ix *Index) EmbedPrompt(ctx context.Context, p *core.Prompt) error {
	text := p.EmbeddingText()
	vec, err := ix.embedder.EmbedText(ctx, text)
	if err != nil {
		return err
	}
	p.Embedding = Normalize(vec)
	p.EmbeddingHash = core.Fingerprint(text)
	return nil
}

// EmbedPrompts embeds a batch of prompts in one model call, stamping
// each with its fingerprint. All-or-nothing: a failed batch mutates no
// prompt.
func (ix *Index) EmbedPrompts(ctx context.Context, prompts []*core.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}
	texts := make([]string, len(prompts))
	for i, p := range prompts {
		texts[i] = p.EmbeddingText()
	}
	vecs, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vecs) != len(prompts) {
		ix.logger.Error("embedder returned wrong batch size", "want", len(prompts), "got", len(vecs))
		return ai.ErrEmbeddingUnavailable
	}
	for i, p := range prompts {
		p.Embedding = Normalize(vecs[i])
		p.EmbeddingHash = core.Fingerprint(texts[i])
	}
	return nil
}

// Score returns the cosine similarity between a query vector and the
// prompt's stored embedding. Stale or absent embeddings score 0 so
// they rank below any real match without erroring.
func (ix *Index) Score(query []float32, p *core.Prompt) float32 {
	if p.EmbeddingStale() {
		return 0
	}
	return Similarity(query, p.Embedding)
}
