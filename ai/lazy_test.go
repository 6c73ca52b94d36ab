package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptstash/promptstash/ai"
	"github.com/promptstash/promptstash/ai/mock"
)

func TestLazyEmbedderBecomesReady(t *testing.T) {
	lazy := ai.NewLazyEmbedder(func() (ai.Embedder, error) {
		return mock.NewMockEmbedder(), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, lazy.WaitReady(ctx))
	assert.True(t, lazy.Ready())

	vec, err := lazy.EmbedText(ctx, "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}

func TestLazyEmbedderNotReadyWhileLoading(t *testing.T) {
	release := make(chan struct{})
	lazy := ai.NewLazyEmbedder(func() (ai.Embedder, error) {
		<-release
		return mock.NewMockEmbedder(), nil
	})

	assert.False(t, lazy.Ready())
	_, err := lazy.EmbedText(context.Background(), "hello")
	assert.True(t, errors.Is(err, ai.ErrEmbeddingUnavailable))

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, lazy.WaitReady(ctx))
	assert.True(t, lazy.Ready())
}

func TestLazyEmbedderLoadFailureIsTerminal(t *testing.T) {
	lazy := ai.NewLazyEmbedder(func() (ai.Embedder, error) {
		return nil, errors.New("model missing")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := lazy.WaitReady(ctx)
	assert.True(t, errors.Is(err, ai.ErrEmbeddingUnavailable))
	assert.False(t, lazy.Ready())

	_, err = lazy.EmbedTexts(context.Background(), []string{"a"})
	assert.True(t, errors.Is(err, ai.ErrEmbeddingUnavailable))
}

func TestLazyEmbedderWaitRespectsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	lazy := ai.NewLazyEmbedder(func() (ai.Embedder, error) {
		<-release
		return mock.NewMockEmbedder(), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := lazy.WaitReady(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
