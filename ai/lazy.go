package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// LazyEmbedder defers embedder construction to a background goroutine
// so that opening a stash never blocks on model availability. Until the
// inner embedder is ready, every Embed call fails with
// ErrEmbeddingUnavailable and Ready reports false.
//
// Construction failure is terminal for the instance: the embedder stays
// unavailable rather than retrying, matching the "works without the
// model, just without semantic ranking" posture of search.
type LazyEmbedder struct {
	mu       sync.RWMutex
	inner    Embedder
	loadErr  error
	loaded   chan struct{}
	loadOnce sync.Once
	build    func() (Embedder, error)
	logger   *slog.Logger
}

var _ Embedder = (*LazyEmbedder)(nil)
var _ ReadyReporter = (*LazyEmbedder)(nil)

// NewLazyEmbedder wraps a constructor and starts building the inner
// embedder in the background immediately.
func NewLazyEmbedder(build func() (Embedder, error)) *LazyEmbedder {
	l := &LazyEmbedder{
		build:  build,
		loaded: make(chan struct{}),
		logger: slog.Default().With("component", "lazy-embedder"),
	}
	go l.load()
	return l
}

func (l *LazyEmbedder) load() {
	l.loadOnce.Do(func() {
		inner, err := l.build()
		l.mu.Lock()
		l.inner, l.loadErr = inner, err
		l.mu.Unlock()
		close(l.loaded)
		if err != nil {
			l.logger.Warn("embedding model failed to load", "err", err)
		} else {
			l.logger.Debug("embedding model ready")
		}
	})
}

// Ready reports whether the inner embedder finished loading successfully.
func (l *LazyEmbedder) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.inner != nil && l.loadErr == nil
}

// WaitReady blocks until the inner embedder has loaded (successfully or
// not) or the context expires. Useful for batch jobs that would rather
// wait than skip semantic work.
func (l *LazyEmbedder) WaitReady(ctx context.Context) error {
	select {
	case <-l.loaded:
		l.mu.RLock()
		defer l.mu.RUnlock()
		if l.loadErr != nil {
			return fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, l.loadErr)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LazyEmbedder) ready() (Embedder, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.inner == nil || l.loadErr != nil {
		return nil, ErrEmbeddingUnavailable
	}
	return l.inner, nil
}

// EmbedText delegates to the inner embedder once it is ready.
func (l *LazyEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	inner, err := l.ready()
	if err != nil {
		return nil, err
	}
	return inner.EmbedText(ctx, text)
}

// EmbedTexts delegates to the inner embedder once it is ready.
func (l *LazyEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	inner, err := l.ready()
	if err != nil {
		return nil, err
	}
	return inner.EmbedTexts(ctx, texts)
}
