// Copyright 2026 Promptstash Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package promptstash is a personal library of reusable AI prompts with
// hybrid keyword and semantic search.
//
// A Stash wires one storage backend (an indexed local database or a
// directory vault of JSON files) to an embedding index that loads in
// the background. Everything works from the moment the stash opens;
// semantic ranking switches on when the model becomes ready.
package promptstash

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/promptstash/promptstash/ai"
	aiopenai "github.com/promptstash/promptstash/ai/openai"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/embedding"
	"github.com/promptstash/promptstash/reindex"
	"github.com/promptstash/promptstash/search"
	"github.com/promptstash/promptstash/storage"
	"github.com/promptstash/promptstash/storage/badger"
	"github.com/promptstash/promptstash/storage/vault"
)

// Stash is the top-level handle over one storage backend and one
// embedding index.
type Stash struct {
	store  storage.Store
	index  *embedding.Index
	logger *slog.Logger

	mu       sync.Mutex
	provider ai.AIProvider
	cancelBg context.CancelFunc
}

// readyWaiter is satisfied by embedders whose model loads
// asynchronously and that can block until loading finishes
// (ai.LazyEmbedder).
type readyWaiter interface {
	WaitReady(ctx context.Context) error
}

// StashOption configures a Stash.
type StashOption func(*stashOptions)

type stashOptions struct {
	dbPath   string
	inMemory bool
	vaultDir string
	aiConfig *ai.Config
	provider ai.AIProvider
	embedder ai.Embedder
	noAI     bool
}

// WithDatabasePath opens the indexed database backend at the given path.
func WithDatabasePath(path string) StashOption {
	return func(o *stashOptions) {
		o.dbPath = path
	}
}

// WithInMemoryDatabase opens a non-persistent indexed database. Useful
// for tests and scratch sessions.
func WithInMemoryDatabase() StashOption {
	return func(o *stashOptions) {
		o.inMemory = true
	}
}

// WithVaultDir opens the directory vault backend over the given
// directory instead of the indexed database.
func WithVaultDir(dir string) StashOption {
	return func(o *stashOptions) {
		o.vaultDir = dir
	}
}

// WithAIConfig sets the embedding service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) StashOption {
	return func(o *stashOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithAIProvider injects a pre-built embedding provider. The stash
// takes ownership: Close closes the provider along with the backend.
func WithAIProvider(p ai.AIProvider) StashOption {
	return func(o *stashOptions) {
		o.provider = p
	}
}

// WithEmbedder injects an embedder directly, bypassing provider
// construction. Intended for tests.
func WithEmbedder(e ai.Embedder) StashOption {
	return func(o *stashOptions) {
		o.embedder = e
	}
}

// WithoutEmbeddings disables the embedding index entirely; search runs
// in keyword mode and reindexing is unavailable.
func WithoutEmbeddings() StashOption {
	return func(o *stashOptions) {
		o.noAI = true
	}
}

// Open creates a Stash. Exactly one backend is selected: the vault when
// WithVaultDir is given, otherwise the indexed database. The embedding
// model loads in the background; Open never blocks on it. Once the
// model is ready, a background pass refreshes every prompt that was
// saved stale while it was loading.
func Open(opts ...StashOption) (*Stash, error) {
	options := &stashOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var store storage.Store
	var err error
	if options.vaultDir != "" {
		store, err = vault.Open(options.vaultDir)
	} else if options.inMemory {
		var backend *badger.Backend
		backend, err = badger.OpenBackend("", true)
		if err == nil {
			store = badger.NewStore(backend)
		}
	} else {
		store, err = badger.Open(options.dbPath)
	}
	if err != nil {
		return nil, err
	}

	s := &Stash{
		store:  store,
		logger: slog.Default().With("component", "stash"),
	}

	var waiter readyWaiter
	switch {
	case options.noAI:
	case options.provider != nil:
		s.provider = options.provider
		s.index = embedding.NewIndex(options.provider.Embedder())
	case options.embedder != nil:
		s.index = embedding.NewIndex(options.embedder)
		if w, ok := options.embedder.(readyWaiter); ok {
			waiter = w
		}
	default:
		cfg := options.aiConfig
		lazy := ai.NewLazyEmbedder(func() (ai.Embedder, error) {
			p, err := aiopenai.NewProvider(cfg)
			if err != nil {
				return nil, err
			}
			s.setProvider(p)
			return p.Embedder(), nil
		})
		s.index = embedding.NewIndex(lazy)
		waiter = lazy
	}

	if waiter != nil {
		bgCtx, cancel := context.WithCancel(context.Background())
		s.cancelBg = cancel
		go s.reindexWhenReady(bgCtx, waiter)
	}

	return s, nil
}

func (s *Stash) setProvider(p ai.AIProvider) {
	s.mu.Lock()
	s.provider = p
	s.mu.Unlock()
}

// reindexWhenReady waits for the embedding model to finish loading,
// then refreshes every stale prompt. Prompts saved while the model was
// loading are stored stale; this pass picks them up without blocking
// any foreground operation. Failures only log: search keeps working in
// keyword mode and a manual reindex can retry.
func (s *Stash) reindexWhenReady(ctx context.Context, w readyWaiter) {
	if err := w.WaitReady(ctx); err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("embedding model unavailable, stale prompts keep keyword-only ranking", "err", err)
		}
		return
	}

	r, err := reindex.NewReindexer(s.store, s.index, nil, nil)
	if err != nil {
		s.logger.Warn("background reindex could not start", "err", err)
		return
	}
	stats, err := r.Run(ctx)
	if err != nil {
		s.logger.Warn("background reindex aborted", "err", err)
		return
	}
	if stats.Stale > 0 {
		s.logger.Info("background reindex complete",
			"stale", stats.Stale, "reindexed", stats.Reindexed, "failed", stats.Failed)
	}
}

// Store exposes the underlying storage contract.
func (s *Stash) Store() storage.Store {
	return s.store
}

// Index returns the embedding index, or nil when embeddings are disabled.
func (s *Stash) Index() *embedding.Index {
	return s.index
}

// SavePrompt validates and persists a prompt. When the embedding model
// is ready the vector is computed before the write, so the stored
// document is already fresh; otherwise the prompt is stored stale and
// picked up by the next reindex. Embedding failure never blocks a save.
func (s *Stash) SavePrompt(ctx context.Context, p *core.Prompt) error {
	if err := core.ValidatePrompt(p); err != nil {
		return err
	}

	if s.index != nil && s.index.Ready() && p.EmbeddingStale() {
		if err := s.index.EmbedPrompt(ctx, p); err != nil {
			s.logger.Warn("saving prompt without embedding", "id", p.Id, "err", err)
		}
	}

	return s.store.PutPrompt(ctx, p)
}

// DeletePrompt removes a prompt. Idempotent.
func (s *Stash) DeletePrompt(ctx context.Context, id string) error {
	return s.store.DeletePrompt(ctx, id)
}

// ListPrompts returns every stored prompt.
func (s *Stash) ListPrompts(ctx context.Context) ([]*core.Prompt, error) {
	return s.store.ListPrompts(ctx)
}

// SaveTemplate validates and persists a template.
func (s *Stash) SaveTemplate(ctx context.Context, t *core.Template) error {
	if err := core.ValidateTemplate(t); err != nil {
		return err
	}
	return s.store.PutTemplate(ctx, t)
}

// DeleteTemplate removes a template. Idempotent.
func (s *Stash) DeleteTemplate(ctx context.Context, id string) error {
	return s.store.DeleteTemplate(ctx, id)
}

// ListTemplates returns every stored template.
func (s *Stash) ListTemplates(ctx context.Context) ([]*core.Template, error) {
	return s.store.ListTemplates(ctx)
}

// SaveCollection validates and persists a saved filter. On the vault
// backend this is accepted but not durable.
func (s *Stash) SaveCollection(ctx context.Context, c *core.Collection) error {
	if err := core.ValidateCollection(c); err != nil {
		return err
	}
	return s.store.PutCollection(ctx, c)
}

// DeleteCollection removes a saved filter. Idempotent.
func (s *Stash) DeleteCollection(ctx context.Context, id string) error {
	return s.store.DeleteCollection(ctx, id)
}

// ListCollections returns every saved filter.
func (s *Stash) ListCollections(ctx context.Context) ([]*core.Collection, error) {
	return s.store.ListCollections(ctx)
}

// NewSearcher creates a searcher over this stash.
func (s *Stash) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.store, s.index, opts...)
}

// Search runs one query with a throwaway searcher.
func (s *Stash) Search(ctx context.Context, q search.Query) ([]*core.SearchResult, error) {
	searcher, err := s.NewSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, q)
}

// ApplyCollection evaluates a saved filter against the live prompt set.
// Collections store predicates, never document lists, so results always
// reflect current data.
func (s *Stash) ApplyCollection(ctx context.Context, c *core.Collection) ([]*core.SearchResult, error) {
	return s.Search(ctx, search.Query{
		Text:   c.Query,
		Filter: c.Filter,
		Mode:   search.ModeKeyword,
	})
}

// Reindex refreshes every stale prompt embedding. Returns
// ai.ErrEmbeddingUnavailable when embeddings are disabled or the model
// has not loaded yet.
func (s *Stash) Reindex(ctx context.Context, cfg *reindex.Config, progress io.Writer) (*reindex.Stats, error) {
	if s.index == nil || !s.index.Ready() {
		return nil, ai.ErrEmbeddingUnavailable
	}
	r, err := reindex.NewReindexer(s.store, s.index, cfg, progress)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}

// Clear removes every document from the backend.
func (s *Stash) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Close stops the background reindex pass, releases the embedding
// provider, and closes the backend.
func (s *Stash) Close() error {
	if s.cancelBg != nil {
		s.cancelBg()
	}

	s.mu.Lock()
	p := s.provider
	s.provider = nil
	s.mu.Unlock()
	if p != nil {
		if err := p.Close(); err != nil {
			s.logger.Warn("closing embedding provider", "err", err)
		}
	}

	return s.store.Close()
}
