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


// Package reindex recomputes stale prompt embeddings in batches.
//
// A prompt is stale when its indexable text no longer matches the
// fingerprint stamped at embedding time. The reindexer finds every
// stale prompt, embeds them batch by batch on a bounded worker pool,
// and persists each refreshed prompt. A failed batch is logged and
// skipped so one bad batch never aborts the run; the prompts it covered
// simply stay stale for the next pass.
package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/embedding"
	"github.com/promptstash/promptstash/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of prompts embedded per model call
	BatchSize int

	// ReportInterval is how often to report progress (number of prompts)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Workers is the number of batches processed concurrently
	Workers int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      50,
		ReportInterval: 50,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Workers:        2,
	}
}

// Stats summarizes one reindexing run.
type Stats struct {
	Total     int // prompts examined
	Stale     int // prompts needing a new embedding
	Reindexed int // prompts successfully refreshed
	Failed    int // prompts in batches that failed after retries
}

// Reindexer orchestrates reembedding of stale prompts.
type Reindexer struct {
	repo     storage.PromptRepository
	index    *embedding.Index
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo storage.PromptRepository, index *embedding.Index, config *Config, progress io.Writer) (*Reindexer, error) {
	if repo == nil {
		return nil, ErrStoreRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		repo:     repo,
		index:    index,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "reindexer"),
	}, nil
}

// Run executes one reindexing pass over every stale prompt.
func (r *Reindexer) Run(ctx context.Context) (*Stats, error) {
	prompts, err := r.repo.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	stats := &Stats{Total: len(prompts)}

	stale := make([]*core.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.EmbeddingStale() {
			stale = append(stale, p)
		}
	}
	stats.Stale = len(stale)

	if len(stale) == 0 {
		fmt.Fprintf(r.progress, "All %d prompts are up to date\n", stats.Total)
		return stats, nil
	}

	fmt.Fprintf(r.progress, "Reindexing %d of %d prompts (batch size: %d)\n",
		stats.Stale, stats.Total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, stats.Stale, r.config.ReportInterval)
	tracker.Start()

	pool, err := ants.NewPool(r.config.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup

	for start := 0; start < len(stale); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(stale) {
			end = len(stale)
		}
		batch := stale[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			done, failed := r.processBatch(ctx, batch)
			mu.Lock()
			stats.Reindexed += done
			stats.Failed += failed
			mu.Unlock()
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return stats, submitErr
		}
	}
	wg.Wait()

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Refreshed %d prompts in %v (%d failed)\n",
		stats.Reindexed, elapsed.Round(time.Second), stats.Failed)

	if ctx.Err() != nil {
		return stats, ctx.Err()
	}
	return stats, nil
}

// processBatch embeds one batch with retry and persists each refreshed
// prompt. Returns counts of refreshed and failed prompts.
func (r *Reindexer) processBatch(ctx context.Context, batch []*core.Prompt) (done, failed int) {
	err := RetryWithBackoff(ctx, func() error {
		return r.index.EmbedPrompts(ctx, batch)
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		r.logger.Warn("skipping batch after embedding failure",
			"size", len(batch), "attempts", r.config.MaxRetries, "err", err)
		return 0, len(batch)
	}

	for _, p := range batch {
		if err := r.repo.PutPrompt(ctx, p); err != nil {
			r.logger.Warn("failed to persist reindexed prompt", "id", p.Id, "err", err)
			failed++
			continue
		}
		done++
	}
	return done, failed
}
