package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/embedding"
	"github.com/promptstash/promptstash/storage"
)

// Mode selects between keyword substring matching and semantic vector
// ranking.
type Mode string

const (
	// ModeKeyword matches the query as a case-insensitive substring.
	ModeKeyword Mode = "keyword"
	// ModeSemantic ranks by vector similarity against the query embedding.
	ModeSemantic Mode = "semantic"
)

// Sort is the ordering key for keyword-mode results.
type Sort string

const (
	SortDateDesc    Sort = "date-desc"
	SortDateAsc     Sort = "date-asc"
	SortNameAsc     Sort = "name-asc"
	SortCategoryAsc Sort = "cat-asc"
	SortClientAsc   Sort = "client-asc"
)

// Query describes one search request. Exact filters always apply first
// in both modes; Text and Mode decide how the filtered set is matched
// and ordered.
type Query struct {
	Text      string
	Filter    core.Filter
	Mode      Mode
	Sort      Sort    // keyword mode only
	Threshold float32 // semantic mode only; results scoring below are excluded
}

// Searcher runs hybrid searches over a prompt repository.
//
// Semantic ranking degrades silently: if the embedding index is absent,
// not yet ready, or the query embedding fails, the search falls back to
// keyword matching. Callers never observe an embedding error.
type Searcher struct {
	repo   storage.PromptRepository
	index  *embedding.Index
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher. The embedding index may be nil,
// in which case every search runs in keyword mode.
func NewSearcher(repo storage.PromptRepository, index *embedding.Index, opts ...Option) (*Searcher, error) {
	if repo == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		repo:   repo,
		index:  index,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs the query and returns matching prompts.
func (s *Searcher) Search(ctx context.Context, q Query) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, q, nil)
}

// SearchWithMonitor runs the query with monitoring. The monitor
// receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, q Query, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(q)

	candidates, err := s.filteredCandidates(ctx, q.Filter)
	if err != nil {
		s.logger.Error("error loading search candidates", "err", err)
		return nil, err
	}
	monitor.AfterFilter(candidates)

	if q.Mode == ModeSemantic && q.Text != "" {
		if results, ok := s.semanticSearch(ctx, q, candidates, monitor); ok {
			monitor.Finish(results)
			return results, nil
		}
		// Model not ready or embedding failed; degrade to keyword.
		monitor.SemanticFallback()
	}

	results := s.keywordSearch(q, candidates)
	monitor.Finish(results)
	return results, nil
}

// filteredCandidates loads prompts and applies the exact filters. A
// single category or client equality can be served from a backend
// secondary index when available; the filter predicate still runs over
// the narrowed set, so membership is identical either way.
func (s *Searcher) filteredCandidates(ctx context.Context, f core.Filter) ([]*core.Prompt, error) {
	var prompts []*core.Prompt
	var err error

	switch {
	case f.Category != "":
		if finder, ok := s.repo.(storage.CategoryFinder); ok {
			prompts, err = finder.FindPromptsByCategory(ctx, f.Category)
		} else {
			prompts, err = s.repo.ListPrompts(ctx)
		}
	case f.Client != "":
		if finder, ok := s.repo.(storage.ClientFinder); ok {
			prompts, err = finder.FindPromptsByClient(ctx, f.Client)
		} else {
			prompts, err = s.repo.ListPrompts(ctx)
		}
	default:
		prompts, err = s.repo.ListPrompts(ctx)
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]*core.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// keywordSearch matches the query as a substring and applies the
// requested sort key. An empty query matches everything.
func (s *Searcher) keywordSearch(q Query, candidates []*core.Prompt) []*core.SearchResult {
	results := make([]*core.SearchResult, 0, len(candidates))
	for _, p := range candidates {
		if matchesKeyword(p, q.Text) {
			results = append(results, &core.SearchResult{Prompt: p})
		}
	}
	sortResults(results, q.Sort)
	return results
}

// semanticSearch embeds the query once and ranks every candidate by
// similarity. Returns ok=false when the model cannot serve the query,
// signalling the caller to fall back to keyword matching.
func (s *Searcher) semanticSearch(ctx context.Context, q Query, candidates []*core.Prompt, monitor SearchMonitor) ([]*core.SearchResult, bool) {
	if s.index == nil || !s.index.Ready() {
		return nil, false
	}

	queryVec, err := s.index.EmbedQuery(ctx, q.Text)
	if err != nil {
		s.logger.Warn("query embedding failed, falling back to keyword search", "err", err)
		return nil, false
	}
	monitor.AfterQueryEmbedding(queryVec)

	scored := make([]*core.SearchResult, 0, len(candidates))
	for _, p := range candidates {
		score := s.index.Score(queryVec, p)
		scored = append(scored, &core.SearchResult{Prompt: p, Score: score})
		monitor.Scored(p, score)
	}

	results := ApplyThreshold(scored, q.Threshold)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, true
}

// ApplyThreshold keeps results scoring at or above the threshold. It
// operates on already-computed scores, so adjusting a threshold never
// re-embeds anything; a threshold of 0 admits zero-scored results.
func ApplyThreshold(results []*core.SearchResult, threshold float32) []*core.SearchResult {
	kept := make([]*core.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= threshold {
			kept = append(kept, r)
		}
	}
	return kept
}
