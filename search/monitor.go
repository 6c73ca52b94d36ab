package search

import "github.com/promptstash/promptstash/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(q Query)
	AfterFilter(candidates []*core.Prompt)
	AfterQueryEmbedding(vector []float32)
	Scored(p *core.Prompt, score float32)
	SemanticFallback()
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)                    {}
func (n *noopMonitor) AfterFilter(_ []*core.Prompt)     {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)  {}
func (n *noopMonitor) Scored(_ *core.Prompt, _ float32) {}
func (n *noopMonitor) SemanticFallback()                {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)    {}
