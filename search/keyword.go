package search

import (
	"sort"
	"strings"

	"github.com/promptstash/promptstash/core"
)

// matchesKeyword reports whether the query appears as a
// case-insensitive substring in any searchable text field.
func matchesKeyword(p *core.Prompt, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{p.Title, p.Description, p.Text, p.Tags, p.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// sortResults orders keyword results by the requested key. Sorting is
// stable, so an unrecognized or zero key degrades to the default order
// without reshuffling ties. Sorting never changes membership.
func sortResults(results []*core.SearchResult, key Sort) {
	var less func(a, b *core.Prompt) bool
	switch key {
	case SortDateAsc:
		less = func(a, b *core.Prompt) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortNameAsc:
		less = func(a, b *core.Prompt) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortCategoryAsc:
		less = func(a, b *core.Prompt) bool {
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
	case SortClientAsc:
		less = func(a, b *core.Prompt) bool {
			return strings.ToLower(a.Client) < strings.ToLower(b.Client)
		}
	default: // SortDateDesc
		less = func(a, b *core.Prompt) bool { return b.CreatedAt.Before(a.CreatedAt) }
	}

	sort.SliceStable(results, func(i, j int) bool {
		return less(results[i].Prompt, results[j].Prompt)
	})
}
