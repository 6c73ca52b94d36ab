package core

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID generates a new opaque unique identifier for a document.
// Identifiers are caller-generated; collisions are negligible at the
// scale of a personal library.
func NewID() string {
	return uuid.NewString()
}

// Status is the lifecycle state of a prompt.
type Status string

const (
	// StatusDraft marks a prompt that is still being worked on.
	StatusDraft Status = "draft"
	// StatusLive marks a prompt that is ready for use.
	StatusLive Status = "live"
	// StatusArchived marks a prompt that is retired but kept for reference.
	StatusArchived Status = "archived"
)

// Prompt is a reusable AI prompt with versions and an optional embedding.
// The JSON field set is the export shape: it is exactly what a vault file
// contains, so a vault directory is self-contained across devices.
type Prompt struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Text        string    `json:"text"` // body text; its presence classifies a file as a prompt
	Notes       string    `json:"notes,omitempty"`
	Tags        string    `json:"tags,omitempty"` // free-text, comma-joined
	Status      Status    `json:"status"`
	Category    string    `json:"category,omitempty"`
	Client      string    `json:"client,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Versions    []Version `json:"versions,omitempty"` // append-only, never mutated in place

	// Embedding is the unit-normalized vector computed from the prompt's
	// text fields, or nil if never computed. EmbeddingHash records the
	// content fingerprint the vector was computed from; a mismatch means
	// the vector is stale and must rank as absent.
	Embedding     []float32 `json:"embedding,omitempty"`
	EmbeddingHash string    `json:"embeddingHash,omitempty"`
}

// Version is an immutable snapshot of a prompt's body and notes.
type Version struct {
	VersionNo int       `json:"versionNo"`
	Text      string    `json:"text"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddVersion appends a snapshot of the given body and notes.
// Version numbers start at 1 and are strictly increasing; a number is
// never reused even after later versions are edited.
func (p *Prompt) AddVersion(text, notes string) Version {
	next := 1
	if n := len(p.Versions); n > 0 {
		next = p.Versions[n-1].VersionNo + 1
	}
	v := Version{
		VersionNo: next,
		Text:      text,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}
	p.Versions = append(p.Versions, v)
	return v
}

// EmbeddingText returns the concatenation of the text fields the
// embedding is computed from. Editing any of these fields invalidates
// a previously computed vector.
func (p *Prompt) EmbeddingText() string {
	return strings.Join([]string{p.Title, p.Description, p.Notes, p.Text}, "\n")
}

// EmbeddingStale reports whether the prompt's vector is missing or was
// computed from text that has since been edited.
func (p *Prompt) EmbeddingStale() bool {
	return len(p.Embedding) == 0 || p.EmbeddingHash != Fingerprint(p.EmbeddingText())
}

// Template is a prompt scaffold with ${name}-style placeholders.
type Template struct {
	Id          string `json:"id"`
	Description string `json:"description"`
	Template    string `json:"template"` // its presence classifies a file as a template
	Notes       string `json:"notes,omitempty"`
	Favourite   bool   `json:"favourite"`
	Order       int    `json:"order"` // favourites-first secondary sort key
}

// SortTemplates orders templates favourites-first, then by the Order
// key, leaving equal entries in their original relative order.
func SortTemplates(ts []*Template) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Favourite != ts[j].Favourite {
			return ts[i].Favourite
		}
		return ts[i].Order < ts[j].Order
	})
}

// Filter is an exact-match predicate over prompts. All set fields are
// AND-combined; zero values match everything.
type Filter struct {
	Query    string `json:"search,omitempty"` // free-text query, interpreted by the search engine
	Category string `json:"category,omitempty"`
	Client   string `json:"client,omitempty"`
	Status   Status `json:"status,omitempty"`
}

// Matches reports whether the prompt satisfies every active exact filter.
// The Query field is not evaluated here; keyword and semantic matching
// belong to the search engine.
func (f Filter) Matches(p *Prompt) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Client != "" && p.Client != f.Client {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

// Collection is a named, persisted filter predicate. It is re-evaluated
// against the live prompt set every time it is applied; it never caches
// matching documents.
type Collection struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Filter
}

// SearchResult pairs a prompt with its relevance score. Keyword results
// carry a score of zero; semantic results carry the similarity score.
type SearchResult struct {
	Prompt *Prompt
	Score  float32
}
