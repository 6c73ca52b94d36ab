package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id generated")
		seen[id] = true
	}
}

func TestAddVersion(t *testing.T) {
	p := &Prompt{Id: NewID(), Status: StatusDraft}

	v1 := p.AddVersion("first body", "first notes")
	assert.Equal(t, 1, v1.VersionNo)
	assert.Equal(t, "first body", v1.Text)
	assert.False(t, v1.CreatedAt.IsZero())

	v2 := p.AddVersion("second body", "")
	assert.Equal(t, 2, v2.VersionNo)
	require.Len(t, p.Versions, 2)
}

func TestAddVersion_NumbersNeverReused(t *testing.T) {
	// Simulate a prompt whose earlier versions were created elsewhere:
	// the next number continues from the highest, not from the count.
	p := &Prompt{
		Id:       NewID(),
		Status:   StatusLive,
		Versions: []Version{{VersionNo: 4, Text: "old"}},
	}
	v := p.AddVersion("new", "")
	assert.Equal(t, 5, v.VersionNo)
}

func TestEmbeddingStale(t *testing.T) {
	p := &Prompt{
		Id:          NewID(),
		Title:       "Summarizer",
		Description: "Summarizes articles",
		Text:        "Summarize the following text.",
		Status:      StatusLive,
	}

	t.Run("missing vector is stale", func(t *testing.T) {
		assert.True(t, p.EmbeddingStale())
	})

	t.Run("matching fingerprint is fresh", func(t *testing.T) {
		p.Embedding = []float32{1, 0, 0}
		p.EmbeddingHash = Fingerprint(p.EmbeddingText())
		assert.False(t, p.EmbeddingStale())
	})

	t.Run("editing any text field invalidates", func(t *testing.T) {
		edited := *p
		edited.Notes = "now with notes"
		assert.True(t, edited.EmbeddingStale())

		edited = *p
		edited.Title = "Summarizer v2"
		assert.True(t, edited.EmbeddingStale())
	})
}

func TestFilterMatches(t *testing.T) {
	prompt := &Prompt{
		Id:       "a",
		Category: "X",
		Client:   "acme",
		Status:   StatusLive,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches everything", Filter{}, true},
		{"matching category", Filter{Category: "X"}, true},
		{"wrong category", Filter{Category: "Y"}, false},
		{"matching client", Filter{Client: "acme"}, true},
		{"wrong client", Filter{Client: "other"}, false},
		{"matching status", Filter{Status: StatusLive}, true},
		{"wrong status", Filter{Status: StatusDraft}, false},
		{"all fields match", Filter{Category: "X", Client: "acme", Status: StatusLive}, true},
		{"one field fails the AND", Filter{Category: "X", Client: "acme", Status: StatusArchived}, false},
		{"query is ignored here", Filter{Query: "no such words"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(prompt))
		})
	}
}

func TestSortTemplates(t *testing.T) {
	ts := []*Template{
		{Id: "c", Order: 2},
		{Id: "fav2", Favourite: true, Order: 5},
		{Id: "a", Order: 1},
		{Id: "fav1", Favourite: true, Order: 1},
	}
	SortTemplates(ts)

	got := make([]string, len(ts))
	for i, tpl := range ts {
		got[i] = tpl.Id
	}
	assert.Equal(t, []string{"fav1", "fav2", "a", "c"}, got)
}

func TestFingerprint(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Fingerprint("same text"), Fingerprint("same text"))
	})

	t.Run("distinct inputs differ", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint("text a"), Fingerprint("text b"))
	})

	t.Run("empty input has a fingerprint", func(t *testing.T) {
		assert.NotEmpty(t, Fingerprint(""))
	})
}
