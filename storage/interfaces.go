package storage

import (
	"context"

	"github.com/promptstash/promptstash/core"
)

// PromptRepository provides operations for managing prompts.
// Implementations must be safe for concurrent use.
type PromptRepository interface {
	// ListPrompts returns every stored prompt. Order is unspecified.
	// An empty store returns an empty slice, never an error.
	ListPrompts(ctx context.Context) ([]*core.Prompt, error)

	// PutPrompt upserts a prompt by id. An existing document with the
	// same id is replaced in place; there is no merging.
	PutPrompt(ctx context.Context, p *core.Prompt) error

	// DeletePrompt removes a prompt by id. Deleting an id that does not
	// exist is not an error.
	DeletePrompt(ctx context.Context, id string) error
}

// TemplateRepository provides operations for managing templates.
type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]*core.Template, error)
	PutTemplate(ctx context.Context, t *core.Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// CollectionRepository provides operations for managing saved filter
// collections. Backends without a durable home for collections implement
// ListCollections as empty and the mutations as no-ops, so callers never
// need backend-specific branches.
type CollectionRepository interface {
	ListCollections(ctx context.Context) ([]*core.Collection, error)
	PutCollection(ctx context.Context, c *core.Collection) error
	DeleteCollection(ctx context.Context, id string) error
}

// Store is the full storage contract every backend must satisfy.
type Store interface {
	PromptRepository
	TemplateRepository
	CollectionRepository

	// Clear empties all collections in one atomic operation. It exists
	// for destructive import flows only.
	Clear(ctx context.Context) error

	// Close releases the backend and its resources.
	Close() error
}

// CategoryFinder is implemented by backends that maintain a secondary
// index on the prompt category. Callers may use it to pre-narrow a
// candidate set; it is a latency optimization, never a correctness
// requirement, and a full ListPrompts scan must return the same members.
type CategoryFinder interface {
	FindPromptsByCategory(ctx context.Context, category string) ([]*core.Prompt, error)
}

// ClientFinder is the client-field counterpart of CategoryFinder.
type ClientFinder interface {
	FindPromptsByClient(ctx context.Context, client string) ([]*core.Prompt, error)
}
