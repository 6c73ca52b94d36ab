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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	promptstash "github.com/promptstash/promptstash"
	"github.com/promptstash/promptstash/ai"
	"github.com/promptstash/promptstash/ai/openai"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/embedding"
	"github.com/promptstash/promptstash/reindex"
	"github.com/promptstash/promptstash/search"
	"github.com/promptstash/promptstash/storage"
	"github.com/promptstash/promptstash/storage/badger"
	"github.com/promptstash/promptstash/storage/vault"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "promptstash",
		Usage: "Personal library of reusable AI prompts with hybrid search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the indexed database directory",
				EnvVars: []string{"PROMPTSTASH_DB"},
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Path to a vault directory (used instead of --db)",
				EnvVars: []string{"PROMPTSTASH_VAULT"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"PROMPTSTASH_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"PROMPTSTASH_EMBEDDING_MODEL"},
			},
			&cli.BoolFlag{
				Name:  "no-embeddings",
				Usage: "Disable the embedding index (keyword search only)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Add or update a prompt",
				Action: addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Document id (generated when omitted)"},
					&cli.StringFlag{Name: "title", Usage: "Prompt title", Required: true},
					&cli.StringFlag{Name: "text", Usage: "Prompt body text"},
					&cli.StringFlag{Name: "file", Usage: "Read the prompt body from a file"},
					&cli.StringFlag{Name: "description", Usage: "Short description"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
					&cli.StringFlag{Name: "tags", Usage: "Comma-joined tags"},
					&cli.StringFlag{Name: "category", Usage: "Category"},
					&cli.StringFlag{Name: "client", Usage: "Client"},
					&cli.StringFlag{Name: "status", Usage: "Lifecycle status (draft, live, archived)", Value: "draft"},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored prompts",
				Action: listCommand,
			},
			{
				Name:   "search",
				Usage:  "Search prompts",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free-text query"},
					&cli.StringFlag{Name: "mode", Usage: "Search mode (keyword, semantic)", Value: "keyword"},
					&cli.StringFlag{Name: "sort", Usage: "Keyword sort key (date-desc, date-asc, name-asc, cat-asc, client-asc)", Value: "date-desc"},
					&cli.Float64Flag{Name: "threshold", Usage: "Minimum semantic similarity score", Value: 0.6},
					&cli.StringFlag{Name: "category", Usage: "Exact category filter"},
					&cli.StringFlag{Name: "client", Usage: "Exact client filter"},
					&cli.StringFlag{Name: "status", Usage: "Exact status filter"},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete a prompt by id",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Document id", Required: true},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Recompute stale prompt embeddings",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of prompts to embed in each batch",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N prompts",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches processed concurrently",
						Value: 2,
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Import a vault directory into the indexed database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Vault directory to import", Required: true},
					&cli.BoolFlag{Name: "replace", Usage: "Clear the database before importing"},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the indexed database into a vault directory",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "Vault directory to export into", Required: true},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openStash opens the backend selected by the global flags.
func openStash(c *cli.Context) (*promptstash.Stash, error) {
	opts := []promptstash.StashOption{}

	switch {
	case c.String("vault") != "":
		opts = append(opts, promptstash.WithVaultDir(c.String("vault")))
	case c.String("db") != "":
		opts = append(opts, promptstash.WithDatabasePath(c.String("db")))
	default:
		return nil, fmt.Errorf("either --db or --vault is required")
	}

	if c.Bool("no-embeddings") {
		opts = append(opts, promptstash.WithoutEmbeddings())
	} else {
		opts = append(opts, promptstash.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
		)))
	}

	return promptstash.Open(opts...)
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	text := c.String("text")
	if file := c.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read prompt body: %w", err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("either --text or --file is required")
	}

	id := c.String("id")
	if id == "" {
		id = core.NewID()
	}

	stash, err := openStash(c)
	if err != nil {
		return err
	}
	defer stash.Close()

	p, err := loadOrNewPrompt(ctx, stash, id)
	if err != nil {
		return err
	}
	p.Title = c.String("title")
	p.Description = c.String("description")
	p.Text = text
	p.Notes = c.String("notes")
	p.Tags = c.String("tags")
	p.Status = core.Status(c.String("status"))
	p.Category = c.String("category")
	p.Client = c.String("client")
	p.AddVersion(p.Text, p.Notes)

	if err := stash.SavePrompt(ctx, p); err != nil {
		return fmt.Errorf("failed to save prompt: %w", err)
	}
	fmt.Printf("saved %s\n", p.Id)
	return nil
}

// loadOrNewPrompt returns the stored prompt with the given id so an
// update appends to its version history and keeps its creation time,
// or a fresh prompt when the id is unknown.
func loadOrNewPrompt(ctx context.Context, stash *promptstash.Stash, id string) (*core.Prompt, error) {
	prompts, err := stash.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if p.Id == id {
			return p, nil
		}
	}
	return &core.Prompt{Id: id, CreatedAt: time.Now().UTC()}, nil
}

func listCommand(c *cli.Context) error {
	stash, err := openStash(c)
	if err != nil {
		return err
	}
	defer stash.Close()

	prompts, err := stash.ListPrompts(context.Background())
	if err != nil {
		return err
	}
	for _, p := range prompts {
		fmt.Printf("%s  %-10s  %s\n", p.Id, p.Status, p.Title)
	}
	fmt.Fprintf(os.Stderr, "%d prompts\n", len(prompts))
	return nil
}

func searchCommand(c *cli.Context) error {
	stash, err := openStash(c)
	if err != nil {
		return err
	}
	defer stash.Close()

	q := search.Query{
		Text:      c.String("query"),
		Mode:      search.Mode(c.String("mode")),
		Sort:      search.Sort(c.String("sort")),
		Threshold: float32(c.Float64("threshold")),
		Filter: core.Filter{
			Category: c.String("category"),
			Client:   c.String("client"),
			Status:   core.Status(c.String("status")),
		},
	}

	results, err := stash.Search(context.Background(), q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, r := range results {
		if q.Mode == search.ModeSemantic {
			fmt.Printf("%.3f  %s  %s\n", r.Score, r.Prompt.Id, r.Prompt.Title)
		} else {
			fmt.Printf("%s  %s\n", r.Prompt.Id, r.Prompt.Title)
		}
	}
	fmt.Fprintf(os.Stderr, "%d results\n", len(results))
	return nil
}

func deleteCommand(c *cli.Context) error {
	stash, err := openStash(c)
	if err != nil {
		return err
	}
	defer stash.Close()

	if err := stash.DeletePrompt(context.Background(), c.String("id")); err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	cfg := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Workers:        c.Int("workers"),
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if cfg.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	reindexer, err := reindex.NewReindexer(store, embedding.NewIndex(embedder), cfg, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if _, err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("--db is required for import")
	}

	src, err := vault.Open(c.String("from"))
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer src.Close()

	dst, err := badger.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer dst.Close()

	stats, err := promptstash.Transfer(ctx, src, dst, c.Bool("replace"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "imported %d prompts, %d templates\n", stats.Prompts, stats.Templates)
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("--db is required for export")
	}

	src, err := badger.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	dir := c.String("to")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	dst, err := vault.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer dst.Close()

	stats, err := promptstash.Transfer(ctx, src, dst, false)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "exported %d prompts, %d templates\n", stats.Prompts, stats.Templates)
	return nil
}

// openStore opens the raw storage contract for commands that do not
// need the stash facade.
func openStore(c *cli.Context) (storage.Store, error) {
	switch {
	case c.String("vault") != "":
		return vault.Open(c.String("vault"))
	case c.String("db") != "":
		return badger.Open(c.String("db"))
	default:
		return nil, fmt.Errorf("either --db or --vault is required")
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
