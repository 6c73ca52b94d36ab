package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	promptstash "github.com/promptstash/promptstash"
	"github.com/promptstash/promptstash/core"
)

func loggerApp() *cli.App {
	return &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, loggerApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, loggerApp().Run([]string{"test", "-l", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := loggerApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestLoadOrNewPrompt(t *testing.T) {
	s, err := promptstash.Open(
		promptstash.WithInMemoryDatabase(),
		promptstash.WithoutEmbeddings(),
	)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Second)
	p := &core.Prompt{Id: "p1", Title: "first", Text: "v1 body", Status: core.StatusDraft, CreatedAt: created}
	p.AddVersion(p.Text, "")
	require.NoError(t, s.SavePrompt(ctx, p))

	t.Run("existing id keeps history and creation time", func(t *testing.T) {
		loaded, err := loadOrNewPrompt(ctx, s, "p1")
		require.NoError(t, err)
		assert.True(t, loaded.CreatedAt.Equal(created))
		require.Len(t, loaded.Versions, 1)

		// An update continues the version numbering instead of
		// restarting it.
		v := loaded.AddVersion("v2 body", "")
		assert.Equal(t, 2, v.VersionNo)
	})

	t.Run("unknown id starts fresh", func(t *testing.T) {
		fresh, err := loadOrNewPrompt(ctx, s, "nope")
		require.NoError(t, err)
		assert.Equal(t, "nope", fresh.Id)
		assert.Empty(t, fresh.Versions)
		assert.False(t, fresh.CreatedAt.IsZero())
	})
}

func TestOpenStoreRequiresBackendFlag(t *testing.T) {
	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db"},
			&cli.StringFlag{Name: "vault"},
		},
		Action: func(c *cli.Context) error {
			_, err := openStore(c)
			return err
		},
	}
	err := app.Run([]string{"test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db or --vault")
}
