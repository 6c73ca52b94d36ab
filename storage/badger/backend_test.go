package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_FreshDatabaseStampsSchema(t *testing.T) {
	backend, err := OpenBackend(t.TempDir(), false)
	require.NoError(t, err)
	defer backend.Close()

	version, err := backend.readSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}

func TestOpenBackend_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	store := NewStore(backend)
	require.NoError(t, store.PutPrompt(ctx, &core.Prompt{Id: "p1", Text: "x", Category: "X", Status: core.StatusLive}))
	require.NoError(t, store.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	store = NewStore(backend)
	defer store.Close()

	prompts, err := store.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "p1", prompts[0].Id)
}

func TestOpenBackend_SecondSessionIsBlocked(t *testing.T) {
	dir := t.TempDir()

	first, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer first.Close()

	// The directory lock is held, so a second open must surface the
	// recoverable blocked error, not a hard connection failure.
	_, err = OpenBackend(dir, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrBlocked)
	assert.NotErrorIs(t, err, storage.ErrConnection)
}

func TestOpenBackend_PathIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	assert.ErrorIs(t, err, storage.ErrConnection)
}

func TestMigrate_BackfillsIndexesFromOlderSchema(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	store := NewStore(backend)
	ctx := context.Background()

	require.NoError(t, store.PutPrompt(ctx, &core.Prompt{Id: "a", Text: "x", Category: "X", Status: core.StatusLive}))

	// Simulate a database written before the secondary indexes existed:
	// strip the index entries and rewind the stored schema version.
	require.NoError(t, backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Delete(makeCategoryKey("X", "a")); err != nil {
			return err
		}
		return tx.Commit()
	}, true))
	require.NoError(t, backend.writeSchemaVersion(1))

	require.NoError(t, backend.migrate())

	version, err := backend.readSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	found, err := store.FindPromptsByCategory(ctx, "X")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0].Id)
}
