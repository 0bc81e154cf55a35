package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSnapshotStore_RoundTrip(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, store.Save(ctx, []byte(`{"schema_version":2}`)))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"schema_version":2}`, string(data))

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestFileSnapshotStore_SaveOverwrites(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte("first")))
	require.NoError(t, store.Save(ctx, []byte("second")))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileSnapshotStore_ClearMissingIsNoError(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "never-written.json"))
	assert.NoError(t, store.Clear(context.Background()))
}
