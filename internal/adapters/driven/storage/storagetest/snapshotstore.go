package storagetest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// SnapshotStoreFactory returns a fresh, empty store.
type SnapshotStoreFactory func(t *testing.T) driven.SnapshotStore

// RunSnapshotStoreTests exercises the driven.SnapshotStore contract.
func RunSnapshotStoreTests(t *testing.T, newStore SnapshotStoreFactory) {
	ctx := context.Background()

	t.Run("Put then Get", func(t *testing.T) {
		store := newStore(t)
		data := []byte("snapshot bytes")

		require.NoError(t, store.Put(ctx, "reviews", "v1", data))

		got, err := store.Get(ctx, "reviews", "v1")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("Get missing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "reviews", "v1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Exists", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "reviews", "v1", []byte{1}))

		ok, err := store.Exists(ctx, "reviews", "v1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Exists(ctx, "reviews", "v2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Put replaces", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "reviews", "v1", []byte("old")))
		require.NoError(t, store.Put(ctx, "reviews", "v1", []byte("new")))

		got, err := store.Get(ctx, "reviews", "v1")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "reviews", "v1", []byte("a")))
		require.NoError(t, store.Put(ctx, "reviews", "v2", []byte("b")))

		require.NoError(t, store.Delete(ctx, "reviews", "v1"))

		_, err := store.Get(ctx, "reviews", "v1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		got, err := store.Get(ctx, "reviews", "v2")
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), got)
	})

	t.Run("Delete missing", func(t *testing.T) {
		store := newStore(t)

		assert.NoError(t, store.Delete(ctx, "reviews", "v1"))
	})

	t.Run("names and labels with separators", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "team/reviews", "2024-01/rc 1", []byte("a")))
		require.NoError(t, store.Put(ctx, "team", "reviews/2024-01/rc 1", []byte("b")))

		got, err := store.Get(ctx, "team/reviews", "2024-01/rc 1")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), got)

		got, err = store.Get(ctx, "team", "reviews/2024-01/rc 1")
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), got)
	})

	t.Run("large payload", func(t *testing.T) {
		store := newStore(t)
		data := bytes.Repeat([]byte("curator "), 64*1024)

		require.NoError(t, store.Put(ctx, "big", "v1", data))

		got, err := store.Get(ctx, "big", "v1")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("empty payload", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Put(ctx, "empty", "v1", nil))

		got, err := store.Get(ctx, "empty", "v1")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
