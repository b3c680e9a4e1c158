package storagetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// VersionStoreFactory returns a fresh, empty store.
type VersionStoreFactory func(t *testing.T) driven.VersionStore

func record(version string, at time.Time) domain.VersionRecord {
	return domain.VersionRecord{
		Version:   version,
		Hash:      "h-" + version,
		CreatedAt: at,
		Size:      3,
		Metadata:  map[string]any{"source": "test"},
		Snapshot:  version + ".key",
	}
}

// RunVersionStoreTests exercises the driven.VersionStore contract.
func RunVersionStoreTests(t *testing.T, newStore VersionStoreFactory) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("EnsureDataset first caller wins", func(t *testing.T) {
		store := newStore(t)

		id, err := store.EnsureDataset(ctx, "reviews", "id-1")
		require.NoError(t, err)
		assert.Equal(t, "id-1", id)

		id, err = store.EnsureDataset(ctx, "reviews", "id-2")
		require.NoError(t, err)
		assert.Equal(t, "id-1", id)

		stored, err := store.DatasetID(ctx, "reviews")
		require.NoError(t, err)
		assert.Equal(t, "id-1", stored)
	})

	t.Run("DatasetID unknown name", func(t *testing.T) {
		store := newStore(t)

		_, err := store.DatasetID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("AppendVersion and read back", func(t *testing.T) {
		store := newStore(t)
		_, err := store.EnsureDataset(ctx, "reviews", "id-1")
		require.NoError(t, err)

		require.NoError(t, store.AppendVersion(ctx, "reviews", record("v1", base), 0))
		require.NoError(t, store.AppendVersion(ctx, "reviews", record("v2", base.Add(time.Hour)), 1))

		got, err := store.GetVersion(ctx, "reviews", "v2")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Version)
		assert.Equal(t, "h-v2", got.Hash)
		assert.Equal(t, 3, got.Size)
		assert.True(t, base.Add(time.Hour).Equal(got.CreatedAt))
		assert.Equal(t, "test", got.Metadata["source"])
		assert.Equal(t, "v2.key", got.Snapshot)

		history, err := store.ListVersions(ctx, "reviews")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "v1", history[0].Version)
		assert.Equal(t, "v2", history[1].Version)
	})

	t.Run("AppendVersion stale expected length", func(t *testing.T) {
		store := newStore(t)
		_, err := store.EnsureDataset(ctx, "reviews", "id-1")
		require.NoError(t, err)
		require.NoError(t, store.AppendVersion(ctx, "reviews", record("v1", base), 0))

		err = store.AppendVersion(ctx, "reviews", record("v2", base), 0)
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

		history, err := store.ListVersions(ctx, "reviews")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("AppendVersion duplicate label", func(t *testing.T) {
		store := newStore(t)
		_, err := store.EnsureDataset(ctx, "reviews", "id-1")
		require.NoError(t, err)
		require.NoError(t, store.AppendVersion(ctx, "reviews", record("v1", base), 0))

		err = store.AppendVersion(ctx, "reviews", record("v1", base), 1)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("histories are per name", func(t *testing.T) {
		store := newStore(t)
		_, err := store.EnsureDataset(ctx, "a", "id-a")
		require.NoError(t, err)
		_, err = store.EnsureDataset(ctx, "b", "id-b")
		require.NoError(t, err)

		require.NoError(t, store.AppendVersion(ctx, "a", record("v1", base), 0))
		require.NoError(t, store.AppendVersion(ctx, "b", record("v1", base), 0))

		history, err := store.ListVersions(ctx, "b")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("ListVersions unknown name", func(t *testing.T) {
		store := newStore(t)

		history, err := store.ListVersions(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("GetVersion missing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.GetVersion(ctx, "reviews", "v9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SetTags replaces tags", func(t *testing.T) {
		store := newStore(t)
		_, err := store.EnsureDataset(ctx, "reviews", "id-1")
		require.NoError(t, err)
		require.NoError(t, store.AppendVersion(ctx, "reviews", record("v1", base), 0))

		require.NoError(t, store.SetTags(ctx, "reviews", "v1", []string{"gold", "prod"}))

		got, err := store.GetVersion(ctx, "reviews", "v1")
		require.NoError(t, err)
		assert.Equal(t, []string{"gold", "prod"}, got.Tags)

		err = store.SetTags(ctx, "reviews", "v9", []string{"x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("concurrent appends with same expected length", func(t *testing.T) {
		store := newStore(t)
		_, err := store.EnsureDataset(ctx, "race", "id-r")
		require.NoError(t, err)

		const writers = 8
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				label := string(rune('a' + i))
				errs[i] = store.AppendVersion(ctx, "race", record(label, base), 0)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
		}
		assert.Equal(t, 1, succeeded)

		history, err := store.ListVersions(ctx, "race")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}
