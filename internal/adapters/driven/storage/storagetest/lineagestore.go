package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// LineageStoreFactory returns a fresh, empty store.
type LineageStoreFactory func(t *testing.T) driven.LineageStore

func edge(id, source, target string) domain.ProvenanceEdge {
	return domain.ProvenanceEdge{
		ID:           id,
		SourceType:   domain.ArtifactTypeDatasetVersion,
		SourceID:     source,
		TargetType:   domain.ArtifactTypeDatasetVersion,
		TargetID:     target,
		Relationship: domain.RelationshipDerivedFrom,
		Metadata:     map[string]any{"step": "filter"},
	}
}

// RunLineageStoreTests exercises the driven.LineageStore contract.
func RunLineageStoreTests(t *testing.T, newStore LineageStoreFactory) {
	ctx := context.Background()

	t.Run("SaveRef and GetRef", func(t *testing.T) {
		store := newStore(t)
		ref := domain.ArtifactRef{
			ArtifactID: "a1",
			Type:       domain.ArtifactTypeDataset,
			URI:        "dataset://reviews",
			Checksum:   "abc",
			Metadata:   map[string]any{"name": "reviews"},
		}

		require.NoError(t, store.SaveRef(ctx, ref))

		got, err := store.GetRef(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, ref.URI, got.URI)
		assert.Equal(t, ref.Type, got.Type)
		assert.Equal(t, ref.Checksum, got.Checksum)
		assert.Equal(t, "reviews", got.Metadata["name"])
	})

	t.Run("SaveRef updates", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveRef(ctx, domain.ArtifactRef{ArtifactID: "a1", URI: "old"}))
		require.NoError(t, store.SaveRef(ctx, domain.ArtifactRef{ArtifactID: "a1", URI: "new"}))

		got, err := store.GetRef(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "new", got.URI)
	})

	t.Run("GetRef missing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.GetRef(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListEdges touching artifact in insertion order", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveEdge(ctx, edge("e1", "a", "b")))
		require.NoError(t, store.SaveEdge(ctx, edge("e2", "c", "d")))
		require.NoError(t, store.SaveEdge(ctx, edge("e3", "b", "c")))

		edges, err := store.ListEdges(ctx, "b")
		require.NoError(t, err)
		require.Len(t, edges, 2)
		assert.Equal(t, "e1", edges[0].ID)
		assert.Equal(t, "e3", edges[1].ID)
		assert.Equal(t, domain.RelationshipDerivedFrom, edges[0].Relationship)
		assert.Equal(t, "filter", edges[0].Metadata["step"])
	})

	t.Run("ListEdges none", func(t *testing.T) {
		store := newStore(t)

		edges, err := store.ListEdges(ctx, "x")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("SaveEdge duplicate id", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveEdge(ctx, edge("e1", "a", "b")))

		err := store.SaveEdge(ctx, edge("e1", "a", "c"))
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("TraceID round trip", func(t *testing.T) {
		store := newStore(t)
		e := edge("e1", "a", "b")
		e.TraceID = "run-7"
		require.NoError(t, store.SaveEdge(ctx, e))

		edges, err := store.ListEdges(ctx, "a")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "run-7", edges[0].TraceID)
	})
}
