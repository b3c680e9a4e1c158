package driven

import (
	"context"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// LineageStore records artifact references and provenance edges for later
// export to a lineage tracker. Optional: services treat nil as disabled.
type LineageStore interface {
	// SaveRef stores or updates an artifact reference.
	SaveRef(ctx context.Context, ref domain.ArtifactRef) error

	// GetRef retrieves a reference by artifact id, or ErrNotFound.
	GetRef(ctx context.Context, artifactID string) (*domain.ArtifactRef, error)

	// SaveEdge stores an edge. Edge ids are unique; edges are never updated.
	SaveEdge(ctx context.Context, edge domain.ProvenanceEdge) error

	// ListEdges returns edges whose source or target is artifactID,
	// in insertion order.
	ListEdges(ctx context.Context, artifactID string) ([]domain.ProvenanceEdge, error)
}
