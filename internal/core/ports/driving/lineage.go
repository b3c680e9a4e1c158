package driving

import (
	"context"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// RefOverrides replaces defaults when building an ArtifactRef.
// Empty strings keep the default. Metadata keys win over defaults.
type RefOverrides struct {
	Type     string
	URI      string
	Checksum string
	Metadata map[string]any
}

// EdgeOptions configures a provenance edge.
type EdgeOptions struct {
	// Relationship defaults to domain.RelationshipDerivedFrom.
	Relationship string

	// TraceID optionally correlates the edge with a pipeline run.
	TraceID string

	Metadata map[string]any
}

// LineageService converts dataset identities into artifact references and
// provenance edges.
type LineageService interface {
	// ArtifactRef builds the external reference for a dataset or version.
	ArtifactRef(dataset *domain.Dataset, overrides *RefOverrides) (*domain.ArtifactRef, error)

	// Edge builds a directed edge between two references.
	Edge(source, target *domain.ArtifactRef, opts EdgeOptions) (*domain.ProvenanceEdge, error)

	// DatasetEdge converts both datasets to references and builds an edge.
	DatasetEdge(source, target *domain.Dataset, opts EdgeOptions) (*domain.ProvenanceEdge, error)

	// Record persists references and edges to the lineage store.
	Record(ctx context.Context, refs []domain.ArtifactRef, edges []domain.ProvenanceEdge) error

	// Edges lists recorded edges touching an artifact.
	Edges(ctx context.Context, artifactID string) ([]domain.ProvenanceEdge, error)
}
