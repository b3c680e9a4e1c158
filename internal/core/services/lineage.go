package services

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
	"github.com/custodia-labs/curator/internal/core/ports/driving"
	"github.com/custodia-labs/curator/internal/logger"
)

// Ensure LineageService implements the interface.
var _ driving.LineageService = (*LineageService)(nil)

// LineageService builds artifact references and provenance edges for
// datasets. The store is optional; without one, references and edges can
// still be built but not recorded.
type LineageService struct {
	hasher    *Hasher
	store     driven.LineageStore
	uriPrefix string
	newID     func() string
}

// NewLineageService creates a new lineage service. uriPrefix is prepended
// to every generated URI, e.g. "dataset://".
func NewLineageService(hasher *Hasher, store driven.LineageStore, uriPrefix string) *LineageService {
	return &LineageService{
		hasher:    hasher,
		store:     store,
		uriPrefix: uriPrefix,
		newID:     uuid.NewString,
	}
}

// ArtifactRef builds the reference for a dataset, or for one of its
// versions when dataset.Version is set. The dataset's artifact id is
// assigned if missing.
func (s *LineageService) ArtifactRef(
	dataset *domain.Dataset,
	overrides *driving.RefOverrides,
) (*domain.ArtifactRef, error) {
	if dataset == nil {
		return nil, fmt.Errorf("%w: dataset is nil", domain.ErrInvalidInput)
	}
	if dataset.Name == "" {
		return nil, fmt.Errorf("%w: dataset name is empty", domain.ErrInvalidInput)
	}

	checksum := dataset.Hash
	if checksum == "" {
		var err error
		checksum, err = s.hasher.ComputeDatasetHash(dataset)
		if err != nil {
			return nil, fmt.Errorf("hashing dataset %q: %w", dataset.Name, err)
		}
	}

	refType := domain.ArtifactTypeDataset
	uri := s.uriPrefix + dataset.Name
	var version any
	if dataset.Version != "" {
		refType = domain.ArtifactTypeDatasetVersion
		uri += "/versions/" + dataset.Version
		version = dataset.Version
	}

	var splits any
	if names := dataset.Content.SplitNames(); names != nil {
		splits = names
	}
	var schema any
	if dataset.Schema != nil {
		schema = maps.Clone(dataset.Schema)
	}

	ref := &domain.ArtifactRef{
		ArtifactID: dataset.EnsureArtifactID(s.newID),
		Type:       refType,
		URI:        uri,
		Checksum:   checksum,
		Metadata: map[string]any{
			"name":     dataset.Name,
			"version":  version,
			"schema":   schema,
			"size":     dataset.Size(),
			"splits":   splits,
			"metadata": cloneMetadata(dataset.Metadata),
		},
	}

	if overrides != nil {
		if overrides.Type != "" {
			ref.Type = overrides.Type
		}
		if overrides.URI != "" {
			ref.URI = overrides.URI
		}
		if overrides.Checksum != "" {
			ref.Checksum = overrides.Checksum
		}
		maps.Copy(ref.Metadata, cloneMetadata(overrides.Metadata))
	}
	return ref, nil
}

// Edge builds a provenance edge from source to target with a fresh id.
func (s *LineageService) Edge(
	source, target *domain.ArtifactRef,
	opts driving.EdgeOptions,
) (*domain.ProvenanceEdge, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("%w: edge endpoint is nil", domain.ErrInvalidInput)
	}
	if source.ArtifactID == "" || target.ArtifactID == "" {
		return nil, fmt.Errorf("%w: edge endpoint has no artifact id", domain.ErrInvalidInput)
	}

	relationship := opts.Relationship
	if relationship == "" {
		relationship = domain.RelationshipDerivedFrom
	}
	metadata := cloneMetadata(opts.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &domain.ProvenanceEdge{
		ID:           s.newID(),
		TraceID:      opts.TraceID,
		SourceType:   source.Type,
		SourceID:     source.ArtifactID,
		TargetType:   target.Type,
		TargetID:     target.ArtifactID,
		Relationship: relationship,
		Metadata:     metadata,
	}, nil
}

// DatasetEdge converts both datasets to references and links them.
func (s *LineageService) DatasetEdge(
	source, target *domain.Dataset,
	opts driving.EdgeOptions,
) (*domain.ProvenanceEdge, error) {
	src, err := s.ArtifactRef(source, nil)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := s.ArtifactRef(target, nil)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return s.Edge(src, dst, opts)
}

// Record persists refs and edges. The batch of edges must not form a
// cycle on its own; nothing is written if it does.
func (s *LineageService) Record(
	ctx context.Context,
	refs []domain.ArtifactRef,
	edges []domain.ProvenanceEdge,
) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if err := domain.NewLineageGraph(edges...).CheckAcyclic(); err != nil {
		return err
	}

	for _, ref := range refs {
		if err := s.store.SaveRef(ctx, ref); err != nil {
			return fmt.Errorf("saving ref %s: %w", ref.ArtifactID, err)
		}
	}
	for _, edge := range edges {
		if err := s.store.SaveEdge(ctx, edge); err != nil {
			return fmt.Errorf("saving edge %s: %w", edge.ID, err)
		}
	}
	logger.Debug("recorded %d refs and %d edges", len(refs), len(edges))
	return nil
}

// Edges lists recorded edges touching an artifact.
func (s *LineageService) Edges(ctx context.Context, artifactID string) ([]domain.ProvenanceEdge, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListEdges(ctx, artifactID)
}
