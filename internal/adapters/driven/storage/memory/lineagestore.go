package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// Ensure LineageStore implements the interface.
var _ driven.LineageStore = (*LineageStore)(nil)

// LineageStore is an in-memory implementation of driven.LineageStore.
type LineageStore struct {
	mu      sync.RWMutex
	refs    map[string]domain.ArtifactRef
	edges   []domain.ProvenanceEdge
	edgeIDs map[string]struct{}
}

// NewLineageStore creates a new in-memory lineage store.
func NewLineageStore() *LineageStore {
	return &LineageStore{
		refs:    make(map[string]domain.ArtifactRef),
		edgeIDs: make(map[string]struct{}),
	}
}

// SaveRef stores or updates an artifact reference.
func (s *LineageStore) SaveRef(_ context.Context, ref domain.ArtifactRef) error {
	if ref.ArtifactID == "" {
		return fmt.Errorf("%w: artifact id is empty", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[ref.ArtifactID] = ref
	return nil
}

// GetRef retrieves a reference by artifact id.
func (s *LineageStore) GetRef(_ context.Context, artifactID string) (*domain.ArtifactRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.refs[artifactID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ref, nil
}

// SaveEdge stores an edge. Edge ids must be unique.
func (s *LineageStore) SaveEdge(_ context.Context, edge domain.ProvenanceEdge) error {
	if edge.ID == "" {
		return fmt.Errorf("%w: edge id is empty", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.edgeIDs[edge.ID]; ok {
		return fmt.Errorf("%w: edge %s", domain.ErrAlreadyExists, edge.ID)
	}
	s.edgeIDs[edge.ID] = struct{}{}
	s.edges = append(s.edges, edge)
	return nil
}

// ListEdges returns edges whose source or target is artifactID.
func (s *LineageStore) ListEdges(_ context.Context, artifactID string) ([]domain.ProvenanceEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ProvenanceEdge, 0)
	for _, e := range s.edges {
		if e.SourceID == artifactID || e.TargetID == artifactID {
			result = append(result, e)
		}
	}
	return result, nil
}
