package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// Ensure VersionStore implements the interface.
var _ driven.VersionStore = (*VersionStore)(nil)

type datasetHistory struct {
	artifactID string
	records    []domain.VersionRecord
}

// VersionStore is an in-memory implementation of driven.VersionStore.
type VersionStore struct {
	mu       sync.RWMutex
	datasets map[string]*datasetHistory
}

// NewVersionStore creates a new in-memory version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{
		datasets: make(map[string]*datasetHistory),
	}
}

// EnsureDataset records artifactID for name unless one is already stored.
func (s *VersionStore) EnsureDataset(_ context.Context, name, artifactID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history(name)
	if h.artifactID == "" {
		h.artifactID = artifactID
	}
	return h.artifactID, nil
}

// DatasetID returns the stored artifact id for name.
func (s *VersionStore) DatasetID(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.datasets[name]
	if !ok || h.artifactID == "" {
		return "", domain.ErrNotFound
	}
	return h.artifactID, nil
}

// AppendVersion appends record when the history holds exactly expected
// entries.
func (s *VersionStore) AppendVersion(
	_ context.Context,
	name string,
	record domain.VersionRecord,
	expected int,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history(name)
	for _, existing := range h.records {
		if existing.Version == record.Version {
			return fmt.Errorf("%w: version %q of dataset %q", domain.ErrAlreadyExists, record.Version, name)
		}
	}
	if len(h.records) != expected {
		return fmt.Errorf("%w: dataset %q has %d versions, expected %d",
			domain.ErrConcurrencyConflict, name, len(h.records), expected)
	}

	h.records = append(h.records, copyRecord(record))
	return nil
}

// GetVersion retrieves one version record.
func (s *VersionStore) GetVersion(_ context.Context, name, version string) (*domain.VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if h, ok := s.datasets[name]; ok {
		for _, rec := range h.records {
			if rec.Version == version {
				out := copyRecord(rec)
				return &out, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// ListVersions returns the history in append order.
func (s *VersionStore) ListVersions(_ context.Context, name string) ([]domain.VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.datasets[name]
	if !ok {
		return []domain.VersionRecord{}, nil
	}
	out := make([]domain.VersionRecord, len(h.records))
	for i, rec := range h.records {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

// SetTags replaces the tag list of one version.
func (s *VersionStore) SetTags(_ context.Context, name, version string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.datasets[name]; ok {
		for i := range h.records {
			if h.records[i].Version == version {
				h.records[i].Tags = slices.Clone(tags)
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

// history returns the entry for name, creating it. Callers hold the write lock.
func (s *VersionStore) history(name string) *datasetHistory {
	h, ok := s.datasets[name]
	if !ok {
		h = &datasetHistory{}
		s.datasets[name] = h
	}
	return h
}

// copyRecord detaches the tag slice. Metadata is treated as immutable once
// recorded.
func copyRecord(rec domain.VersionRecord) domain.VersionRecord {
	rec.Tags = slices.Clone(rec.Tags)
	return rec
}
