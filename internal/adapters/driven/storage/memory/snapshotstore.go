package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

type snapshotKey struct {
	name string
	key  string
}

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[snapshotKey][]byte
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[snapshotKey][]byte),
	}
}

// Put stores a copy of data.
func (s *SnapshotStore) Put(_ context.Context, name, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshotKey{name, key}] = slices.Clone(data)
	return nil
}

// Get returns a copy of the stored data.
func (s *SnapshotStore) Get(_ context.Context, name, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[snapshotKey{name, key}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(data), nil
}

// Exists reports whether a snapshot is stored.
func (s *SnapshotStore) Exists(_ context.Context, name, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.snapshots[snapshotKey{name, key}]
	return ok, nil
}

// Delete removes a snapshot if present.
func (s *SnapshotStore) Delete(_ context.Context, name, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, snapshotKey{name, key})
	return nil
}
