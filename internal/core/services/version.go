package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
	"github.com/custodia-labs/curator/internal/core/ports/driving"
	"github.com/custodia-labs/curator/internal/logger"
)

// Ensure VersionService implements the interface.
var _ driving.VersionService = (*VersionService)(nil)

// VersionService manages immutable dataset versions: a history store holds
// the records and a snapshot store holds the content.
type VersionService struct {
	versions  driven.VersionStore
	snapshots driven.SnapshotStore
	hasher    *Hasher
	locks     *keyedMutex

	now   func() time.Time
	newID func() string
}

// NewVersionService creates a new version service.
func NewVersionService(
	versions driven.VersionStore,
	snapshots driven.SnapshotStore,
	hasher *Hasher,
) *VersionService {
	return &VersionService{
		versions:  versions,
		snapshots: snapshots,
		hasher:    hasher,
		locks:     newKeyedMutex(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateVersion snapshots the dataset under a new version label.
//
// Calls for the same name are serialised inside the process. A writer in
// another process that appends first causes ErrConcurrencyConflict. Each
// call stages its snapshot under a key of its own, so a losing call never
// touches content another call has committed; its staged snapshot is
// removed.
func (s *VersionService) CreateVersion(
	ctx context.Context,
	dataset *domain.Dataset,
	version string,
) (*domain.VersionRecord, error) {
	if s.versions == nil || s.snapshots == nil {
		return nil, domain.ErrNotImplemented
	}
	if dataset == nil {
		return nil, fmt.Errorf("%w: dataset is nil", domain.ErrInvalidInput)
	}
	if dataset.Name == "" {
		return nil, fmt.Errorf("%w: dataset name is empty", domain.ErrInvalidInput)
	}
	if version == "" {
		return nil, fmt.Errorf("%w: version label is empty", domain.ErrInvalidInput)
	}
	if err := dataset.Content.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %q: %w", dataset.Name, err)
	}

	hash, err := s.hasher.ComputeHash(dataset.Content)
	if err != nil {
		return nil, fmt.Errorf("hashing dataset %q: %w", dataset.Name, err)
	}
	if hash == "" {
		return nil, fmt.Errorf("%w: dataset %q has no records", domain.ErrInvalidInput, dataset.Name)
	}
	data, err := encodeSnapshot(dataset.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding dataset %q: %w", dataset.Name, err)
	}

	unlock := s.locks.Lock(dataset.Name)
	defer unlock()

	if err := s.ensureIdentity(ctx, dataset); err != nil {
		return nil, err
	}

	history, err := s.versions.ListVersions(ctx, dataset.Name)
	if err != nil {
		return nil, fmt.Errorf("listing versions of %q: %w", dataset.Name, err)
	}
	for _, rec := range history {
		if rec.Version == version {
			return nil, fmt.Errorf("%w: version %q of dataset %q", domain.ErrAlreadyExists, version, dataset.Name)
		}
	}

	key := version + "." + s.newID()
	if err := s.snapshots.Put(ctx, dataset.Name, key, data); err != nil {
		return nil, fmt.Errorf("writing snapshot %s@%s: %w", dataset.Name, version, err)
	}

	record := domain.VersionRecord{
		Version:   version,
		Hash:      hash,
		CreatedAt: s.now().UTC(),
		Size:      dataset.Content.Len(),
		Metadata:  cloneMetadata(dataset.Metadata),
		Snapshot:  key,
	}
	if err := s.versions.AppendVersion(ctx, dataset.Name, record, len(history)); err != nil {
		if derr := s.snapshots.Delete(ctx, dataset.Name, key); derr != nil {
			logger.Warn("removing staged snapshot %s/%s: %v", dataset.Name, key, derr)
		}
		return nil, fmt.Errorf("recording version %s@%s: %w", dataset.Name, version, err)
	}

	logger.Debug("created version %s@%s hash=%s size=%d", dataset.Name, version, hash, record.Size)
	return &record, nil
}

// ensureIdentity settles the dataset's artifact id. A caller-supplied id
// only sticks if the name has never been recorded before.
func (s *VersionService) ensureIdentity(ctx context.Context, dataset *domain.Dataset) error {
	if dataset.ArtifactID == "" {
		stored, err := s.versions.DatasetID(ctx, dataset.Name)
		switch {
		case err == nil:
			dataset.ArtifactID = stored
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("looking up dataset %q: %w", dataset.Name, err)
		}
	}

	id, err := s.versions.EnsureDataset(ctx, dataset.Name, dataset.EnsureArtifactID(s.newID))
	if err != nil {
		return fmt.Errorf("registering dataset %q: %w", dataset.Name, err)
	}
	if id != dataset.ArtifactID {
		logger.Warn("dataset %q already registered as %s, ignoring id %s", dataset.Name, id, dataset.ArtifactID)
		dataset.ArtifactID = id
	}
	return nil
}

// LoadVersion returns the content stored for a version.
func (s *VersionService) LoadVersion(ctx context.Context, name, version string) (*domain.Collection, error) {
	if s.versions == nil || s.snapshots == nil {
		return nil, domain.ErrNotImplemented
	}

	rec, err := s.versions.GetVersion(ctx, name, version)
	if err != nil {
		return nil, fmt.Errorf("version %s@%s: %w", name, version, err)
	}
	return s.loadSnapshot(ctx, name, rec)
}

func (s *VersionService) loadSnapshot(
	ctx context.Context,
	name string,
	rec *domain.VersionRecord,
) (*domain.Collection, error) {
	version := rec.Version
	data, err := s.snapshots.Get(ctx, name, rec.SnapshotKey())
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s@%s: %w", name, version, err)
	}
	content, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s@%s: %w", name, version, err)
	}
	return &content, nil
}

// DatasetID returns the artifact id recorded for a dataset name.
func (s *VersionService) DatasetID(ctx context.Context, name string) (string, error) {
	if s.versions == nil {
		return "", domain.ErrNotImplemented
	}
	return s.versions.DatasetID(ctx, name)
}

// GetVersion returns the record for a version.
func (s *VersionService) GetVersion(ctx context.Context, name, version string) (*domain.VersionRecord, error) {
	if s.versions == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.versions.GetVersion(ctx, name, version)
}

// ListVersions returns version labels, newest first.
func (s *VersionService) ListVersions(ctx context.Context, name string) ([]string, error) {
	history, err := s.History(ctx, name)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(history))
	for i, rec := range history {
		labels[i] = rec.Version
	}
	return labels, nil
}

// History returns version records ordered by creation time, newest first.
// Records created at the same instant are ordered by append position,
// latest first.
func (s *VersionService) History(ctx context.Context, name string) ([]domain.VersionRecord, error) {
	if s.versions == nil {
		return nil, domain.ErrNotImplemented
	}

	history, err := s.versions.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	slices.Reverse(history)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	return history, nil
}

// Diff compares two versions. Deltas are to minus from.
func (s *VersionService) Diff(ctx context.Context, name, from, to string) (*domain.VersionDiff, error) {
	if s.versions == nil {
		return nil, domain.ErrNotImplemented
	}

	v1, err := s.versions.GetVersion(ctx, name, from)
	if err != nil {
		return nil, fmt.Errorf("version %s@%s: %w", name, from, err)
	}
	v2, err := s.versions.GetVersion(ctx, name, to)
	if err != nil {
		return nil, fmt.Errorf("version %s@%s: %w", name, to, err)
	}

	return &domain.VersionDiff{
		From:            from,
		To:              to,
		HashChanged:     v1.Hash != v2.Hash,
		SizeDelta:       v2.Size - v1.Size,
		TimeDelta:       v2.CreatedAt.Sub(v1.CreatedAt),
		MetadataChanges: diffMetadata(v1.Metadata, v2.Metadata),
	}, nil
}

// Tag appends tag to a version's tags. Existing tags are left alone.
func (s *VersionService) Tag(ctx context.Context, name, version, tag string) error {
	if s.versions == nil {
		return domain.ErrNotImplemented
	}
	if tag == "" {
		return fmt.Errorf("%w: tag is empty", domain.ErrInvalidInput)
	}

	rec, err := s.versions.GetVersion(ctx, name, version)
	if err != nil {
		return fmt.Errorf("version %s@%s: %w", name, version, err)
	}
	if rec.HasTag(tag) {
		return nil
	}

	tags := append(slices.Clone(rec.Tags), tag)
	if err := s.versions.SetTags(ctx, name, version, tags); err != nil {
		return fmt.Errorf("tagging %s@%s: %w", name, version, err)
	}
	logger.Debug("tagged %s@%s with %q", name, version, tag)
	return nil
}

// Verify reloads a snapshot and checks it against the recorded hash using
// the service's current algorithm.
func (s *VersionService) Verify(ctx context.Context, name, version string) error {
	rec, err := s.GetVersion(ctx, name, version)
	if err != nil {
		return fmt.Errorf("version %s@%s: %w", name, version, err)
	}
	if s.snapshots == nil {
		return domain.ErrNotImplemented
	}
	content, err := s.loadSnapshot(ctx, name, rec)
	if err != nil {
		return err
	}
	hash, err := s.hasher.ComputeHash(*content)
	if err != nil {
		return fmt.Errorf("hashing snapshot %s@%s: %w", name, version, err)
	}
	if hash != rec.Hash {
		return fmt.Errorf("%w: %s@%s recorded %s, snapshot hashes to %s",
			domain.ErrIntegrity, name, version, rec.Hash, hash)
	}
	return nil
}

// diffMetadata reports keys added, removed, and changed between a and b.
func diffMetadata(a, b map[string]any) domain.MetadataChanges {
	changes := domain.MetadataChanges{
		Added:   make(map[string]any),
		Removed: make(map[string]any),
		Changed: make(map[string]domain.ValueChange),
	}
	for k, old := range a {
		next, ok := b[k]
		if !ok {
			changes.Removed[k] = old
			continue
		}
		if !reflect.DeepEqual(old, next) {
			changes.Changed[k] = domain.ValueChange{Old: old, New: next}
		}
	}
	for k, next := range b {
		if _, ok := a[k]; !ok {
			changes.Added[k] = next
		}
	}
	return changes
}

// cloneMetadata deep-copies nested maps and slices so later caller edits
// never reach a stored record.
func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMetadata(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneAny(item)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
