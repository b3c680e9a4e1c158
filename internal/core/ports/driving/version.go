package driving

import (
	"context"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// VersionService records immutable, content-addressed dataset versions.
type VersionService interface {
	// CreateVersion hashes and snapshots the dataset and appends a new record
	// to its history. The dataset's artifact id is assigned if missing.
	CreateVersion(ctx context.Context, dataset *domain.Dataset, version string) (*domain.VersionRecord, error)

	// LoadVersion returns the snapshot content of a version.
	LoadVersion(ctx context.Context, name, version string) (*domain.Collection, error)

	// DatasetID returns the artifact id recorded for name, or ErrNotFound.
	DatasetID(ctx context.Context, name string) (string, error)

	// GetVersion returns one version record.
	GetVersion(ctx context.Context, name, version string) (*domain.VersionRecord, error)

	// ListVersions returns version labels newest first.
	ListVersions(ctx context.Context, name string) ([]string, error)

	// History returns version records newest first.
	History(ctx context.Context, name string) ([]domain.VersionRecord, error)

	// Diff compares two versions of a dataset.
	Diff(ctx context.Context, name, from, to string) (*domain.VersionDiff, error)

	// Tag appends tag to a version's tag list. Not atomic across
	// concurrent taggers: the last writer wins.
	Tag(ctx context.Context, name, version, tag string) error

	// Verify recomputes a version's hash from its snapshot.
	Verify(ctx context.Context, name, version string) error
}
