package driven

import (
	"context"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// VersionStore persists per-dataset version history. History is append-only:
// records are never overwritten, only their tag lists replaced.
type VersionStore interface {
	// EnsureDataset records artifactID for name if no identity exists yet and
	// returns the identity now stored. The first caller wins.
	EnsureDataset(ctx context.Context, name, artifactID string) (string, error)

	// DatasetID returns the stored artifact id for name, or ErrNotFound.
	DatasetID(ctx context.Context, name string) (string, error)

	// AppendVersion appends record to name's history if the history currently
	// holds exactly expected entries. Returns ErrConcurrencyConflict when the
	// length differs and ErrAlreadyExists when the label is taken.
	AppendVersion(ctx context.Context, name string, record domain.VersionRecord, expected int) error

	// GetVersion returns one version record, or ErrNotFound.
	GetVersion(ctx context.Context, name, version string) (*domain.VersionRecord, error)

	// ListVersions returns the history in append order (oldest first).
	// An unknown name yields an empty slice.
	ListVersions(ctx context.Context, name string) ([]domain.VersionRecord, error)

	// SetTags replaces the tag list of one version, or returns ErrNotFound.
	SetTags(ctx context.Context, name, version string, tags []string) error
}
