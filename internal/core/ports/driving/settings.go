package driving

import "github.com/custodia-labs/curator/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, filling defaults.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetCompression updates the snapshot compression algorithm.
	SetCompression(compression domain.Compression) error

	// SetHashAlgorithm updates the content hash algorithm.
	SetHashAlgorithm(algorithm domain.HashAlgorithm) error

	// SetStorageBackend updates the history backend.
	SetStorageBackend(backend domain.StorageBackend) error

	// SetDataDir updates the data directory.
	SetDataDir(dir string) error

	// SetURIPrefix updates the lineage URI prefix.
	SetURIPrefix(prefix string) error
}
