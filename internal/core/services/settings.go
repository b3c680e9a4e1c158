package services

import (
	"fmt"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
	"github.com/custodia-labs/curator/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir       = "storage.data_dir"
	keyBackend       = "storage.backend"
	keyCompression   = "snapshot.compression"
	keyHashAlgorithm = "hashing.algorithm"
	keyURIPrefix     = "lineage.uri_prefix"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
			Backend: s.getBackend(defaults.Storage.Backend),
		},
		Snapshot: domain.SnapshotSettings{
			Compression: s.getCompression(defaults.Snapshot.Compression),
		},
		Hashing: domain.HashingSettings{
			Algorithm: s.getHashAlgorithm(defaults.Hashing.Algorithm),
		},
		Lineage: domain.LineageSettings{
			URIPrefix: s.configStore.GetString(keyURIPrefix),
		},
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save data dir: %w", err)
	}
	if err := s.configStore.Set(keyBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyCompression, settings.Snapshot.Compression.String()); err != nil {
		return fmt.Errorf("save compression: %w", err)
	}
	if err := s.configStore.Set(keyHashAlgorithm, settings.Hashing.Algorithm.String()); err != nil {
		return fmt.Errorf("save hash algorithm: %w", err)
	}
	if err := s.configStore.Set(keyURIPrefix, settings.Lineage.URIPrefix); err != nil {
		return fmt.Errorf("save uri prefix: %w", err)
	}
	return nil
}

// SetCompression updates the snapshot compression algorithm.
func (s *SettingsService) SetCompression(compression domain.Compression) error {
	if !compression.IsValid() {
		return fmt.Errorf("%w: invalid compression: %s", domain.ErrInvalidInput, compression)
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Snapshot.Compression = compression
	})
}

// SetHashAlgorithm updates the content hash algorithm. Versions recorded
// under the previous algorithm no longer verify.
func (s *SettingsService) SetHashAlgorithm(algorithm domain.HashAlgorithm) error {
	if !algorithm.IsValid() {
		return fmt.Errorf("%w: invalid hash algorithm: %s", domain.ErrInvalidInput, algorithm)
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Hashing.Algorithm = algorithm
	})
}

// SetStorageBackend updates the history backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, backend)
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Storage.Backend = backend
	})
}

// SetDataDir updates the data directory. Empty restores the default.
func (s *SettingsService) SetDataDir(dir string) error {
	return s.update(func(settings *domain.AppSettings) {
		settings.Storage.DataDir = dir
	})
}

// SetURIPrefix updates the lineage URI prefix.
func (s *SettingsService) SetURIPrefix(prefix string) error {
	return s.update(func(settings *domain.AppSettings) {
		settings.Lineage.URIPrefix = prefix
	})
}

func (s *SettingsService) update(apply func(*domain.AppSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	apply(settings)
	return s.Save(settings)
}

func validateSettings(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	if !settings.Snapshot.Compression.IsValid() {
		return fmt.Errorf("%w: invalid compression: %s", domain.ErrInvalidInput, settings.Snapshot.Compression)
	}
	if !settings.Hashing.Algorithm.IsValid() {
		return fmt.Errorf("%w: invalid hash algorithm: %s", domain.ErrInvalidInput, settings.Hashing.Algorithm)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getCompression(defaultVal domain.Compression) domain.Compression {
	compression := domain.Compression(s.configStore.GetString(keyCompression))
	if !compression.IsValid() {
		return defaultVal
	}
	return compression
}

func (s *SettingsService) getHashAlgorithm(defaultVal domain.HashAlgorithm) domain.HashAlgorithm {
	algorithm := domain.HashAlgorithm(s.configStore.GetString(keyHashAlgorithm))
	if !algorithm.IsValid() {
		return defaultVal
	}
	return algorithm
}
