package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/curator/internal/adapters/driven/config/file"
	"github.com/custodia-labs/curator/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/curator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/curator/internal/adapters/driving/cli"
	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
	"github.com/custodia-labs/curator/internal/core/services"
	"github.com/custodia-labs/curator/internal/logger"
)

// buildServices wires adapters and services from the stored settings.
func buildServices(_ context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Initialisation")

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	hasher, err := services.NewHasher(settings.Hashing.Algorithm)
	if err != nil {
		return nil, err
	}

	stores, err := openStores(settings)
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Partition: services.NewPartitionService(),
		Hash:      hasher,
		Versions:  services.NewVersionService(stores.versions, stores.snapshots, hasher),
		Lineage:   services.NewLineageService(hasher, stores.lineage, settings.Lineage.URIPrefix),
		Settings:  settingsService,
		Close:     stores.close,
	}, nil
}

// storeSet is the set of driven adapters selected by settings.
type storeSet struct {
	versions  driven.VersionStore
	snapshots driven.SnapshotStore
	lineage   driven.LineageStore
	close     func() error
}

func openStores(settings *domain.AppSettings) (*storeSet, error) {
	switch settings.Storage.Backend {
	case domain.StorageMemory:
		logger.Info("storage: memory (history is discarded on exit)")
		return &storeSet{
			versions:  memory.NewVersionStore(),
			snapshots: memory.NewSnapshotStore(),
			lineage:   memory.NewLineageStore(),
		}, nil

	case domain.StorageSQLite, "":
		dataDir, err := resolveDataDir(settings.Storage.DataDir)
		if err != nil {
			return nil, err
		}

		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		snapshots, err := filesystem.NewSnapshotStore(filepath.Join(dataDir, "snapshots"), settings.Snapshot.Compression)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("opening snapshot store: %w", err), store.Close())
		}
		logger.Info("storage: sqlite %s, snapshots %s (%s)", store.Path(), snapshots.Root(), settings.Snapshot.Compression)

		return &storeSet{
			versions:  store.VersionStore(),
			snapshots: snapshots,
			lineage:   store.LineageStore(),
			close:     store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}
}

// resolveDataDir returns dir, or ~/.curator/data when dir is empty.
func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".curator", "data"), nil
}
