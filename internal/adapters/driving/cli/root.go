// Package cli implements the curator command line interface.
//
// Commands call the driving ports only. Services are either installed
// directly with SetServices or built on first use by the Builder passed to
// Execute, once persistent flags such as --config-dir have been parsed.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/core/ports/driving"
	"github.com/custodia-labs/curator/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services groups the driving ports the commands use.
type Services struct {
	Partition driving.PartitionService
	Hash      driving.HashService
	Versions  driving.VersionService
	Lineage   driving.LineageService
	Settings  driving.SettingsService

	// Close releases resources held by the services. Optional.
	Close func() error
}

// Options carries persistent flag values to a Builder.
type Options struct {
	ConfigDir string
}

// Builder constructs services once flags are known.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	partitionService driving.PartitionService
	hashService      driving.HashService
	versionService   driving.VersionService
	lineageService   driving.LineageService
	settingsService  driving.SettingsService

	builder  Builder
	closeFn  func() error
	verbose  bool
	cfgDir   string
	services bool
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Reproducible dataset partitioning and versioning",
	Long: `Curator splits record datasets into reproducible partitions and records
immutable, content-addressed versions with provenance links.

Records are read from JSON Lines files, one object per line.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "Configuration directory (default ~/.curator)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices installs services directly, bypassing any Builder.
func SetServices(s *Services) {
	if s == nil {
		partitionService, hashService, versionService, lineageService, settingsService = nil, nil, nil, nil, nil
		closeFn = nil
		services = false
		return
	}
	partitionService = s.Partition
	hashService = s.Hash
	versionService = s.Versions
	lineageService = s.Lineage
	settingsService = s.Settings
	closeFn = s.Close
	services = true
}

// Execute runs the root command. build is called once before the first
// command that runs, unless services were installed with SetServices.
// Services are closed afterwards whether or not the command failed.
func Execute(ctx context.Context, build Builder) error {
	builder = build
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, closeServices())
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if services || builder == nil {
		return nil
	}

	s, err := builder(commandContext(cmd), Options{ConfigDir: cfgDir})
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(s)
	return nil
}

func closeServices() error {
	if closeFn == nil {
		return nil
	}
	err := closeFn()
	closeFn = nil
	if err != nil {
		return fmt.Errorf("closing services: %w", err)
	}
	return nil
}

// commandContext returns the command's context or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
