package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage, snapshot compression, hashing and lineage
settings. Settings are stored in config.toml under the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting.

Available keys:
  backend        - History backend: sqlite or memory
  data-dir       - Directory for the database and snapshots
  compression    - Snapshot compression: zstd, lz4 or none
  hash-algorithm - Content hash: sha256 or blake3
  uri-prefix     - Prefix for generated lineage URIs, e.g. dataset://

Changing hash-algorithm means versions recorded earlier no longer verify.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(style.Heading("Current Settings"))
	cmd.Println()

	cmd.Println(style.Title.Render("[Storage]"))
	cmd.Println(style.KeyValue("Backend", 12, settings.Storage.Backend))
	cmd.Println(style.KeyValue("Data dir", 12, orDefault(settings.Storage.DataDir, "~/.curator/data")))
	cmd.Println()

	cmd.Println(style.Title.Render("[Snapshot]"))
	cmd.Println(style.KeyValue("Compression", 12, settings.Snapshot.Compression))
	cmd.Println()

	cmd.Println(style.Title.Render("[Hashing]"))
	cmd.Println(style.KeyValue("Algorithm", 12, settings.Hashing.Algorithm))
	cmd.Println()

	cmd.Println(style.Title.Render("[Lineage]"))
	cmd.Println(style.KeyValue("URI prefix", 12, orDefault(settings.Lineage.URIPrefix, "(none)")))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	key, value := strings.ToLower(args[0]), args[1]

	var err error
	switch key {
	case "backend":
		err = settingsService.SetStorageBackend(domain.StorageBackend(strings.ToLower(value)))
	case "data-dir":
		err = settingsService.SetDataDir(value)
	case "compression":
		err = settingsService.SetCompression(domain.Compression(strings.ToLower(value)))
	case "hash-algorithm":
		err = settingsService.SetHashAlgorithm(domain.HashAlgorithm(strings.ToLower(value)))
	case "uri-prefix":
		err = settingsService.SetURIPrefix(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("%s %s = %s\n", style.Success.Render("Saved"), key, value)
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
