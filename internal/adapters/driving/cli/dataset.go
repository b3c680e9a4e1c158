package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/core/domain"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage dataset versions",
	Long: `Record, inspect and restore immutable dataset versions.

Each version stores a snapshot of the records together with a content
hash, size and metadata. Version labels are unique per dataset.`,
}

var datasetCommitCmd = &cobra.Command{
	Use:   "commit [name] [version]",
	Short: "Record a new version",
	Args:  cobra.ExactArgs(2),
	RunE:  runDatasetCommit,
}

var datasetVersionsCmd = &cobra.Command{
	Use:   "versions [name]",
	Short: "List versions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetVersions,
}

var datasetShowCmd = &cobra.Command{
	Use:   "show [name] [version]",
	Short: "Show a version record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDatasetShow,
}

var datasetDiffCmd = &cobra.Command{
	Use:   "diff [name] [from] [to]",
	Short: "Compare two versions",
	Args:  cobra.ExactArgs(3),
	RunE:  runDatasetDiff,
}

var datasetTagCmd = &cobra.Command{
	Use:   "tag [name] [version] [tag]",
	Short: "Attach a tag to a version",
	Args:  cobra.ExactArgs(3),
	RunE:  runDatasetTag,
}

var datasetCheckoutCmd = &cobra.Command{
	Use:   "checkout [name] [version]",
	Short: "Write a version's records",
	Long: `Write the records of a stored version as JSON Lines.

A flat version is written to stdout, or to <out-dir>/records.jsonl.
A split version needs --out-dir and is written one file per split.`,
	Args: cobra.ExactArgs(2),
	RunE: runDatasetCheckout,
}

var datasetVerifyCmd = &cobra.Command{
	Use:   "verify [name] [version]",
	Short: "Check a version's snapshot against its hash",
	Args:  cobra.ExactArgs(2),
	RunE:  runDatasetVerify,
}

var (
	commitContent    contentFlags
	commitMeta       []string
	commitArtifactID string
	showJSON         bool
	checkoutOutDir   string
)

func init() {
	datasetCommitCmd.Flags().StringVarP(&commitContent.input, "input", "i", "", "JSON Lines input file (- for stdin)")
	datasetCommitCmd.Flags().StringArrayVarP(&commitContent.splits, "split", "s", nil, "Named split as name=path (repeatable)")
	datasetCommitCmd.Flags().StringArrayVarP(&commitMeta, "meta", "m", nil, "Metadata as key=value (repeatable)")
	datasetCommitCmd.Flags().StringVar(&commitArtifactID, "artifact-id", "", "Artifact id for a dataset recorded for the first time")
	datasetShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the record as JSON")
	datasetCheckoutCmd.Flags().StringVarP(&checkoutOutDir, "out-dir", "o", "", "Directory to write records to")

	datasetCmd.AddCommand(datasetCommitCmd)
	datasetCmd.AddCommand(datasetVersionsCmd)
	datasetCmd.AddCommand(datasetShowCmd)
	datasetCmd.AddCommand(datasetDiffCmd)
	datasetCmd.AddCommand(datasetTagCmd)
	datasetCmd.AddCommand(datasetCheckoutCmd)
	datasetCmd.AddCommand(datasetVerifyCmd)
	rootCmd.AddCommand(datasetCmd)
}

// parseMetadata turns key=value pairs into a metadata map.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: metadata must be key=value, got %q", domain.ErrInvalidInput, pair)
		}
		meta[key] = value
	}
	return meta, nil
}

func runDatasetCommit(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name, label := args[0], args[1]

	content, err := loadContent(cmd, commitContent)
	if err != nil {
		return err
	}
	meta, err := parseMetadata(commitMeta)
	if err != nil {
		return err
	}

	dataset := &domain.Dataset{
		Name:       name,
		Metadata:   meta,
		ArtifactID: commitArtifactID,
		Content:    content,
	}
	record, err := versionService.CreateVersion(commandContext(cmd), dataset, label)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	cmd.Printf("%s %s@%s\n", style.Success.Render("Recorded"), name, style.ID.Render(record.Version))
	cmd.Println(style.KeyValue("Hash", 9, style.ShortHash(record.Hash, 0)))
	cmd.Println(style.KeyValue("Size", 9, record.Size))
	cmd.Println(style.KeyValue("Artifact", 9, dataset.ArtifactID))
	return nil
}

func runDatasetVersions(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name := args[0]

	history, err := versionService.History(commandContext(cmd), name)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}
	if len(history) == 0 {
		cmd.Printf("No versions recorded for dataset: %s\n", name)
		return nil
	}

	cmd.Println(style.Heading("Versions of " + name))
	for i := range history {
		v := &history[i]
		line := fmt.Sprintf("  %s  %s  %6d  %s",
			style.ID.Render(v.Version),
			style.ShortHash(v.Hash, 12),
			v.Size,
			style.Muted.Render(v.CreatedAt.Format(time.RFC3339)),
		)
		if len(v.Tags) > 0 {
			line += "  [" + strings.Join(v.Tags, ", ") + "]"
		}
		cmd.Println(line)
	}
	cmd.Printf("\nTotal: %d versions\n", len(history))
	return nil
}

func runDatasetShow(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name, label := args[0], args[1]

	record, err := versionService.GetVersion(commandContext(cmd), name, label)
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	if showJSON {
		return printJSON(cmd, record)
	}

	cmd.Println(style.Heading(name + "@" + record.Version))
	cmd.Println(style.KeyValue("Hash", 9, style.ID.Render(record.Hash)))
	cmd.Println(style.KeyValue("Size", 9, record.Size))
	cmd.Println(style.KeyValue("Created", 9, record.CreatedAt.Format(time.RFC3339Nano)))
	if len(record.Tags) > 0 {
		cmd.Println(style.KeyValue("Tags", 9, strings.Join(record.Tags, ", ")))
	}
	if len(record.Metadata) > 0 {
		cmd.Println(style.KeyValue("Metadata", 9, ""))
		for _, k := range sortedKeys(record.Metadata) {
			cmd.Printf("    %s = %v\n", k, record.Metadata[k])
		}
	}
	return nil
}

func runDatasetDiff(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name, from, to := args[0], args[1], args[2]

	diff, err := versionService.Diff(commandContext(cmd), name, from, to)
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	cmd.Println(style.Heading(fmt.Sprintf("%s: %s -> %s", name, from, to)))
	content := style.Muted.Render("unchanged")
	if diff.HashChanged {
		content = style.Warning.Render("changed")
	}
	cmd.Println(style.KeyValue("Content", 8, content))
	cmd.Println(style.KeyValue("Size", 8, fmt.Sprintf("%+d", diff.SizeDelta)))
	cmd.Println(style.KeyValue("Time", 8, diff.TimeDelta))

	changes := diff.MetadataChanges
	if changes.IsEmpty() {
		cmd.Println(style.KeyValue("Metadata", 8, style.Muted.Render("unchanged")))
		return nil
	}
	cmd.Println(style.KeyValue("Metadata", 8, ""))
	for _, k := range sortedKeys(changes.Added) {
		cmd.Printf("    + %s = %v\n", k, changes.Added[k])
	}
	for _, k := range sortedKeys(changes.Removed) {
		cmd.Printf("    - %s = %v\n", k, changes.Removed[k])
	}
	for _, k := range sortedKeys(changes.Changed) {
		c := changes.Changed[k]
		cmd.Printf("    ~ %s: %v -> %v\n", k, c.Old, c.New)
	}
	return nil
}

func runDatasetTag(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name, label, tag := args[0], args[1], args[2]

	if err := versionService.Tag(commandContext(cmd), name, label, tag); err != nil {
		return fmt.Errorf("tag failed: %w", err)
	}
	cmd.Printf("Tagged %s@%s as %s\n", name, label, tag)
	return nil
}

func runDatasetCheckout(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name, label := args[0], args[1]

	content, err := versionService.LoadVersion(commandContext(cmd), name, label)
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	if !content.IsSplit() {
		if checkoutOutDir == "" {
			return writeRecords(cmd.OutOrStdout(), content.Records)
		}
		return emitParts(cmd, checkoutOutDir, []namedPart{{name: "records", records: content.Records}})
	}

	if checkoutOutDir == "" {
		return errors.New("checkout failed: --out-dir is required for a dataset with splits")
	}
	names := content.SplitNames()
	parts := make([]namedPart, 0, len(names))
	for _, split := range names {
		parts = append(parts, namedPart{name: split, records: content.Splits[split]})
	}
	return emitParts(cmd, checkoutOutDir, parts)
}

func runDatasetVerify(cmd *cobra.Command, args []string) error {
	if versionService == nil {
		return errNotConfigured("version")
	}
	name, label := args[0], args[1]

	if err := versionService.Verify(commandContext(cmd), name, label); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	cmd.Printf("%s %s@%s matches its recorded hash\n", style.Success.Render("OK"), name, label)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
