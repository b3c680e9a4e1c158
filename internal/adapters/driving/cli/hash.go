package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/core/domain"
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute the content hash of a dataset",
	Long: `Compute the content hash of records read from JSON Lines.

Use --input for a flat dataset or repeat --split name=path for a dataset
with named splits. The hash depends only on content: key order within a
record is significant, split order is not.`,
	Args: cobra.NoArgs,
	RunE: runHash,
}

// contentFlags selects flat or split input.
type contentFlags struct {
	input  string
	splits []string
}

var hashInput contentFlags

func init() {
	hashCmd.Flags().StringVarP(&hashInput.input, "input", "i", "", "JSON Lines input file (- for stdin)")
	hashCmd.Flags().StringArrayVarP(&hashInput.splits, "split", "s", nil, "Named split as name=path (repeatable)")
	rootCmd.AddCommand(hashCmd)
}

// loadContent reads a flat collection from --input or a split collection
// from --split flags. Exactly one of them must be set.
func loadContent(cmd *cobra.Command, flags contentFlags) (domain.Collection, error) {
	switch {
	case flags.input != "" && len(flags.splits) > 0:
		return domain.Collection{}, fmt.Errorf("%w: use either --input or --split, not both", domain.ErrInvalidInput)
	case len(flags.splits) > 0:
		splits, err := loadSplits(cmd, flags.splits)
		if err != nil {
			return domain.Collection{}, err
		}
		return domain.NewSplitCollection(splits), nil
	case flags.input != "":
		records, err := loadRecords(cmd, flags.input)
		if err != nil {
			return domain.Collection{}, err
		}
		return domain.NewFlatCollection(records), nil
	default:
		return domain.Collection{}, fmt.Errorf("%w: one of --input or --split is required", domain.ErrInvalidInput)
	}
}

func runHash(cmd *cobra.Command, _ []string) error {
	if hashService == nil {
		return errNotConfigured("hash")
	}
	content, err := loadContent(cmd, hashInput)
	if err != nil {
		return err
	}

	hash, err := hashService.ComputeHash(content)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}
	cmd.Printf("%s  %s\n", hashService.Algorithm(), hash)
	return nil
}
