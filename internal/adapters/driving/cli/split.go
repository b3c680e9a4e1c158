package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/core/domain"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Partition a dataset",
	Long: `Partition records read from a JSON Lines file.

Records are shuffled before splitting unless --no-shuffle is given.
Passing --seed makes the shuffle reproducible across runs.
With --out-dir, each part is written to <out-dir>/<part>.jsonl.`,
}

var splitTwoWayCmd = &cobra.Command{
	Use:   "two-way",
	Short: "Split into train and test",
	Args:  cobra.NoArgs,
	RunE:  runSplitTwoWay,
}

var splitThreeWayCmd = &cobra.Command{
	Use:   "three-way",
	Short: "Split into train, validation and test",
	Args:  cobra.NoArgs,
	RunE:  runSplitThreeWay,
}

var splitKFoldCmd = &cobra.Command{
	Use:   "kfold",
	Short: "Split into k train/test folds",
	Args:  cobra.NoArgs,
	RunE:  runSplitKFold,
}

var splitStratifiedCmd = &cobra.Command{
	Use:   "stratified",
	Short: "Split into train and test preserving label proportions",
	Args:  cobra.NoArgs,
	RunE:  runSplitStratified,
}

// splitFlags holds flags shared by the split subcommands.
type splitFlags struct {
	input     string
	outDir    string
	seed      int64
	noShuffle bool
}

var (
	splitOpts   splitFlags
	splitRatio  float64
	splitRatios []float64
	splitK      int
	splitLabel  string
)

func init() {
	for _, c := range []*cobra.Command{splitTwoWayCmd, splitThreeWayCmd, splitKFoldCmd, splitStratifiedCmd} {
		c.Flags().StringVarP(&splitOpts.input, "input", "i", "-", "JSON Lines input file (- for stdin)")
		c.Flags().StringVarP(&splitOpts.outDir, "out-dir", "o", "", "Directory to write parts to")
		c.Flags().Int64Var(&splitOpts.seed, "seed", 0, "Seed for a reproducible shuffle")
		c.Flags().BoolVar(&splitOpts.noShuffle, "no-shuffle", false, "Keep input order")
		splitCmd.AddCommand(c)
	}

	splitTwoWayCmd.Flags().Float64VarP(&splitRatio, "ratio", "r", 0.8, "Fraction of records in the first part")
	splitStratifiedCmd.Flags().Float64VarP(&splitRatio, "ratio", "r", 0.8, "Fraction of each label group in train")
	splitStratifiedCmd.Flags().StringVarP(&splitLabel, "label", "l", "", "Record field holding the class label")
	_ = splitStratifiedCmd.MarkFlagRequired("label")
	splitThreeWayCmd.Flags().Float64SliceVar(&splitRatios, "ratios", []float64{0.7, 0.15, 0.15},
		"Train, validation and test fractions summing to 1")
	splitKFoldCmd.Flags().IntVarP(&splitK, "folds", "k", 5, "Number of folds")

	rootCmd.AddCommand(splitCmd)
}

// splitOptions converts flags to domain options. The seed only applies
// when --seed was given explicitly.
func splitOptions(cmd *cobra.Command) domain.SplitOptions {
	opts := domain.SplitOptions{Shuffle: !splitOpts.noShuffle}
	if cmd.Flags().Changed("seed") {
		seed := splitOpts.seed
		opts.Seed = &seed
	}
	return opts
}

func runSplitTwoWay(cmd *cobra.Command, _ []string) error {
	if partitionService == nil {
		return errNotConfigured("partition")
	}
	records, err := loadRecords(cmd, splitOpts.input)
	if err != nil {
		return err
	}

	train, test, err := partitionService.TwoWaySplit(records, splitRatio, splitOptions(cmd))
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}
	return emitParts(cmd, splitOpts.outDir, []namedPart{
		{name: "train", records: train},
		{name: "test", records: test},
	})
}

func runSplitThreeWay(cmd *cobra.Command, _ []string) error {
	if partitionService == nil {
		return errNotConfigured("partition")
	}
	if len(splitRatios) != 3 {
		return fmt.Errorf("%w: --ratios needs exactly three values, got %d", domain.ErrInvalidInput, len(splitRatios))
	}
	records, err := loadRecords(cmd, splitOpts.input)
	if err != nil {
		return err
	}

	ratios := [3]float64{splitRatios[0], splitRatios[1], splitRatios[2]}
	train, validation, test, err := partitionService.ThreeWaySplit(records, ratios, splitOptions(cmd))
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}
	return emitParts(cmd, splitOpts.outDir, []namedPart{
		{name: "train", records: train},
		{name: "validation", records: validation},
		{name: "test", records: test},
	})
}

func runSplitKFold(cmd *cobra.Command, _ []string) error {
	if partitionService == nil {
		return errNotConfigured("partition")
	}
	records, err := loadRecords(cmd, splitOpts.input)
	if err != nil {
		return err
	}

	folds, err := partitionService.KFold(records, splitK, splitOptions(cmd))
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	parts := make([]namedPart, 0, 2*len(folds))
	for _, fold := range folds {
		parts = append(parts,
			namedPart{name: fmt.Sprintf("fold-%d-train", fold.Index), records: fold.Train},
			namedPart{name: fmt.Sprintf("fold-%d-test", fold.Index), records: fold.Test},
		)
	}
	return emitParts(cmd, splitOpts.outDir, parts)
}

func runSplitStratified(cmd *cobra.Command, _ []string) error {
	if partitionService == nil {
		return errNotConfigured("partition")
	}
	records, err := loadRecords(cmd, splitOpts.input)
	if err != nil {
		return err
	}

	train, test, err := partitionService.StratifiedTwoWaySplit(records, splitLabel, splitRatio, splitOptions(cmd))
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}
	return emitParts(cmd, splitOpts.outDir, []namedPart{
		{name: "train", records: train},
		{name: "test", records: test},
	})
}
