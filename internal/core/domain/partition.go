package domain

// RatioTolerance is the slack allowed when checking that split ratios sum
// to one, so that sums such as 0.7+0.15+0.15 are accepted.
const RatioTolerance = 1e-9

// SplitOptions controls randomisation of a partition call.
type SplitOptions struct {
	// Seed makes the shuffle reproducible. Nil draws from system entropy.
	Seed *int64

	// Shuffle randomises order before splitting.
	Shuffle bool
}

// DefaultSplitOptions shuffles with an unseeded generator.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{Shuffle: true}
}

// SeededSplitOptions shuffles with the given seed.
func SeededSplitOptions(seed int64) SplitOptions {
	return SplitOptions{Seed: &seed, Shuffle: true}
}

// Fold is one train/test pair of a k-fold partition.
type Fold struct {
	Index int
	Train []Record
	Test  []Record
}
