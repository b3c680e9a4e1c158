package driving

import "github.com/custodia-labs/curator/internal/core/domain"

// PartitionService produces reproducible partitions of a record sequence.
// Every call returns newly allocated slices; inputs are never mutated.
type PartitionService interface {
	// TwoWaySplit splits records at round(len*ratio). ratio must be in (0,1].
	TwoWaySplit(records []domain.Record, ratio float64, opts domain.SplitOptions) (first, second []domain.Record, err error)

	// ThreeWaySplit splits records by three ratios summing to one.
	// The third part absorbs rounding error.
	ThreeWaySplit(records []domain.Record, ratios [3]float64, opts domain.SplitOptions) (a, b, c []domain.Record, err error)

	// KFold returns k train/test folds. The last fold absorbs the remainder.
	KFold(records []domain.Record, k int, opts domain.SplitOptions) ([]domain.Fold, error)

	// StratifiedTwoWaySplit splits each label group at ratio and
	// concatenates the results in first-appearance group order.
	StratifiedTwoWaySplit(records []domain.Record, labelKey string, ratio float64, opts domain.SplitOptions) (train, test []domain.Record, err error)
}

// HashService computes content identity.
type HashService interface {
	// ComputeHash returns the 64-character hex digest of content,
	// or "" when content is empty.
	ComputeHash(content domain.Collection) (string, error)

	// Algorithm reports the digest algorithm in use.
	Algorithm() domain.HashAlgorithm
}
