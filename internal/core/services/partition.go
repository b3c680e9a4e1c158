package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driving"
)

// Ensure PartitionService implements the interface.
var _ driving.PartitionService = (*PartitionService)(nil)

// PartitionService splits record sequences into train/validation/test
// partitions and k folds. It holds no state; every call owns its generator.
type PartitionService struct{}

// NewPartitionService creates a new partition service.
func NewPartitionService() *PartitionService {
	return &PartitionService{}
}

// TwoWaySplit divides records into two parts. The first receives
// round(len*ratio) records, rounding half up.
func (s *PartitionService) TwoWaySplit(
	records []domain.Record,
	ratio float64,
	opts domain.SplitOptions,
) (first, second []domain.Record, err error) {
	if err := validateTwoWayRatio(ratio); err != nil {
		return nil, nil, err
	}

	items := prepareRecords(records, opts, nil)
	first, second = cutTwoWay(items, ratio)
	return first, second, nil
}

// ThreeWaySplit divides records into three parts sized by ratios, which
// must sum to one.
func (s *PartitionService) ThreeWaySplit(
	records []domain.Record,
	ratios [3]float64,
	opts domain.SplitOptions,
) (a, b, c []domain.Record, err error) {
	sum := 0.0
	for i, r := range ratios {
		if math.IsNaN(r) || r < 0 || r > 1 {
			return nil, nil, nil, fmt.Errorf("%w: ratio %d is %v, want value in [0, 1]", domain.ErrInvalidInput, i, r)
		}
		sum += r
	}
	if math.Abs(sum-1) > domain.RatioTolerance {
		return nil, nil, nil, fmt.Errorf("%w: ratios %v sum to %v, want 1", domain.ErrInvalidInput, ratios, sum)
	}

	items := prepareRecords(records, opts, nil)
	total := len(items)
	sizeA := clamp(roundHalfUp(float64(total)*ratios[0]), 0, total)
	sizeB := min(roundHalfUp(float64(total)*ratios[1]), total-sizeA)

	a = items[:sizeA:sizeA]
	b = items[sizeA : sizeA+sizeB : sizeA+sizeB]
	c = items[sizeA+sizeB:]
	return a, b, c, nil
}

// KFold produces k train/test folds. Each fold's test part is a contiguous
// run of total/k records; the last fold absorbs the remainder.
func (s *PartitionService) KFold(
	records []domain.Record,
	k int,
	opts domain.SplitOptions,
) ([]domain.Fold, error) {
	if k < 1 || k > len(records) {
		return nil, fmt.Errorf("%w: k=%d with %d records, want 1 <= k <= n", domain.ErrInvalidInput, k, len(records))
	}

	items := prepareRecords(records, opts, nil)
	total := len(items)
	foldSize := total / k

	folds := make([]domain.Fold, 0, k)
	for i := 0; i < k; i++ {
		start := i * foldSize
		end := start + foldSize
		if i == k-1 {
			end = total
		}

		test := append([]domain.Record(nil), items[start:end]...)
		train := make([]domain.Record, 0, total-len(test))
		train = append(train, items[:start]...)
		train = append(train, items[end:]...)

		folds = append(folds, domain.Fold{Index: i, Train: train, Test: test})
	}
	return folds, nil
}

// validateTwoWayRatio accepts ratios in (0, 1].
func validateTwoWayRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return fmt.Errorf("%w: ratio %v, want value in (0, 1]", domain.ErrInvalidInput, ratio)
	}
	return nil
}

// prepareRecords copies records and shuffles the copy when requested.
// A nil gen makes a fresh generator from opts.
func prepareRecords(records []domain.Record, opts domain.SplitOptions, gen *Generator) []domain.Record {
	items := make([]domain.Record, len(records))
	copy(items, records)
	if !opts.Shuffle {
		return items
	}
	if gen == nil {
		gen = NewGenerator(opts.Seed)
	}
	gen.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return items
}

// cutTwoWay splits items at round(len*ratio). The first slice is capped so
// appending to it never overwrites the second.
func cutTwoWay(items []domain.Record, ratio float64) (first, second []domain.Record) {
	point := clamp(roundHalfUp(float64(len(items))*ratio), 0, len(items))
	return items[:point:point], items[point:]
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
