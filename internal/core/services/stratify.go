package services

import (
	"fmt"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// labelGroup collects the records sharing one label.
type labelGroup struct {
	label   domain.Value
	records []domain.Record
}

// StratifiedTwoWaySplit splits records so that each label value keeps its
// share in both parts. Groups are visited in first-appearance order.
//
// With a seed, every group is shuffled by its own generator built from that
// same seed, so groups of equal size receive identical permutations. Without
// a seed one entropy generator is shared across groups.
func (s *PartitionService) StratifiedTwoWaySplit(
	records []domain.Record,
	labelKey string,
	ratio float64,
	opts domain.SplitOptions,
) (train, test []domain.Record, err error) {
	if labelKey == "" {
		return nil, nil, fmt.Errorf("%w: label key is empty", domain.ErrInvalidInput)
	}
	if err := validateTwoWayRatio(ratio); err != nil {
		return nil, nil, err
	}

	groups, err := groupByLabel(records, labelKey)
	if err != nil {
		return nil, nil, err
	}

	var shared *Generator
	if opts.Shuffle && opts.Seed == nil {
		shared = NewGenerator(nil)
	}

	train = make([]domain.Record, 0, len(records))
	test = make([]domain.Record, 0, len(records))
	for _, g := range groups {
		items := prepareRecords(g.records, opts, shared)
		first, second := cutTwoWay(items, ratio)
		train = append(train, first...)
		test = append(test, second...)
	}
	return train, test, nil
}

// groupByLabel buckets records by the canonical encoding of their label so
// that equal labels of different Go representations land together.
func groupByLabel(records []domain.Record, labelKey string) ([]*labelGroup, error) {
	var groups []*labelGroup
	index := make(map[string]*labelGroup)

	for i, r := range records {
		label, ok := r.Get(labelKey)
		if !ok {
			return nil, fmt.Errorf("%w: record %d has no label %q", domain.ErrInvalidInput, i, labelKey)
		}
		key, err := canonicalKey(label)
		if err != nil {
			return nil, fmt.Errorf("record %d label: %w", i, err)
		}
		g, ok := index[key]
		if !ok {
			g = &labelGroup{label: label}
			index[key] = g
			groups = append(groups, g)
		}
		g.records = append(g.records, r)
	}
	return groups, nil
}
