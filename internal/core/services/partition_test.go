package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
)

func noShuffle() domain.SplitOptions {
	return domain.SplitOptions{Shuffle: false}
}

func TestPartitionService_TwoWaySplit_NoShuffle(t *testing.T) {
	service := NewPartitionService()

	first, second, err := service.TwoWaySplit(makeRecords(100), 0.8, noShuffle())

	require.NoError(t, err)
	assert.Equal(t, seq(1, 80), ids(first))
	assert.Equal(t, seq(81, 100), ids(second))
}

func TestPartitionService_TwoWaySplit_RoundsHalfUp(t *testing.T) {
	service := NewPartitionService()

	first, second, err := service.TwoWaySplit(makeRecords(5), 0.5, noShuffle())

	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Len(t, second, 2)
}

func TestPartitionService_TwoWaySplit_RatioOne(t *testing.T) {
	service := NewPartitionService()

	first, second, err := service.TwoWaySplit(makeRecords(7), 1, domain.SeededSplitOptions(1))

	require.NoError(t, err)
	assert.Len(t, first, 7)
	assert.Empty(t, second)
}

func TestPartitionService_TwoWaySplit_InvalidRatio(t *testing.T) {
	service := NewPartitionService()

	for _, ratio := range []float64{0, -0.1, 1.5, math.NaN()} {
		_, _, err := service.TwoWaySplit(makeRecords(10), ratio, noShuffle())
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "ratio %v", ratio)
	}
}

func TestPartitionService_TwoWaySplit_EmptyInput(t *testing.T) {
	service := NewPartitionService()

	first, second, err := service.TwoWaySplit(nil, 0.5, domain.DefaultSplitOptions())

	require.NoError(t, err)
	assert.Empty(t, first)
	assert.Empty(t, second)
}

func TestPartitionService_TwoWaySplit_SeededIsReproducible(t *testing.T) {
	service := NewPartitionService()
	records := makeRecords(50)

	a1, b1, err := service.TwoWaySplit(records, 0.7, domain.SeededSplitOptions(42))
	require.NoError(t, err)
	a2, b2, err := service.TwoWaySplit(records, 0.7, domain.SeededSplitOptions(42))
	require.NoError(t, err)

	assert.Equal(t, ids(a1), ids(a2))
	assert.Equal(t, ids(b1), ids(b2))
}

func TestPartitionService_TwoWaySplit_CoversInputExactlyOnce(t *testing.T) {
	service := NewPartitionService()
	records := makeRecords(37)

	first, second, err := service.TwoWaySplit(records, 0.3, domain.SeededSplitOptions(5))
	require.NoError(t, err)

	assert.Len(t, first, 11)
	assert.Len(t, second, 26)
	assert.ElementsMatch(t, seq(1, 37), append(ids(first), ids(second)...))
}

func TestPartitionService_TwoWaySplit_DoesNotMutateInput(t *testing.T) {
	service := NewPartitionService()
	records := makeRecords(20)

	_, _, err := service.TwoWaySplit(records, 0.5, domain.SeededSplitOptions(8))

	require.NoError(t, err)
	assert.Equal(t, seq(1, 20), ids(records))
}

func TestPartitionService_TwoWaySplit_PartsAreIndependent(t *testing.T) {
	service := NewPartitionService()

	first, second, err := service.TwoWaySplit(makeRecords(10), 0.5, noShuffle())
	require.NoError(t, err)

	first = append(first, domain.NewRecord(domain.F("id", domain.Int(999))))
	assert.Len(t, first, 6)
	assert.Equal(t, seq(6, 10), ids(second))
}

func TestPartitionService_ThreeWaySplit(t *testing.T) {
	service := NewPartitionService()

	a, b, c, err := service.ThreeWaySplit(makeRecords(100), [3]float64{0.7, 0.15, 0.15}, noShuffle())

	require.NoError(t, err)
	assert.Equal(t, seq(1, 70), ids(a))
	assert.Equal(t, seq(71, 85), ids(b))
	assert.Equal(t, seq(86, 100), ids(c))
}

func TestPartitionService_ThreeWaySplit_RatiosMustSumToOne(t *testing.T) {
	service := NewPartitionService()

	_, _, _, err := service.ThreeWaySplit(makeRecords(10), [3]float64{0.5, 0.3, 0.1}, noShuffle())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartitionService_ThreeWaySplit_RatioSumTolerance(t *testing.T) {
	service := NewPartitionService()

	tests := []struct {
		name    string
		ratios  [3]float64
		wantErr bool
	}{
		{"decimal sum", [3]float64{0.7, 0.15, 0.15}, false},
		{"just inside above", [3]float64{0.5, 0.3, 0.2 + 5e-10}, false},
		{"just inside below", [3]float64{0.5, 0.3, 0.2 - 5e-10}, false},
		{"just outside above", [3]float64{0.5, 0.3, 0.2 + 2e-9}, true},
		{"just outside below", [3]float64{0.5, 0.3, 0.2 - 2e-9}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := service.ThreeWaySplit(makeRecords(10), tt.ratios, noShuffle())
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPartitionService_ThreeWaySplit_RatioOutOfRange(t *testing.T) {
	service := NewPartitionService()

	_, _, _, err := service.ThreeWaySplit(makeRecords(10), [3]float64{1.2, -0.1, -0.1}, noShuffle())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartitionService_ThreeWaySplit_SecondPartClampedToRemainder(t *testing.T) {
	service := NewPartitionService()

	a, b, c, err := service.ThreeWaySplit(makeRecords(3), [3]float64{0.5, 0.5, 0}, noShuffle())

	require.NoError(t, err)
	assert.Len(t, a, 2)
	assert.Len(t, b, 1)
	assert.Empty(t, c)
}

func TestPartitionService_ThreeWaySplit_CoversInput(t *testing.T) {
	service := NewPartitionService()

	a, b, c, err := service.ThreeWaySplit(makeRecords(41), [3]float64{0.6, 0.2, 0.2}, domain.SeededSplitOptions(11))
	require.NoError(t, err)

	all := append(append(ids(a), ids(b)...), ids(c)...)
	assert.ElementsMatch(t, seq(1, 41), all)
}

func TestPartitionService_KFold(t *testing.T) {
	service := NewPartitionService()

	folds, err := service.KFold(makeRecords(50), 5, noShuffle())

	require.NoError(t, err)
	require.Len(t, folds, 5)
	for i, fold := range folds {
		start := int64(i*10 + 1)
		assert.Equal(t, i, fold.Index)
		assert.Equal(t, seq(start, start+9), ids(fold.Test))
		assert.Len(t, fold.Train, 40)
		assert.ElementsMatch(t, seq(1, 50), append(ids(fold.Train), ids(fold.Test)...))
	}
}

func TestPartitionService_KFold_LastFoldTakesRemainder(t *testing.T) {
	service := NewPartitionService()

	folds, err := service.KFold(makeRecords(10), 3, noShuffle())

	require.NoError(t, err)
	require.Len(t, folds, 3)
	assert.Equal(t, []int64{1, 2, 3}, ids(folds[0].Test))
	assert.Equal(t, []int64{4, 5, 6}, ids(folds[1].Test))
	assert.Equal(t, []int64{7, 8, 9, 10}, ids(folds[2].Test))
	assert.Equal(t, []int64{1, 2, 3, 7, 8, 9, 10}, ids(folds[1].Train))
}

func TestPartitionService_KFold_TestPartsPartitionInput(t *testing.T) {
	service := NewPartitionService()

	folds, err := service.KFold(makeRecords(23), 4, domain.SeededSplitOptions(3))
	require.NoError(t, err)

	var tested []int64
	for _, fold := range folds {
		tested = append(tested, ids(fold.Test)...)
	}
	assert.ElementsMatch(t, seq(1, 23), tested)
}

func TestPartitionService_KFold_InvalidK(t *testing.T) {
	service := NewPartitionService()

	tests := []struct {
		name string
		k    int
	}{
		{"zero", 0},
		{"negative", -1},
		{"more than records", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.KFold(makeRecords(10), tt.k, noShuffle())
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPartitionService_KFold_KEqualsLen(t *testing.T) {
	service := NewPartitionService()

	folds, err := service.KFold(makeRecords(4), 4, noShuffle())

	require.NoError(t, err)
	require.Len(t, folds, 4)
	for _, fold := range folds {
		assert.Len(t, fold.Test, 1)
		assert.Len(t, fold.Train, 3)
	}
}
