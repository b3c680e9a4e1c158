package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// labelled returns records with ids 1..len(labels) carrying the labels.
func labelled(labels ...domain.Value) []domain.Record {
	records := make([]domain.Record, len(labels))
	for i, label := range labels {
		records[i] = domain.NewRecord(
			domain.F("id", domain.Int(int64(i+1))),
			domain.F("label", label),
		)
	}
	return records
}

func countLabels(records []domain.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		v, _ := r.Get("label")
		counts[v.String()]++
	}
	return counts
}

func TestPartitionService_StratifiedTwoWaySplit_KeepsProportions(t *testing.T) {
	service := NewPartitionService()

	var labels []domain.Value
	for i := 0; i < 100; i++ {
		if i%10 < 7 {
			labels = append(labels, domain.String("a"))
		} else {
			labels = append(labels, domain.String("b"))
		}
	}

	train, test, err := service.StratifiedTwoWaySplit(labelled(labels...), "label", 0.7, domain.SeededSplitOptions(42))

	require.NoError(t, err)
	assert.Len(t, train, 70)
	assert.Len(t, test, 30)

	trainCounts := countLabels(train)
	testCounts := countLabels(test)
	assert.Equal(t, 49, trainCounts[`"a"`])
	assert.Equal(t, 21, trainCounts[`"b"`])
	assert.Equal(t, 21, testCounts[`"a"`])
	assert.Equal(t, 9, testCounts[`"b"`])

	share := float64(trainCounts[`"a"`]) / float64(len(train))
	assert.InDelta(t, 0.7, share, 0.05)
}

func TestPartitionService_StratifiedTwoWaySplit_SeededIsReproducible(t *testing.T) {
	service := NewPartitionService()

	var labels []domain.Value
	for i := 0; i < 100; i++ {
		if i < 70 {
			labels = append(labels, domain.String("a"))
		} else {
			labels = append(labels, domain.String("b"))
		}
	}
	records := labelled(labels...)

	train, test, err := service.StratifiedTwoWaySplit(records, "label", 0.8, domain.SeededSplitOptions(42))
	require.NoError(t, err)
	assert.Len(t, train, 80)
	assert.Len(t, test, 20)

	trainShare := float64(countLabels(train)[`"a"`]) / float64(len(train))
	testShare := float64(countLabels(test)[`"a"`]) / float64(len(test))
	assert.InDelta(t, 0.7, trainShare, 0.05)
	assert.InDelta(t, 0.7, testShare, 0.05)

	train2, test2, err := service.StratifiedTwoWaySplit(records, "label", 0.8, domain.SeededSplitOptions(42))
	require.NoError(t, err)
	assert.Equal(t, ids(train), ids(train2))
	assert.Equal(t, ids(test), ids(test2))
}

func TestPartitionService_StratifiedTwoWaySplit_GroupOrderIsFirstAppearance(t *testing.T) {
	service := NewPartitionService()
	records := labelled(
		domain.String("z"), domain.String("a"), domain.String("z"), domain.String("a"),
	)

	train, test, err := service.StratifiedTwoWaySplit(records, "label", 0.5, noShuffle())

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(train))
	assert.Equal(t, []int64{3, 4}, ids(test))
}

func TestPartitionService_StratifiedTwoWaySplit_MissingLabel(t *testing.T) {
	service := NewPartitionService()
	records := labelled(domain.String("a"), domain.String("b"))
	records = append(records, domain.NewRecord(domain.F("id", domain.Int(3))))

	_, _, err := service.StratifiedTwoWaySplit(records, "label", 0.5, domain.DefaultSplitOptions())

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "record 2")
}

func TestPartitionService_StratifiedTwoWaySplit_EmptyLabelKey(t *testing.T) {
	service := NewPartitionService()

	_, _, err := service.StratifiedTwoWaySplit(makeRecords(4), "", 0.5, domain.DefaultSplitOptions())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartitionService_StratifiedTwoWaySplit_InvalidRatio(t *testing.T) {
	service := NewPartitionService()

	_, _, err := service.StratifiedTwoWaySplit(labelled(domain.String("a")), "label", 0, domain.DefaultSplitOptions())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartitionService_StratifiedTwoWaySplit_SeededGroupsMoveInLockStep(t *testing.T) {
	service := NewPartitionService()

	// Ten "a" records with ids 1..10 followed by ten "b" records with ids 101..110.
	var records []domain.Record
	for i := int64(1); i <= 10; i++ {
		records = append(records, domain.NewRecord(domain.F("id", domain.Int(i)), domain.F("label", domain.String("a"))))
	}
	for i := int64(101); i <= 110; i++ {
		records = append(records, domain.NewRecord(domain.F("id", domain.Int(i)), domain.F("label", domain.String("b"))))
	}

	train, test, err := service.StratifiedTwoWaySplit(records, "label", 0.5, domain.SeededSplitOptions(42))
	require.NoError(t, err)
	require.Len(t, train, 10)
	require.Len(t, test, 10)

	trainIDs := ids(train)
	testIDs := ids(test)
	for i := 0; i < 5; i++ {
		assert.Equal(t, trainIDs[i]+100, trainIDs[i+5])
		assert.Equal(t, testIDs[i]+100, testIDs[i+5])
	}
}

func TestGroupByLabel_NumericEquivalence(t *testing.T) {
	records := labelled(domain.Int(1), domain.Float(1.0), domain.String("1"), domain.Float(1.5))

	groups, err := groupByLabel(records, "label")

	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].records, 2)
	assert.Len(t, groups[1].records, 1)
	assert.Len(t, groups[2].records, 1)
}

func TestGroupByLabel_NonFiniteLabel(t *testing.T) {
	records := labelled(domain.Float(1), domain.Float(math.NaN()))

	_, err := groupByLabel(records, "label")

	assert.ErrorIs(t, err, domain.ErrSerialization)
}
