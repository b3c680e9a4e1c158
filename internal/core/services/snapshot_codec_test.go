package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
)

func allKindsRecord() domain.Record {
	return domain.NewRecord(
		domain.F("null", domain.Null()),
		domain.F("bool", domain.Bool(true)),
		domain.F("int", domain.Int(-7)),
		domain.F("float", domain.Float(1.0)),
		domain.F("string", domain.String("héllo")),
		domain.F("list", domain.List(domain.Int(1), domain.String("two"), domain.List())),
		domain.F("map", domain.Map(domain.F("z", domain.Int(1)), domain.F("a", domain.Float(2.5)))),
	)
}

func TestSnapshotCodec_RoundTripFlat(t *testing.T) {
	content := domain.NewFlatCollection([]domain.Record{allKindsRecord(), allKindsRecord()})

	data, err := encodeSnapshot(content)
	require.NoError(t, err)
	got, err := decodeSnapshot(data)
	require.NoError(t, err)

	require.False(t, got.IsSplit())
	require.Len(t, got.Records, 2)
	assert.True(t, content.Records[0].Equal(got.Records[0]))
	assert.Equal(t, content.Records[0].Keys(), got.Records[0].Keys())

	f, _ := got.Records[0].Get("float")
	assert.Equal(t, domain.KindFloat, f.Kind())
}

func TestSnapshotCodec_RoundTripSplits(t *testing.T) {
	content := domain.NewSplitCollection(map[string][]domain.Record{
		"train": makeRecords(3),
		"test":  {},
	})

	data, err := encodeSnapshot(content)
	require.NoError(t, err)
	got, err := decodeSnapshot(data)
	require.NoError(t, err)

	require.True(t, got.IsSplit())
	assert.Equal(t, []string{"test", "train"}, got.SplitNames())
	assert.Equal(t, seq(1, 3), ids(got.Splits["train"]))
	assert.Empty(t, got.Splits["test"])
}

func TestSnapshotCodec_EmptyFlatStaysDefined(t *testing.T) {
	data, err := encodeSnapshot(domain.NewFlatCollection(nil))
	require.NoError(t, err)

	got, err := decodeSnapshot(data)

	require.NoError(t, err)
	assert.False(t, got.IsEmpty())
	assert.Equal(t, 0, got.Len())
}

func TestSnapshotCodec_HashSurvivesRoundTrip(t *testing.T) {
	h := mustHasher(t, domain.HashBLAKE3)
	content := domain.NewFlatCollection([]domain.Record{allKindsRecord()})

	data, err := encodeSnapshot(content)
	require.NoError(t, err)
	got, err := decodeSnapshot(data)
	require.NoError(t, err)

	before, err := h.ComputeHash(content)
	require.NoError(t, err)
	after, err := h.ComputeHash(got)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEncodeSnapshot_RejectsUndefined(t *testing.T) {
	_, err := encodeSnapshot(domain.Collection{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecodeSnapshot_Garbage(t *testing.T) {
	_, err := decodeSnapshot([]byte("not cbor at all"))

	assert.ErrorIs(t, err, domain.ErrSerialization)
}

func TestDecodeSnapshot_UnknownFormat(t *testing.T) {
	data, err := snapshotEncMode.Marshal(wireSnapshot{Format: 99, Layout: snapshotLayoutFlat})
	require.NoError(t, err)

	_, err = decodeSnapshot(data)

	require.ErrorIs(t, err, domain.ErrSerialization)
	assert.Contains(t, err.Error(), "format 99")
}
