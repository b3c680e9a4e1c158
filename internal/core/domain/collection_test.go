package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollection_Flat(t *testing.T) {
	records := []Record{NewRecord(F("id", Int(1))), NewRecord(F("id", Int(2)))}
	c := NewFlatCollection(records)
	records[0] = NewRecord(F("id", Int(9)))

	assert.False(t, c.IsSplit())
	assert.False(t, c.IsEmpty())
	assert.NoError(t, c.Validate())
	assert.Equal(t, 2, c.Len())
	assert.Nil(t, c.SplitNames())
	v, _ := c.Records[0].Get("id")
	assert.True(t, v.Equal(Int(1)))
}

func TestCollection_FlatEmptyIsDefined(t *testing.T) {
	c := NewFlatCollection(nil)
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 0, c.Len())
}

func TestCollection_Splits(t *testing.T) {
	c := NewSplitCollection(map[string][]Record{
		"train": {NewRecord(F("id", Int(1))), NewRecord(F("id", Int(2)))},
		"test":  {NewRecord(F("id", Int(3)))},
	})

	assert.True(t, c.IsSplit())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"test", "train"}, c.SplitNames())
	assert.NoError(t, c.Validate())
}

func TestCollection_Validate(t *testing.T) {
	var empty Collection
	assert.ErrorIs(t, empty.Validate(), ErrInvalidInput)

	both := Collection{
		Records: []Record{},
		Splits:  map[string][]Record{"train": nil},
	}
	assert.ErrorIs(t, both.Validate(), ErrInvalidInput)
}

func TestDataset_EnsureArtifactID(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		return "id-1"
	}
	ds := &Dataset{Name: "d"}

	assert.Equal(t, "id-1", ds.EnsureArtifactID(gen))
	assert.Equal(t, "id-1", ds.EnsureArtifactID(func() string { return "id-2" }))
	assert.Equal(t, 1, calls)
}
