package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_KeepsOrder(t *testing.T) {
	r := NewRecord(F("id", Int(1)), F("text", String("hello")), F("label", String("pos")))

	assert.Equal(t, []string{"id", "text", "label"}, r.Keys())
	assert.Equal(t, 3, r.Len())

	v, ok := r.Get("text")
	require.True(t, ok)
	assert.True(t, v.Equal(String("hello")))

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.False(t, r.Has("missing"))
}

func TestNewRecord_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	r := NewRecord(F("a", Int(1)), F("b", Int(2)), F("a", Int(3)))

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, _ := r.Get("a")
	assert.True(t, v.Equal(Int(3)))
}

func TestNewRecord_CopiesInput(t *testing.T) {
	fields := []Field{F("a", Int(1))}
	r := NewRecord(fields...)
	fields[0].Value = Int(2)

	v, _ := r.Get("a")
	assert.True(t, v.Equal(Int(1)))
}

func TestRecordFromMap_SortsKeys(t *testing.T) {
	r, err := RecordFromMap(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := NewRecord(F("id", Int(3)), F("score", Float(0.5)))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":3,"score":0.5}`, string(data))
}

func TestRecord_Equal(t *testing.T) {
	a := NewRecord(F("id", Int(1)))
	b := NewRecord(F("id", Int(1)))
	c := NewRecord(F("id", Int(2)))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
