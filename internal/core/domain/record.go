package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one key/value entry of a Record or map Value.
type Field struct {
	Key   string
	Value Value
}

// F is shorthand for building a Field.
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Record is one dataset example: an ordered mapping of field name to Value.
// The core treats records as opaque apart from key lookup during
// stratification and canonical serialisation during hashing.
//
// Records are immutable once built. Copying a Record is cheap and safe.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields. A repeated key keeps the position
// of its first occurrence and the value of its last.
func NewRecord(fields ...Field) Record {
	return Record{fields: dedupeFields(fields)}
}

// RecordFromMap builds a record from a Go map. Keys are sorted because map
// iteration order carries no meaning.
func RecordFromMap(m map[string]any) (Record, error) {
	v, err := FromAny(m)
	if err != nil {
		return Record{}, err
	}
	return Record{fields: v.fields}, nil
}

// Get returns the value at key.
func (r Record) Get(key string) (Value, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Keys returns field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the fields in order.
func (r Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Equal reports whether both records hold the same fields in the same order.
func (r Record) Equal(other Record) bool {
	return fieldsEqual(r.fields, other.fields)
}

// AsValue returns the record as a map Value.
func (r Record) AsValue() Value {
	return Value{kind: KindMap, fields: r.fields}
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	return marshalFields(r.fields)
}

func marshalFields(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func dedupeFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := index[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}
