package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindMap
	KindList
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a tagged union over the scalar and nested types a record field
// may hold. The zero Value is Null.
//
// Values are immutable: accessors for nested maps and lists return copies.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	fields []Field
	items  []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value(nil), items...)}
}

// Map returns an ordered map value. Duplicate keys keep the first position
// and the last value.
func Map(fields ...Field) Value {
	return Value{kind: KindMap, fields: dedupeFields(fields)}
}

// Kind reports which member is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether the value is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer and whether the value is an int.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float and whether the value is a float.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns a copy of the list items and whether the value is a list.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value(nil), v.items...), true
}

// AsMap returns a copy of the map fields and whether the value is a map.
func (v Value) AsMap() ([]Field, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return append([]Field(nil), v.fields...), true
}

// Len returns the number of items in a list or fields in a map, else 0.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.fields)
	default:
		return 0
	}
}

// Equal reports whether two values have the same kind and content.
// Map field order is significant.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return fieldsEqual(v.fields, other.fields)
	default:
		return false
	}
}

// Interface converts the value to plain Go types: nil, bool, int64,
// float64, string, []any, or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Key] = f.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders the value for display.
func (v Value) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(data)
}

// MarshalJSON encodes the value as JSON, keeping map field order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("%w: non-finite float %v", ErrSerialization, v.f)
		}
		out := strconv.AppendFloat(nil, v.f, 'g', -1, 64)
		if v.f == math.Trunc(v.f) && !containsAny(out, ".eE") {
			out = append(out, ".0"...)
		}
		return out, nil
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		buf := []byte{'['}
		for i, item := range v.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, data...)
		}
		return append(buf, ']'), nil
	case KindMap:
		return marshalFields(v.fields)
	default:
		return nil, fmt.Errorf("%w: unknown value kind %d", ErrSerialization, v.kind)
	}
}

// FromAny converts a plain Go value into a Value. Maps keyed by string are
// converted with their keys sorted, since Go map order carries no meaning.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Record:
		return Map(t.fields...), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: integer %d overflows int64", ErrInvalidInput, t)
		}
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: integer %d overflows int64", ErrInvalidInput, t)
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindList, items: items}, nil
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = String(item)
		}
		return Value{kind: KindList, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			fields = append(fields, Field{Key: k, Value: v})
		}
		return Value{kind: KindMap, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidInput, x)
	}
}

func containsAny(b []byte, chars string) bool {
	for _, c := range b {
		for i := 0; i < len(chars); i++ {
			if c == chars[i] {
				return true
			}
		}
	}
	return false
}
