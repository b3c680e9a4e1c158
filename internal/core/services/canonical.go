package services

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// canonicalFormatVersion leads every canonical encoding so the layout can
// change without colliding with existing digests.
const canonicalFormatVersion = 1

const (
	canonicalFlat   = "flat"
	canonicalSplits = "splits"
)

// canonicalEncMode emits RFC 8949 core deterministic CBOR: sorted map keys,
// shortest integer and float forms, definite lengths.
var canonicalEncMode cbor.EncMode

func init() {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("services: canonical cbor mode: " + err.Error())
	}
	canonicalEncMode = mode
}

// encodeCanonical returns the canonical bytes of a collection, or nil for
// undefined content.
func encodeCanonical(c domain.Collection) ([]byte, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	if c.Records != nil && c.Splits != nil {
		return nil, fmt.Errorf("%w: collection has both flat records and splits", domain.ErrInvalidInput)
	}

	var doc []any
	if c.IsSplit() {
		names := c.SplitNames()
		splits := make([]any, 0, len(names))
		for _, name := range names {
			if !utf8.ValidString(name) {
				return nil, fmt.Errorf("%w: split name is not valid UTF-8", domain.ErrSerialization)
			}
			records, err := canonicalRecords(c.Splits[name])
			if err != nil {
				return nil, fmt.Errorf("split %q: %w", name, err)
			}
			splits = append(splits, []any{name, records})
		}
		doc = []any{canonicalFormatVersion, canonicalSplits, splits}
	} else {
		records, err := canonicalRecords(c.Records)
		if err != nil {
			return nil, err
		}
		doc = []any{canonicalFormatVersion, canonicalFlat, records}
	}

	data, err := canonicalEncMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	return data, nil
}

// canonicalKey returns the canonical encoding of a single value as a map
// key. Int 1 and Float 1.0 share a key; Int 1 and String "1" do not.
func canonicalKey(v domain.Value) (string, error) {
	tree, err := canonicalValue(v)
	if err != nil {
		return "", err
	}
	data, err := canonicalEncMode.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	return string(data), nil
}

func canonicalRecords(records []domain.Record) ([]any, error) {
	out := make([]any, len(records))
	for i, r := range records {
		tree, err := canonicalValue(r.AsValue())
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = tree
	}
	return out, nil
}

// canonicalValue lowers a Value to the plain tree the encoder sorts.
func canonicalValue(v domain.Value) (any, error) {
	switch v.Kind() {
	case domain.KindNull:
		return nil, nil
	case domain.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case domain.KindInt:
		i, _ := v.AsInt()
		return i, nil
	case domain.KindFloat:
		f, _ := v.AsFloat()
		return canonicalFloat(f)
	case domain.KindString:
		s, _ := v.AsString()
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("%w: string is not valid UTF-8", domain.ErrSerialization)
		}
		return s, nil
	case domain.KindList:
		items, _ := v.AsList()
		out := make([]any, len(items))
		for i, item := range items {
			tree, err := canonicalValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = tree
		}
		return out, nil
	case domain.KindMap:
		fields, _ := v.AsMap()
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			if !utf8.ValidString(f.Key) {
				return nil, fmt.Errorf("%w: key is not valid UTF-8", domain.ErrSerialization)
			}
			tree, err := canonicalValue(f.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", f.Key, err)
			}
			out[f.Key] = tree
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown value kind %s", domain.ErrSerialization, v.Kind())
	}
}

// canonicalFloat encodes integral floats in int64 range as integers.
func canonicalFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite float %v", domain.ErrSerialization, f)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return f, nil
}
