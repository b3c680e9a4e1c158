package services

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/custodia-labs/curator/internal/core/domain"
)

// snapshotFormatVersion tags stored snapshots. Unlike the canonical form,
// snapshots keep Int and Float apart and preserve field order so a loaded
// collection equals the one that was saved.
const snapshotFormatVersion = 1

const (
	snapshotLayoutFlat  uint8 = 1
	snapshotLayoutSplit uint8 = 2
)

type wireSnapshot struct {
	Format  uint         `cbor:"1,keyasint"`
	Layout  uint8        `cbor:"2,keyasint"`
	Records []wireRecord `cbor:"3,keyasint,omitempty"`
	Splits  []wireSplit  `cbor:"4,keyasint,omitempty"`
}

type wireSplit struct {
	_       struct{} `cbor:",toarray"`
	Name    string
	Records []wireRecord
}

type wireRecord []wireField

type wireField struct {
	_     struct{} `cbor:",toarray"`
	Key   string
	Value wireValue
}

type wireValue struct {
	Kind   domain.Kind `cbor:"0,keyasint"`
	Bool   bool        `cbor:"1,keyasint,omitempty"`
	Int    int64       `cbor:"2,keyasint,omitempty"`
	Float  float64     `cbor:"3,keyasint,omitempty"`
	String string      `cbor:"4,keyasint,omitempty"`
	Fields []wireField `cbor:"5,keyasint,omitempty"`
	Items  []wireValue `cbor:"6,keyasint,omitempty"`
}

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("services: snapshot cbor encoder: " + err.Error())
	}
	dec, err := cbor.DecOptions{
		MaxNestedLevels:  256,
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("services: snapshot cbor decoder: " + err.Error())
	}
	snapshotEncMode = enc
	snapshotDecMode = dec
}

// encodeSnapshot serialises a collection for storage.
func encodeSnapshot(c domain.Collection) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	snap := wireSnapshot{Format: snapshotFormatVersion}
	if c.IsSplit() {
		snap.Layout = snapshotLayoutSplit
		for _, name := range c.SplitNames() {
			snap.Splits = append(snap.Splits, wireSplit{Name: name, Records: toWireRecords(c.Splits[name])})
		}
	} else {
		snap.Layout = snapshotLayoutFlat
		snap.Records = toWireRecords(c.Records)
	}

	data, err := snapshotEncMode.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding snapshot: %v", domain.ErrSerialization, err)
	}
	return data, nil
}

// decodeSnapshot restores a collection written by encodeSnapshot.
func decodeSnapshot(data []byte) (domain.Collection, error) {
	var snap wireSnapshot
	if err := snapshotDecMode.Unmarshal(data, &snap); err != nil {
		return domain.Collection{}, fmt.Errorf("%w: decoding snapshot: %v", domain.ErrSerialization, err)
	}
	if snap.Format != snapshotFormatVersion {
		return domain.Collection{}, fmt.Errorf("%w: unsupported snapshot format %d", domain.ErrSerialization, snap.Format)
	}

	switch snap.Layout {
	case snapshotLayoutFlat:
		records, err := fromWireRecords(snap.Records)
		if err != nil {
			return domain.Collection{}, err
		}
		return domain.Collection{Records: records}, nil
	case snapshotLayoutSplit:
		splits := make(map[string][]domain.Record, len(snap.Splits))
		for _, s := range snap.Splits {
			records, err := fromWireRecords(s.Records)
			if err != nil {
				return domain.Collection{}, fmt.Errorf("split %q: %w", s.Name, err)
			}
			splits[s.Name] = records
		}
		return domain.Collection{Splits: splits}, nil
	default:
		return domain.Collection{}, fmt.Errorf("%w: unknown snapshot layout %d", domain.ErrSerialization, snap.Layout)
	}
}

func toWireRecords(records []domain.Record) []wireRecord {
	out := make([]wireRecord, len(records))
	for i, r := range records {
		out[i] = toWireFields(r.Fields())
	}
	return out
}

func toWireFields(fields []domain.Field) []wireField {
	out := make([]wireField, len(fields))
	for i, f := range fields {
		out[i] = wireField{Key: f.Key, Value: toWireValue(f.Value)}
	}
	return out
}

func toWireValue(v domain.Value) wireValue {
	w := wireValue{Kind: v.Kind()}
	switch v.Kind() {
	case domain.KindBool:
		w.Bool, _ = v.AsBool()
	case domain.KindInt:
		w.Int, _ = v.AsInt()
	case domain.KindFloat:
		w.Float, _ = v.AsFloat()
	case domain.KindString:
		w.String, _ = v.AsString()
	case domain.KindMap:
		fields, _ := v.AsMap()
		w.Fields = toWireFields(fields)
	case domain.KindList:
		items, _ := v.AsList()
		w.Items = make([]wireValue, len(items))
		for i, item := range items {
			w.Items[i] = toWireValue(item)
		}
	}
	return w
}

func fromWireRecords(records []wireRecord) ([]domain.Record, error) {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		fields, err := fromWireFields(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = domain.NewRecord(fields...)
	}
	return out, nil
}

func fromWireFields(fields []wireField) ([]domain.Field, error) {
	out := make([]domain.Field, len(fields))
	for i, f := range fields {
		v, err := fromWireValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", f.Key, err)
		}
		out[i] = domain.F(f.Key, v)
	}
	return out, nil
}

func fromWireValue(w wireValue) (domain.Value, error) {
	switch w.Kind {
	case domain.KindNull:
		return domain.Null(), nil
	case domain.KindBool:
		return domain.Bool(w.Bool), nil
	case domain.KindInt:
		return domain.Int(w.Int), nil
	case domain.KindFloat:
		return domain.Float(w.Float), nil
	case domain.KindString:
		return domain.String(w.String), nil
	case domain.KindMap:
		fields, err := fromWireFields(w.Fields)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Map(fields...), nil
	case domain.KindList:
		items := make([]domain.Value, len(w.Items))
		for i, item := range w.Items {
			v, err := fromWireValue(item)
			if err != nil {
				return domain.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return domain.List(items...), nil
	default:
		return domain.Value{}, fmt.Errorf("%w: unknown value kind %d", domain.ErrSerialization, uint8(w.Kind))
	}
}
