package domain

import (
	"fmt"
	"sort"
)

// Collection is the content of a dataset snapshot: either a flat ordered
// sequence of records or a mapping of split name to sequence.
// Exactly one representation is populated.
type Collection struct {
	// Records is the flat representation.
	Records []Record

	// Splits is the named-split representation.
	Splits map[string][]Record
}

// NewFlatCollection returns a flat collection over a copy of records.
func NewFlatCollection(records []Record) Collection {
	if records == nil {
		records = []Record{}
	}
	return Collection{Records: append([]Record{}, records...)}
}

// NewSplitCollection returns a split collection over copies of each split.
func NewSplitCollection(splits map[string][]Record) Collection {
	out := make(map[string][]Record, len(splits))
	for name, records := range splits {
		out[name] = append([]Record{}, records...)
	}
	return Collection{Splits: out}
}

// IsSplit reports whether the named-split representation is populated.
func (c Collection) IsSplit() bool {
	return c.Splits != nil
}

// IsEmpty reports whether neither representation is populated.
// A flat collection with zero records is still considered defined.
func (c Collection) IsEmpty() bool {
	return c.Records == nil && c.Splits == nil
}

// Validate checks that exactly one representation is populated.
func (c Collection) Validate() error {
	if c.Records != nil && c.Splits != nil {
		return fmt.Errorf("%w: collection has both flat records and splits", ErrInvalidInput)
	}
	if c.IsEmpty() {
		return fmt.Errorf("%w: collection is empty", ErrInvalidInput)
	}
	return nil
}

// Len returns the total number of records across all splits.
func (c Collection) Len() int {
	if c.Splits == nil {
		return len(c.Records)
	}
	total := 0
	for _, records := range c.Splits {
		total += len(records)
	}
	return total
}

// SplitNames returns split names in sorted order, or nil for a flat collection.
func (c Collection) SplitNames() []string {
	if c.Splits == nil {
		return nil
	}
	names := make([]string, 0, len(c.Splits))
	for name := range c.Splits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
