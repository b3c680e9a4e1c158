package domain

import "time"

// VersionRecord is an immutable entry in a dataset's version history.
// Only the tag list may grow after creation.
type VersionRecord struct {
	// Version is the caller-chosen label, unique per dataset.
	Version string `json:"version"`

	// Hash is the 64-character hex content hash.
	Hash string `json:"hash"`

	// CreatedAt is when the version was recorded.
	CreatedAt time.Time `json:"created_at"`

	// Size is the total record count.
	Size int `json:"size"`

	// Metadata is a snapshot of the dataset metadata at creation.
	Metadata map[string]any `json:"metadata"`

	// Tags is the append-only label list.
	Tags []string `json:"tags,omitempty"`

	// Snapshot is the key the content is stored under. Each write uses a
	// fresh key, so a snapshot pointed at by a record is never replaced.
	Snapshot string `json:"snapshot,omitempty"`
}

// SnapshotKey returns the snapshot key, falling back to the version label
// for records written before keys were recorded.
func (v *VersionRecord) SnapshotKey() string {
	if v.Snapshot != "" {
		return v.Snapshot
	}
	return v.Version
}

// HasTag reports whether tag is attached to the version.
func (v *VersionRecord) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ValueChange records the old and new value of a changed metadata key.
type ValueChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// MetadataChanges summarises metadata differences between two versions.
type MetadataChanges struct {
	Added   map[string]any         `json:"added"`
	Removed map[string]any         `json:"removed"`
	Changed map[string]ValueChange `json:"changed"`
}

// IsEmpty reports whether no keys differ.
func (m MetadataChanges) IsEmpty() bool {
	return len(m.Added) == 0 && len(m.Removed) == 0 && len(m.Changed) == 0
}

// VersionDiff compares two versions of one dataset. Deltas are second
// minus first.
type VersionDiff struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	HashChanged     bool            `json:"hash_changed"`
	SizeDelta       int             `json:"size_delta"`
	TimeDelta       time.Duration   `json:"time_delta"`
	MetadataChanges MetadataChanges `json:"metadata_changes"`
}
