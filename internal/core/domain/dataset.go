package domain

// Dataset is a named record collection with optional version label, content
// hash, and a stable artifact identity used for cross-system references.
type Dataset struct {
	// Name identifies the dataset. Required for versioning.
	Name string

	// Version is the optional version label this value represents.
	Version string

	// Hash is the content hash if the caller has computed one.
	// The core never caches a hash here on its own.
	Hash string

	// Schema optionally maps field names to type names.
	Schema map[string]string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// ArtifactID is assigned once, lazily, and never reassigned.
	ArtifactID string

	// Content holds the records.
	Content Collection
}

// EnsureArtifactID assigns an artifact id from newID if none is set and
// returns the current id. Repeated calls return the same id.
func (d *Dataset) EnsureArtifactID(newID func() string) string {
	if d.ArtifactID == "" {
		d.ArtifactID = newID()
	}
	return d.ArtifactID
}

// Size returns the total record count.
func (d *Dataset) Size() int {
	return d.Content.Len()
}
