// Package domain defines the core entities for dataset curation.
//
// This package is the innermost layer of the hexagonal architecture.
// It has NO external dependencies and defines the fundamental types:
//
//   - Value, Record: schema-agnostic, strongly typed dataset examples
//   - Collection: flat or named-split record sequences
//   - Dataset: a named collection with artifact identity
//   - VersionRecord, VersionDiff: immutable version history entries
//   - ArtifactRef, ProvenanceEdge: lineage output for external trackers
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
