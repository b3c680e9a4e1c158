package domain

// StorageBackend selects where version history and lineage are kept.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists history in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps history for the lifetime of the process.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Compression identifies the snapshot compression algorithm.
type Compression string

// Available compression algorithms.
const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// IsValid returns true if the compression is recognised.
func (c Compression) IsValid() bool {
	switch c {
	case CompressionNone, CompressionZstd, CompressionLZ4:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Compression) String() string {
	return string(c)
}

// HashAlgorithm identifies the content digest algorithm.
// Both produce 64 hex characters.
type HashAlgorithm string

// Available hash algorithms.
const (
	HashSHA256 HashAlgorithm = "sha256"
	HashBLAKE3 HashAlgorithm = "blake3"
)

// IsValid returns true if the algorithm is recognised.
func (a HashAlgorithm) IsValid() bool {
	return a == HashSHA256 || a == HashBLAKE3
}

// String returns the string representation.
func (a HashAlgorithm) String() string {
	return string(a)
}

// StorageSettings configures persistence.
type StorageSettings struct {
	// DataDir holds the database and snapshots. Empty means ~/.curator/data.
	DataDir string

	// Backend selects the history store.
	Backend StorageBackend
}

// SnapshotSettings configures snapshot files.
type SnapshotSettings struct {
	Compression Compression
}

// HashingSettings configures the content hasher.
type HashingSettings struct {
	Algorithm HashAlgorithm
}

// LineageSettings configures artifact references.
type LineageSettings struct {
	// URIPrefix is prepended to generated locators, e.g. "dataset://".
	URIPrefix string
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Storage  StorageSettings
	Snapshot SnapshotSettings
	Hashing  HashingSettings
	Lineage  LineageSettings
}

// DefaultAppSettings returns settings with default values.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Snapshot: SnapshotSettings{
			Compression: CompressionZstd,
		},
		Hashing: HashingSettings{
			Algorithm: HashSHA256,
		},
	}
}

// AllCompressions returns all supported compression algorithms.
func AllCompressions() []Compression {
	return []Compression{CompressionZstd, CompressionLZ4, CompressionNone}
}

// AllHashAlgorithms returns all supported hash algorithms.
func AllHashAlgorithms() []HashAlgorithm {
	return []HashAlgorithm{HashSHA256, HashBLAKE3}
}
