package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageSQLite.IsValid())
	assert.True(t, StorageMemory.IsValid())
	assert.False(t, StorageBackend("postgres").IsValid())
	assert.False(t, StorageBackend("").IsValid())
}

func TestCompression_IsValid(t *testing.T) {
	for _, c := range AllCompressions() {
		assert.True(t, c.IsValid(), c.String())
	}
	assert.False(t, Compression("gzip").IsValid())
}

func TestHashAlgorithm_IsValid(t *testing.T) {
	for _, a := range AllHashAlgorithms() {
		assert.True(t, a.IsValid(), a.String())
	}
	assert.False(t, HashAlgorithm("md5").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, StorageSQLite, settings.Storage.Backend)
	assert.Empty(t, settings.Storage.DataDir)
	assert.Equal(t, CompressionZstd, settings.Snapshot.Compression)
	assert.Equal(t, HashSHA256, settings.Hashing.Algorithm)
	assert.Empty(t, settings.Lineage.URIPrefix)
}
