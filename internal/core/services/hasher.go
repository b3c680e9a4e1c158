package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driving"
)

// Ensure Hasher implements the interface.
var _ driving.HashService = (*Hasher)(nil)

// Hasher computes content-addressed digests of collections. The digest
// depends only on content: equal collections hash equally across runs and
// processes.
type Hasher struct {
	algorithm domain.HashAlgorithm
}

// NewHasher creates a hasher for the given algorithm. An empty algorithm
// selects sha256.
func NewHasher(algorithm domain.HashAlgorithm) (*Hasher, error) {
	if algorithm == "" {
		algorithm = domain.HashSHA256
	}
	if !algorithm.IsValid() {
		return nil, fmt.Errorf("%w: unknown hash algorithm %q", domain.ErrInvalidInput, algorithm)
	}
	return &Hasher{algorithm: algorithm}, nil
}

// Algorithm returns the digest algorithm in use.
func (h *Hasher) Algorithm() domain.HashAlgorithm {
	return h.algorithm
}

// ComputeHash returns the lowercase hex digest of the canonical encoding,
// or "" when the collection is undefined or holds no records.
func (h *Hasher) ComputeHash(content domain.Collection) (string, error) {
	data, err := encodeCanonical(content)
	if err != nil {
		return "", err
	}
	if data == nil || content.Len() == 0 {
		return "", nil
	}

	var sum [32]byte
	switch h.algorithm {
	case domain.HashBLAKE3:
		sum = blake3.Sum256(data)
	default:
		sum = sha256.Sum256(data)
	}
	return hex.EncodeToString(sum[:]), nil
}

// ComputeDatasetHash hashes a dataset's content. The result is not stored
// on the dataset.
func (h *Hasher) ComputeDatasetHash(dataset *domain.Dataset) (string, error) {
	if dataset == nil {
		return "", fmt.Errorf("%w: dataset is nil", domain.ErrInvalidInput)
	}
	return h.ComputeHash(dataset.Content)
}
