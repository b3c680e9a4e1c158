package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested dataset or version does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a version label is already recorded.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates a caller argument is malformed: ratios not
	// summing to one, k out of range, a missing stratification key.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a required store is not configured.
	ErrNotImplemented = errors.New("not implemented")

	// ErrSerialization indicates content has no deterministic byte form.
	// Nothing is written when it occurs.
	ErrSerialization = errors.New("serialization failure")

	// ErrConcurrencyConflict indicates another writer appended to the same
	// history first. The caller may retry the operation.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrIntegrity indicates stored content no longer matches its recorded hash.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrCycle indicates a provenance graph contains a cycle.
	ErrCycle = errors.New("provenance cycle")
)
