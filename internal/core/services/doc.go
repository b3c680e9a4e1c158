// Package services implements the driving port interfaces.
// Services contain the core logic (partitioning, hashing, versioning,
// lineage) and orchestrate calls to driven ports (adapters).
//
// Partitioning and hashing are synchronous and touch no storage.
// Services are pure Go with no CGO.
package services
