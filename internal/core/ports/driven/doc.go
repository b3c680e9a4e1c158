// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VersionStore: append-only version history and dataset identity
//   - SnapshotStore: atomic snapshot persistence
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
//   - LineageStore: artifact reference and edge persistence. Without it,
//     lineage output is returned to the caller but not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
