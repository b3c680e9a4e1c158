// Package storagetest holds behaviour suites shared by every driven store
// implementation, so that the memory, SQLite, and filesystem adapters are
// held to the same contract.
package storagetest
