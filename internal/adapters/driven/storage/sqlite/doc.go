// Package sqlite provides SQLite-backed implementations of the version
// history and lineage stores.
//
// All stores share one database file, curator.db, under the data
// directory. The connection runs in WAL mode with a busy timeout so that
// several processes can append to the same history; appends are guarded by
// the (dataset, seq) primary key rather than by process-local locks.
//
// The driver is modernc.org/sqlite, a pure Go port of SQLite.
package sqlite
