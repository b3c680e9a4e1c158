// Package filesystem stores dataset snapshots as compressed files under a
// data directory, one file per version:
//
//	<root>/<escaped dataset name>/<escaped version>.snap
//
// Every file starts with a small header naming the compression algorithm
// and the uncompressed length, so files written under one compression
// setting stay readable after the setting changes.
package filesystem
