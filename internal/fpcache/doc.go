// Package fpcache provides the in-memory fingerprint cache shared by
// analysis runs.
//
// Entries are keyed by file path and guarded by the file's size and
// modification time; a file that changes on disk is transparently recomputed.
// The cache holds no on-disk state and is discarded with the process.
package fpcache
