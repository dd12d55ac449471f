// Package fingerprint computes deterministic per-file content features.
//
// Each fingerprint carries a SHA-256 hash for exact-duplicate detection and a
// fixed-length downsampled signature for near-duplicate scoring. Both are
// produced in a single pass over the file. Extraction dominates analysis
// cost, so results are memoized by the fpcache package keyed on the file's
// Identity (path, size, modification time).
package fingerprint
