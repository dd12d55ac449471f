// Package analysis implements the duplicate clustering engine.
//
// An Analyzer walks a directory root, extracts content fingerprints through
// the shared cache, and incrementally merges equivalent files into groups
// with a disjoint-set forest. Exact duplicates collapse through a hash
// index; when a similarity threshold below 1 is requested, content
// signatures are additionally compared pairwise within media-kind buckets.
//
// Progress is reported as a count of completed per-file units so observers
// can render completion against the candidate total. The package also owns
// the error taxonomy the transport layer maps onto response statuses.
package analysis
