// Package daemon hosts the dupescan background process: the coordinator, the
// HTTP API surface, and single-instance lock enforcement.
//
// The API adapter translates transport requests into coordinator commands:
// analyze submissions, poll lookups, server-sent progress streams, directory
// listings, and media previews. Task failures surface as completed-with-error
// task states, never as transport failures; only unknown task ids map to 404.
package daemon
