// Package tasks provides a generic registry for long-running background
// work with progress broadcasting and retained results.
//
// A Manager maps opaque ids to running or completed tasks. Each submitted
// task executes exactly once on its own goroutine, publishes progress into a
// latest-value broadcast slot that any number of receivers can follow, and
// records an irrevocable result that stays available for late pollers.
//
// The registry is deliberately unsynchronized: a single owning goroutine
// (the coordinator command loop) serializes Submit/Progress/Poll/Cancel,
// which removes the need for locks around the id map.
package tasks
