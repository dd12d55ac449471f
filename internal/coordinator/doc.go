// Package coordinator serializes all task registry access through a single
// command loop.
//
// The loop owns the generic task manager, the shared analyzer, and the
// fingerprint cache, constructed once at startup. Submit, subscribe, poll,
// and cancel requests travel over a command channel and are processed in
// arrival order, so the registry needs no locks; each submitted analysis
// runs on its own goroutine and communicates back only through its progress
// slot and completion record. Errors inside one task never unwind into the
// loop or affect other tasks.
package coordinator
