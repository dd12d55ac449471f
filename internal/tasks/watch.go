package tasks

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Receiver.Next once the publishing task has
// finished and the receiver has observed the final value.
var ErrClosed = errors.New("tasks: progress stream closed")

// watch is a latest-value broadcast slot. Publishing swaps the stored value
// and wakes every waiter by closing the current notification channel;
// receivers that lag simply observe the newest value, so intermediate
// publishes may coalesce and memory stays bounded regardless of reader count.
type watch[P any] struct {
	mu      sync.Mutex
	value   P
	version uint64
	closed  bool
	changed chan struct{}
}

func newWatch[P any](initial P) *watch[P] {
	return &watch[P]{
		value:   initial,
		version: 1,
		changed: make(chan struct{}),
	}
}

func (w *watch[P]) publish(value P) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.value = value
	w.version++
	close(w.changed)
	w.changed = make(chan struct{})
}

// close marks the stream finished and wakes all waiters. The last published
// value stays readable.
func (w *watch[P]) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.changed)
}

func (w *watch[P]) latest() P {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

func (w *watch[P]) receiver() *Receiver[P] {
	return &Receiver[P]{watch: w}
}

// Receiver yields progress values from one task. The first Next call returns
// the current value immediately; later calls block until a newer value is
// published. Multiple receivers over one task coexist independently.
type Receiver[P any] struct {
	watch *watch[P]
	seen  uint64
}

// Next returns the next unobserved value. It returns ErrClosed once the task
// has finished and the final value was already delivered, or the context
// error if ctx ends first.
func (r *Receiver[P]) Next(ctx context.Context) (P, error) {
	for {
		r.watch.mu.Lock()
		if r.watch.version > r.seen {
			value := r.watch.value
			r.seen = r.watch.version
			r.watch.mu.Unlock()
			return value, nil
		}
		if r.watch.closed {
			r.watch.mu.Unlock()
			var zero P
			return zero, ErrClosed
		}
		changed := r.watch.changed
		r.watch.mu.Unlock()

		select {
		case <-ctx.Done():
			var zero P
			return zero, ctx.Err()
		case <-changed:
		}
	}
}
