package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dupescan/internal/logging"
)

// Response is the tagged poll answer for one task.
type Response[P, R any] struct {
	// Completed reports which arm is valid: Progress while running, Result
	// once finished.
	Completed bool
	Progress  P
	Result    R
}

type task[P, R any] struct {
	progress *watch[P]
	cancel   context.CancelFunc

	mu        sync.Mutex
	completed bool
	result    R
}

func (t *task[P, R]) complete(result R) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.completed = true
	t.result = result
}

func (t *task[P, R]) state() (R, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.completed
}

// Manager is a registry of background tasks generic over the id, progress,
// and result types. It guarantees at most one execution per id, retains
// results for late pollers, and keeps running work independent of whether
// anyone is watching.
//
// The manager itself is NOT safe for concurrent use: every call must come
// from the single goroutine that owns it (the coordinator's command loop).
// Each task's internal state carries its own synchronization so the work
// goroutine can publish progress and record completion without touching the
// registry.
type Manager[K comparable, P, R any] struct {
	logger *slog.Logger
	tasks  map[K]*task[P, R]
}

// NewManager constructs an empty registry.
func NewManager[K comparable, P, R any](logger *slog.Logger) *Manager[K, P, R] {
	return &Manager[K, P, R]{
		logger: logging.NewComponentLogger(logger, "tasks"),
		tasks:  make(map[K]*task[P, R]),
	}
}

// Submit registers id and starts work on its own goroutine immediately. The
// work function receives a context cancelled by Cancel (or the parent ctx)
// and a publish callback for progress values; its return value becomes the
// task's retained result. A duplicate id is an invariant violation and is
// rejected without starting anything.
func (m *Manager[K, P, R]) Submit(ctx context.Context, id K, work func(ctx context.Context, publish func(P)) R) error {
	if _, exists := m.tasks[id]; exists {
		return fmt.Errorf("tasks: duplicate id %v", id)
	}

	workCtx, cancel := context.WithCancel(ctx)
	var initial P
	t := &task[P, R]{
		progress: newWatch(initial),
		cancel:   cancel,
	}
	m.tasks[id] = t

	go func() {
		defer cancel()
		result := work(workCtx, t.progress.publish)
		t.complete(result)
		t.progress.close()
	}()

	return nil
}

// Progress returns a live receiver for id's progress. The receiver yields
// the latest value immediately, then subsequent updates; delivery is
// latest-eventually, not every intermediate tick.
func (m *Manager[K, P, R]) Progress(id K) (*Receiver[P], bool) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, false
	}
	return t.progress.receiver(), true
}

// Poll reports the task's current state. Once a task completes, every later
// poll returns the same completed response.
func (m *Manager[K, P, R]) Poll(id K) (Response[P, R], bool) {
	t, ok := m.tasks[id]
	if !ok {
		return Response[P, R]{}, false
	}
	if result, done := t.state(); done {
		return Response[P, R]{Completed: true, Result: result}, true
	}
	return Response[P, R]{Progress: t.progress.latest()}, true
}

// Cancel trips the task's context. Work observes the cancellation at its
// next progress unit and completes with a cancellation result; a task that
// already completed is unaffected. It reports whether id is known.
func (m *Manager[K, P, R]) Cancel(id K) bool {
	t, ok := m.tasks[id]
	if !ok {
		return false
	}
	t.cancel()
	return true
}

// Len returns the number of registered tasks, running or completed.
func (m *Manager[K, P, R]) Len() int {
	return len(m.tasks)
}
