package coordinator

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"dupescan/internal/analysis"
	"dupescan/internal/testsupport"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	c := New(cfg, nil)
	t.Cleanup(c.Close)
	return c
}

func waitCompleted(t *testing.T, c *Coordinator, id uuid.UUID) Response {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for {
		resp, err := c.Poll(ctx, id)
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if resp.Completed {
			return resp
		}
		select {
		case <-ctx.Done():
			t.Fatal("task never completed")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestSubmitAndPollLifecycle(t *testing.T) {
	c := newTestCoordinator(t)
	root := t.TempDir()

	dup := bytes.Repeat([]byte("dup "), 4096)
	testsupport.WriteFileContent(t, filepath.Join(root, "a.jpg"), dup)
	testsupport.WriteFileContent(t, filepath.Join(root, "b.jpg"), dup)
	testsupport.WriteFileContent(t, filepath.Join(root, "c.jpg"), []byte("different"))

	id, err := c.Submit(context.Background(), analysis.Request{Root: root})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resp := waitCompleted(t, c, id)
	if resp.Result.Err != nil {
		t.Fatalf("task failed: %v", resp.Result.Err)
	}
	if len(resp.Result.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(resp.Result.Groups))
	}

	// Completed polls stay identical.
	again, err := c.Poll(context.Background(), id)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !again.Completed || len(again.Result.Groups) != 2 {
		t.Error("completed poll changed on repeat")
	}
}

func TestPollUnknownID(t *testing.T) {
	c := newTestCoordinator(t)

	_, err := c.Poll(context.Background(), uuid.New())
	if !errors.Is(err, analysis.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	_, err = c.Subscribe(context.Background(), uuid.New())
	if !errors.Is(err, analysis.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	err = c.Cancel(context.Background(), uuid.New())
	if !errors.Is(err, analysis.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestFailedAnalysisIsRetained(t *testing.T) {
	c := newTestCoordinator(t)

	id, err := c.Submit(context.Background(), analysis.Request{
		Root: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resp := waitCompleted(t, c, id)
	if !errors.Is(resp.Result.Err, analysis.ErrIO) {
		t.Fatalf("result err = %v, want ErrIO", resp.Result.Err)
	}

	// The loop survived; later polls still find the failure.
	resp, err = c.Poll(context.Background(), id)
	if err != nil {
		t.Fatalf("Poll after failure: %v", err)
	}
	if !resp.Completed || resp.Result.Err == nil {
		t.Error("failure should stay retrievable as a completed error")
	}
}

func TestSubscribeStreamsProgress(t *testing.T) {
	c := newTestCoordinator(t)
	root := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		testsupport.WriteFileContent(t, filepath.Join(root, name), []byte(name))
	}

	id, err := c.Submit(context.Background(), analysis.Request{Root: root})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	rx, err := c.Subscribe(context.Background(), id)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prev := -1
	last := -1
	for {
		value, err := rx.Next(ctx)
		if err != nil {
			break
		}
		if value < prev {
			t.Fatalf("progress regressed: %d after %d", value, prev)
		}
		prev = value
		last = value
	}
	if last != 3 {
		t.Errorf("final observed progress = %d, want 3", last)
	}
}

func TestConcurrentAnalysesShareCache(t *testing.T) {
	c := newTestCoordinator(t)

	rootA := t.TempDir()
	rootB := t.TempDir()
	shared := bytes.Repeat([]byte("shared "), 2048)
	testsupport.WriteFileContent(t, filepath.Join(rootA, "x.jpg"), shared)
	testsupport.WriteFileContent(t, filepath.Join(rootA, "y.jpg"), shared)
	testsupport.WriteFileContent(t, filepath.Join(rootB, "x.jpg"), []byte("only in b"))

	idA, err := c.Submit(context.Background(), analysis.Request{Root: rootA})
	if err != nil {
		t.Fatalf("Submit A: %v", err)
	}
	idB, err := c.Submit(context.Background(), analysis.Request{Root: rootB})
	if err != nil {
		t.Fatalf("Submit B: %v", err)
	}

	respA := waitCompleted(t, c, idA)
	respB := waitCompleted(t, c, idB)

	if respA.Result.Err != nil || respB.Result.Err != nil {
		t.Fatalf("tasks failed: %v / %v", respA.Result.Err, respB.Result.Err)
	}
	if len(respA.Result.Groups) != 1 || len(respA.Result.Groups[0]) != 2 {
		t.Errorf("task A groups wrong: %v", respA.Result.Groups)
	}
	if len(respB.Result.Groups) != 1 || len(respB.Result.Groups[0]) != 1 {
		t.Errorf("task B groups wrong: %v", respB.Result.Groups)
	}
	if c.Cache().Len() != 3 {
		t.Errorf("cache entries = %d, want 3", c.Cache().Len())
	}
}

func TestCancelRunningTask(t *testing.T) {
	c := newTestCoordinator(t)
	root := t.TempDir()
	// Enough files that the run is still in flight when cancel lands.
	for i := 0; i < 200; i++ {
		testsupport.WriteMediaFile(t, filepath.Join(root, "f", string(rune('a'+i%26))+string(rune('0'+i/26))+".jpg"), 256*1024)
	}

	id, err := c.Submit(context.Background(), analysis.Request{Root: root})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := c.Cancel(context.Background(), id); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	resp := waitCompleted(t, c, id)
	if resp.Result.Err == nil {
		t.Skip("analysis finished before cancellation landed")
	}
	if !errors.Is(resp.Result.Err, analysis.ErrCancelled) {
		t.Fatalf("result err = %v, want ErrCancelled", resp.Result.Err)
	}
}
