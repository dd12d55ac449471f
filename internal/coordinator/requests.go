package coordinator

import (
	"context"

	"github.com/google/uuid"

	"dupescan/internal/analysis"
	"dupescan/internal/tasks"
)

// Submit registers a new analysis task and returns its id. The call blocks
// only until registration is acknowledged, never until completion.
func (c *Coordinator) Submit(ctx context.Context, req analysis.Request) (uuid.UUID, error) {
	reply := make(chan uuid.UUID, 1)
	if err := c.send(ctx, submitCommand{req: req, reply: reply}); err != nil {
		return uuid.Nil, err
	}
	select {
	case id := <-reply:
		return id, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	case <-c.runCtx.Done():
		return uuid.Nil, analysis.Wrap(analysis.ErrInternal, "coordinator", "submit", "loop stopped", c.runCtx.Err())
	}
}

// Subscribe returns a live progress receiver for id, or a not-found error
// for unknown ids.
func (c *Coordinator) Subscribe(ctx context.Context, id uuid.UUID) (*tasks.Receiver[int], error) {
	reply := make(chan subscribeReply, 1)
	if err := c.send(ctx, subscribeCommand{id: id, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case result := <-reply:
		if !result.found {
			return nil, analysis.Wrap(analysis.ErrNotFound, "coordinator", "subscribe", id.String(), nil)
		}
		return result.receiver, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.runCtx.Done():
		return nil, analysis.Wrap(analysis.ErrInternal, "coordinator", "subscribe", "loop stopped", c.runCtx.Err())
	}
}

// Poll reports the task's state without ever blocking on its completion.
func (c *Coordinator) Poll(ctx context.Context, id uuid.UUID) (Response, error) {
	reply := make(chan pollReply, 1)
	if err := c.send(ctx, pollCommand{id: id, reply: reply}); err != nil {
		return Response{}, err
	}
	select {
	case result := <-reply:
		if !result.found {
			return Response{}, analysis.Wrap(analysis.ErrNotFound, "coordinator", "poll", id.String(), nil)
		}
		return result.response, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-c.runCtx.Done():
		return Response{}, analysis.Wrap(analysis.ErrInternal, "coordinator", "poll", "loop stopped", c.runCtx.Err())
	}
}

// Cancel requests cooperative cancellation of a running task. Unknown ids
// yield a not-found error; cancelling completed work is a no-op.
func (c *Coordinator) Cancel(ctx context.Context, id uuid.UUID) error {
	reply := make(chan bool, 1)
	if err := c.send(ctx, cancelCommand{id: id, reply: reply}); err != nil {
		return err
	}
	select {
	case found := <-reply:
		if !found {
			return analysis.Wrap(analysis.ErrNotFound, "coordinator", "cancel", id.String(), nil)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.runCtx.Done():
		return analysis.Wrap(analysis.ErrInternal, "coordinator", "cancel", "loop stopped", c.runCtx.Err())
	}
}

func (c *Coordinator) send(ctx context.Context, cmd command) error {
	select {
	case c.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.runCtx.Done():
		return analysis.Wrap(analysis.ErrInternal, "coordinator", "send", "loop stopped", c.runCtx.Err())
	}
}
