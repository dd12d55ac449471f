package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dupescan/internal/analysis"
	"dupescan/internal/config"
	"dupescan/internal/fpcache"
	"dupescan/internal/logging"
	"dupescan/internal/tasks"
)

// Outcome is the terminal state of one analysis task: either the computed
// groups or the error that aborted the run.
type Outcome struct {
	Groups analysis.Groups
	Err    error
}

// Response is the poll answer exposed to adapters.
type Response = tasks.Response[int, Outcome]

type command interface {
	isCommand()
}

type submitCommand struct {
	req   analysis.Request
	reply chan uuid.UUID
}

type subscribeCommand struct {
	id    uuid.UUID
	reply chan subscribeReply
}

type subscribeReply struct {
	receiver *tasks.Receiver[int]
	found    bool
}

type pollCommand struct {
	id    uuid.UUID
	reply chan pollReply
}

type pollReply struct {
	response Response
	found    bool
}

type cancelCommand struct {
	id    uuid.UUID
	reply chan bool
}

func (submitCommand) isCommand()    {}
func (subscribeCommand) isCommand() {}
func (pollCommand) isCommand()      {}
func (cancelCommand) isCommand()    {}

// Coordinator owns the task registry and the shared analysis engine. All
// registry access funnels through one command loop goroutine, which
// processes submit/subscribe/poll/cancel strictly in arrival order; each
// task's work runs on its own goroutine so the loop never blocks on it.
type Coordinator struct {
	logger *slog.Logger
	engine *analysis.Analyzer
	cache  *fpcache.Cache

	commands  chan command
	runCtx    context.Context
	runCancel context.CancelFunc
	stopped   chan struct{}
}

// New constructs the shared cache and engine, starts the command loop, and
// returns the ready coordinator.
func New(cfg *config.Config, logger *slog.Logger) *Coordinator {
	cache := fpcache.New(cfg.Cache.MaxEntries, logger)
	runCtx, runCancel := context.WithCancel(context.Background())
	c := &Coordinator{
		logger:    logging.NewComponentLogger(logger, "coordinator"),
		engine:    analysis.NewAnalyzer(cfg, cache, logger),
		cache:     cache,
		commands:  make(chan command, 32),
		runCtx:    runCtx,
		runCancel: runCancel,
		stopped:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Cache exposes the shared fingerprint cache for status reporting.
func (c *Coordinator) Cache() *fpcache.Cache {
	return c.cache
}

// Engine exposes the shared analyzer for task-free reads such as listings.
func (c *Coordinator) Engine() *analysis.Analyzer {
	return c.engine
}

// Close stops the command loop and cancels in-flight work. Pending poll and
// subscribe callers receive not-found errors once the loop exits.
func (c *Coordinator) Close() {
	c.runCancel()
	<-c.stopped
}

func (c *Coordinator) run() {
	defer close(c.stopped)

	c.logger.Info("command loop started")
	manager := tasks.NewManager[uuid.UUID, int, Outcome](c.logger)

	for {
		select {
		case <-c.runCtx.Done():
			c.logger.Info("command loop stopping")
			return
		case cmd := <-c.commands:
			c.dispatch(manager, cmd)
		}
	}
}

func (c *Coordinator) dispatch(manager *tasks.Manager[uuid.UUID, int, Outcome], cmd command) {
	switch cmd := cmd.(type) {
	case submitCommand:
		id := uuid.New()
		req := cmd.req
		err := manager.Submit(c.runCtx, id, func(ctx context.Context, publish func(int)) Outcome {
			started := time.Now()
			groups, err := c.engine.Analyze(ctx, req, publish)
			if err != nil {
				c.logger.Warn("analysis task failed",
					logging.String(logging.FieldTaskID, id.String()),
					logging.String("root", req.Root),
					logging.Error(err))
				return Outcome{Err: err}
			}
			c.logger.Info("analysis task completed",
				logging.String(logging.FieldTaskID, id.String()),
				logging.String("root", req.Root),
				logging.Duration("elapsed", time.Since(started)))
			return Outcome{Groups: groups}
		})
		if err != nil {
			// Freshly generated UUIDs never collide in practice; treat
			// this as an invariant violation and drop the submission.
			c.logger.Error("task registration failed",
				logging.String(logging.FieldTaskID, id.String()),
				logging.Error(err))
			return
		}
		c.logger.Info("analysis task submitted",
			logging.String(logging.FieldTaskID, id.String()),
			logging.String("root", req.Root))
		deliver(c.logger, cmd.reply, id)

	case subscribeCommand:
		receiver, found := manager.Progress(cmd.id)
		deliver(c.logger, cmd.reply, subscribeReply{receiver: receiver, found: found})

	case pollCommand:
		response, found := manager.Poll(cmd.id)
		deliver(c.logger, cmd.reply, pollReply{response: response, found: found})

	case cancelCommand:
		deliver(c.logger, cmd.reply, manager.Cancel(cmd.id))
	}
}

// deliver sends a reply without blocking the loop. Reply channels are
// buffered, so a send only fails when the requester has already gone away;
// the task itself keeps running and its result stays retained.
func deliver[T any](logger *slog.Logger, ch chan T, value T) {
	select {
	case ch <- value:
	default:
		logger.Warn("dropping reply to absent caller")
	}
}
