package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"dupescan/internal/config"
	"dupescan/internal/coordinator"
	"dupescan/internal/logging"
)

// Daemon owns the coordinator and the HTTP API, and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	coord  *coordinator.Coordinator

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	LockFilePath string
	CacheEntries int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "dupescand.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, spins up the coordinator, and binds the
// API listener. It returns once everything is serving; work continues until
// ctx ends or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dupescan daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.coord = coordinator.New(d.cfg, d.logger)

	api, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		d.teardown()
		return err
	}
	d.api = api
	if err := d.api.start(d.ctx); err != nil {
		d.teardown()
		return err
	}

	d.running.Store(true)
	d.logger.Info("dupescan daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.cfg.Paths.APIBind))
	return nil
}

// Stop shuts down the API, stops the coordinator, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}
	d.teardown()
	d.running.Store(false)
	d.logger.Info("dupescan daemon stopped")
}

func (d *Daemon) teardown() {
	if d.coord != nil {
		d.coord.Close()
		d.coord = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
		d.ctx = nil
	}
	_ = d.lock.Unlock()
}

// Close releases resources; safe to call after Stop.
func (d *Daemon) Close() {
	d.Stop()
}

// Status reports runtime information.
func (d *Daemon) Status() Status {
	s := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
	}
	if d.coord != nil {
		s.CacheEntries = d.coord.Cache().Len()
	}
	return s
}

// APIAddr returns the bound API address, or empty when not serving.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}
