package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrSchedulerStarted is returned by Start when the scheduler is already running.
var ErrSchedulerStarted = errors.New("reminder scheduler already started")

// ErrSchedulerStopped is returned by Start once Stop has been called.
var ErrSchedulerStopped = errors.New("reminder scheduler stopped")

// SchedulerConfig controls sweep timing.
type SchedulerConfig struct {
	// Interval between sweep starts.
	Interval time.Duration
	// SweepTimeout bounds a single sweep. Zero means Interval.
	SweepTimeout time.Duration
}

// Scheduler runs a Sweeper periodically. A tick that fires while the previous
// sweep is still running is skipped.
type Scheduler struct {
	sweeper *Sweeper
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger

	// baseCtx parents every sweep; cancel interrupts the in-flight one.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewScheduler registers the sweep job. The scheduler does nothing until Start.
func NewScheduler(sweeper *Sweeper, cfg SchedulerConfig, logger *slog.Logger) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", cfg.Interval)
	}
	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = cfg.Interval
	}

	log := logger.With("component", "reminder_scheduler")
	cronLog := cronLogger{log}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sweeper: sweeper,
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		timeout: cfg.SweepTimeout,
		now:     time.Now,
		logger:  log,
		baseCtx: ctx,
		cancel:  cancel,
	}

	if _, err := s.cron.AddFunc("@every "+cfg.Interval.String(), s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	return s, nil
}

// Start begins ticking in the background. A stopped scheduler cannot be
// restarted.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrSchedulerStopped
	}
	if s.started {
		return ErrSchedulerStarted
	}
	s.started = true
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
	return nil
}

// Stop halts ticking and waits for an in-flight sweep to finish. If ctx ends
// first, the sweep is canceled; deliveries already under way complete their
// commit, and Stop still waits for the sweep to return before reporting
// ctx's error.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	done := s.cron.Stop()
	defer s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("shutdown deadline reached, interrupting reminder sweep")
		s.cancel()
		<-done.Done()
		return ctx.Err()
	}
}

// RunOnce performs a single sweep at the current time, bounded by the sweep
// timeout. It is what each tick runs.
func (s *Scheduler) RunOnce(ctx context.Context) (SweepReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.sweeper.Sweep(ctx, s.now())
}

func (s *Scheduler) tick() {
	if _, err := s.RunOnce(s.baseCtx); err != nil {
		s.logger.Error("reminder sweep failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
