package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/notify"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/redact"
	"github.com/phrazzld/tasktracker/internal/store"
)

// Defaults applied by NewSweeper when SweeperConfig leaves a field zero.
const (
	DefaultWorkers   = 4
	DefaultBatchSize = 500

	// commitTimeout bounds the mark-sent write after a successful delivery.
	// The write runs even if the sweep context is already canceled.
	commitTimeout = 5 * time.Second
)

// SweeperConfig tunes a Sweeper.
type SweeperConfig struct {
	// Workers is the number of concurrent deliveries within one sweep.
	Workers int
	// BatchSize caps how many due reminders one sweep selects. A full batch
	// moves the next sweep's starting point past it, so reminders that keep
	// failing cannot hold later ones back; a short batch starts the next
	// sweep from the beginning again.
	BatchSize int
}

// SweepReport summarizes one sweep.
type SweepReport struct {
	SweepID  string        `json:"sweep_id" yaml:"sweep_id"`
	Now      time.Time     `json:"now" yaml:"now"`
	Selected int           `json:"selected" yaml:"selected"`
	Sent     int           `json:"sent" yaml:"sent"`
	Failed   int           `json:"failed" yaml:"failed"`
	Stale    int           `json:"stale" yaml:"stale"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

type outcome int

const (
	// outcomeSent: delivered and committed.
	outcomeSent outcome = iota
	// outcomeFailed: left armed for the next sweep.
	outcomeFailed
	// outcomeStale: the task was re-armed, already marked or deleted while
	// in flight.
	outcomeStale
	// outcomeSkipped: not attempted, because the sweep was canceled or the
	// reminder was not actually due.
	outcomeSkipped
)

func (r *SweepReport) record(o outcome) {
	switch o {
	case outcomeSent:
		r.Sent++
	case outcomeFailed:
		r.Failed++
	case outcomeStale:
		r.Stale++
	case outcomeSkipped:
		r.Skipped++
	}
}

// Sweeper performs reminder sweeps.
type Sweeper struct {
	tasks     store.TaskStore
	notifier  notify.Notifier
	workers   int
	batchSize int
	render    func(*domain.Task) Message
	logger    *slog.Logger

	// cursor is where the next sweep's selection starts.
	mu     sync.Mutex
	cursor store.ReminderCursor
}

// NewSweeper creates a Sweeper that reads and marks reminders through tasks
// and delivers them through notifier.
func NewSweeper(tasks store.TaskStore, notifier notify.Notifier, cfg SweeperConfig, logger *slog.Logger) *Sweeper {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Sweeper{
		tasks:     tasks,
		notifier:  notifier,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		render:    RenderMessage,
		logger:    logger.With("component", "reminder_sweeper"),
	}
}

// Sweep delivers every reminder due at now, up to the batch size.
//
// Each task is committed independently as soon as its delivery succeeds, so
// a failure or panic while handling one task never affects the others and
// a canceled sweep leaves no task half-committed. Delivery failures are
// counted in the report, not returned; the only error is a failed
// selection query.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepReport, error) {
	started := time.Now()
	report := SweepReport{SweepID: uuid.NewString(), Now: now.UTC()}

	log := s.logger.With("sweep_id", report.SweepID)
	ctx = logger.WithContext(ctx, log)

	due, err := s.selectDue(ctx, report.Now)
	if err != nil {
		log.Error("failed to select due reminders", "error", err)
		return report, fmt.Errorf("failed to select due reminders: %w", err)
	}
	report.Selected = len(due)

	if len(due) > 0 {
		var mu sync.Mutex
		newDeliveryPool(s.workers, log).run(ctx, due, func(ctx context.Context, task *domain.Task) {
			o := s.deliver(ctx, report.Now, task)
			mu.Lock()
			report.record(o)
			mu.Unlock()
		})
	}

	report.Duration = time.Since(started)

	level := slog.LevelDebug
	if report.Selected > 0 {
		level = slog.LevelInfo
	}
	log.Log(ctx, level, "reminder sweep finished",
		"selected", report.Selected,
		"sent", report.Sent,
		"failed", report.Failed,
		"stale", report.Stale,
		"skipped", report.Skipped,
		"duration", report.Duration)

	return report, nil
}

// selectDue reads the next batch and advances the cursor. Overlapping
// sweeps serialize here.
func (s *Sweeper) selectDue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due, err := s.tasks.FindDueUnsentReminders(ctx, now, s.cursor, s.batchSize)
	if err != nil {
		return nil, err
	}

	if len(due) < s.batchSize {
		s.cursor = store.ReminderCursor{}
	} else if last := due[len(due)-1]; last.ReminderTime != nil {
		s.cursor = store.ReminderCursor{Time: *last.ReminderTime, ID: last.ID}
	}
	return due, nil
}

func (s *Sweeper) deliver(ctx context.Context, now time.Time, task *domain.Task) (out outcome) {
	log := logger.FromContext(ctx).With(
		"task_id", task.ID,
		"reminder_version", task.ReminderVersion,
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while delivering reminder",
				"panic", r,
				"stack", string(debug.Stack()))
			out = outcomeFailed
		}
	}()

	if ctx.Err() != nil {
		return outcomeSkipped
	}

	if !task.IsDue(now) {
		log.Warn("selected reminder is not due, skipping",
			"reminder_time", task.ReminderTime)
		return outcomeSkipped
	}

	recipient, err := s.tasks.GetOwnerEmail(ctx, task.ID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Info("task deleted before delivery")
			return outcomeStale
		}
		log.Error("failed to resolve reminder recipient", "error", err)
		return outcomeFailed
	}

	msg := s.render(task)
	if err := s.notifier.Send(ctx, recipient, msg.Subject, msg.Body); err != nil {
		level := slog.LevelError
		if notify.IsDeliveryError(err) {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "reminder delivery failed, will retry next sweep",
			"error", redact.Error(err))
		return outcomeFailed
	}

	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	marked, err := s.tasks.MarkReminderSent(commitCtx, task.ID, task.ReminderVersion)
	if err != nil {
		log.Error("delivered reminder could not be marked sent, it will be delivered again",
			"error", err)
		return outcomeFailed
	}
	if !marked {
		log.Info("reminder changed during delivery, leaving it armed")
		return outcomeStale
	}

	log.Info("reminder sent")
	return outcomeSent
}
