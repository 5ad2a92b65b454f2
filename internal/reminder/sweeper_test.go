package reminder_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/mocks"
	"github.com/phrazzld/tasktracker/internal/notify"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/platform/sqlite"
	"github.com/phrazzld/tasktracker/internal/reminder"
	"github.com/phrazzld/tasktracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type env struct {
	users    *sqlite.UserStore
	tasks    *sqlite.TaskStore
	notifier *mocks.MockNotifier
	sweeper  *reminder.Sweeper
}

func newEnv(t *testing.T, cfg reminder.SweeperConfig) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := sqlite.Open(dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	e := &env{
		users:    sqlite.NewUserStore(db),
		tasks:    sqlite.NewTaskStore(db),
		notifier: &mocks.MockNotifier{},
	}
	e.sweeper = reminder.NewSweeper(e.tasks, e.notifier, cfg, quietLogger())
	return e
}

func (e *env) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:       email,
		Email:          email,
		HashedPassword: "digest",
		IsActive:       true,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *env) task(t *testing.T, owner *domain.User, title string, reminderAt *time.Time) *domain.Task {
	t.Helper()
	ctx := context.Background()
	task := &domain.Task{OwnerID: owner.ID, Title: title}
	require.NoError(t, e.tasks.Create(ctx, task))
	if reminderAt != nil {
		armed, err := e.tasks.SetReminder(ctx, owner.ID, task.ID, *reminderAt)
		require.NoError(t, err)
		return armed
	}
	return task
}

func (e *env) reload(t *testing.T, task *domain.Task) *domain.Task {
	t.Helper()
	got, err := e.tasks.GetByID(context.Background(), task.OwnerID, task.ID)
	require.NoError(t, err)
	return got
}

func at(d time.Duration) *time.Time {
	v := now.Add(d)
	return &v
}

func TestSweep_PayBillsScenario(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{})
	ctx := context.Background()
	owner := e.user(t, "u@x.com")
	task := e.task(t, owner, "Pay bills", nil)

	report, err := e.sweeper.Sweep(ctx, now.Add(1000*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Selected, "unarmed reminders are never selected")

	_, err = e.tasks.SetReminder(ctx, owner.ID, task.ID, now.Add(-time.Hour))
	require.NoError(t, err)

	report, err = e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Selected)
	assert.Equal(t, 1, report.Sent)
	assert.NotEmpty(t, report.SweepID)
	assert.True(t, e.reload(t, task).ReminderSent)

	sent := e.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "u@x.com", sent[0].Recipient)
	assert.Equal(t, "Reminder: Pay bills", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Pay bills")

	report, err = e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Selected, "a sent reminder is not selected again")
	assert.Equal(t, 1, e.notifier.Count())
}

func TestSweep_FutureReminderWaits(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{})
	ctx := context.Background()
	owner := e.user(t, "u@x.com")
	task := e.task(t, owner, "Later", at(time.Hour))

	report, err := e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Selected)
	assert.False(t, e.reload(t, task).ReminderSent)

	report, err = e.sweeper.Sweep(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent, "a reminder is due exactly at its time")
}

func TestSweep_CompletedTaskIsFrozen(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{})
	ctx := context.Background()
	owner := e.user(t, "u@x.com")
	task := e.task(t, owner, "Done already", at(-time.Hour))

	task.Completed = true
	require.NoError(t, e.tasks.Update(ctx, task))

	report, err := e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Selected)
	assert.Equal(t, domain.ReminderFrozen, e.reload(t, task).ReminderState())
}

func TestSweep_FailureIsIsolatedPerTask(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{Workers: 3})
	ctx := context.Background()

	a := e.task(t, e.user(t, "a@x.com"), "A", at(-time.Minute))
	b := e.task(t, e.user(t, "b@x.com"), "B", at(-time.Minute))
	c := e.task(t, e.user(t, "c@x.com"), "C", at(-time.Minute))

	e.notifier.SendFn = func(_ context.Context, recipient, _, _ string) error {
		if recipient == "b@x.com" {
			return &notify.DeliveryError{Channel: "smtp", Recipient: recipient, Err: errors.New("421 try again later")}
		}
		return nil
	}

	report, err := e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Selected)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)

	assert.True(t, e.reload(t, a).ReminderSent)
	assert.False(t, e.reload(t, b).ReminderSent, "failed delivery stays armed")
	assert.True(t, e.reload(t, c).ReminderSent)

	e.notifier.SendFn = nil
	report, err = e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Selected)
	assert.Equal(t, 1, report.Sent, "the failed reminder is retried next sweep")
	assert.True(t, e.reload(t, b).ReminderSent)
}

func TestSweep_PanicIsIsolatedPerTask(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{Workers: 1})
	ctx := context.Background()

	e.task(t, e.user(t, "a@x.com"), "A", at(-time.Minute))
	boom := e.task(t, e.user(t, "boom@x.com"), "Boom", at(-time.Minute))
	e.task(t, e.user(t, "c@x.com"), "C", at(-time.Minute))

	e.notifier.SendFn = func(_ context.Context, recipient, _, _ string) error {
		if recipient == "boom@x.com" {
			panic("notifier exploded")
		}
		return nil
	}

	report, err := e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, e.reload(t, boom).ReminderSent)
}

func TestSweep_RearmDuringDeliveryIsNotLost(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{})
	ctx := context.Background()
	owner := e.user(t, "u@x.com")
	task := e.task(t, owner, "Pay bills", at(-time.Hour))
	rearmAt := now.Add(24 * time.Hour)

	// The owner re-arms the reminder while the old instance is being sent.
	e.notifier.SendFn = func(ctx context.Context, _, _, _ string) error {
		_, err := e.tasks.SetReminder(ctx, owner.ID, task.ID, rearmAt)
		return err
	}

	report, err := e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Selected)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Stale)

	got := e.reload(t, task)
	assert.False(t, got.ReminderSent, "the re-armed reminder must stay armed")
	assert.True(t, got.ReminderTime.Equal(rearmAt))

	e.notifier.SendFn = nil
	report, err = e.sweeper.Sweep(ctx, rearmAt)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestSweep_BatchSize(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{BatchSize: 2})
	ctx := context.Background()
	owner := e.user(t, "u@x.com")
	for i := 0; i < 5; i++ {
		e.task(t, owner, fmt.Sprintf("task %d", i), at(-time.Minute))
	}

	var selected []int
	for i := 0; i < 4; i++ {
		report, err := e.sweeper.Sweep(ctx, now)
		require.NoError(t, err)
		selected = append(selected, report.Selected)
	}

	assert.Equal(t, []int{2, 2, 1, 0}, selected)
	assert.Equal(t, 5, e.notifier.Count())
}

func TestSweep_FailingBatchDoesNotStarveLaterReminders(t *testing.T) {
	e := newEnv(t, reminder.SweeperConfig{BatchSize: 2})
	ctx := context.Background()

	e.task(t, e.user(t, "a@x.com"), "A", at(-2*time.Hour))
	e.task(t, e.user(t, "b@x.com"), "B", at(-2*time.Hour))
	c := e.task(t, e.user(t, "c@x.com"), "C", at(-time.Hour))

	e.notifier.SendFn = func(_ context.Context, recipient, _, _ string) error {
		if recipient == "c@x.com" {
			return nil
		}
		return &notify.DeliveryError{Channel: "smtp", Recipient: recipient, Err: errors.New("550 mailbox unavailable")}
	}

	sweeps := 0
	for sweeps < 4 && !e.reload(t, c).ReminderSent {
		_, err := e.sweeper.Sweep(ctx, now)
		require.NoError(t, err)
		sweeps++
	}

	assert.True(t, e.reload(t, c).ReminderSent)
	assert.LessOrEqual(t, sweeps, 2)

	// After the short batch the scan wraps and the failing pair is retried.
	report, err := e.sweeper.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Selected)
	assert.Equal(t, 2, report.Failed)
}

func TestSweep_CursorFollowsFullBatches(t *testing.T) {
	ctx := context.Background()
	tasks := new(mocks.MockTaskStore)
	first := []*domain.Task{
		{ID: 4, OwnerID: 1, Title: "A", ReminderTime: at(-2 * time.Hour), ReminderVersion: 1},
		{ID: 9, OwnerID: 1, Title: "B", ReminderTime: at(-time.Hour), ReminderVersion: 1},
	}
	next := store.ReminderCursor{Time: *first[1].ReminderTime, ID: 9}

	tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, 2).Return(first, nil).Twice()
	tasks.On("FindDueUnsentReminders", mock.Anything, now, next, 2).Return([]*domain.Task{}, nil).Once()
	tasks.On("GetOwnerEmail", mock.Anything, mock.Anything).Return("u@x.com", nil)
	tasks.On("MarkReminderSent", mock.Anything, mock.Anything, int64(1)).Return(true, nil)

	sweeper := reminder.NewSweeper(tasks, &mocks.MockNotifier{}, reminder.SweeperConfig{BatchSize: 2}, quietLogger())
	for i := 0; i < 3; i++ {
		_, err := sweeper.Sweep(ctx, now)
		require.NoError(t, err)
	}

	tasks.AssertExpectations(t)
}

func TestSweep_DeliveryFailureLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"delivery error", &notify.DeliveryError{Channel: "smtp", Recipient: "u@x.com", Err: errors.New("421 busy")}, "WARN"},
		{"unexpected error", errors.New("template exploded"), "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := new(mocks.MockTaskStore)
			tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, mock.Anything).
				Return([]*domain.Task{{ID: 1, OwnerID: 1, Title: "T", ReminderTime: at(-time.Minute), ReminderVersion: 1}}, nil)
			tasks.On("GetOwnerEmail", mock.Anything, int64(1)).Return("u@x.com", nil)
			notifier := &mocks.MockNotifier{SendFn: func(context.Context, string, string, string) error { return tt.err }}
			buf, log := logger.NewTestLogger(t)

			report, err := reminder.NewSweeper(tasks, notifier, reminder.SweeperConfig{}, log).Sweep(context.Background(), now)
			require.NoError(t, err)
			assert.Equal(t, 1, report.Failed)

			var found bool
			for _, entry := range buf.Entries(t) {
				if entry["msg"] == "reminder delivery failed, will retry next sweep" {
					found = true
					assert.Equal(t, tt.level, entry["level"])
				}
			}
			assert.True(t, found)
		})
	}
}

func TestSweep_CanceledSweepAttemptsNothing(t *testing.T) {
	tasks := new(mocks.MockTaskStore)
	notifier := &mocks.MockNotifier{}
	due := []*domain.Task{
		{ID: 1, OwnerID: 1, Title: "A", ReminderTime: at(-time.Minute), ReminderVersion: 1},
		{ID: 2, OwnerID: 1, Title: "B", ReminderTime: at(-time.Minute), ReminderVersion: 1},
	}
	tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, reminder.DefaultBatchSize).Return(due, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := reminder.NewSweeper(tasks, notifier, reminder.SweeperConfig{}, quietLogger()).Sweep(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, notifier.Count())
	tasks.AssertNotCalled(t, "MarkReminderSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_StoreOutcomes(t *testing.T) {
	ctx := context.Background()
	task := func(id int64) *domain.Task {
		return &domain.Task{ID: id, OwnerID: 1, Title: "T", ReminderTime: at(-time.Minute), ReminderVersion: 3}
	}

	t.Run("selection failure is returned", func(t *testing.T) {
		tasks := new(mocks.MockTaskStore)
		tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, mock.Anything).Return(nil, errors.New("db down"))

		_, err := reminder.NewSweeper(tasks, &mocks.MockNotifier{}, reminder.SweeperConfig{}, quietLogger()).Sweep(ctx, now)

		require.Error(t, err)
	})

	t.Run("task deleted before delivery", func(t *testing.T) {
		tasks := new(mocks.MockTaskStore)
		notifier := &mocks.MockNotifier{}
		tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, mock.Anything).Return([]*domain.Task{task(1)}, nil)
		tasks.On("GetOwnerEmail", mock.Anything, int64(1)).Return("", store.ErrTaskNotFound)

		report, err := reminder.NewSweeper(tasks, notifier, reminder.SweeperConfig{}, quietLogger()).Sweep(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Stale)
		assert.Equal(t, 0, notifier.Count())
	})

	t.Run("mark failure leaves the reminder for the next sweep", func(t *testing.T) {
		tasks := new(mocks.MockTaskStore)
		tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, mock.Anything).Return([]*domain.Task{task(1)}, nil)
		tasks.On("GetOwnerEmail", mock.Anything, int64(1)).Return("u@x.com", nil)
		tasks.On("MarkReminderSent", mock.Anything, int64(1), int64(3)).Return(false, errors.New("db down"))

		report, err := reminder.NewSweeper(tasks, &mocks.MockNotifier{}, reminder.SweeperConfig{}, quietLogger()).Sweep(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
	})

	t.Run("mark uses the version read at selection", func(t *testing.T) {
		tasks := new(mocks.MockTaskStore)
		tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, mock.Anything).Return([]*domain.Task{task(1)}, nil)
		tasks.On("GetOwnerEmail", mock.Anything, int64(1)).Return("u@x.com", nil)
		tasks.On("MarkReminderSent", mock.Anything, int64(1), int64(3)).Return(true, nil)

		report, err := reminder.NewSweeper(tasks, &mocks.MockNotifier{}, reminder.SweeperConfig{}, quietLogger()).Sweep(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Sent)
		tasks.AssertExpectations(t)
	})

	t.Run("not-due task from the store is skipped", func(t *testing.T) {
		tasks := new(mocks.MockTaskStore)
		notifier := &mocks.MockNotifier{}
		future := &domain.Task{ID: 1, OwnerID: 1, Title: "T", ReminderTime: at(time.Minute), ReminderVersion: 1}
		tasks.On("FindDueUnsentReminders", mock.Anything, now, store.ReminderCursor{}, mock.Anything).Return([]*domain.Task{future}, nil)

		report, err := reminder.NewSweeper(tasks, notifier, reminder.SweeperConfig{}, quietLogger()).Sweep(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 0, notifier.Count())
		tasks.AssertNotCalled(t, "MarkReminderSent", mock.Anything, mock.Anything, mock.Anything)
	})
}
