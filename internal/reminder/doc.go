// Package reminder finds due task reminders and delivers them.
//
// A Sweeper performs one scan-and-dispatch cycle: it selects armed, unsent
// reminders of incomplete tasks whose time has passed, sends each through a
// notify.Notifier on a bounded pool of workers, and commits the sent flag
// task by task as soon as its delivery succeeds. The commit is a
// compare-and-set on the reminder version read during selection, so a
// reminder re-armed while its old instance was being delivered stays armed.
//
// A Scheduler runs sweeps on a fixed interval through robfig/cron. Sweeps
// never overlap, and Stop waits for the in-flight sweep.
package reminder
