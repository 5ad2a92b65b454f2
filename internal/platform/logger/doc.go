// Package logger provides structured logging for the task tracker.
//
// It configures log/slog with a JSON (or text) handler at the configured
// level, installs it as the process default, and carries request- or
// sweep-scoped loggers through context.Context.
package logger
