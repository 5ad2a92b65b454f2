package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes reminders to the structured log instead of delivering
// them. It is the default for local development.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses the default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

var _ Notifier = (*LogNotifier)(nil)

// Send implements Notifier.
func (n *LogNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return deliveryError("log", recipient, err)
	}
	n.logger.InfoContext(ctx, "reminder notification",
		"recipient", recipient,
		"subject", subject,
		"body_bytes", len(body))
	return nil
}
