package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/tasktracker/internal/notify"
)

// SentMessage records one call to MockNotifier.Send.
type SentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

// MockNotifier implements notify.Notifier and is safe for concurrent use.
type MockNotifier struct {
	// SendFn overrides the default behaviour, which is to succeed.
	SendFn func(ctx context.Context, recipient, subject, body string) error

	mu   sync.Mutex
	sent []SentMessage
}

var _ notify.Notifier = (*MockNotifier)(nil)

// Send implements notify.Notifier.
func (m *MockNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{Recipient: recipient, Subject: subject, Body: body})
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, recipient, subject, body)
	}
	return nil
}

// Sent returns a copy of every message passed to Send, including failed ones.
func (m *MockNotifier) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Count returns the number of Send calls.
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
