// Package notify delivers reminder messages over SMTP, Telegram or the
// structured log.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// Notifier sends a message to a recipient. Any failure is returned as a
// *DeliveryError.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// DeliveryError reports a failed delivery. Delivery failures are always
// treated as transient: the reminder stays armed and is retried next sweep.
type DeliveryError struct {
	Channel   string
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery to %s failed: %v", e.Channel, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure may succeed on retry.
func (e *DeliveryError) Temporary() bool {
	return true
}

// IsDeliveryError reports whether err is or wraps a *DeliveryError.
func IsDeliveryError(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}

func deliveryError(channel, recipient string, err error) error {
	return &DeliveryError{Channel: channel, Recipient: recipient, Err: err}
}
