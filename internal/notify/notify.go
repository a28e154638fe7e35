// Package notify is the one-way side channel for user-facing messages:
// one-time codes and registration status updates. The core only produces
// messages; delivery (email, SMS) is the collaborator's concern.
package notify

import (
	"context"
	"log/slog"
)

// Kind labels what a message is about.
type Kind string

const (
	KindOneTimeCode        Kind = "one_time_code"
	KindRegistrationUpdate Kind = "registration_update"
)

// Message is a single outbound notification.
type Message struct {
	Recipient string // email address
	Kind      Kind
	Subject   string
	Body      string
}

//go:generate mockgen -destination=mocks/mocks.go -package=mocks campushub/internal/notify Notifier

// Notifier delivers messages out-of-band. Implementations must never echo
// message contents back to the caller that triggered them.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the structured log. It stands in for a real
// email/SMS gateway in development; the log is the out-of-band channel.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.InfoContext(ctx, "notification delivered",
		"recipient", msg.Recipient,
		"kind", string(msg.Kind),
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
