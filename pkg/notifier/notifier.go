// Package notifier defines the best-effort push notification collaborator.
// Delivery failures are logged and never surface to the ledger operations.
package notifier

import (
	"context"
	"log/slog"
)

// Notifier sends a push notification to a device token.
type Notifier interface {
	Notify(ctx context.Context, token, title, body string) error
}

// Message is a notification queued during a ledger transaction and dispatched
// after commit.
type Message struct {
	Token string
	Title string
	Body  string
}

// Dispatch sends msgs on a goroutine without waiting for delivery. Empty
// tokens are skipped; errors are logged through logger and otherwise dropped.
func Dispatch(n Notifier, logger *slog.Logger, msgs ...Message) {
	if n == nil || len(msgs) == 0 {
		return
	}
	go func() {
		for _, m := range msgs {
			if m.Token == "" {
				continue
			}
			if err := n.Notify(context.Background(), m.Token, m.Title, m.Body); err != nil {
				logger.Error("notification dispatch failed", "title", m.Title, "error", err)
			}
		}
	}()
}

// LogNotifier is the default Notifier: it records the notification in the log
// instead of contacting a push gateway. The production FCM client satisfies
// the same interface.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, token, title, body string) error {
	l.Logger.Info("push notification", "token", token, "title", title, "body", body)
	return nil
}
