package push

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.Recipient == "" {
		return "", ErrNoRecipient
	}

	id := uuid.NewString()
	slog.InfoContext(ctx, "push notification (log sender)",
		slog.String("message_id", id),
		slog.String("topic", Topic(msg.Recipient)),
		slog.String("title", msg.Title),
		slog.String("body", msg.Body),
	)
	return id, nil
}
