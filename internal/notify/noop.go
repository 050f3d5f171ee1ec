package notify

import (
	"context"
	"log/slog"
)

// NoOpChannel implements Channel by logging discarded messages. It is used
// when no messaging backend is configured.
type NoOpChannel struct {
	log *slog.Logger
}

// NewNoOpChannel creates a channel that discards messages with a log line.
func NewNoOpChannel(log *slog.Logger) *NoOpChannel {
	return &NoOpChannel{log: log}
}

// SendText logs and discards a text message.
func (n *NoOpChannel) SendText(_ context.Context, recipient, text string) error {
	n.log.Debug("message discarded (no backend configured)",
		"recipient", recipient,
		"bytes", len(text),
	)
	return nil
}

// SendPhoto logs and discards a photo.
func (n *NoOpChannel) SendPhoto(_ context.Context, recipient, caption, photoURL string) error {
	n.log.Debug("photo discarded (no backend configured)",
		"recipient", recipient,
		"caption", caption,
		"url", photoURL,
	)
	return nil
}
