package notify

import (
	"context"
	"log/slog"

	"ceacwatch/internal/observability"
)

// Channel delivers one enriched payload. Implementations must not retry;
// delivery is best effort by design.
type Channel interface {
	Name() string
	Send(ctx context.Context, p Payload) error
}

// Broadcaster fans a payload out to every registered channel. A channel
// failure is logged and counted, never retried, and never stops the
// remaining channels.
type Broadcaster struct {
	Channels []Channel
}

func (b *Broadcaster) Add(ch Channel) {
	b.Channels = append(b.Channels, ch)
}

func (b *Broadcaster) Dispatch(ctx context.Context, p Payload) {
	for _, ch := range b.Channels {
		if err := ch.Send(ctx, p); err != nil {
			observability.Notifications.WithLabelValues(ch.Name(), "error").Inc()
			slog.Error("notification send failed",
				"channel", ch.Name(),
				"notification_id", p.NotificationID,
				"err", err,
			)
			continue
		}
		observability.Notifications.WithLabelValues(ch.Name(), "ok").Inc()
		slog.Info("notification sent", "channel", ch.Name(), "notification_id", p.NotificationID)
	}
}
