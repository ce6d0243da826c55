// AngelaMos | 2026
// event.go

package event

import (
	"context"
	"log/slog"
	"time"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	ReviewCreated      Type = "review.created"
)

type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(t Type, payload any) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

var _ Publisher = Noop{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }

// Emit publishes e and logs a failure instead of returning it. The write the
// event describes has already committed.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "publish event failed",
			"type", e.Type,
			"error", err,
		)
	}
}
