// AngelaMos | 2026
// rabbitmq.go

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carterperez-dev/templates/marketplace-api/internal/config"
)

// RabbitPublisher sends events as persistent JSON messages to one durable
// queue through the default exchange. amqp channels are not safe for
// concurrent use so publishes are serialized.
type RabbitPublisher struct {
	conn    *amqp.Connection
	queue   string
	mu      sync.Mutex
	channel *amqp.Channel
}

var _ Publisher = (*RabbitPublisher)(nil)

func NewRabbitPublisher(cfg config.RabbitMQConfig) (*RabbitPublisher, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	p := &RabbitPublisher{conn: conn, queue: cfg.Queue}
	if err := p.openChannel(); err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on setup failure
		return nil, err
	}

	return p, nil
}

func (p *RabbitPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close() //nolint:errcheck // channel is unusable anyway
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	p.channel = ch
	return nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.openChannel(); err != nil {
			return err
		}
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         string(e.Type),
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	slog.DebugContext(ctx, "event published", "type", e.Type, "queue", p.queue)
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close() //nolint:errcheck // connection close follows
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close rabbitmq: %w", err)
	}
	return nil
}

// Ping reports whether the broker connection is still up.
func (p *RabbitPublisher) Ping(context.Context) error {
	if p.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}
