package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to named durable queues with at-least-once intent.
// A publish that times out waiting for the broker has an unknown outcome:
// the caller must treat it as potentially delivered and may retry the whole
// publish, because duplicate consumption is harmless for idempotent
// handlers.
type Publisher struct {
	conns  *ConnManager
	logger *slog.Logger
}

// NewPublisher creates a publisher over the shared connection manager.
func NewPublisher(conns *ConnManager, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conns: conns, logger: logger}
}

// Publish serializes the event and delivers it to the named queue,
// declaring the queue durable first (declaration is idempotent). A
// serialization failure is permanent and must not be retried; broker-side
// failures are transient and the caller may retry the whole call.
func (p *Publisher) Publish(ctx context.Context, queue string, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("event serialization failed, message abandoned",
			"queue", queue, "event_type", ev.Type, "err", err)
		return &PublishError{Queue: queue, Permanent: true, Err: err}
	}

	ch, err := p.conns.Channel(ctx)
	if err != nil {
		return &PublishError{Queue: queue, Err: err}
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return &PublishError{Queue: queue, Err: err}
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    ev.EmittedAt,
		Body:         body,
	})
	if err != nil {
		return &PublishError{Queue: queue, Err: err}
	}

	p.logger.Debug("event published", "queue", queue, "event_type", ev.Type)
	return nil
}
