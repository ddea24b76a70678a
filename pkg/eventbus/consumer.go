package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivered event. Handlers are invoked at least
// once per published event and possibly concurrently across process
// instances bound to the same queue, so they must be idempotent and must
// not rely on process-local state for correctness. Returning an error
// leaves the message unacknowledged and the broker redelivers it.
type Handler func(ctx context.Context, ev Event) error

// Consumer runs receive loops against named durable queues over the shared
// connection manager.
type Consumer struct {
	conns  *ConnManager
	logger *slog.Logger

	// pause between loop iterations after a channel-level failure, so a
	// persistently failing declare does not spin hot
	redeclareDelay time.Duration
}

// NewConsumer creates a consumer over the shared connection manager.
func NewConsumer(conns *ConnManager, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{conns: conns, logger: logger, redeclareDelay: time.Second}
}

// Consume declares the queue durable and processes deliveries until ctx is
// cancelled, invoking h once per message and acknowledging only after h
// returns nil. On handler failure the message is nacked with requeue, so
// the broker redelivers it here or to another instance bound to the same
// queue. Lost channels and connections are transparently re-acquired; the
// call returns only on ctx cancellation or when the broker stays
// unreachable beyond the manager's reconnection bounds.
func (c *Consumer) Consume(ctx context.Context, queue string, h Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ch, err := c.conns.Channel(ctx)
		if err != nil {
			return fmt.Errorf("consuming queue %s: %w", queue, err)
		}

		if err := c.consumeChannel(ctx, ch, queue, h); err != nil {
			c.logger.Warn("consume loop interrupted", "queue", queue, "err", err)
		}
		ch.Close()

		select {
		case <-time.After(c.redeclareDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeChannel(ctx context.Context, ch *amqp.Channel, queue string, h Handler) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	// One unacknowledged message at a time per consumer instance;
	// horizontal fan-out comes from running more instances.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("setting qos: %w", err)
	}

	tag := fmt.Sprintf("%s.%s", queue, uuid.NewString()[:8])
	deliveries, err := ch.ConsumeWithContext(ctx, queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consume: %w", err)
	}

	c.logger.Info("consuming", "queue", queue, "consumer_tag", tag)
	for d := range deliveries {
		c.dispatch(ctx, queue, d, h)
	}
	// The deliveries channel closes on ctx cancellation or transport
	// loss; the outer loop decides which.
	return nil
}

// dispatch decodes and handles one delivery, deciding its acknowledgement.
// Undecodable bodies are acknowledged and dropped: redelivery cannot fix a
// malformed message and would poison the queue.
func (c *Consumer) dispatch(ctx context.Context, queue string, d amqp.Delivery, h Handler) {
	var ev Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.logger.Error("dropping undecodable message", "queue", queue, "err", err)
		if err := d.Ack(false); err != nil {
			c.logger.Warn("ack failed", "queue", queue, "err", err)
		}
		return
	}

	if err := h(ctx, ev); err != nil {
		// A contract violation (missing required payload field) is as
		// permanent as a malformed body: drop it, don't requeue.
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			c.logger.Error("dropping event violating payload contract",
				"queue", queue, "event_type", ev.Type, "err", err)
			if err := d.Ack(false); err != nil {
				c.logger.Warn("ack failed", "queue", queue, "err", err)
			}
			return
		}

		c.logger.Warn("handler failed, message will be redelivered",
			"queue", queue, "event_type", ev.Type, "err", err)
		if err := d.Nack(false, true); err != nil {
			c.logger.Warn("nack failed", "queue", queue, "err", err)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Warn("ack failed", "queue", queue, "event_type", ev.Type, "err", err)
	}
}
