package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAcknowledger records the acknowledgement decision for one delivery.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func delivery(t *testing.T, ack *fakeAcknowledger, ev Event) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	c := NewConsumer(nil, slog.Default())

	t.Run("AcksAfterHandlerSuccess", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		var seen Event
		h := func(ctx context.Context, ev Event) error {
			seen = ev
			return nil
		}

		c.dispatch(ctx, "film_deletion", delivery(t, ack, New("film_deletion", map[string]any{"film_id": 42})), h)

		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, "film_deletion", seen.Type)
	})

	t.Run("NacksWithRequeueOnHandlerError", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		h := func(ctx context.Context, ev Event) error {
			return errors.New("repository unavailable")
		}

		c.dispatch(ctx, "film_deletion", delivery(t, ack, New("film_deletion", nil)), h)

		assert.False(t, ack.acked)
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue, "failed handler must trigger redelivery")
	})

	t.Run("AcksUndecodableBody", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		called := false
		h := func(ctx context.Context, ev Event) error {
			called = true
			return nil
		}

		c.dispatch(ctx, "film_deletion", amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")}, h)

		assert.True(t, ack.acked, "poison messages are dropped, not redelivered")
		assert.False(t, called)
	})

	t.Run("AcksContractViolations", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		h := func(ctx context.Context, ev Event) error {
			_, err := ev.Int64("film_id")
			return err
		}

		c.dispatch(ctx, "film_deletion", delivery(t, ack, New("film_deletion", map[string]any{"other": 1})), h)

		assert.True(t, ack.acked, "missing required fields cannot be fixed by redelivery")
		assert.False(t, ack.nacked)
	})

	t.Run("RedeliveryIsIdempotentForSetBasedHandlers", func(t *testing.T) {
		// Simulates at-least-once delivery: the same event dispatched
		// twice must leave the same end state as a single delivery.
		remaining := map[int64]bool{7: true, 42: true}
		h := func(ctx context.Context, ev Event) error {
			id, err := ev.Int64("film_id")
			if err != nil {
				return err
			}
			delete(remaining, id)
			return nil
		}

		ev := New("film_deletion", map[string]any{"film_id": 42})
		for i := 0; i < 2; i++ {
			ack := &fakeAcknowledger{}
			c.dispatch(ctx, "film_deletion", delivery(t, ack, ev), h)
			assert.True(t, ack.acked)
		}

		assert.Equal(t, map[int64]bool{7: true}, remaining)
	})
}
