package eventbus

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Registry maps queue names to handlers. It is populated once during
// process startup and then only read; it is not safe for concurrent
// registration.
type Registry struct {
	bindings map[string]Handler
	queues   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]Handler)}
}

// Register binds a handler to a queue. Registering a second handler for
// the same queue is a configuration error: the caller is expected to treat
// the returned error as fatal so the process refuses to start instead of
// hiding a deployment mistake behind a silent overwrite.
func (r *Registry) Register(queue string, h Handler) error {
	if h == nil {
		return fmt.Errorf("queue %s: nil handler", queue)
	}
	if _, exists := r.bindings[queue]; exists {
		return fmt.Errorf("queue %s: %w", queue, ErrDuplicateBinding)
	}
	r.bindings[queue] = h
	r.queues = append(r.queues, queue)
	return nil
}

// Handler returns the handler bound to a queue.
func (r *Registry) Handler(queue string) (Handler, bool) {
	h, ok := r.bindings[queue]
	return h, ok
}

// Queues returns the bound queue names in registration order.
func (r *Registry) Queues() []string {
	return append([]string(nil), r.queues...)
}

// Start runs one consume loop per binding and blocks until ctx is
// cancelled or a loop fails terminally (broker unreachable beyond the
// connection manager's bounds).
func (r *Registry) Start(ctx context.Context, c *Consumer) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, queue := range r.queues {
		queue := queue
		g.Go(func() error {
			return c.Consume(ctx, queue, r.bindings[queue])
		})
	}
	return g.Wait()
}
