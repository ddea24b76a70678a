package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/filmgrid/filmgrid/pkg/retry"
)

// Connection is the subset of *amqp091.Connection the manager relies on.
// It exists so tests can substitute a fake transport.
type Connection interface {
	Channel() (*amqp.Channel, error)
	IsClosed() bool
	Close() error
}

// DialFunc opens a broker connection for the given endpoint URL.
type DialFunc func(url string) (Connection, error)

func amqpDial(url string) (Connection, error) {
	return amqp.Dial(url)
}

// ConnManager owns the process-wide broker connection shared by all
// publishers and consumers. The connection is dialed lazily on first
// channel acquisition and transparently re-dialed when found closed, so
// callers never observe a connection-closed condition, only ordinary
// per-call latency. Safe for concurrent use.
type ConnManager struct {
	url      string
	dial     DialFunc
	attempts int
	delay    time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	conn   Connection
	closed bool
}

// ManagerOption configures a ConnManager.
type ManagerOption func(*ConnManager)

// WithDialFunc replaces the transport dialer. Used by tests.
func WithDialFunc(dial DialFunc) ManagerOption {
	return func(m *ConnManager) { m.dial = dial }
}

// WithReconnectPolicy bounds reconnection: attempts per acquisition and the
// delay between them.
func WithReconnectPolicy(attempts int, delay time.Duration) ManagerOption {
	return func(m *ConnManager) {
		m.attempts = attempts
		m.delay = delay
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *ConnManager) { m.logger = logger }
}

// NewConnManager creates a manager for the given broker endpoint URL
// (host, credentials and virtual host). No network I/O happens until the
// first call to Channel.
func NewConnManager(url string, opts ...ManagerOption) *ConnManager {
	m := &ConnManager{
		url:      url,
		dial:     amqpDial,
		attempts: 5,
		delay:    time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Channel returns a channel multiplexed over the shared connection,
// establishing or re-establishing the connection first if needed. The
// returned channel is owned by the caller for the duration of one
// send/receive interaction and must be closed by it. If the broker stays
// unreachable after the bounded reconnection attempts, the error wraps
// ErrBrokerUnavailable.
func (m *ConnManager) Channel(ctx context.Context) (*amqp.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	if m.conn == nil || m.conn.IsClosed() {
		if err := m.connectLocked(ctx); err != nil {
			return nil, err
		}
	}

	ch, err := m.conn.Channel()
	if err != nil {
		// The connection can die between the IsClosed check and the
		// channel open. Reconnect once more before giving up.
		if err := m.connectLocked(ctx); err != nil {
			return nil, err
		}
		ch, err = m.conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("%w: opening channel: %v", ErrBrokerUnavailable, err)
		}
	}
	return ch, nil
}

func (m *ConnManager) connectLocked(ctx context.Context) error {
	err := retry.Do(ctx, m.attempts, m.delay, func() error {
		conn, err := m.dial(m.url)
		if err != nil {
			m.logger.Warn("broker dial failed", "err", err)
			return err
		}
		m.conn = conn
		m.logger.Info("broker connection established")
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	}
	return nil
}

// Close shuts the manager down. Subsequent Channel calls fail with
// ErrManagerClosed. Called from the process shutdown sequence.
func (m *ConnManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	return m.conn.Close()
}
