package eventbus

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrBrokerUnavailable indicates the broker could not be reached after
	// the configured number of reconnection attempts.
	ErrBrokerUnavailable = errors.New("broker unavailable")

	// ErrDuplicateBinding indicates two handlers were registered for the
	// same queue in one process. This is a deployment mistake and is fatal
	// at startup; bindings are never silently overwritten.
	ErrDuplicateBinding = errors.New("duplicate queue binding")

	// ErrManagerClosed indicates the connection manager was shut down.
	ErrManagerClosed = errors.New("connection manager closed")
)

// PublishError represents a failed publish to a named queue. Serialization
// failures are permanent and must not be retried; broker-side failures are
// transient and the whole publish may be retried (duplicate consumption is
// harmless because handlers are idempotent).
type PublishError struct {
	Queue     string
	Permanent bool
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to queue %s failed: %v", e.Queue, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates a required payload field was absent or had an
// unusable type. Consumers fail closed on it: the event is not processed.
type MissingFieldError struct {
	EventType string
	Field     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("event %s: missing or invalid payload field %q", e.EventType, e.Field)
}
