package eventbus

import (
	"time"
)

// Event is the message envelope shared by all services. Type names the fact
// (e.g. "film_deletion") and is a stable contract between producer and
// consumer; Payload is a flat key/value record whose shape is part of that
// contract. Consumers must ignore unknown payload fields and fail closed on
// missing required ones.
type Event struct {
	Type      string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
	EmittedAt time.Time      `json:"emitted_at"`
}

// New builds an event stamped with the current time.
func New(eventType string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}

// Int64 extracts a required integer payload field. JSON decoding yields
// float64 for numbers, so both representations are accepted.
func (e Event) Int64(key string) (int64, error) {
	v, ok := e.Payload[key]
	if !ok {
		return 0, &MissingFieldError{EventType: e.Type, Field: key}
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, &MissingFieldError{EventType: e.Type, Field: key}
	}
}

// String extracts a required string payload field.
func (e Event) String(key string) (string, error) {
	v, ok := e.Payload[key]
	if !ok {
		return "", &MissingFieldError{EventType: e.Type, Field: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &MissingFieldError{EventType: e.Type, Field: key}
	}
	return s, nil
}
