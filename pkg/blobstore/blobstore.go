// Package blobstore defines the capability interface over a key-addressed
// binary blob store, shared by the streaming read path and the cascading
// deletion coordinator regardless of the concrete backend. The interface is
// deliberately narrow so every backend stays small and independently
// testable against the in-memory implementation.
package blobstore

import (
	"context"
	"io"
	"time"
)

// Store is the uniform capability interface over a blob store. Every call
// is a self-contained round trip; implementations hold no cross-call
// mutable state and are safe for concurrent use.
type Store interface {
	// Download streams the object at key. Fails with ErrObjectNotFound
	// if the key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns metadata for the objects whose keys start with prefix.
	// Each call re-lists from current state; no cursor persists between
	// calls.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Upload writes the object at key, overwriting any existing object
	// (last write wins; no optimistic concurrency control).
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes the object at key. Deleting a missing key succeeds:
	// delete is idempotent to match at-least-once event redelivery.
	Delete(ctx context.Context, key string) error

	// DeleteBatch removes the given keys best-effort. A partial failure
	// is reported as a *PartialDeleteError carrying exactly the failed
	// keys, so callers can retry only that subset.
	DeleteBatch(ctx context.Context, keys []string) error

	// SignedURL returns a time-limited read-only URL for the object at
	// key, or ErrObjectNotFound if the key does not exist. At most one
	// backend round trip.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectInfo describes one stored object in a listing.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}
