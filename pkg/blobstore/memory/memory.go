// Package memory provides an in-memory blobstore.Store used by unit tests
// and local development. It also supports deterministic fault injection
// for exercising partial bulk-delete handling.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
)

type object struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

// Backend is an in-memory implementation of the blobstore.Store interface.
type Backend struct {
	mu          sync.RWMutex
	objects     map[string]object
	failDeletes map[string]bool
}

// New creates a new in-memory storage backend.
func New() *Backend {
	return &Backend{
		objects:     make(map[string]object),
		failDeletes: make(map[string]bool),
	}
}

// FailDeletes marks keys whose deletion will fail until cleared. Used by
// tests to simulate partial bulk-delete failures.
func (b *Backend) FailDeletes(keys ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		b.failDeletes[k] = true
	}
}

// ClearFailures removes all injected delete failures.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failDeletes = make(map[string]bool)
}

// Exists reports whether a key currently holds an object.
func (b *Backend) Exists(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.objects[key]
	return ok
}

// Download streams the stored object.
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[key]
	if !exists {
		return nil, blobstore.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// List returns metadata for objects under prefix, re-listing current state
// on every call. Keys are returned in lexical order.
func (b *Backend) List(ctx context.Context, prefix string) ([]blobstore.ObjectInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var infos []blobstore.ObjectInfo
	for key, obj := range b.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, blobstore.ObjectInfo{
			Key:         key,
			Size:        int64(len(obj.data)),
			ContentType: obj.contentType,
			UpdatedAt:   obj.updatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Upload stores the object, overwriting any existing one (last write wins).
func (b *Backend) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &blobstore.StorageError{Key: key, Op: "upload", Err: err}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = object{data: data, contentType: contentType, updatedAt: time.Now().UTC()}
	return nil
}

// Delete removes the object. Deleting a missing key succeeds.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deleteLocked(key)
}

func (b *Backend) deleteLocked(key string) error {
	if b.failDeletes[key] {
		return &blobstore.StorageError{Key: key, Op: "delete", Err: fmt.Errorf("injected failure")}
	}
	delete(b.objects, key)
	return nil
}

// DeleteBatch removes the given keys best-effort, reporting any failed
// subset via *blobstore.PartialDeleteError.
func (b *Backend) DeleteBatch(ctx context.Context, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var failed []string
	reasons := make(map[string]error)
	for _, key := range keys {
		if err := b.deleteLocked(key); err != nil {
			failed = append(failed, key)
			reasons[key] = err
		}
	}
	if len(failed) > 0 {
		return &blobstore.PartialDeleteError{Failed: failed, Reasons: reasons}
	}
	return nil
}

// SignedURL fabricates a time-limited URL for an existing object. The URL
// is not routable; tests only assert on its presence and expiry shape.
func (b *Backend) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, exists := b.objects[key]; !exists {
		return "", blobstore.ErrObjectNotFound
	}
	expires := time.Now().Add(ttl).UTC().Unix()
	return fmt.Sprintf("memory://%s?expires=%d", key, expires), nil
}

var _ blobstore.Store = (*Backend)(nil)
