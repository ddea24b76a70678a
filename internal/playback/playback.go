// Package playback issues short-lived signed playback URLs for the
// stream-origin service, caching them so repeated starts of the same
// variant don't hit the storage backend's signing path every time.
package playback

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by a URLCache when no entry exists for the key.
var ErrCacheMiss = errors.New("playback: cache miss")

// URLCache caches signed URLs. Entries expire on their own; Set's ttl is
// always shorter than the signature's validity so a cached URL can never
// outlive its signature.
type URLCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, url string, ttl time.Duration) error
}
