package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
)

const (
	// DefaultURLTTL is how long a signed playback URL stays valid.
	DefaultURLTTL = 15 * time.Minute

	// cacheMargin is subtracted from the URL TTL for the cache entry, so
	// clients never receive a URL about to expire under them.
	cacheMargin = 2 * time.Minute
)

// Service issues signed playback URLs for film quality variants.
type Service struct {
	store  blobstore.Store
	cache  URLCache
	logger *slog.Logger
	urlTTL time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithURLTTL overrides the signed URL validity window.
func WithURLTTL(ttl time.Duration) Option {
	return func(s *Service) { s.urlTTL = ttl }
}

func NewService(store blobstore.Store, cache URLCache, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: store, cache: cache, logger: logger, urlTTL: DefaultURLTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaybackURL returns a signed URL for one film variant. Cache hits are
// served directly; on a miss the backend signs a fresh URL which is cached
// for slightly less than its validity.
func (s *Service) PlaybackURL(ctx context.Context, filmID int64, quality blobstore.Quality) (string, error) {
	if !blobstore.ValidQuality(quality) {
		return "", fmt.Errorf("unknown quality %q", quality)
	}

	key := blobstore.ObjectKey{ContentID: filmID, Kind: blobstore.KindFilm, Quality: quality}.String()

	if url, err := s.cache.Get(ctx, key); err == nil {
		return url, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		// A broken cache must not take playback down with it.
		s.logger.Warn("url cache read failed", "key", key, "err", err)
	}

	url, err := s.store.SignedURL(ctx, key, s.urlTTL)
	if err != nil {
		return "", err
	}

	if ttl := s.urlTTL - cacheMargin; ttl > 0 {
		if err := s.cache.Set(ctx, key, url, ttl); err != nil {
			s.logger.Warn("url cache write failed", "key", key, "err", err)
		}
	}
	return url, nil
}
