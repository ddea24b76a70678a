package playback_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/filmgrid/internal/playback"
	"github.com/filmgrid/filmgrid/pkg/blobstore"
	memorystorage "github.com/filmgrid/filmgrid/pkg/blobstore/memory"
)

type countingStore struct {
	blobstore.Store
	signCalls int
}

func (s *countingStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.signCalls++
	return s.Store.SignedURL(ctx, key, ttl)
}

func uploadVariant(t *testing.T, store blobstore.Store, filmID int64, q blobstore.Quality) string {
	t.Helper()
	key := blobstore.ObjectKey{ContentID: filmID, Kind: blobstore.KindFilm, Quality: q}.String()
	require.NoError(t, store.Upload(context.Background(), key, strings.NewReader("video"), "video/mp4"))
	return key
}

func TestPlaybackURL(t *testing.T) {
	ctx := context.Background()

	t.Run("SignsAndCaches", func(t *testing.T) {
		store := &countingStore{Store: memorystorage.New()}
		uploadVariant(t, store, 42, blobstore.Quality720p)
		svc := playback.NewService(store, playback.NewMemoryCache(), slog.Default())

		first, err := svc.PlaybackURL(ctx, 42, blobstore.Quality720p)
		require.NoError(t, err)
		assert.NotEmpty(t, first)

		second, err := svc.PlaybackURL(ctx, 42, blobstore.Quality720p)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.signCalls)
	})

	t.Run("CacheEntryExpiresBeforeSignature", func(t *testing.T) {
		store := &countingStore{Store: memorystorage.New()}
		uploadVariant(t, store, 42, blobstore.Quality720p)
		// TTL of 2m leaves no cache window after the safety margin, so
		// every request signs a fresh URL.
		svc := playback.NewService(store, playback.NewMemoryCache(), slog.Default(),
			playback.WithURLTTL(2*time.Minute))

		_, err := svc.PlaybackURL(ctx, 42, blobstore.Quality720p)
		require.NoError(t, err)
		_, err = svc.PlaybackURL(ctx, 42, blobstore.Quality720p)
		require.NoError(t, err)
		assert.Equal(t, 2, store.signCalls)
	})

	t.Run("MissingVariant", func(t *testing.T) {
		store := memorystorage.New()
		svc := playback.NewService(store, playback.NewMemoryCache(), slog.Default())

		_, err := svc.PlaybackURL(ctx, 42, blobstore.Quality1080p)
		assert.ErrorIs(t, err, blobstore.ErrObjectNotFound)
	})

	t.Run("RejectsUnknownQuality", func(t *testing.T) {
		svc := playback.NewService(memorystorage.New(), playback.NewMemoryCache(), slog.Default())

		_, err := svc.PlaybackURL(ctx, 42, "4k")
		require.Error(t, err)
	})
}
