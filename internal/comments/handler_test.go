package comments_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/filmgrid/internal/comments"
	"github.com/filmgrid/filmgrid/pkg/eventbus"
	"github.com/filmgrid/filmgrid/pkg/events"
)

func seed(t *testing.T, repo *comments.MemoryRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.AddComment(ctx, comments.Comment{UserID: 1, FilmID: 42, Text: "great", CreatedAt: now}))
	require.NoError(t, repo.AddComment(ctx, comments.Comment{UserID: 2, FilmID: 42, Text: "meh", CreatedAt: now}))
	require.NoError(t, repo.AddComment(ctx, comments.Comment{UserID: 1, FilmID: 7, Text: "ok", CreatedAt: now}))
	require.NoError(t, repo.AddRating(ctx, comments.Rating{UserID: 1, FilmID: 42, Score: 5}))
	require.NoError(t, repo.AddRating(ctx, comments.Rating{UserID: 2, FilmID: 7, Score: 3}))
}

func TestFilmDeletionHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("PurgesCommentsAndRatings", func(t *testing.T) {
		repo := comments.NewMemoryRepository()
		seed(t, repo)
		h := comments.NewFilmDeletionHandler(repo, slog.Default())

		require.NoError(t, h(ctx, events.NewFilmDeletion(42)))

		c, r := repo.Counts(42)
		assert.Equal(t, 0, c)
		assert.Equal(t, 0, r)

		c, r = repo.Counts(7)
		assert.Equal(t, 1, c)
		assert.Equal(t, 1, r)
	})

	t.Run("IdempotentUnderRedelivery", func(t *testing.T) {
		repo := comments.NewMemoryRepository()
		seed(t, repo)
		h := comments.NewFilmDeletionHandler(repo, slog.Default())

		ev := events.NewFilmDeletion(42)
		require.NoError(t, h(ctx, ev))
		require.NoError(t, h(ctx, ev))

		c, r := repo.Counts(42)
		assert.Equal(t, 0, c)
		assert.Equal(t, 0, r)
	})

	t.Run("FailsClosedWithoutFilmID", func(t *testing.T) {
		repo := comments.NewMemoryRepository()
		seed(t, repo)
		h := comments.NewFilmDeletionHandler(repo, slog.Default())

		err := h(ctx, eventbus.New(events.QueueFilmDeletion, map[string]any{"id": "42"}))
		require.Error(t, err)

		c, _ := repo.Counts(42)
		assert.Equal(t, 2, c)
	})
}
