package comments

import (
	"context"
	"log/slog"

	"github.com/filmgrid/filmgrid/pkg/eventbus"
	"github.com/filmgrid/filmgrid/pkg/events"
)

// NewFilmDeletionHandler returns the handler the content service binds to
// the film_deletion queue: purge comments and ratings for the deleted
// film. If the ratings purge fails after the comments purge succeeded,
// redelivery re-runs both; the repeated comments purge is a no-op.
func NewFilmDeletionHandler(repo Repository, logger *slog.Logger) eventbus.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, ev eventbus.Event) error {
		filmID, err := events.FilmID(ev)
		if err != nil {
			return err
		}

		if err := repo.DeleteCommentsByFilmID(ctx, filmID); err != nil {
			return err
		}
		if err := repo.DeleteRatingsByFilmID(ctx, filmID); err != nil {
			return err
		}

		logger.Info("purged engagement records for deleted film", "film_id", filmID)
		return nil
	}
}
