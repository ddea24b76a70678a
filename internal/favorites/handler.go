package favorites

import (
	"context"
	"log/slog"

	"github.com/filmgrid/filmgrid/pkg/eventbus"
	"github.com/filmgrid/filmgrid/pkg/events"
)

// NewFilmDeletionHandler returns the handler the users service binds to
// the film_deletion queue: purge every favorite referencing the deleted
// film. Redelivery is harmless because the purge is set-based.
func NewFilmDeletionHandler(repo Repository, logger *slog.Logger) eventbus.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, ev eventbus.Event) error {
		filmID, err := events.FilmID(ev)
		if err != nil {
			// Fail closed: without the film identifier there is
			// nothing safe to purge. Surfacing the error leaves the
			// message to redelivery and the poison path.
			return err
		}

		if err := repo.DeleteByFilmID(ctx, filmID); err != nil {
			return err
		}

		logger.Info("purged favorites for deleted film", "film_id", filmID)
		return nil
	}
}
