// Package favorites holds the users service's favorite records and the
// event handler that keeps them consistent with the catalog.
package favorites

import (
	"context"
	"time"
)

// Favorite marks a film as favorited by a user.
type Favorite struct {
	UserID    int64     `json:"user_id"`
	FilmID    int64     `json:"film_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the persistence capability the event handler mutates.
// DeleteByFilmID removes every favorite referencing the film; it is
// set-based and therefore naturally idempotent under event redelivery.
type Repository interface {
	Add(ctx context.Context, fav Favorite) error
	ListByUser(ctx context.Context, userID int64) ([]Favorite, error)
	DeleteByFilmID(ctx context.Context, filmID int64) error
}
