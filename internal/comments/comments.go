// Package comments holds the content service's per-film engagement
// records (comments and ratings) and their film_deletion purge handler.
package comments

import (
	"context"
	"time"
)

// Comment is a user comment on a film.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FilmID    int64     `json:"film_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating is a user rating of a film.
type Rating struct {
	UserID int64 `json:"user_id"`
	FilmID int64 `json:"film_id"`
	Score  int   `json:"score"`
}

// Repository mutates the content service's derived records. Both purge
// operations are set-based and idempotent.
type Repository interface {
	AddComment(ctx context.Context, c Comment) error
	AddRating(ctx context.Context, r Rating) error
	DeleteCommentsByFilmID(ctx context.Context, filmID int64) error
	DeleteRatingsByFilmID(ctx context.Context, filmID int64) error
}
