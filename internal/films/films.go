// Package films is the catalog service's film domain: the film record,
// its repository, and the service that fronts cascading deletion.
package films

import (
	"context"
	"errors"
	"time"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
)

// ErrFilmNotFound is returned when no film exists for the given ID.
var ErrFilmNotFound = errors.New("film not found")

// Film is a catalog record. Qualities lists the video variants that have
// been transcoded and stored for this film.
type Film struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Year        int                 `json:"year"`
	Qualities   []blobstore.Quality `json:"qualities"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Repository persists catalog film records.
type Repository interface {
	Create(ctx context.Context, f *Film) error
	Get(ctx context.Context, id int64) (*Film, error)
	List(ctx context.Context) ([]*Film, error)
	Delete(ctx context.Context, id int64) error
}
