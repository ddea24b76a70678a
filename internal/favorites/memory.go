package favorites

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	favs []Favorite
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Add(ctx context.Context, fav Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.favs {
		if existing.UserID == fav.UserID && existing.FilmID == fav.FilmID {
			return nil
		}
	}
	r.favs = append(r.favs, fav)
	return nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID int64) ([]Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Favorite
	for _, fav := range r.favs {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (r *MemoryRepository) DeleteByFilmID(ctx context.Context, filmID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.favs[:0]
	for _, fav := range r.favs {
		if fav.FilmID != filmID {
			kept = append(kept, fav)
		}
	}
	r.favs = kept
	return nil
}

// CountByFilm reports how many favorites reference the film. Test helper.
func (r *MemoryRepository) CountByFilm(filmID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, fav := range r.favs {
		if fav.FilmID == filmID {
			n++
		}
	}
	return n
}

var _ Repository = (*MemoryRepository)(nil)
