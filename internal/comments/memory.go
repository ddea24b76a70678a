package comments

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	comments []Comment
	ratings  []Rating
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) AddComment(ctx context.Context, c Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	r.comments = append(r.comments, c)
	return nil
}

func (r *MemoryRepository) AddRating(ctx context.Context, rating Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.ratings {
		if existing.UserID == rating.UserID && existing.FilmID == rating.FilmID {
			r.ratings[i] = rating
			return nil
		}
	}
	r.ratings = append(r.ratings, rating)
	return nil
}

func (r *MemoryRepository) DeleteCommentsByFilmID(ctx context.Context, filmID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.comments[:0]
	for _, c := range r.comments {
		if c.FilmID != filmID {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

func (r *MemoryRepository) DeleteRatingsByFilmID(ctx context.Context, filmID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.ratings[:0]
	for _, rating := range r.ratings {
		if rating.FilmID != filmID {
			kept = append(kept, rating)
		}
	}
	r.ratings = kept
	return nil
}

// Counts reports remaining comments and ratings for a film. Test helper.
func (r *MemoryRepository) Counts(filmID int64) (comments, ratings int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.comments {
		if c.FilmID == filmID {
			comments++
		}
	}
	for _, rating := range r.ratings {
		if rating.FilmID == filmID {
			ratings++
		}
	}
	return comments, ratings
}

var _ Repository = (*MemoryRepository)(nil)
