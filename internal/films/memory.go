package films

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	films  map[int64]*Film
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, films: make(map[int64]*Film)}
}

func (r *MemoryRepository) Create(ctx context.Context, f *Film) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	stored := *f
	r.films[f.ID] = &stored
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.films[id]
	if !ok {
		return nil, ErrFilmNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	films := make([]*Film, 0, len(r.films))
	for _, f := range r.films {
		copied := *f
		films = append(films, &copied)
	}
	return films, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.films[id]; !ok {
		return ErrFilmNotFound
	}
	delete(r.films, id)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
