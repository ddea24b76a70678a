package films

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
	"github.com/filmgrid/filmgrid/pkg/cascade"
)

// Deleter is the cascading deletion capability the service depends on.
// *cascade.Coordinator satisfies it.
type Deleter interface {
	Delete(ctx context.Context, req cascade.Request) error
}

// Service implements catalog film operations. Deletion is cascading: the
// catalog record goes first, then storage objects are reclaimed and the
// film_deletion event is published for downstream purges.
type Service struct {
	repo    Repository
	deleter Deleter
	logger  *slog.Logger
}

func NewService(repo Repository, deleter Deleter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, deleter: deleter, logger: logger}
}

func (s *Service) Create(ctx context.Context, f *Film) error {
	for _, q := range f.Qualities {
		if !blobstore.ValidQuality(q) {
			return fmt.Errorf("unknown quality %q", q)
		}
	}
	return s.repo.Create(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*Film, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Film, error) {
	return s.repo.List(ctx)
}

// Delete removes the catalog record and starts the cascade. The record is
// deleted before storage is reclaimed so the film disappears from the
// catalog immediately; a cascade failure leaves orphaned objects to be
// retried, never a dangling catalog entry pointing at reclaimed storage.
func (s *Service) Delete(ctx context.Context, id int64) error {
	film, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting film %d: %w", id, err)
	}

	if err := s.deleter.Delete(ctx, cascade.Request{
		ContentID: id,
		Kind:      blobstore.KindFilm,
		Qualities: film.Qualities,
		Cover:     true,
	}); err != nil {
		s.logger.Error("cascade failed after catalog delete", "film_id", id, "err", err)
		return err
	}
	return nil
}
