package comments

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

func (r *PostgresRepository) AddComment(ctx context.Context, c Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (user_id, film_id, text, created_at)
		VALUES ($1, $2, $3, $4)`,
		c.UserID, c.FilmID, c.Text, c.CreatedAt)
	return err
}

func (r *PostgresRepository) AddRating(ctx context.Context, rating Rating) error {
	// Upsert keeps the score a state, not an increment, so replays of
	// the same rating event converge instead of accumulating.
	_, err := r.db.Exec(ctx, `
		INSERT INTO ratings (user_id, film_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, film_id) DO UPDATE SET score = EXCLUDED.score`,
		rating.UserID, rating.FilmID, rating.Score)
	return err
}

func (r *PostgresRepository) DeleteCommentsByFilmID(ctx context.Context, filmID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE film_id = $1`, filmID)
	return err
}

func (r *PostgresRepository) DeleteRatingsByFilmID(ctx context.Context, filmID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE film_id = $1`, filmID)
	return err
}

var _ Repository = (*PostgresRepository)(nil)
