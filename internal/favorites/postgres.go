package favorites

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both a pgx pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a repository over a pgx connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

func (r *PostgresRepository) Add(ctx context.Context, fav Favorite) error {
	// Re-adding an existing favorite is a no-op, so event-driven code
	// paths stay idempotent.
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, film_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, film_id) DO NOTHING`,
		fav.UserID, fav.FilmID, fav.CreatedAt)
	return err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Favorite, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, film_id, created_at
		FROM favorites WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []Favorite
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.UserID, &fav.FilmID, &fav.CreatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}

// DeleteByFilmID purges every favorite referencing the film. The
// statement is set-based: re-running it after redelivery deletes nothing
// further and succeeds.
func (r *PostgresRepository) DeleteByFilmID(ctx context.Context, filmID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE film_id = $1`, filmID)
	return err
}

var _ Repository = (*PostgresRepository)(nil)
