package films

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, f *Film) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO films (title, description, year, qualities)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		f.Title, f.Description, f.Year, qualityStrings(f.Qualities))
	return row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Film, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, title, description, year, qualities, created_at, updated_at
		FROM films WHERE id = $1`, id)
	f, err := scanFilm(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFilmNotFound
	}
	return f, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Film, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, year, qualities, created_at, updated_at
		FROM films ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var films []*Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFilmNotFound
	}
	return nil
}

func scanFilm(row pgx.Row) (*Film, error) {
	var f Film
	var qualities []string
	if err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Year, &qualities, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Qualities = parseQualities(qualities)
	return &f, nil
}

func qualityStrings(qs []blobstore.Quality) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = string(q)
	}
	return out
}

func parseQualities(ss []string) []blobstore.Quality {
	out := make([]blobstore.Quality, len(ss))
	for i, s := range ss {
		out[i] = blobstore.Quality(s)
	}
	return out
}

var _ Repository = (*PostgresRepository)(nil)
