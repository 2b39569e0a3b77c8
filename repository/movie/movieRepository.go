package movie

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/n4th05/blockbuster-api/model"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	GetAll(ctx context.Context) ([]*model.Movie, error)
	GetAvailable(ctx context.Context, startDate, endDate time.Time) ([]*model.Movie, error)
	Add(ctx context.Context, m *model.Movie) error
	Update(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, m *model.Movie) error
}

type repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	const q = `
		SELECT m.id, m.title, m.description, m.value, m.created_at, m.updated_at, m.deleted_at,
		       r.user_id, r.movie_id, r.start_date, r.end_date
		FROM movies m
		LEFT JOIN rentals r ON r.movie_id = m.id
		WHERE m.id = $1`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return movies[0], nil
}

func (r *repo) GetAll(ctx context.Context) ([]*model.Movie, error) {
	const q = `
		SELECT m.id, m.title, m.description, m.value, m.created_at, m.updated_at, m.deleted_at,
		       r.user_id, r.movie_id, r.start_date, r.end_date
		FROM movies m
		LEFT JOIN rentals r ON r.movie_id = m.id
		ORDER BY m.id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// GetAvailable lists non-deleted movies with no rental overlapping the
// closed interval [startDate, endDate].
func (r *repo) GetAvailable(ctx context.Context, startDate, endDate time.Time) ([]*model.Movie, error) {
	const q = `
		SELECT m.id, m.title, m.description, m.value, m.created_at, m.updated_at, m.deleted_at
		FROM movies m
		WHERE m.deleted_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM rentals r
			WHERE r.movie_id = m.id
			AND r.start_date <= $2
			AND r.end_date >= $1
		)
		ORDER BY m.id`
	rows, err := r.pool.Query(ctx, q, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.Value,
			&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *repo) Add(ctx context.Context, m *model.Movie) error {
	const q = `
		INSERT INTO movies (title, description, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.pool.QueryRow(ctx, q,
		m.Title, m.Description, m.Value, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *repo) Update(ctx context.Context, m *model.Movie) error {
	const q = `
		UPDATE movies
		SET title = $2,
		    description = $3,
		    value = $4,
		    updated_at = $5,
		    deleted_at = $6
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, m.ID, m.Title, m.Description, m.Value, m.UpdatedAt, m.DeletedAt)
	return err
}

// Delete persists a soft deletion; the entity must already be marked deleted.
func (r *repo) Delete(ctx context.Context, m *model.Movie) error {
	const q = `
		UPDATE movies
		SET deleted_at = $2,
		    updated_at = $3
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, m.ID, m.DeletedAt, m.UpdatedAt)
	return err
}

// collectMovies groups joined movie/rental rows, appending each rental row
// under its parent movie. Rental columns are NULL for movies without rentals.
func collectMovies(rows pgx.Rows) ([]*model.Movie, error) {
	defer rows.Close()

	byID := map[int64]*model.Movie{}
	var out []*model.Movie
	for rows.Next() {
		var m model.Movie
		var userID, movieID *int64
		var start, end *time.Time
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.Value,
			&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
			&userID, &movieID, &start, &end,
		); err != nil {
			return nil, err
		}
		entry, ok := byID[m.ID]
		if !ok {
			entry = &m
			byID[m.ID] = entry
			out = append(out, entry)
		}
		if userID != nil {
			entry.Rentals = append(entry.Rentals, &model.Rental{
				UserID:    *userID,
				MovieID:   *movieID,
				StartDate: *start,
				EndDate:   *end,
				Movie:     entry,
			})
		}
	}
	return out, rows.Err()
}
