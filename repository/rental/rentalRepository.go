// repository/rental/repo.go
package rental

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/n4th05/blockbuster-api/model"
)

type Repo interface {
	Get(ctx context.Context, userID, movieID int64) (*model.Rental, error)
	GetAll(ctx context.Context) ([]*model.Rental, error)
	GetActive(ctx context.Context) ([]*model.Rental, error)
	GetOverdue(ctx context.Context) ([]*model.Rental, error)
	GetUpcoming(ctx context.Context) ([]*model.Rental, error)
	Add(ctx context.Context, r *model.Rental) error
	Update(ctx context.Context, r *model.Rental) error
	Delete(ctx context.Context, userID, movieID int64) error
}

type repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

// Every read joins the owning user and movie so callers get the
// non-owning back-references populated.
const rentalSelect = `
	SELECT r.user_id, r.movie_id, r.start_date, r.end_date,
	       u.id, u.name, u.email, u.phone, u.created_at, u.updated_at,
	       m.id, m.title, m.description, m.value, m.created_at, m.updated_at, m.deleted_at
	FROM rentals r
	JOIN users u ON u.id = r.user_id
	JOIN movies m ON m.id = r.movie_id`

func (r *repo) Get(ctx context.Context, userID, movieID int64) (*model.Rental, error) {
	const q = rentalSelect + `
	WHERE r.user_id = $1 AND r.movie_id = $2`
	rows, err := r.pool.Query(ctx, q, userID, movieID)
	if err != nil {
		return nil, err
	}
	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, err
	}
	if len(rentals) == 0 {
		return nil, nil
	}
	return rentals[0], nil
}

func (r *repo) GetAll(ctx context.Context) ([]*model.Rental, error) {
	const q = rentalSelect + `
	ORDER BY r.start_date, r.user_id, r.movie_id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectRentals(rows)
}

func (r *repo) GetActive(ctx context.Context) ([]*model.Rental, error) {
	const q = rentalSelect + `
	WHERE r.start_date <= $1 AND r.end_date >= $1`
	rows, err := r.pool.Query(ctx, q, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return collectRentals(rows)
}

func (r *repo) GetOverdue(ctx context.Context) ([]*model.Rental, error) {
	const q = rentalSelect + `
	WHERE r.end_date < $1`
	rows, err := r.pool.Query(ctx, q, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return collectRentals(rows)
}

func (r *repo) GetUpcoming(ctx context.Context) ([]*model.Rental, error) {
	const q = rentalSelect + `
	WHERE r.start_date > $1
	ORDER BY r.start_date`
	rows, err := r.pool.Query(ctx, q, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return collectRentals(rows)
}

func (r *repo) Add(ctx context.Context, rental *model.Rental) error {
	const q = `
		INSERT INTO rentals (user_id, movie_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, q, rental.UserID, rental.MovieID, rental.StartDate, rental.EndDate)
	return err
}

func (r *repo) Update(ctx context.Context, rental *model.Rental) error {
	const q = `
		UPDATE rentals
		SET start_date = $3,
		    end_date = $4
		WHERE user_id = $1 AND movie_id = $2`
	_, err := r.pool.Exec(ctx, q, rental.UserID, rental.MovieID, rental.StartDate, rental.EndDate)
	return err
}

func (r *repo) Delete(ctx context.Context, userID, movieID int64) error {
	const q = `DELETE FROM rentals WHERE user_id = $1 AND movie_id = $2`
	_, err := r.pool.Exec(ctx, q, userID, movieID)
	return err
}

func collectRentals(rows pgx.Rows) ([]*model.Rental, error) {
	defer rows.Close()

	var out []*model.Rental
	for rows.Next() {
		var rental model.Rental
		var u model.User
		var m model.Movie
		if err := rows.Scan(
			&rental.UserID, &rental.MovieID, &rental.StartDate, &rental.EndDate,
			&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
			&m.ID, &m.Title, &m.Description, &m.Value, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
		); err != nil {
			return nil, err
		}
		rental.User = &u
		rental.Movie = &m
		out = append(out, &rental)
	}
	return out, rows.Err()
}
