package user

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/n4th05/blockbuster-api/model"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	GetWithActiveRentals(ctx context.Context) ([]*model.User, error)
	GetWhoRentedMovie(ctx context.Context, movieID int64) ([]*model.User, error)
	Add(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
}

type repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

const userColumns = `u.id, u.name, u.email, u.phone, u.created_at, u.updated_at,
		       r.user_id, r.movie_id, r.start_date, r.end_date`

func (r *repo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN rentals r ON r.user_id = u.id
		WHERE u.id = $1`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (r *repo) GetAll(ctx context.Context) ([]*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN rentals r ON r.user_id = u.id
		ORDER BY u.id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// GetWithActiveRentals lists users holding at least one rental that ends
// after now. Only the matching rentals are attached.
func (r *repo) GetWithActiveRentals(ctx context.Context) ([]*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users u
		INNER JOIN rentals r ON r.user_id = u.id
		WHERE r.end_date > $1
		ORDER BY u.id`
	rows, err := r.pool.Query(ctx, q, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *repo) GetWhoRentedMovie(ctx context.Context, movieID int64) ([]*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users u
		INNER JOIN rentals r ON r.user_id = u.id
		WHERE r.movie_id = $1
		ORDER BY u.id`
	rows, err := r.pool.Query(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *repo) Add(ctx context.Context, u *model.User) error {
	const q = `
		INSERT INTO users (name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.pool.QueryRow(ctx, q,
		u.Name, u.Email, u.Phone, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
}

func (r *repo) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET name = $2,
		    email = $3,
		    phone = $4,
		    updated_at = $5
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.Phone, u.UpdatedAt)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

func collectUsers(rows pgx.Rows) ([]*model.User, error) {
	defer rows.Close()

	byID := map[int64]*model.User{}
	var out []*model.User
	for rows.Next() {
		var u model.User
		var userID, movieID *int64
		var start, end *time.Time
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
			&userID, &movieID, &start, &end,
		); err != nil {
			return nil, err
		}
		entry, ok := byID[u.ID]
		if !ok {
			entry = &u
			byID[u.ID] = entry
			out = append(out, entry)
		}
		if userID != nil {
			entry.Rentals = append(entry.Rentals, &model.Rental{
				UserID:    *userID,
				MovieID:   *movieID,
				StartDate: *start,
				EndDate:   *end,
				User:      entry,
			})
		}
	}
	return out, rows.Err()
}
