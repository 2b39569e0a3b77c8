package moviesvc_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n4th05/blockbuster-api/model"
	moviesvc "github.com/n4th05/blockbuster-api/service/movie"
)

type repoMock struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.Movie, error)
	getAllFn       func(ctx context.Context) ([]*model.Movie, error)
	getAvailableFn func(ctx context.Context, startDate, endDate time.Time) ([]*model.Movie, error)
	addFn          func(ctx context.Context, m *model.Movie) error
	updateFn       func(ctx context.Context, m *model.Movie) error
	deleteFn       func(ctx context.Context, m *model.Movie) error
}

var _ moviesvc.Repo = (*repoMock)(nil)

func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	if m.getByIDFn == nil {
		return nil, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *repoMock) GetAll(ctx context.Context) ([]*model.Movie, error) {
	if m.getAllFn == nil {
		return nil, nil
	}
	return m.getAllFn(ctx)
}

func (m *repoMock) GetAvailable(ctx context.Context, startDate, endDate time.Time) ([]*model.Movie, error) {
	if m.getAvailableFn == nil {
		return nil, nil
	}
	return m.getAvailableFn(ctx, startDate, endDate)
}

func (m *repoMock) Add(ctx context.Context, mv *model.Movie) error {
	if m.addFn == nil {
		return nil
	}
	return m.addFn(ctx, mv)
}

func (m *repoMock) Update(ctx context.Context, mv *model.Movie) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, mv)
}

func (m *repoMock) Delete(ctx context.Context, mv *model.Movie) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, mv)
}

func movieWithRecentRentals(id int64, title string, count int) *model.Movie {
	m := &model.Movie{ID: id, Title: title, Description: "d", Value: 5}
	start := time.Now().UTC().AddDate(0, 0, -2)
	for i := 0; i < count; i++ {
		m.Rentals = append(m.Rentals, &model.Rental{
			UserID:    int64(i + 1),
			MovieID:   id,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 1),
		})
	}
	return m
}

// --- tests ---

func TestGetTrendingMovies_TopTenDescending(t *testing.T) {
	var movies []*model.Movie
	for i := 0; i < 15; i++ {
		movies = append(movies, movieWithRecentRentals(int64(i+1), fmt.Sprintf("movie-%d", i), i))
	}
	m := &repoMock{
		getAllFn: func(ctx context.Context) ([]*model.Movie, error) { return movies, nil },
	}
	d := moviesvc.NewDomainService(m)

	trending, err := d.GetTrendingMovies(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, trending, 10)

	// rental counts 14 down to 5
	for i, mv := range trending {
		require.Equal(t, fmt.Sprintf("movie-%d", 14-i), mv.Title)
	}
}

func TestGetTrendingMovies_IgnoresDeletedAndOldRentals(t *testing.T) {
	deleted := movieWithRecentRentals(1, "deleted", 9)
	now := time.Now().UTC()
	deleted.DeletedAt = &now

	stale := &model.Movie{ID: 2, Title: "stale", Description: "d", Value: 5}
	stale.Rentals = append(stale.Rentals, &model.Rental{
		UserID:    1,
		MovieID:   2,
		StartDate: now.AddDate(0, 0, -60),
		EndDate:   now.AddDate(0, 0, -55),
	})

	fresh := movieWithRecentRentals(3, "fresh", 1)

	m := &repoMock{
		getAllFn: func(ctx context.Context) ([]*model.Movie, error) {
			return []*model.Movie{deleted, stale, fresh}, nil
		},
	}
	d := moviesvc.NewDomainService(m)

	trending, err := d.GetTrendingMovies(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	require.Equal(t, "fresh", trending[0].Title)
	require.Equal(t, "stale", trending[1].Title)
}

func TestIsMovieAvailable_InvalidPeriod(t *testing.T) {
	d := moviesvc.NewDomainService(&repoMock{})

	start := time.Now().UTC()
	_, err := d.IsMovieAvailable(context.Background(), 1, start, start.AddDate(0, 0, -1))
	require.ErrorIs(t, err, moviesvc.ErrInvalidPeriod)
}

func TestCanRentMovie(t *testing.T) {
	now := time.Now().UTC()
	rented := movieWithRecentRentals(1, "rented", 1)
	deleted := &model.Movie{ID: 2, Title: "gone", Description: "d", Value: 5, DeletedAt: &now}

	m := &repoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Movie, error) {
			switch id {
			case 1:
				return rented, nil
			case 2:
				return deleted, nil
			}
			return nil, nil
		},
	}
	d := moviesvc.NewDomainService(m)
	ctx := context.Background()

	// absent
	ok, err := d.CanRentMovie(ctx, 99, now, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.False(t, ok)

	// deleted
	ok, err = d.CanRentMovie(ctx, 2, now, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.False(t, ok)

	// conflicting window
	ok, err = d.CanRentMovie(ctx, 1, now.AddDate(0, 0, -3), now)
	require.NoError(t, err)
	require.False(t, ok)

	// open window
	ok, err = d.CanRentMovie(ctx, 1, now.AddDate(0, 0, 5), now.AddDate(0, 0, 8))
	require.NoError(t, err)
	require.True(t, ok)
}
