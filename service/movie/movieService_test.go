package moviesvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n4th05/blockbuster-api/model"
	moviesvc "github.com/n4th05/blockbuster-api/service/movie"
)

func newService(m *repoMock) moviesvc.Service {
	return moviesvc.New(m, moviesvc.NewDomainService(m))
}

func TestGet_HidesDeleted(t *testing.T) {
	now := time.Now().UTC()
	m := &repoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Movie, error) {
			return &model.Movie{ID: id, Title: "t", Description: "d", Value: 1, DeletedAt: &now}, nil
		},
	}
	s := newService(m)

	dto, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Nil(t, dto)
}

func TestCreate_InvalidValue(t *testing.T) {
	s := newService(&repoMock{})

	_, err := s.Create(context.Background(), "title", "desc", 0)
	require.ErrorIs(t, err, model.ErrValueNotPositive)
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		addFn: func(ctx context.Context, mv *model.Movie) error {
			mv.ID = 7
			return nil
		},
	}
	s := newService(m)

	dto, err := s.Create(context.Background(), "The Matrix", "A hacker discovers reality", 9.99)
	require.NoError(t, err)
	require.Equal(t, int64(7), dto.ID)
	require.True(t, dto.IsAvailable)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newService(&repoMock{})

	_, err := s.Update(context.Background(), 1, "t", "d", 1)
	require.Equal(t, moviesvc.ErrNotFound, moviesvc.Code(err))
}

func TestDelete_PersistsSoftDeletion(t *testing.T) {
	stored := &model.Movie{ID: 3, Title: "t", Description: "d", Value: 1}
	var deleted *model.Movie
	m := &repoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Movie, error) { return stored, nil },
		deleteFn: func(ctx context.Context, mv *model.Movie) error {
			deleted = mv
			return nil
		},
	}
	s := newService(m)

	require.NoError(t, s.Delete(context.Background(), 3))
	require.NotNil(t, deleted)
	require.NotNil(t, deleted.DeletedAt)

	// second deletion: the stored row is now soft-deleted
	err := s.Delete(context.Background(), 3)
	require.Equal(t, moviesvc.ErrNotFound, moviesvc.Code(err))
}

func TestSearch_Filters(t *testing.T) {
	now := time.Now().UTC()
	matrix := &model.Movie{ID: 1, Title: "The Matrix", Description: "hacker classic", Value: 9.99}
	dune := &model.Movie{ID: 2, Title: "Dune", Description: "desert epic", Value: 19.99}
	gone := &model.Movie{ID: 3, Title: "The Matrix Reloaded", Description: "sequel", Value: 9.99, DeletedAt: &now}

	m := &repoMock{
		getAllFn: func(ctx context.Context) ([]*model.Movie, error) {
			return []*model.Movie{matrix, dune, gone}, nil
		},
	}
	s := newService(m)
	ctx := context.Background()

	rows, err := s.Search(ctx, moviesvc.SearchParams{Title: "matrix"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "The Matrix", rows[0].Title)

	min := 15.0
	rows, err = s.Search(ctx, moviesvc.SearchParams{MinValue: &min})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Dune", rows[0].Title)

	max := 10.0
	rows, err = s.Search(ctx, moviesvc.SearchParams{Title: "THE", MaxValue: &max})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "The Matrix", rows[0].Title)
}

func TestStatistics(t *testing.T) {
	now := time.Now().UTC()
	rentedNow := &model.Movie{ID: 1, Title: "busy", Description: "d", Value: 5}
	rentedNow.Rentals = []*model.Rental{
		{UserID: 1, MovieID: 1, StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 1)},
		{UserID: 2, MovieID: 1, StartDate: now.AddDate(0, 0, -10), EndDate: now.AddDate(0, 0, -6)},
	}
	idle := &model.Movie{ID: 2, Title: "idle", Description: "d", Value: 5}
	deleted := &model.Movie{ID: 3, Title: "gone", Description: "d", Value: 5, DeletedAt: &now}

	m := &repoMock{
		getAllFn: func(ctx context.Context) ([]*model.Movie, error) {
			return []*model.Movie{rentedNow, idle, deleted}, nil
		},
	}
	s := newService(m)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalMovies)
	require.Equal(t, 1, stats.AvailableMovies)
	require.Equal(t, 1, stats.RentedMovies)
	// (2 + 4) fractional days over 2 rentals
	require.InDelta(t, 3.0, stats.AverageRentalDuration, 0.001)
	require.Len(t, stats.TopRentedMovies, 2)
	require.Equal(t, "busy", stats.TopRentedMovies[0].Title)
	require.Equal(t, 2, stats.TopRentedMovies[0].RentalCount)
}

func TestStatistics_NoRentals(t *testing.T) {
	m := &repoMock{
		getAllFn: func(ctx context.Context) ([]*model.Movie, error) {
			return []*model.Movie{{ID: 1, Title: "t", Description: "d", Value: 1}}, nil
		},
	}
	s := newService(m)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.AverageRentalDuration)
}
