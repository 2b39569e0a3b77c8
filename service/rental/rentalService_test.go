package rentalsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n4th05/blockbuster-api/model"
	rentalsvc "github.com/n4th05/blockbuster-api/service/rental"
)

func newService(r *rentalRepoMock, movies *movieRepoMock, users *userRepoMock) rentalsvc.Service {
	return rentalsvc.New(r, rentalsvc.NewDomainService(r, movies, users), movies, users)
}

func TestCreate_Unavailable(t *testing.T) {
	now := time.Now().UTC()
	movie := &model.Movie{ID: 1, Title: "t", Description: "d", Value: 5, Rentals: []*model.Rental{
		rental(9, 1, now.AddDate(0, 0, 1), now.AddDate(0, 0, 5)),
	}}
	user := &model.User{ID: 1, Name: "a", Email: "a@email.com", Phone: "p"}

	s := newService(
		&rentalRepoMock{},
		&movieRepoMock{getByIDFn: func(ctx context.Context, id int64) (*model.Movie, error) { return movie, nil }},
		&userRepoMock{getByIDFn: func(ctx context.Context, id int64) (*model.User, error) { return user, nil }},
	)

	_, err := s.Create(context.Background(), 1, 1, now.AddDate(0, 0, 2), now.AddDate(0, 0, 4))
	require.Equal(t, rentalsvc.ErrUnavailable, rentalsvc.Code(err))
}

func TestCreate_InvalidDates(t *testing.T) {
	now := time.Now().UTC()
	movie := &model.Movie{ID: 1, Title: "t", Description: "d", Value: 5}
	user := &model.User{ID: 1, Name: "a", Email: "a@email.com", Phone: "p"}

	s := newService(
		&rentalRepoMock{},
		&movieRepoMock{getByIDFn: func(ctx context.Context, id int64) (*model.Movie, error) { return movie, nil }},
		&userRepoMock{getByIDFn: func(ctx context.Context, id int64) (*model.User, error) { return user, nil }},
	)

	_, err := s.Create(context.Background(), 1, 1, now.AddDate(0, 0, 4), now.AddDate(0, 0, 4))
	require.ErrorIs(t, err, model.ErrEndNotAfterStart)
}

func TestCreate_Success(t *testing.T) {
	now := time.Now().UTC()
	movie := &model.Movie{ID: 1, Title: "The Matrix", Description: "d", Value: 5}
	user := &model.User{ID: 1, Name: "Jane", Email: "jane@email.com", Phone: "p"}

	var added *model.Rental
	r := &rentalRepoMock{
		addFn: func(ctx context.Context, rental *model.Rental) error {
			added = rental
			return nil
		},
		getFn: func(ctx context.Context, userID, movieID int64) (*model.Rental, error) {
			if added == nil {
				return nil, nil
			}
			stored := *added
			stored.User = user
			stored.Movie = movie
			return &stored, nil
		},
	}
	s := newService(
		r,
		&movieRepoMock{getByIDFn: func(ctx context.Context, id int64) (*model.Movie, error) { return movie, nil }},
		&userRepoMock{getByIDFn: func(ctx context.Context, id int64) (*model.User, error) { return user, nil }},
	)

	dto, err := s.Create(context.Background(), 1, 1, now.AddDate(0, 0, 1), now.AddDate(0, 0, 4))
	require.NoError(t, err)
	require.NotNil(t, added)
	require.Equal(t, "Jane", dto.UserName)
	require.Equal(t, "The Matrix", dto.MovieTitle)
	require.False(t, dto.IsActive)
}

func TestUpdate_NotFound(t *testing.T) {
	now := time.Now().UTC()
	s := newService(&rentalRepoMock{}, &movieRepoMock{}, &userRepoMock{})

	_, err := s.Update(context.Background(), 1, 1, now, now.AddDate(0, 0, 1))
	require.Equal(t, rentalsvc.ErrNotFound, rentalsvc.Code(err))
}

func TestUpdate_RejectsBadDates(t *testing.T) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, 1)
	end := now.AddDate(0, 0, 3)
	stored := rental(1, 1, start, end)

	r := &rentalRepoMock{
		getFn: func(ctx context.Context, userID, movieID int64) (*model.Rental, error) { return stored, nil },
	}
	s := newService(r, &movieRepoMock{}, &userRepoMock{})

	_, err := s.Update(context.Background(), 1, 1, end, start)
	require.ErrorIs(t, err, model.ErrEndNotAfterStart)
	require.Equal(t, start, stored.StartDate)
	require.Equal(t, end, stored.EndDate)
}

func TestDelete_NotFound(t *testing.T) {
	s := newService(&rentalRepoMock{}, &movieRepoMock{}, &userRepoMock{})

	err := s.Delete(context.Background(), 1, 1)
	require.Equal(t, rentalsvc.ErrNotFound, rentalsvc.Code(err))
}

func TestSearch_Conjunction(t *testing.T) {
	now := time.Now().UTC()
	jane := &model.User{ID: 1, Name: "Jane", Email: "jane@email.com", Phone: "p"}
	john := &model.User{ID: 2, Name: "John", Email: "john@email.com", Phone: "p"}
	matrix := &model.Movie{ID: 1, Title: "The Matrix", Description: "d", Value: 5}
	dune := &model.Movie{ID: 2, Title: "Dune", Description: "d", Value: 5}

	current := rental(1, 1, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	current.User, current.Movie = jane, matrix
	past := rental(2, 1, now.AddDate(0, 0, -20), now.AddDate(0, 0, -15))
	past.User, past.Movie = john, matrix
	other := rental(1, 2, now.AddDate(0, 0, -10), now.AddDate(0, 0, -8))
	other.User, other.Movie = jane, dune

	r := &rentalRepoMock{
		getAllFn: func(ctx context.Context) ([]*model.Rental, error) {
			return []*model.Rental{current, past, other}, nil
		},
	}
	s := newService(r, &movieRepoMock{}, &userRepoMock{})
	ctx := context.Background()

	rows, err := s.Search(ctx, rentalsvc.SearchParams{MovieTitle: "matrix"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	active := true
	rows, err = s.Search(ctx, rentalsvc.SearchParams{MovieTitle: "matrix", IsActive: &active})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Jane", rows[0].UserName)

	rows, err = s.Search(ctx, rentalsvc.SearchParams{UserName: "jane", MovieTitle: "dune"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Dune", rows[0].MovieTitle)

	from := now.AddDate(0, 0, -12)
	rows, err = s.Search(ctx, rentalsvc.SearchParams{StartDate: &from})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestStatistics_TopLists(t *testing.T) {
	now := time.Now().UTC()
	heavy := &model.User{ID: 1, Name: "heavy", Email: "h@email.com", Phone: "p"}
	light := &model.User{ID: 2, Name: "light", Email: "l@email.com", Phone: "p"}
	for i := 0; i < 3; i++ {
		heavy.Rentals = append(heavy.Rentals, rental(1, int64(i+1), now.AddDate(0, 0, -i-1), now.AddDate(0, 0, -i)))
	}
	light.Rentals = []*model.Rental{rental(2, 1, now.AddDate(0, 0, -40), now.AddDate(0, 0, -35))}

	hot := &model.Movie{ID: 1, Title: "hot", Description: "d", Value: 5, Rentals: []*model.Rental{
		rental(1, 1, now.AddDate(0, 0, -1), now),
		rental(2, 1, now.AddDate(0, 0, -5), now.AddDate(0, 0, -4)),
	}}
	cold := &model.Movie{ID: 2, Title: "cold", Description: "d", Value: 5}

	r := &rentalRepoMock{
		getAllFn: func(ctx context.Context) ([]*model.Rental, error) { return nil, nil },
	}
	s := newService(
		r,
		&movieRepoMock{getAllFn: func(ctx context.Context) ([]*model.Movie, error) { return []*model.Movie{hot, cold}, nil }},
		&userRepoMock{getAllFn: func(ctx context.Context) ([]*model.User, error) { return []*model.User{light, heavy}, nil }},
	)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.MostActiveUsers, 2)
	require.Equal(t, "heavy", stats.MostActiveUsers[0].Name)
	require.Equal(t, 3, stats.MostActiveUsers[0].RentalCount)
	// the trailing-30-day window hides the older rental
	require.Equal(t, 0, stats.MostActiveUsers[1].RentalCount)
	require.Len(t, stats.MostRentedMovies, 2)
	require.Equal(t, "hot", stats.MostRentedMovies[0].Title)
	require.Equal(t, 2, stats.MostRentedMovies[0].RentalCount)
}
