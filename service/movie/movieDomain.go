package moviesvc

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/n4th05/blockbuster-api/model"
)

var ErrInvalidPeriod = errors.New("start date must be before end date")

// DomainService holds the movie rules that need repository lookups.
type DomainService struct {
	movies Repo
}

func NewDomainService(movies Repo) *DomainService {
	return &DomainService{movies: movies}
}

// CanRentMovie reports whether the movie exists, is not deleted and has no
// rental overlapping the requested period.
func (s *DomainService) CanRentMovie(ctx context.Context, movieID int64, startDate, endDate time.Time) (bool, error) {
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	if m == nil || m.IsDeleted() {
		return false, nil
	}
	return m.IsAvailable(startDate, endDate), nil
}

// GetTrendingMovies ranks non-deleted movies by rentals started within the
// trailing days-day window and returns the top 10. Ties keep input order.
func (s *DomainService) GetTrendingMovies(ctx context.Context, days int) ([]*model.Movie, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	active := lo.Filter(movies, func(m *model.Movie, _ int) bool { return !m.IsDeleted() })
	counts := lo.Map(active, func(m *model.Movie, _ int) int {
		return lo.CountBy(m.Rentals, func(r *model.Rental) bool {
			return !r.StartDate.Before(since)
		})
	})

	idx := make([]int, len(active))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return counts[idx[a]] > counts[idx[b]] })

	if len(idx) > 10 {
		idx = idx[:10]
	}
	return lo.Map(idx, func(i int, _ int) *model.Movie { return active[i] }), nil
}

// IsMovieAvailable answers an explicit availability probe for a period.
func (s *DomainService) IsMovieAvailable(ctx context.Context, movieID int64, startDate, endDate time.Time) (bool, error) {
	if startDate.After(endDate) {
		return false, ErrInvalidPeriod
	}
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	if m == nil || m.IsDeleted() {
		return false, nil
	}
	return m.IsAvailable(startDate, endDate), nil
}
