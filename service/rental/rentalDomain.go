package rentalsvc

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/n4th05/blockbuster-api/model"
)

// RentalStatistics is the domain-level rollup over the full rental set.
type RentalStatistics struct {
	TotalActiveRentals    int     `json:"total_active_rentals"`
	OverdueRentals        int     `json:"overdue_rentals"`
	RentalsLast30Days     int     `json:"rentals_last_30_days"`
	AverageRentalDuration float64 `json:"average_rental_duration"`
}

// DomainService holds the rental rules spanning users, movies and rentals.
type DomainService struct {
	rentals Repo
	movies  MovieRepo
	users   UserRepo
}

func NewDomainService(rentals Repo, movies MovieRepo, users UserRepo) *DomainService {
	return &DomainService{rentals: rentals, movies: movies, users: users}
}

// CanCreateRental requires an existing user, an existing non-deleted movie
// and an open period on the movie. It does not consider the user's other
// rentals.
func (s *DomainService) CanCreateRental(ctx context.Context, userID, movieID int64, startDate, endDate time.Time) (bool, error) {
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if m == nil || m.IsDeleted() || u == nil {
		return false, nil
	}
	return m.IsAvailable(startDate, endDate), nil
}

func (s *DomainService) GetUserRentals(ctx context.Context, userID int64) ([]*model.Rental, error) {
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(rentals, func(r *model.Rental, _ int) bool { return r.UserID == userID }), nil
}

func (s *DomainService) GetMovieRentals(ctx context.Context, movieID int64) ([]*model.Rental, error) {
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(rentals, func(r *model.Rental, _ int) bool { return r.MovieID == movieID }), nil
}

// GetRentalStatistics computes counts as of now and the mean whole-day
// duration across all rentals, zero on an empty set.
func (s *DomainService) GetRentalStatistics(ctx context.Context) (*RentalStatistics, error) {
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -30)

	stats := &RentalStatistics{
		TotalActiveRentals: lo.CountBy(rentals, func(r *model.Rental) bool { return r.IsActive(now) }),
		OverdueRentals:     lo.CountBy(rentals, func(r *model.Rental) bool { return r.IsOverdue(now) }),
		RentalsLast30Days: lo.CountBy(rentals, func(r *model.Rental) bool {
			return !r.StartDate.Before(since)
		}),
	}
	if len(rentals) > 0 {
		var total int
		for _, r := range rentals {
			total += r.DurationDays()
		}
		stats.AverageRentalDuration = float64(total) / float64(len(rentals))
	}
	return stats, nil
}
