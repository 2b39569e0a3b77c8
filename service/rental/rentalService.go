package rentalsvc

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/n4th05/blockbuster-api/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrUnavailable ErrCode = "UNAVAILABLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// dto

type RentalDTO struct {
	UserID     int64     `json:"user_id"`
	MovieID    int64     `json:"movie_id"`
	UserName   string    `json:"user_name,omitempty"`
	MovieTitle string    `json:"movie_title,omitempty"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	IsActive   bool      `json:"is_active"`
	IsOverdue  bool      `json:"is_overdue"`
}

type SearchParams struct {
	StartDate  *time.Time
	EndDate    *time.Time
	UserName   string
	MovieTitle string
	IsActive   *bool
	IsOverdue  *bool
}

type StatisticsDTO struct {
	RentalStatistics
	MostActiveUsers  []TopUserDTO  `json:"most_active_users"`
	MostRentedMovies []TopMovieDTO `json:"most_rented_movies"`
}

type TopUserDTO struct {
	Name        string `json:"name"`
	RentalCount int    `json:"rental_count"`
}

type TopMovieDTO struct {
	Title       string `json:"title"`
	RentalCount int    `json:"rental_count"`
}

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

type MovieRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	GetAll(ctx context.Context) ([]*model.Movie, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
}

type Service interface {
	Get(ctx context.Context, userID, movieID int64) (*RentalDTO, error)
	List(ctx context.Context) ([]RentalDTO, error)
	Create(ctx context.Context, userID, movieID int64, startDate, endDate time.Time) (*RentalDTO, error)
	Update(ctx context.Context, userID, movieID int64, startDate, endDate time.Time) (*RentalDTO, error)
	Delete(ctx context.Context, userID, movieID int64) error
	Active(ctx context.Context) ([]RentalDTO, error)
	Overdue(ctx context.Context) ([]RentalDTO, error)
	Upcoming(ctx context.Context) ([]RentalDTO, error)
	Search(ctx context.Context, params SearchParams) ([]RentalDTO, error)
	Statistics(ctx context.Context) (*StatisticsDTO, error)
}

// ----- Service implementation -----

type service struct {
	r      Repo
	d      *DomainService
	movies MovieRepo
	users  UserRepo
}

func New(r Repo, d *DomainService, movies MovieRepo, users UserRepo) Service {
	return &service{r: r, d: d, movies: movies, users: users}
}

func (s *service) Get(ctx context.Context, userID, movieID int64) (*RentalDTO, error) {
	rental, err := s.r.Get(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, nil
	}
	return mapToDTO(rental), nil
}

func (s *service) List(ctx context.Context) ([]RentalDTO, error) {
	rentals, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(rentals), nil
}

// Create checks availability and inserts as two separate repository calls;
// two concurrent requests for the same window can both pass the check.
func (s *service) Create(ctx context.Context, userID, movieID int64, startDate, endDate time.Time) (*RentalDTO, error) {
	ok, err := s.d.CanCreateRental(ctx, userID, movieID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrUnavailable)
	}

	rental, err := model.NewRental(userID, movieID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if err := s.r.Add(ctx, rental); err != nil {
		return nil, err
	}

	stored, err := s.r.Get(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return mapToDTO(rental), nil
	}
	return mapToDTO(stored), nil
}

func (s *service) Update(ctx context.Context, userID, movieID int64, startDate, endDate time.Time) (*RentalDTO, error) {
	rental, err := s.r.Get(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, makeErr(ErrNotFound)
	}
	if err := rental.UpdateDates(startDate, endDate); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, rental); err != nil {
		return nil, err
	}
	return mapToDTO(rental), nil
}

func (s *service) Delete(ctx context.Context, userID, movieID int64) error {
	rental, err := s.r.Get(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if rental == nil {
		return makeErr(ErrNotFound)
	}
	return s.r.Delete(ctx, userID, movieID)
}

func (s *service) Active(ctx context.Context) ([]RentalDTO, error) {
	rentals, err := s.r.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(rentals), nil
}

func (s *service) Overdue(ctx context.Context) ([]RentalDTO, error) {
	rentals, err := s.r.GetOverdue(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(rentals), nil
}

func (s *service) Upcoming(ctx context.Context) ([]RentalDTO, error) {
	rentals, err := s.r.GetUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(rentals), nil
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]RentalDTO, error) {
	rentals, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	matched := lo.Filter(rentals, func(r *model.Rental, _ int) bool {
		if params.StartDate != nil && r.StartDate.Before(*params.StartDate) {
			return false
		}
		if params.EndDate != nil && r.EndDate.After(*params.EndDate) {
			return false
		}
		if params.UserName != "" && (r.User == nil || !containsFold(r.User.Name, params.UserName)) {
			return false
		}
		if params.MovieTitle != "" && (r.Movie == nil || !containsFold(r.Movie.Title, params.MovieTitle)) {
			return false
		}
		if params.IsActive != nil && r.IsActive(now) != *params.IsActive {
			return false
		}
		if params.IsOverdue != nil && r.IsOverdue(now) != *params.IsOverdue {
			return false
		}
		return true
	})
	return mapAll(matched), nil
}

func (s *service) Statistics(ctx context.Context) (*StatisticsDTO, error) {
	stats, err := s.d.GetRentalStatistics(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -30)

	topUsers := lo.Map(users, func(u *model.User, _ int) TopUserDTO {
		return TopUserDTO{
			Name: u.Name,
			RentalCount: lo.CountBy(u.Rentals, func(r *model.Rental) bool {
				return !r.StartDate.Before(since)
			}),
		}
	})
	sort.SliceStable(topUsers, func(a, b int) bool { return topUsers[a].RentalCount > topUsers[b].RentalCount })
	if len(topUsers) > 5 {
		topUsers = topUsers[:5]
	}

	live := lo.Filter(movies, func(m *model.Movie, _ int) bool { return !m.IsDeleted() })
	topMovies := lo.Map(live, func(m *model.Movie, _ int) TopMovieDTO {
		return TopMovieDTO{
			Title: m.Title,
			RentalCount: lo.CountBy(m.Rentals, func(r *model.Rental) bool {
				return !r.StartDate.Before(since)
			}),
		}
	})
	sort.SliceStable(topMovies, func(a, b int) bool { return topMovies[a].RentalCount > topMovies[b].RentalCount })
	if len(topMovies) > 5 {
		topMovies = topMovies[:5]
	}

	return &StatisticsDTO{
		RentalStatistics: *stats,
		MostActiveUsers:  topUsers,
		MostRentedMovies: topMovies,
	}, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func mapAll(rentals []*model.Rental) []RentalDTO {
	return lo.Map(rentals, func(r *model.Rental, _ int) RentalDTO { return *mapToDTO(r) })
}

func mapToDTO(r *model.Rental) *RentalDTO {
	now := time.Now().UTC()
	dto := &RentalDTO{
		UserID:    r.UserID,
		MovieID:   r.MovieID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		IsActive:  r.IsActive(now),
		IsOverdue: r.IsOverdue(now),
	}
	if r.User != nil {
		dto.UserName = r.User.Name
	}
	if r.Movie != nil {
		dto.MovieTitle = r.Movie.Title
	}
	return dto
}
