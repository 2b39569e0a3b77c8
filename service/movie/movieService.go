package moviesvc

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
	ErrNotFound ErrCode = "NOT_FOUND"
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

type MovieDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SearchParams struct {
	Title       string
	Description string
	MinValue    *float64
	MaxValue    *float64
	IsAvailable *bool
}

type StatisticsDTO struct {
	TotalMovies           int             `json:"total_movies"`
	AvailableMovies       int             `json:"available_movies"`
	RentedMovies          int             `json:"rented_movies"`
	AverageRentalDuration float64         `json:"average_rental_duration"`
	TopRentedMovies       []RentalStatDTO `json:"top_rented_movies"`
}

type RentalStatDTO struct {
	MovieID     int64  `json:"movie_id"`
	Title       string `json:"title"`
	RentalCount int    `json:"rental_count"`
}

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	GetAll(ctx context.Context) ([]*model.Movie, error)
	GetAvailable(ctx context.Context, startDate, endDate time.Time) ([]*model.Movie, error)
	Add(ctx context.Context, m *model.Movie) error
	Update(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, m *model.Movie) error
}

type Service interface {
	Get(ctx context.Context, id int64) (*MovieDTO, error)
	List(ctx context.Context) ([]MovieDTO, error)
	Create(ctx context.Context, title, description string, value float64) (*MovieDTO, error)
	Update(ctx context.Context, id int64, title, description string, value float64) (*MovieDTO, error)
	Delete(ctx context.Context, id int64) error
	Trending(ctx context.Context) ([]MovieDTO, error)
	Available(ctx context.Context) ([]MovieDTO, error)
	Availability(ctx context.Context, id int64, startDate, endDate time.Time) (bool, error)
	Search(ctx context.Context, params SearchParams) ([]MovieDTO, error)
	Statistics(ctx context.Context) (*StatisticsDTO, error)
}

// ----- Service implementation -----

type service struct {
	r Repo
	d *DomainService
}

func New(r Repo, d *DomainService) Service { return &service{r: r, d: d} }

func (s *service) Get(ctx context.Context, id int64) (*MovieDTO, error) {
	m, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.IsDeleted() {
		return nil, nil
	}
	return mapToDTO(m), nil
}

func (s *service) List(ctx context.Context) ([]MovieDTO, error) {
	movies, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	live := lo.Filter(movies, func(m *model.Movie, _ int) bool { return !m.IsDeleted() })
	return lo.Map(live, func(m *model.Movie, _ int) MovieDTO { return *mapToDTO(m) }), nil
}

func (s *service) Create(ctx context.Context, title, description string, value float64) (*MovieDTO, error) {
	m, err := model.NewMovie(title, description, value)
	if err != nil {
		return nil, err
	}
	if err := s.r.Add(ctx, m); err != nil {
		return nil, err
	}
	return mapToDTO(m), nil
}

func (s *service) Update(ctx context.Context, id int64, title, description string, value float64) (*MovieDTO, error) {
	m, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.IsDeleted() {
		return nil, makeErr(ErrNotFound)
	}
	if err := m.Update(title, description, value); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, m); err != nil {
		return nil, err
	}
	return mapToDTO(m), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	m, err := s.r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil || m.IsDeleted() {
		return makeErr(ErrNotFound)
	}
	if err := m.Delete(); err != nil {
		return err
	}
	return s.r.Delete(ctx, m)
}

func (s *service) Trending(ctx context.Context) ([]MovieDTO, error) {
	movies, err := s.d.GetTrendingMovies(ctx, 30)
	if err != nil {
		return nil, err
	}
	return lo.Map(movies, func(m *model.Movie, _ int) MovieDTO { return *mapToDTO(m) }), nil
}

func (s *service) Available(ctx context.Context) ([]MovieDTO, error) {
	now := time.Now().UTC()
	movies, err := s.r.GetAvailable(ctx, now, now)
	if err != nil {
		return nil, err
	}
	return lo.Map(movies, func(m *model.Movie, _ int) MovieDTO { return *mapToDTO(m) }), nil
}

func (s *service) Availability(ctx context.Context, id int64, startDate, endDate time.Time) (bool, error) {
	return s.d.IsMovieAvailable(ctx, id, startDate, endDate)
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]MovieDTO, error) {
	movies, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	matched := lo.Filter(movies, func(m *model.Movie, _ int) bool {
		if m.IsDeleted() {
			return false
		}
		if params.Title != "" && !containsFold(m.Title, params.Title) {
			return false
		}
		if params.Description != "" && !containsFold(m.Description, params.Description) {
			return false
		}
		if params.MinValue != nil && m.Value < *params.MinValue {
			return false
		}
		if params.MaxValue != nil && m.Value > *params.MaxValue {
			return false
		}
		if params.IsAvailable != nil && m.IsAvailable(now, now) != *params.IsAvailable {
			return false
		}
		return true
	})
	return lo.Map(matched, func(m *model.Movie, _ int) MovieDTO { return *mapToDTO(m) }), nil
}

func (s *service) Statistics(ctx context.Context) (*StatisticsDTO, error) {
	movies, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	live := lo.Filter(movies, func(m *model.Movie, _ int) bool { return !m.IsDeleted() })
	now := time.Now().UTC()

	available := lo.CountBy(live, func(m *model.Movie) bool { return m.IsAvailable(now, now) })

	return &StatisticsDTO{
		TotalMovies:           len(live),
		AvailableMovies:       available,
		RentedMovies:          len(live) - available,
		AverageRentalDuration: averageRentalDuration(live),
		TopRentedMovies:       topRentedMovies(live, 5),
	}, nil
}

// averageRentalDuration averages fractional days over every rental of the
// given movies, zero when there are none.
func averageRentalDuration(movies []*model.Movie) float64 {
	var total float64
	var n int
	for _, m := range movies {
		for _, r := range m.Rentals {
			total += r.EndDate.Sub(r.StartDate).Hours() / 24
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func topRentedMovies(movies []*model.Movie, count int) []RentalStatDTO {
	stats := lo.Map(movies, func(m *model.Movie, _ int) RentalStatDTO {
		return RentalStatDTO{MovieID: m.ID, Title: m.Title, RentalCount: len(m.Rentals)}
	})
	sort.SliceStable(stats, func(a, b int) bool { return stats[a].RentalCount > stats[b].RentalCount })
	if len(stats) > count {
		stats = stats[:count]
	}
	return stats
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func mapToDTO(m *model.Movie) *MovieDTO {
	now := time.Now().UTC()
	return &MovieDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Value:       m.Value,
		IsAvailable: m.IsAvailable(now, now),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
