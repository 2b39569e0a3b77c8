package usersvc

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"

	"github.com/n4th05/blockbuster-api/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrEmailTaken       ErrCode = "EMAIL_TAKEN"
	ErrHasActiveRentals ErrCode = "HAS_ACTIVE_RENTALS"
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

type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SearchParams struct {
	Name             string
	Email            string
	HasActiveRentals *bool
}

type RentalHistoryDTO struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	RentalCount int            `json:"rental_count"`
	LastRental  *LastRentalDTO `json:"last_rental,omitempty"`
}

type LastRentalDTO struct {
	MovieID   int64     `json:"movie_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	GetWithActiveRentals(ctx context.Context) ([]*model.User, error)
	GetWhoRentedMovie(ctx context.Context, movieID int64) ([]*model.User, error)
	Add(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	Get(ctx context.Context, id int64) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Create(ctx context.Context, name, email, phone string) (*UserDTO, error)
	Update(ctx context.Context, id int64, name, email, phone string) (*UserDTO, error)
	Delete(ctx context.Context, id int64) error
	WithActiveRentals(ctx context.Context) ([]UserDTO, error)
	WhoRentedMovie(ctx context.Context, movieID int64) ([]UserDTO, error)
	Search(ctx context.Context, params SearchParams) ([]UserDTO, error)
	RentalHistory(ctx context.Context) ([]RentalHistoryDTO, error)
	TopRenters(ctx context.Context, count int) ([]RentalHistoryDTO, error)
}

// ----- Service implementation -----

type service struct {
	r Repo
	d *DomainService
}

func New(r Repo, d *DomainService) Service { return &service{r: r, d: d} }

func (s *service) Get(ctx context.Context, id int64) (*UserDTO, error) {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return mapToDTO(u), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) UserDTO { return *mapToDTO(u) }), nil
}

func (s *service) Create(ctx context.Context, name, email, phone string) (*UserDTO, error) {
	unique, err := s.d.IsEmailUnique(ctx, email)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, makeErr(ErrEmailTaken)
	}

	u, err := model.NewUser(name, email, phone)
	if err != nil {
		return nil, err
	}
	if err := s.r.Add(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return mapToDTO(u), nil
}

func (s *service) Update(ctx context.Context, id int64, name, email, phone string) (*UserDTO, error) {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, makeErr(ErrNotFound)
	}

	// Re-check uniqueness only when the email actually changes.
	if !strings.EqualFold(u.Email, email) {
		unique, err := s.d.IsEmailUnique(ctx, email)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, makeErr(ErrEmailTaken)
		}
	}

	if err := u.Update(name, email, phone); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return mapToDTO(u), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return makeErr(ErrNotFound)
	}
	ok, err := s.d.CanDeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrHasActiveRentals)
	}
	return s.r.Delete(ctx, id)
}

func (s *service) WithActiveRentals(ctx context.Context) ([]UserDTO, error) {
	users, err := s.r.GetWithActiveRentals(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) UserDTO { return *mapToDTO(u) }), nil
}

func (s *service) WhoRentedMovie(ctx context.Context, movieID int64) ([]UserDTO, error) {
	users, err := s.r.GetWhoRentedMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) UserDTO { return *mapToDTO(u) }), nil
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]UserDTO, error) {
	users, err := s.r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	matched := lo.Filter(users, func(u *model.User, _ int) bool {
		if params.Name != "" && !containsFold(u.Name, params.Name) {
			return false
		}
		if params.Email != "" && !containsFold(u.Email, params.Email) {
			return false
		}
		if params.HasActiveRentals != nil && u.HasActiveRentals(now) != *params.HasActiveRentals {
			return false
		}
		return true
	})
	return lo.Map(matched, func(u *model.User, _ int) UserDTO { return *mapToDTO(u) }), nil
}

func (s *service) RentalHistory(ctx context.Context) ([]RentalHistoryDTO, error) {
	users, err := s.d.GetUsersWithRentalHistory(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) RentalHistoryDTO { return mapToHistoryDTO(u) }), nil
}

func (s *service) TopRenters(ctx context.Context, count int) ([]RentalHistoryDTO, error) {
	users, err := s.d.GetTopUsersWithMostRentals(ctx, count)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) RentalHistoryDTO { return mapToHistoryDTO(u) }), nil
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "email") ||
			strings.Contains(strings.ToLower(pgErr.Message), "email") {
			return makeErr(ErrEmailTaken)
		}
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func mapToDTO(u *model.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func mapToHistoryDTO(u *model.User) RentalHistoryDTO {
	dto := RentalHistoryDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		RentalCount: len(u.Rentals),
	}
	if len(u.Rentals) > 0 {
		rentals := make([]*model.Rental, len(u.Rentals))
		copy(rentals, u.Rentals)
		sort.SliceStable(rentals, func(a, b int) bool {
			return rentals[a].StartDate.After(rentals[b].StartDate)
		})
		last := rentals[0]
		dto.LastRental = &LastRentalDTO{
			MovieID:   last.MovieID,
			StartDate: last.StartDate,
			EndDate:   last.EndDate,
		}
	}
	return dto
}
