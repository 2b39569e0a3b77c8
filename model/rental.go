package model

import (
	"errors"
	"time"
)

var ErrEndNotAfterStart = errors.New("end date must be after start date")

// Rental is keyed by (UserID, MovieID): at most one rental per pair.
// User and Movie are non-owning back-references populated by the
// repository layer for display and filtering only.
type Rental struct {
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	User  *User  `json:"-"`
	Movie *Movie `json:"-"`
}

func NewRental(userID, movieID int64, startDate, endDate time.Time) (*Rental, error) {
	if !startDate.Before(endDate) {
		return nil, ErrEndNotAfterStart
	}
	return &Rental{
		UserID:    userID,
		MovieID:   movieID,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func (r *Rental) UpdateDates(startDate, endDate time.Time) error {
	if !startDate.Before(endDate) {
		return ErrEndNotAfterStart
	}
	r.StartDate = startDate
	r.EndDate = endDate
	return nil
}

// IsActive reports whether currentDate falls within [StartDate, EndDate].
func (r *Rental) IsActive(currentDate time.Time) bool {
	return !r.StartDate.After(currentDate) && !r.EndDate.Before(currentDate)
}

// IsOverdue reports whether currentDate is strictly past EndDate.
func (r *Rental) IsOverdue(currentDate time.Time) bool {
	return r.EndDate.Before(currentDate)
}

// DurationDays is the rental length truncated to whole days.
func (r *Rental) DurationDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}
