package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrValueNotPositive    = errors.New("value must be positive")
	ErrMovieDeleted        = errors.New("movie is deleted")
	ErrMovieAlreadyDeleted = errors.New("movie is already deleted")
	ErrMovieUnavailable    = errors.New("movie is not available for the period")
	ErrRentalOnDeleted     = errors.New("cannot rent a deleted movie")
)

type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Value       float64    `json:"value"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	Rentals     []*Rental  `json:"rentals,omitempty"`
}

func NewMovie(title, description string, value float64) (*Movie, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}
	if value <= 0 {
		return nil, ErrValueNotPositive
	}
	now := time.Now().UTC()
	return &Movie{
		Title:       title,
		Description: description,
		Value:       value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (m *Movie) Update(title, description string, value float64) error {
	if m.IsDeleted() {
		return ErrMovieDeleted
	}
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(description) == "" {
		return ErrDescriptionRequired
	}
	if value <= 0 {
		return ErrValueNotPositive
	}
	m.Title = title
	m.Description = description
	m.Value = value
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Movie) Delete() error {
	if m.IsDeleted() {
		return ErrMovieAlreadyDeleted
	}
	now := time.Now().UTC()
	m.DeletedAt = &now
	m.UpdatedAt = now
	return nil
}

func (m *Movie) IsDeleted() bool {
	return m.DeletedAt != nil
}

// IsAvailable reports whether no rental overlaps [startDate, endDate].
// Both intervals are closed, so rentals that merely touch an endpoint
// still conflict. A deleted movie is never available.
func (m *Movie) IsAvailable(startDate, endDate time.Time) bool {
	if m.IsDeleted() {
		return false
	}
	for _, r := range m.Rentals {
		if !r.StartDate.After(endDate) && !r.EndDate.Before(startDate) {
			return false
		}
	}
	return true
}

func (m *Movie) AddRental(rental *Rental) error {
	if m.IsDeleted() {
		return ErrRentalOnDeleted
	}
	if !m.IsAvailable(rental.StartDate, rental.EndDate) {
		return ErrMovieUnavailable
	}
	m.Rentals = append(m.Rentals, rental)
	return nil
}
