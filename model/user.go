package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrPhoneRequired = errors.New("phone is required")
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Rentals   []*Rental `json:"rentals,omitempty"`
}

func NewUser(name, email, phone string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(phone) == "" {
		return nil, ErrPhoneRequired
	}
	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) Update(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(phone) == "" {
		return ErrPhoneRequired
	}
	u.Name = name
	u.Email = email
	u.Phone = phone
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// HasActiveRentals reports whether any rental ends after currentDate,
// i.e. the user still holds a running or upcoming rental.
func (u *User) HasActiveRentals(currentDate time.Time) bool {
	for _, r := range u.Rentals {
		if r.EndDate.After(currentDate) {
			return true
		}
	}
	return false
}

func (u *User) AddRental(rental *Rental) {
	u.Rentals = append(u.Rentals, rental)
}
