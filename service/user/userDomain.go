package usersvc

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/n4th05/blockbuster-api/model"
)

// DomainService holds the user rules that need repository lookups.
type DomainService struct {
	users Repo
}

func NewDomainService(users Repo) *DomainService {
	return &DomainService{users: users}
}

// CanDeleteUser is true when the user is absent or holds no rental that
// ends after now.
func (s *DomainService) CanDeleteUser(ctx context.Context, userID int64) (bool, error) {
	active, err := s.HasActiveRentals(ctx, userID)
	if err != nil {
		return false, err
	}
	return !active, nil
}

func (s *DomainService) HasActiveRentals(ctx context.Context, userID int64) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	return u.HasActiveRentals(time.Now().UTC()), nil
}

// IsEmailUnique compares case-insensitively against every stored email.
func (s *DomainService) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return false, nil
		}
	}
	return true, nil
}

// GetUsersWithRentalHistory orders users by total rental count, most first.
func (s *DomainService) GetUsersWithRentalHistory(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(a, b int) bool {
		return len(users[a].Rentals) > len(users[b].Rentals)
	})
	return users, nil
}

func (s *DomainService) GetTopUsersWithMostRentals(ctx context.Context, count int) ([]*model.User, error) {
	users, err := s.GetUsersWithRentalHistory(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > count {
		users = users[:count]
	}
	return users, nil
}
