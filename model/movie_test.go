package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustMovie(t *testing.T) *Movie {
	t.Helper()
	m, err := NewMovie("The Matrix", "A hacker discovers reality", 9.99)
	require.NoError(t, err)
	return m
}

func mustRental(t *testing.T, start, end time.Time) *Rental {
	t.Helper()
	r, err := NewRental(1, 1, start, end)
	require.NoError(t, err)
	return r
}

func TestNewMovie_Validation(t *testing.T) {
	_, err := NewMovie("", "desc", 10)
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = NewMovie("   ", "desc", 10)
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = NewMovie("title", "", 10)
	require.ErrorIs(t, err, ErrDescriptionRequired)

	_, err = NewMovie("title", "desc", 0)
	require.ErrorIs(t, err, ErrValueNotPositive)

	_, err = NewMovie("title", "desc", -5)
	require.ErrorIs(t, err, ErrValueNotPositive)
}

func TestNewMovie_SetsTimestamps(t *testing.T) {
	m := mustMovie(t)
	require.False(t, m.CreatedAt.IsZero())
	require.Equal(t, m.CreatedAt, m.UpdatedAt)
	require.Nil(t, m.DeletedAt)
}

func TestIsAvailable_NonOverlapping(t *testing.T) {
	m := mustMovie(t)
	require.NoError(t, m.AddRental(mustRental(t, date(2025, 1, 1), date(2025, 1, 10))))

	require.True(t, m.IsAvailable(date(2025, 1, 11), date(2025, 1, 20)))
	require.True(t, m.IsAvailable(date(2024, 12, 1), date(2024, 12, 31)))
}

func TestIsAvailable_Overlapping(t *testing.T) {
	m := mustMovie(t)
	require.NoError(t, m.AddRental(mustRental(t, date(2025, 1, 1), date(2025, 1, 10))))

	// fully inside
	require.False(t, m.IsAvailable(date(2025, 1, 3), date(2025, 1, 5)))
	// spanning
	require.False(t, m.IsAvailable(date(2024, 12, 25), date(2025, 1, 15)))
	// touching endpoints counts as conflict
	require.False(t, m.IsAvailable(date(2025, 1, 10), date(2025, 1, 20)))
	require.False(t, m.IsAvailable(date(2024, 12, 20), date(2025, 1, 1)))
}

func TestAddRental_MakesRangeUnavailable(t *testing.T) {
	m := mustMovie(t)
	start, end := date(2025, 3, 1), date(2025, 3, 8)

	require.True(t, m.IsAvailable(start, end))
	require.NoError(t, m.AddRental(mustRental(t, start, end)))
	require.False(t, m.IsAvailable(start, end))

	err := m.AddRental(mustRental(t, start, end))
	require.ErrorIs(t, err, ErrMovieUnavailable)
}

func TestDelete_BlocksEverything(t *testing.T) {
	m := mustMovie(t)
	require.NoError(t, m.Delete())
	require.NotNil(t, m.DeletedAt)

	require.False(t, m.IsAvailable(date(2025, 1, 1), date(2025, 1, 2)))

	err := m.Update("new", "new", 1)
	require.ErrorIs(t, err, ErrMovieDeleted)

	err = m.Delete()
	require.ErrorIs(t, err, ErrMovieAlreadyDeleted)

	err = m.AddRental(mustRental(t, date(2025, 1, 1), date(2025, 1, 2)))
	require.ErrorIs(t, err, ErrRentalOnDeleted)
}

func TestUpdate_Movie(t *testing.T) {
	m, err := NewMovie("Old Title", "Old Description", 9.99)
	require.NoError(t, err)
	created := m.UpdatedAt

	time.Sleep(time.Millisecond)
	require.NoError(t, m.Update("Updated Title", "Updated Description", 19.99))

	require.Equal(t, "Updated Title", m.Title)
	require.Equal(t, "Updated Description", m.Description)
	require.Equal(t, 19.99, m.Value)
	require.True(t, m.UpdatedAt.After(created))
	require.Equal(t, created, m.CreatedAt)
}

func TestUpdate_Validation(t *testing.T) {
	m := mustMovie(t)
	require.ErrorIs(t, m.Update("", "desc", 10), ErrTitleRequired)
	require.ErrorIs(t, m.Update("title", " ", 10), ErrDescriptionRequired)
	require.ErrorIs(t, m.Update("title", "desc", 0), ErrValueNotPositive)
}
