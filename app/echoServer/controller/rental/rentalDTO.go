package rental

import "time"

type CreateRentalReq struct {
	UserID    int64     `json:"user_id" validate:"required,gt=0"`
	MovieID   int64     `json:"movie_id" validate:"required,gt=0"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type UpdateRentalReq struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}
