package movie

type CreateMovieReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Value       float64 `json:"value" validate:"required,gt=0"`
}

type UpdateMovieReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Value       float64 `json:"value" validate:"required,gt=0"`
}
