package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	usersvc "github.com/n4th05/blockbuster-api/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/users
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("user list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("user detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/users
func (h *Controller) Create(c echo.Context) error {
	var req CreateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	row, err := h.Svc.Create(c.Request().Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already exists"})
		default:
			h.Log.Error("user create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, row)
}

// PUT /v1/users/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	row, err := h.Svc.Update(c.Request().Context(), id, req.Name, req.Email, req.Phone)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case usersvc.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already exists"})
		default:
			h.Log.Error("user update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, row)
}

// DELETE /v1/users/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case usersvc.ErrHasActiveRentals:
			return c.JSON(http.StatusConflict, echo.Map{"message": "cannot delete user with active rentals"})
		default:
			h.Log.Error("user delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/users/with-active-rentals
func (h *Controller) WithActiveRentals(c echo.Context) error {
	rows, err := h.Svc.WithActiveRentals(c.Request().Context())
	if err != nil {
		h.Log.Error("user with-active-rentals", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/movie/:movieId
func (h *Controller) WhoRentedMovie(c echo.Context) error {
	movieID, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil || movieID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid movie id"})
	}
	rows, err := h.Svc.WhoRentedMovie(c.Request().Context(), movieID)
	if err != nil {
		h.Log.Error("user who-rented-movie", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/with-rental-history
func (h *Controller) RentalHistory(c echo.Context) error {
	rows, err := h.Svc.RentalHistory(c.Request().Context())
	if err != nil {
		h.Log.Error("user rental-history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/top/:count
func (h *Controller) TopRenters(c echo.Context) error {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid count"})
	}
	rows, err := h.Svc.TopRenters(c.Request().Context(), count)
	if err != nil {
		h.Log.Error("user top", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/search
func (h *Controller) Search(c echo.Context) error {
	params := usersvc.SearchParams{
		Name:  c.QueryParam("name"),
		Email: c.QueryParam("email"),
	}
	if v := c.QueryParam("has_active_rentals"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid has_active_rentals"})
		}
		params.HasActiveRentals = &b
	}
	rows, err := h.Svc.Search(c.Request().Context(), params)
	if err != nil {
		h.Log.Error("user search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
