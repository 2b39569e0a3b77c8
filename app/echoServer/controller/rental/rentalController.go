package rental

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/n4th05/blockbuster-api/model"
	rentalsvc "github.com/n4th05/blockbuster-api/service/rental"
)

type Controller struct {
	Svc rentalsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/rentals
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("rental list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/:userId/:movieId
func (h *Controller) Detail(c echo.Context) error {
	userID, movieID, ok := pairParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Get(c.Request().Context(), userID, movieID)
	if err != nil {
		h.Log.Error("rental detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/rentals
func (h *Controller) Create(c echo.Context) error {
	var req CreateRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	row, err := h.Svc.Create(c.Request().Context(), req.UserID, req.MovieID, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case rentalsvc.Code(err) == rentalsvc.ErrUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "movie not available for the specified period"})
		case errors.Is(err, model.ErrEndNotAfterStart):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("rental create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, row)
}

// PUT /v1/rentals/:userId/:movieId
func (h *Controller) Update(c echo.Context) error {
	userID, movieID, ok := pairParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	row, err := h.Svc.Update(c.Request().Context(), userID, movieID, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case rentalsvc.Code(err) == rentalsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		case errors.Is(err, model.ErrEndNotAfterStart):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("rental update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, row)
}

// DELETE /v1/rentals/:userId/:movieId
func (h *Controller) Delete(c echo.Context) error {
	userID, movieID, ok := pairParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), userID, movieID); err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		default:
			h.Log.Error("rental delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/rentals/active
func (h *Controller) Active(c echo.Context) error {
	rows, err := h.Svc.Active(c.Request().Context())
	if err != nil {
		h.Log.Error("rental active", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/overdue
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.Overdue(c.Request().Context())
	if err != nil {
		h.Log.Error("rental overdue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/upcoming
func (h *Controller) Upcoming(c echo.Context) error {
	rows, err := h.Svc.Upcoming(c.Request().Context())
	if err != nil {
		h.Log.Error("rental upcoming", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/search
func (h *Controller) Search(c echo.Context) error {
	params := rentalsvc.SearchParams{
		UserName:   c.QueryParam("user_name"),
		MovieTitle: c.QueryParam("movie_title"),
	}
	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
		}
		params.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
		}
		params.EndDate = &t
	}
	if v := c.QueryParam("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid is_active"})
		}
		params.IsActive = &b
	}
	if v := c.QueryParam("is_overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid is_overdue"})
		}
		params.IsOverdue = &b
	}
	rows, err := h.Svc.Search(c.Request().Context(), params)
	if err != nil {
		h.Log.Error("rental search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/statistics
func (h *Controller) Statistics(c echo.Context) error {
	stats, err := h.Svc.Statistics(c.Request().Context())
	if err != nil {
		h.Log.Error("rental statistics", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, stats)
}

func pairParams(c echo.Context) (userID, movieID int64, ok bool) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, 0, false
	}
	movieID, err = strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil || movieID <= 0 {
		return 0, 0, false
	}
	return userID, movieID, true
}
