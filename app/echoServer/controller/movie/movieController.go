package movie

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	moviesvc "github.com/n4th05/blockbuster-api/service/movie"
)

type Controller struct {
	Svc moviesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/movies
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("movie list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/movies/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("movie detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "movie not found"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/movies
func (h *Controller) Create(c echo.Context) error {
	var req CreateMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	row, err := h.Svc.Create(c.Request().Context(), req.Title, req.Description, req.Value)
	if err != nil {
		h.Log.Error("movie create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}

// PUT /v1/movies/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	row, err := h.Svc.Update(c.Request().Context(), id, req.Title, req.Description, req.Value)
	if err != nil {
		switch moviesvc.Code(err) {
		case moviesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "movie not found"})
		default:
			h.Log.Error("movie update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, row)
}

// DELETE /v1/movies/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch moviesvc.Code(err) {
		case moviesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "movie not found"})
		default:
			h.Log.Error("movie delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/movies/trending
func (h *Controller) Trending(c echo.Context) error {
	rows, err := h.Svc.Trending(c.Request().Context())
	if err != nil {
		h.Log.Error("movie trending", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/movies/available
func (h *Controller) Available(c echo.Context) error {
	rows, err := h.Svc.Available(c.Request().Context())
	if err != nil {
		h.Log.Error("movie available", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/movies/:id/availability?start_date=...&end_date=...
func (h *Controller) Availability(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("start_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
	}
	available, err := h.Svc.Availability(c.Request().Context(), id, start, end)
	if err != nil {
		if err == moviesvc.ErrInvalidPeriod {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("movie availability", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}

// GET /v1/movies/search
func (h *Controller) Search(c echo.Context) error {
	params := moviesvc.SearchParams{
		Title:       c.QueryParam("title"),
		Description: c.QueryParam("description"),
	}
	if v := c.QueryParam("min_value"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid min_value"})
		}
		params.MinValue = &f
	}
	if v := c.QueryParam("max_value"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid max_value"})
		}
		params.MaxValue = &f
	}
	if v := c.QueryParam("is_available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid is_available"})
		}
		params.IsAvailable = &b
	}
	rows, err := h.Svc.Search(c.Request().Context(), params)
	if err != nil {
		h.Log.Error("movie search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/movies/statistics
func (h *Controller) Statistics(c echo.Context) error {
	stats, err := h.Svc.Statistics(c.Request().Context())
	if err != nil {
		h.Log.Error("movie statistics", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, stats)
}
