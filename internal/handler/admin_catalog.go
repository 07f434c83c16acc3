package handler // handler package contains admin-only catalog handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking/internal/model"
	"github.com/iliyamo/movie-booking/internal/repository"
)

// AdminHandler bundles repositories for administrators to manage the
// catalog. Movies and shows are immutable after creation, so only
// create endpoints exist.
type AdminHandler struct {
	MovieRepo *repository.MovieRepo
	ShowRepo  *repository.ShowRepo
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil.
func NewAdminHandler(movieRepo *repository.MovieRepo, showRepo *repository.ShowRepo) *AdminHandler {
	if movieRepo == nil || showRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{MovieRepo: movieRepo, ShowRepo: showRepo}
}

// CreateMovie handles POST /v1/admin/movies. The body must contain a
// non-empty title and a positive duration in minutes.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title           string `json:"title"`
		DurationMinutes uint32 `json:"duration_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.DurationMinutes == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_minutes must be positive"})
	}
	movie := &model.Movie{Title: title, DurationMinutes: body.DurationMinutes}
	if err := h.MovieRepo.Create(c.Request().Context(), movie); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
	}
	return c.JSON(http.StatusCreated, movieItem{ID: movie.ID, Title: movie.Title, DurationMinutes: movie.DurationMinutes})
}

// CreateShow handles POST /v1/admin/shows. It schedules a screening of
// an existing movie. The capacity is fixed at creation and must be at
// least 1; the start time must be RFC3339.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var body struct {
		MovieID    uint64 `json:"movie_id"`
		ScreenName string `json:"screen_name"`
		DateTime   string `json:"date_time"`
		TotalSeats uint32 `json:"total_seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	screen := strings.TrimSpace(body.ScreenName)
	if body.MovieID == 0 || screen == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and screen_name are required"})
	}
	if body.TotalSeats < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be at least 1"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.DateTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_time must be RFC3339"})
	}

	show := &model.Show{
		MovieID:    body.MovieID,
		ScreenName: screen,
		DateTime:   startsAt.UTC(),
		TotalSeats: body.TotalSeats,
	}
	if err := h.ShowRepo.Create(c.Request().Context(), show); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, showItem{
		ID:         show.ID,
		MovieID:    show.MovieID,
		ScreenName: show.ScreenName,
		DateTime:   show.DateTime,
		TotalSeats: show.TotalSeats,
	})
}
