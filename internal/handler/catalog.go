// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public catalog API: anyone can browse
// movies, their scheduled shows and the seats still available for a show
// without authenticating.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/iliyamo/movie-booking/internal/service"
)

// CatalogHandler aggregates the read side of the catalog plus the
// reservation engine for seat availability.
type CatalogHandler struct {
	MovieRepo   *repository.MovieRepo
	ShowRepo    *repository.ShowRepo
	Reservation *service.Reservation
	Cache       *AvailabilityCache // optional; nil disables caching
}

// NewCatalogHandler constructs a CatalogHandler. MovieRepo, ShowRepo and
// Reservation must be non-nil; Cache may be nil.
func NewCatalogHandler(movieRepo *repository.MovieRepo, showRepo *repository.ShowRepo, res *service.Reservation, cache *AvailabilityCache) *CatalogHandler {
	if movieRepo == nil || showRepo == nil || res == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{MovieRepo: movieRepo, ShowRepo: showRepo, Reservation: res, Cache: cache}
}

// movieItem is the public JSON shape of a movie.
type movieItem struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	DurationMinutes uint32 `json:"duration_minutes"`
}

// showItem is the public JSON shape of a show.
type showItem struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	ScreenName string    `json:"screen_name"`
	DateTime   time.Time `json:"date_time"`
	TotalSeats uint32    `json:"total_seats"`
}

// ListMovies handles GET /v1/movies. It returns every movie in the
// catalog inside an "items" array.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]movieItem, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieItem{ID: m.ID, Title: m.Title, DurationMinutes: m.DurationMinutes})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListShows handles GET /v1/movies/:id/shows. It returns the shows
// scheduled for a movie ordered by start time, or 404 when the movie
// does not exist.
func (h *CatalogHandler) ListShows(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	shows, err := h.ShowRepo.ListByMovie(c.Request().Context(), movieID)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]showItem, 0, len(shows))
	for _, s := range shows {
		out = append(out, showItem{ID: s.ID, MovieID: s.MovieID, ScreenName: s.ScreenName, DateTime: s.DateTime, TotalSeats: s.TotalSeats})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// AvailableSeats handles GET /v1/shows/:id/seats. It returns the seat
// numbers that can still be booked for the show, in ascending order.
func (h *CatalogHandler) AvailableSeats(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	if h.Cache != nil {
		if free, hit := h.Cache.Get(ctx, showID); hit {
			return c.JSON(http.StatusOK, echo.Map{
				"show_id":         showID,
				"available_seats": free,
				"available_count": len(free),
			})
		}
	}
	free, err := h.Reservation.AvailableSeats(ctx, showID)
	if err != nil {
		return bookingError(c, err)
	}
	if h.Cache != nil {
		h.Cache.Set(ctx, showID, free)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":         showID,
		"available_seats": free,
		"available_count": len(free),
	})
}
