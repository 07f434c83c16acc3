package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking/internal/handler"
	"github.com/iliyamo/movie-booking/internal/middleware"
)

// RegisterCatalog registers unauthenticated browse endpoints.  Guests can
// list movies, list a movie's shows and check seat availability without an
// account.  The optional middleware (response caching) applies only to the
// movie catalog: movies and shows are immutable once created, so a stale
// listing is harmless.  Seat availability deliberately bypasses it, because
// bookings and cancellations invalidate the seat cache, not response-cache
// entries; routing seat reads through the response cache would serve
// pre-booking seat lists for its whole TTL.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id/shows", h.ListShows)
	e.GET("/v1/shows/:id/seats", h.AvailableSeats)
}

// RegisterBooking registers booking endpoints under /v1.  All routes require
// a valid JWT; both CUSTOMER and ADMIN may book and cancel.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	g.POST("/shows/:id/book", h.Book)
	g.POST("/bookings/:id/cancel", h.Cancel)
	g.GET("/my-bookings", h.MyBookings)
}

// RegisterAdmin registers catalog management endpoints restricted to the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/movies", h.CreateMovie)
	g.POST("/shows", h.CreateShow)
}
