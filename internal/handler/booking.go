package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking/internal/model"
	"github.com/iliyamo/movie-booking/internal/queue"
	"github.com/iliyamo/movie-booking/internal/service"
)

// ShowDirectory and MovieDirectory are the catalog lookups the booking
// handler needs to enrich published events.  The MySQL repositories
// satisfy them.
type ShowDirectory interface {
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

type MovieDirectory interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// BookingHandler exposes the authenticated booking endpoints. All
// methods assume that JWT authentication has already been performed by
// middleware and may return 401 Unauthorized if the user ID cannot be
// extracted from the context. The concurrency-sensitive work happens
// inside the reservation engine; the handler only validates input,
// maps errors and publishes events after a successful commit.
type BookingHandler struct {
	Reservation *service.Reservation
	Shows       ShowDirectory
	Movies      MovieDirectory
	Cache       *AvailabilityCache // optional; nil disables invalidation
}

// NewBookingHandler constructs a BookingHandler. Reservation, Shows and
// Movies must be non-nil; Cache may be nil.
func NewBookingHandler(res *service.Reservation, shows ShowDirectory, movies MovieDirectory, cache *AvailabilityCache) *BookingHandler {
	if res == nil || shows == nil || movies == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Reservation: res, Shows: shows, Movies: movies, Cache: cache}
}

// bookingItem is the JSON shape of a booking in responses.
type bookingItem struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	ShowID     uint64    `json:"show_id"`
	SeatNumber uint32    `json:"seat_number"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBookingItem(b *model.Booking) bookingItem {
	return bookingItem{
		ID:         b.ID,
		UserID:     b.UserID,
		ShowID:     b.ShowID,
		SeatNumber: b.SeatNumber,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
}

// Book handles POST /v1/shows/:id/book. The request body must contain a
// JSON object with a positive "seat_number". On success it returns 201
// with the created booking; when the seat is already taken (including
// losing a concurrent race for it) it returns 409.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		SeatNumber uint32 `json:"seat_number"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SeatNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number is required"})
	}

	ctx := c.Request().Context()
	booking, err := h.Reservation.Book(ctx, showID, userID, body.SeatNumber)
	if err != nil {
		return bookingError(c, err)
	}

	if h.Cache != nil {
		h.Cache.Invalidate(ctx, showID)
	}
	h.publishCreated(c, booking)

	return c.JSON(http.StatusCreated, toBookingItem(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel. Only the booking's owner
// may cancel; a repeat cancel returns 409 with an already-cancelled
// message rather than silently succeeding twice.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	booking, err := h.Reservation.Cancel(ctx, bookingID, userID)
	if err != nil {
		return bookingError(c, err)
	}

	if h.Cache != nil {
		h.Cache.Invalidate(ctx, booking.ShowID)
	}
	// Event delivery is best effort; the cancellation is already committed.
	_ = queue.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ShowID:      booking.ShowID,
		SeatNumber:  booking.SeatNumber,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking cancelled",
		"booking": toBookingItem(booking),
	})
}

// MyBookings handles GET /v1/my-bookings. It returns all bookings of
// the current user, newest first, including cancelled ones.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Reservation.ListUserBookings(c.Request().Context(), userID)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingItem, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingItem(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// publishCreated enriches the booking with catalog details and publishes
// the confirmation event. Failures are ignored: the booking row is the
// source of truth and the consumer only feeds the audit log.
func (h *BookingHandler) publishCreated(c echo.Context, b *model.Booking) {
	ctx := c.Request().Context()
	ev := queue.BookingCreatedEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ShowID:     b.ShowID,
		SeatNumber: b.SeatNumber,
		BookedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if show, err := h.Shows.GetByID(ctx, b.ShowID); err == nil {
		ev.ScreenName = show.ScreenName
		ev.ShowTime = show.DateTime.UTC().Format(time.RFC3339)
		if movie, err := h.Movies.GetByID(ctx, show.MovieID); err == nil {
			ev.MovieTitle = movie.Title
		}
	}
	_ = queue.PublishBookingCreated(ctx, ev)
}
