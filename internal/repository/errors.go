// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation service and handlers to distinguish between different
// failure scenarios. For example, ErrSeatTaken signals that another
// booking already holds the requested seat, while ErrForbidden
// indicates that the current user is not authorized to operate on a
// booking owned by someone else.
package repository

import "errors"

// ErrMovieNotFound indicates that no movie exists with the requested ID.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowNotFound indicates that no show exists with the requested ID.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound indicates that no booking exists with the requested ID.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatTaken is returned when a booking cannot be created because an
// active booking already holds the same seat for the same show. It is
// produced both by the in-transaction availability check and by the
// unique-index violation raised when two concurrent inserts race past
// that check; either way the losing caller sees this error, never a
// raw database error. Handlers should translate this into HTTP 409.
var ErrSeatTaken = errors.New("seat already booked")

// ErrShowFull is returned when the number of active bookings for a show
// has reached its total seat capacity. Seat-level uniqueness already
// bounds the active count, so this only fires on the capacity re-check
// inside the booking transaction. Handlers should translate this into
// HTTP 409.
var ErrShowFull = errors.New("show is fully booked")

// ErrAlreadyCancelled is returned when cancelling a booking whose status
// is already cancelled. It is an idempotency signal rather than a hard
// failure: the second of two concurrent cancels observes it instead of
// silently succeeding twice.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
