// Package service implements the reservation engine: the business rules
// for booking, cancelling and listing seats. The engine composes the
// catalog and the booking ledger behind small interfaces so that the
// concurrency behaviour can be exercised in tests without a database.
package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-booking/internal/model"
	"github.com/iliyamo/movie-booking/internal/repository"
)

// ErrInvalidSeat is returned when a seat number falls outside the range
// 1..show.total_seats. The ledger is never touched in that case.
var ErrInvalidSeat = errors.New("seat number out of range")

// ErrUnavailable signals a transient store failure (timeout, lost
// connection). The operation did not take effect, so callers may safely retry:
// a retried book either succeeds once or reports ErrSeatTaken if a
// concurrent booking won in the meantime. The engine itself never
// retries, to avoid masking persistent contention as latency.
var ErrUnavailable = errors.New("store unavailable")

// ShowStore is the read-only catalog surface the engine depends on.
type ShowStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// BookingLedger is the durable record of bookings. Implementations must
// guarantee that Insert is atomic and that at most one active booking
// per (show, seat) can ever be committed, surfacing the loser of a race
// as repository.ErrSeatTaken; Cancel must be an atomic status
// transition that reports repository.ErrAlreadyCancelled to the second
// of two concurrent cancels.
type BookingLedger interface {
	ActiveSeatNumbers(ctx context.Context, showID uint64) (map[uint32]struct{}, error)
	Insert(ctx context.Context, showID, userID uint64, seatNumber uint32) (*model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Cancel(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// Reservation orchestrates booking operations against the catalog and
// the ledger.
type Reservation struct {
	shows  ShowStore
	ledger BookingLedger
}

// NewReservation constructs the reservation engine. Both dependencies
// must be non-nil.
func NewReservation(shows ShowStore, ledger BookingLedger) *Reservation {
	if shows == nil || ledger == nil {
		panic("nil store passed to NewReservation")
	}
	return &Reservation{shows: shows, ledger: ledger}
}

// AvailableSeats returns the seat numbers of a show that have no active
// booking, in ascending order. It returns repository.ErrShowNotFound
// when the show does not exist. This is a pure read; the ledger's own
// read consistency is sufficient.
func (r *Reservation) AvailableSeats(ctx context.Context, showID uint64) ([]uint32, error) {
	show, err := r.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, asTransient(err)
	}
	taken, err := r.ledger.ActiveSeatNumbers(ctx, showID)
	if err != nil {
		return nil, asTransient(err)
	}
	free := make([]uint32, 0, show.TotalSeats)
	for n := uint32(1); n <= show.TotalSeats; n++ {
		if _, ok := taken[n]; !ok {
			free = append(free, n)
		}
	}
	return free, nil
}

// Book reserves seatNumber on the show for the user and returns the new
// booking. Failure modes:
//
//   repository.ErrShowNotFound – show does not exist
//   ErrInvalidSeat             – seat outside 1..total_seats
//   repository.ErrSeatTaken    – seat has an active booking, or the
//                                caller lost a concurrent race for it
//   repository.ErrShowFull     – capacity exhausted
//   ErrUnavailable             – transient store failure, safe to retry
//
// Among any number of concurrent calls for the same (show, seat), at
// most one succeeds; the ledger's structural uniqueness guarantees this
// regardless of how the calls interleave.
func (r *Reservation) Book(ctx context.Context, showID, userID uint64, seatNumber uint32) (*model.Booking, error) {
	show, err := r.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, asTransient(err)
	}
	if seatNumber < 1 || seatNumber > show.TotalSeats {
		return nil, fmt.Errorf("%w: seat %d not in 1..%d", ErrInvalidSeat, seatNumber, show.TotalSeats)
	}
	b, err := r.ledger.Insert(ctx, showID, userID, seatNumber)
	if err != nil {
		return nil, asTransient(err)
	}
	return b, nil
}

// Cancel transitions the booking to cancelled on behalf of
// requestingUserID and returns the updated booking. Only the booking's
// owner may cancel it; a second cancel observes
// repository.ErrAlreadyCancelled. Cancelling frees the seat for a new
// booking by any user.
func (r *Reservation) Cancel(ctx context.Context, bookingID, requestingUserID uint64) (*model.Booking, error) {
	b, err := r.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asTransient(err)
	}
	if b.UserID != requestingUserID {
		return nil, repository.ErrForbidden
	}
	cancelled, err := r.ledger.Cancel(ctx, bookingID)
	if err != nil {
		return nil, asTransient(err)
	}
	return cancelled, nil
}

// ListUserBookings returns the user's bookings, newest first. An
// unknown user simply has no bookings.
func (r *Reservation) ListUserBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	bookings, err := r.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, asTransient(err)
	}
	return bookings, nil
}

// asTransient rewraps store failures that are worth retrying (deadline
// hit, cancelled context, dropped connection) as ErrUnavailable.
// Business-rule errors pass through untouched so callers can match them
// with errors.Is.
func asTransient(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
