package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-booking/internal/model"
)

// BookingRepo is the ledger of seat bookings. It owns the two
// invariants that make concurrent booking safe: at most one active
// booking per (show, seat) and never more active bookings than a
// show has seats. The first is enforced structurally by the
// uq_booking_active_seat unique index, so even two repo instances
// racing between check and insert cannot both commit; the loser's
// insert fails with a duplicate-key error that Insert translates
// into ErrSeatTaken. The second follows from the first, but is
// still re-checked inside the transaction.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ActiveSeatNumbers returns the set of seat numbers with an active
// (status booked) booking for the show.
func (r *BookingRepo) ActiveSeatNumbers(ctx context.Context, showID uint64) (map[uint32]struct{}, error) {
	const q = `SELECT seat_number FROM bookings WHERE show_id = ? AND status = 'booked'`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := make(map[uint32]struct{})
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		taken[n] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// Insert creates a new active booking for (show, user, seat). The whole
// check-then-insert sequence runs inside one transaction:
//
//  1. re-check that the seat has no active booking,
//  2. re-check that the active count is below the show's capacity,
//  3. insert the row and commit.
//
// A concurrent winner can still slip in between step 1 and step 3; in
// that case the unique index rejects the insert at commit time and the
// duplicate-key error is mapped to ErrSeatTaken, the same failure the
// in-transaction check produces. Callers therefore never observe a
// partially inserted booking or a raw constraint error.
//
// Seat range validation against the show's capacity is the reservation
// service's job; Insert only defends the ledger invariants.
func (r *BookingRepo) Insert(ctx context.Context, showID, userID uint64, seatNumber uint32) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE show_id = ? AND seat_number = ? AND status = 'booked' LIMIT 1`,
		showID, seatNumber,
	).Scan(&exists)
	if err == nil {
		return nil, ErrSeatTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var activeCount uint32
	var totalSeats uint32
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM bookings WHERE show_id = s.id AND status = 'booked'), s.total_seats
         FROM shows s WHERE s.id = ?`,
		showID,
	).Scan(&activeCount, &totalSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if activeCount >= totalSeats {
		return nil, ErrShowFull
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, show_id, seat_number, status) VALUES (?, ?, ?, 'booked')`,
		userID, showID, seatNumber,
	)
	if err != nil {
		if isDuplicateErr(err) {
			// Lost the race against a concurrent insert for the same seat.
			return nil, ErrSeatTaken
		}
		if isForeignKeyErr(err) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b := model.Booking{ID: uint64(id)}
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, show_id, seat_number, status, created_at FROM bookings WHERE id = ?`,
		b.ID,
	).Scan(&b.ID, &b.UserID, &b.ShowID, &b.SeatNumber, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrSeatTaken
		}
		return nil, err
	}
	committed = true
	return &b, nil
}

// GetByID retrieves a booking by its ID. It returns ErrBookingNotFound
// if there is no matching row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, show_id, seat_number, status, created_at FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.UserID, &b.ShowID, &b.SeatNumber, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Cancel transitions a booking from booked to cancelled and returns the
// updated row. The UPDATE is guarded by status = 'booked', so of two
// concurrent cancels exactly one flips the row; the other sees zero
// affected rows and is told ErrAlreadyCancelled. A missing booking is
// reported as ErrBookingNotFound. Cancelling nulls the generated
// active_seat column, which frees the seat for a fresh booking.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled' WHERE id = ? AND status = 'booked'`, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Either the booking does not exist or it was already cancelled.
		b, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.Status == model.StatusCancelled {
			return nil, ErrAlreadyCancelled
		}
		return nil, ErrBookingNotFound
	}
	return r.GetByID(ctx, id)
}

// ListByUser returns all bookings made by the given user, newest first.
// Cancelled bookings are included so users keep their history. When no
// bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT id, user_id, show_id, seat_number, status, created_at
               FROM bookings
               WHERE user_id = ?
               ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ShowID, &b.SeatNumber, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
