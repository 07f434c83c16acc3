package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A
// booking starts as StatusBooked and may transition exactly once to
// StatusCancelled; cancelled is terminal.  Rebooking a freed seat
// always creates a fresh row, so the audit history survives.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking records that a user holds a specific numbered seat for a
// show.  At most one booking with StatusBooked may exist per
// (show, seat_number) pair; the database enforces this through a
// unique index over the generated active_seat column.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who made the booking; immutable.
//  ShowID     – show being booked.
//  SeatNumber – seat in the range 1..show.total_seats.
//  Status     – booked or cancelled.
//  CreatedAt  – creation timestamp.
type Booking struct {
	ID         uint64        // bookings.id
	UserID     uint64        // bookings.user_id
	ShowID     uint64        // bookings.show_id
	SeatNumber uint32        // bookings.seat_number
	Status     BookingStatus // bookings.status
	CreatedAt  time.Time     // bookings.created_at
}
