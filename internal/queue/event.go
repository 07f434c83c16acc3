// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a seat booking commits.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	ShowID     uint64 `json:"show_id"`
	MovieTitle string `json:"movie_title"`
	ScreenName string `json:"screen_name"`
	ShowTime   string `json:"show_time"`
	SeatNumber uint32 `json:"seat_number"`
	BookedAt   string `json:"booked_at"`
}

// BookingCancelledEvent is published after a booking is cancelled and
// its seat returns to the available pool.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	ShowID      uint64 `json:"show_id"`
	SeatNumber  uint32 `json:"seat_number"`
	CancelledAt string `json:"cancelled_at"`
}
