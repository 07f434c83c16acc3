package model

import "time"

// Show represents a single scheduled screening of a movie on a
// particular screen.  Shows are immutable after creation: there is
// no rescheduling, so no UpdatedAt column exists.  The seat
// inventory of a show is simply the range 1..TotalSeats.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  ScreenName – label of the screen ("Screen 1").
//  DateTime   – when the show starts (UTC).
//  TotalSeats – fixed seat capacity; always >= 1.
//  CreatedAt  – creation timestamp.
type Show struct {
	ID         uint64    // shows.id
	MovieID    uint64    // shows.movie_id
	ScreenName string    // shows.screen_name
	DateTime   time.Time // shows.date_time
	TotalSeats uint32    // shows.total_seats
	CreatedAt  time.Time // shows.created_at
}
