package model

import "time"

// Movie is a film that can be scheduled for screenings.  Movies are
// immutable once created and are referenced by shows.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – display title of the movie.
//  DurationMinutes – running time in minutes.
//  CreatedAt       – creation timestamp.
type Movie struct {
	ID              uint64    // movies.id
	Title           string    // movies.title
	DurationMinutes uint32    // movies.duration_minutes
	CreatedAt       time.Time // movies.created_at
}
