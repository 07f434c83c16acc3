// Data access for shows.  A Show is a scheduled screening of a movie on
// a named screen with a fixed seat capacity.  Shows are immutable after
// creation, which is why no update methods exist here.

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-booking/internal/model"
)

// ErrInvalidCapacity indicates an attempt to create a show with fewer
// than one seat.
var ErrInvalidCapacity = errors.New("total_seats must be at least 1")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Create inserts a new show and assigns the generated ID back to the
// struct. The referenced movie must exist; a foreign key violation is
// surfaced as ErrMovieNotFound. TotalSeats below 1 is rejected before
// touching the database.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	if s.TotalSeats < 1 {
		return ErrInvalidCapacity
	}
	const q = `INSERT INTO shows (movie_id, screen_name, date_time, total_seats) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.ScreenName, s.DateTime.UTC().Format("2006-01-02 15:04:05"), s.TotalSeats)
	if err != nil {
		if isForeignKeyErr(err) {
			return ErrMovieNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT id, movie_id, screen_name, date_time, total_seats, created_at FROM shows WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.MovieID, &s.ScreenName, &s.DateTime, &s.TotalSeats, &s.CreatedAt,
	)
}

// GetByID retrieves a show by its ID. It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, screen_name, date_time, total_seats, created_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.ScreenName, &s.DateTime, &s.TotalSeats, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByMovie returns all shows scheduled for a movie ordered by start
// time ascending. The movie must exist; otherwise ErrMovieNotFound is
// returned. When no shows exist it returns an empty slice and nil error.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Show, error) {
	// Verify the movie exists first so callers can distinguish an
	// unknown movie from one that simply has no scheduled shows.
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, movieID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	const q = `SELECT id, movie_id, screen_name, date_time, total_seats, created_at
               FROM shows
               WHERE movie_id = ?
               ORDER BY date_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ScreenName, &s.DateTime, &s.TotalSeats, &s.CreatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}
