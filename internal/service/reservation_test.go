package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking/internal/model"
	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/iliyamo/movie-booking/internal/service"
)

// memCatalog is an in-memory ShowStore.
type memCatalog struct {
	shows map[uint64]model.Show
}

func (c *memCatalog) GetByID(_ context.Context, id uint64) (*model.Show, error) {
	s, ok := c.shows[id]
	if !ok {
		return nil, repository.ErrShowNotFound
	}
	return &s, nil
}

// memLedger is an in-memory BookingLedger. Its mutex plays the role of
// the database transaction, and Insert enforces the same active-seat
// uniqueness and capacity bound that the unique index and the
// in-transaction checks provide in MySQL, so races between goroutines
// resolve exactly like races between engine instances in production.
type memLedger struct {
	mu       sync.Mutex
	nextID   uint64
	rows     map[uint64]*model.Booking
	capacity map[uint64]uint32 // per-show total seats
	inserts  int               // number of Insert calls, raced or not
}

func newMemLedger(capacity map[uint64]uint32) *memLedger {
	return &memLedger{rows: make(map[uint64]*model.Booking), capacity: capacity}
}

func (l *memLedger) ActiveSeatNumbers(_ context.Context, showID uint64) (map[uint32]struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	taken := make(map[uint32]struct{})
	for _, b := range l.rows {
		if b.ShowID == showID && b.Status == model.StatusBooked {
			taken[b.SeatNumber] = struct{}{}
		}
	}
	return taken, nil
}

func (l *memLedger) Insert(_ context.Context, showID, userID uint64, seatNumber uint32) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inserts++
	var active uint32
	for _, b := range l.rows {
		if b.ShowID != showID || b.Status != model.StatusBooked {
			continue
		}
		if b.SeatNumber == seatNumber {
			return nil, repository.ErrSeatTaken
		}
		active++
	}
	if total, ok := l.capacity[showID]; ok && active >= total {
		return nil, repository.ErrShowFull
	}
	l.nextID++
	b := &model.Booking{
		ID:         l.nextID,
		UserID:     userID,
		ShowID:     showID,
		SeatNumber: seatNumber,
		Status:     model.StatusBooked,
		CreatedAt:  time.Unix(int64(l.nextID), 0).UTC(),
	}
	l.rows[b.ID] = b
	out := *b
	return &out, nil
}

func (l *memLedger) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (l *memLedger) Cancel(_ context.Context, id uint64) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	if b.Status == model.StatusCancelled {
		return nil, repository.ErrAlreadyCancelled
	}
	b.Status = model.StatusCancelled
	out := *b
	return &out, nil
}

func (l *memLedger) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var res []model.Booking
	// rows are keyed by a monotonically increasing ID, so descending ID
	// order matches descending creation order
	for id := l.nextID; id >= 1; id-- {
		if b, ok := l.rows[id]; ok && b.UserID == userID {
			res = append(res, *b)
		}
	}
	return res, nil
}

func (l *memLedger) activeCount(showID uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, b := range l.rows {
		if b.ShowID == showID && b.Status == model.StatusBooked {
			n++
		}
	}
	return n
}

func newEngine(totalSeats uint32) (*service.Reservation, *memLedger) {
	catalog := &memCatalog{shows: map[uint64]model.Show{
		1: {ID: 1, MovieID: 1, ScreenName: "Screen 1", DateTime: time.Now().UTC().Add(24 * time.Hour), TotalSeats: totalSeats},
	}}
	ledger := newMemLedger(map[uint64]uint32{1: totalSeats})
	return service.NewReservation(catalog, ledger), ledger
}

func TestBook_Success(t *testing.T) {
	engine, _ := newEngine(10)

	b, err := engine.Book(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Equal(t, uint64(42), b.UserID)
	assert.Equal(t, uint32(5), b.SeatNumber)
	assert.Equal(t, model.StatusBooked, b.Status)
}

func TestBook_ShowNotFound(t *testing.T) {
	engine, _ := newEngine(10)

	_, err := engine.Book(context.Background(), 99, 42, 5)

	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestBook_InvalidSeat(t *testing.T) {
	engine, ledger := newEngine(50)

	for _, seat := range []uint32{0, 51, 1000} {
		_, err := engine.Book(context.Background(), 1, 42, seat)
		assert.ErrorIs(t, err, service.ErrInvalidSeat, "seat %d", seat)
	}
	// range validation happens before the ledger is touched
	assert.Equal(t, 0, ledger.inserts)
}

func TestBook_SeatTaken(t *testing.T) {
	engine, _ := newEngine(10)

	_, err := engine.Book(context.Background(), 1, 42, 5)
	require.NoError(t, err)

	_, err = engine.Book(context.Background(), 1, 43, 5)
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
}

// TestBook_ConcurrentSameSeat races many callers for one seat: exactly
// one must win, all others must observe ErrSeatTaken.
func TestBook_ConcurrentSameSeat(t *testing.T) {
	engine, ledger := newEngine(100)

	const callers = 50
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Book(context.Background(), 1, uint64(1000+i), 7)
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, repository.ErrSeatTaken):
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, callers-1, losers)
	assert.Equal(t, 1, ledger.activeCount(1))
}

// TestBook_NoOverbooking hammers a small show from many goroutines and
// verifies the active booking count never exceeds capacity.
func TestBook_NoOverbooking(t *testing.T) {
	const capacity = 5
	engine, ledger := newEngine(capacity)

	const callers = 40
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seat := uint32(i%capacity) + 1
			_, err := engine.Book(context.Background(), 1, uint64(2000+i), seat)
			if err != nil && !errors.Is(err, repository.ErrSeatTaken) && !errors.Is(err, repository.ErrShowFull) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, ledger.activeCount(1))
}

func TestCancel_FreesSeatForRebooking(t *testing.T) {
	engine, _ := newEngine(10)
	ctx := context.Background()

	first, err := engine.Book(ctx, 1, 42, 3)
	require.NoError(t, err)

	cancelled, err := engine.Cancel(ctx, first.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// a different user books the freed seat and gets a fresh row
	second, err := engine.Book(ctx, 1, 43, 3)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, uint64(43), second.UserID)
}

func TestCancel_Idempotent(t *testing.T) {
	engine, _ := newEngine(10)
	ctx := context.Background()

	b, err := engine.Book(ctx, 1, 42, 3)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, b.ID, 42)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, b.ID, 42)
	assert.ErrorIs(t, err, repository.ErrAlreadyCancelled)
}

// TestCancel_ConcurrentOnlyOneSucceeds verifies that of many concurrent
// cancels on the same booking exactly one flips the status.
func TestCancel_ConcurrentOnlyOneSucceeds(t *testing.T) {
	engine, _ := newEngine(10)
	ctx := context.Background()

	b, err := engine.Book(ctx, 1, 42, 3)
	require.NoError(t, err)

	const callers = 20
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Cancel(ctx, b.ID, 42)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrAlreadyCancelled):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestCancel_ForbiddenForOtherUser(t *testing.T) {
	engine, ledger := newEngine(10)
	ctx := context.Background()

	b, err := engine.Book(ctx, 1, 42, 3)
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, b.ID, 43)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// the booking must remain active
	kept, err := ledger.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, kept.Status)
}

func TestCancel_NotFound(t *testing.T) {
	engine, _ := newEngine(10)

	_, err := engine.Cancel(context.Background(), 999, 42)

	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestAvailableSeats_Accuracy(t *testing.T) {
	engine, _ := newEngine(3)
	ctx := context.Background()

	_, err := engine.Book(ctx, 1, 42, 1)
	require.NoError(t, err)
	_, err = engine.Book(ctx, 1, 42, 3)
	require.NoError(t, err)

	free, err := engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, free)
}

func TestAvailableSeats_ShowNotFound(t *testing.T) {
	engine, _ := newEngine(3)

	_, err := engine.AvailableSeats(context.Background(), 99)

	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestAvailableSeats_CancelledSeatReappears(t *testing.T) {
	engine, _ := newEngine(3)
	ctx := context.Background()

	b, err := engine.Book(ctx, 1, 42, 2)
	require.NoError(t, err)

	free, err := engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3}, free)

	_, err = engine.Cancel(ctx, b.ID, 42)
	require.NoError(t, err)

	free, err = engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, free)
}

func TestListUserBookings_NewestFirst(t *testing.T) {
	engine, _ := newEngine(10)
	ctx := context.Background()

	first, err := engine.Book(ctx, 1, 42, 1)
	require.NoError(t, err)
	second, err := engine.Book(ctx, 1, 42, 2)
	require.NoError(t, err)
	_, err = engine.Book(ctx, 1, 43, 3) // someone else's booking
	require.NoError(t, err)

	bookings, err := engine.ListUserBookings(ctx, 42)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, second.ID, bookings[0].ID)
	assert.Equal(t, first.ID, bookings[1].ID)
}

// failingLedger simulates a store that times out on every call.
type failingLedger struct {
	*memLedger
}

func (l *failingLedger) Insert(context.Context, uint64, uint64, uint32) (*model.Booking, error) {
	return nil, context.DeadlineExceeded
}

func TestBook_TransientFailure(t *testing.T) {
	catalog := &memCatalog{shows: map[uint64]model.Show{
		1: {ID: 1, TotalSeats: 10},
	}}
	ledger := &failingLedger{memLedger: newMemLedger(map[uint64]uint32{1: 10})}
	engine := service.NewReservation(catalog, ledger)

	_, err := engine.Book(context.Background(), 1, 42, 5)

	assert.ErrorIs(t, err, service.ErrUnavailable)
}

// oversizedLedger reports more active seats than the show's capacity,
// as could happen if rows were written to the ledger out of band.
type oversizedLedger struct {
	*memLedger
}

func (l *oversizedLedger) ActiveSeatNumbers(context.Context, uint64) (map[uint32]struct{}, error) {
	taken := make(map[uint32]struct{})
	for n := uint32(1); n <= 10; n++ {
		taken[n] = struct{}{}
	}
	return taken, nil
}

func TestAvailableSeats_MoreActiveRowsThanCapacity(t *testing.T) {
	catalog := &memCatalog{shows: map[uint64]model.Show{
		1: {ID: 1, TotalSeats: 3},
	}}
	ledger := &oversizedLedger{memLedger: newMemLedger(map[uint64]uint32{1: 3})}
	engine := service.NewReservation(catalog, ledger)

	free, err := engine.AvailableSeats(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, free)
}
