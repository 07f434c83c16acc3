package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/iliyamo/movie-booking/internal/service"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingError_StatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"show not found", repository.ErrShowNotFound, http.StatusNotFound},
		{"movie not found", repository.ErrMovieNotFound, http.StatusNotFound},
		{"booking not found", repository.ErrBookingNotFound, http.StatusNotFound},
		{"invalid seat", service.ErrInvalidSeat, http.StatusBadRequest},
		{"invalid capacity", repository.ErrInvalidCapacity, http.StatusBadRequest},
		{"seat taken", repository.ErrSeatTaken, http.StatusConflict},
		{"show full", repository.ErrShowFull, http.StatusConflict},
		{"already cancelled", repository.ErrAlreadyCancelled, http.StatusConflict},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"unavailable", service.ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, bookingError(c, tc.err))
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestBookingError_WrappedErrors(t *testing.T) {
	c, rec := newTestContext(t)
	wrapped := errors.Join(errors.New("insert booking"), repository.ErrSeatTaken)
	require.NoError(t, bookingError(c, wrapped))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetUserID_ClaimTypes(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 claim", float64(42), 42, true},
		{"string claim", "42", 42, true},
		{"uint64 claim", uint64(7), 7, true},
		{"missing", nil, 0, false},
		{"garbage", "not-a-number", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("15")

	id, ok := pathID(c, "id")
	require.True(t, ok)
	require.Equal(t, uint64(15), id)

	c.SetParamValues("0")
	_, ok = pathID(c, "id")
	require.False(t, ok)

	c.SetParamValues("abc")
	_, ok = pathID(c, "id")
	require.False(t, ok)
}
