package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking/internal/config"
)

// buildCacheKey computes the cache key for a request bound to a
// parameterized route, the way the Echo router would present it.
func buildCacheKey(t *testing.T, target, routePattern string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(routePattern)
	return cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}, c)
}

func TestCacheKey_DistinctPerShow(t *testing.T) {
	k1 := buildCacheKey(t, "/v1/shows/1/seats", "/v1/shows/:id/seats")
	k2 := buildCacheKey(t, "/v1/shows/2/seats", "/v1/shows/:id/seats")
	require.NotEqual(t, k1, k2)
}

func TestCacheKey_DistinctPerMovie(t *testing.T) {
	k1 := buildCacheKey(t, "/v1/movies/7/shows", "/v1/movies/:id/shows")
	k2 := buildCacheKey(t, "/v1/movies/8/shows", "/v1/movies/:id/shows")
	require.NotEqual(t, k1, k2)
}

func TestCacheKey_StableForSameRequest(t *testing.T) {
	k1 := buildCacheKey(t, "/v1/shows/1/seats", "/v1/shows/:id/seats")
	k2 := buildCacheKey(t, "/v1/shows/1/seats", "/v1/shows/:id/seats")
	require.Equal(t, k1, k2)
}

func TestCacheKey_QueryContributes(t *testing.T) {
	k1 := buildCacheKey(t, "/v1/movies?page=1", "/v1/movies")
	k2 := buildCacheKey(t, "/v1/movies?page=2", "/v1/movies")
	require.NotEqual(t, k1, k2)
}
