package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking/internal/utils"
)

const testSecret = "unit-test-secret"

func invokeJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 99, "CUSTOMER", 5)
	require.NoError(t, err)

	rec, c := invokeJWT(t, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "CUSTOMER", c.Get("role"))
	// MapClaims decodes numbers as float64.
	require.Equal(t, float64(99), c.Get("user_id"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, _ := invokeJWT(t, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("another-secret", 99, "CUSTOMER", 5)
	require.NoError(t, err)

	rec, _ := invokeJWT(t, "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_MalformedToken(t *testing.T) {
	rec, _ := invokeJWT(t, "Bearer not.a.jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
