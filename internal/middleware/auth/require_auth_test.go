package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/openmart/shop_backend/internal/tokens"
)

var testSecret = []byte("gate-secret")

func callGate(t *testing.T, header string) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	gate := NewGate(testSecret)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return gate.RequireAuth(next)(c), c
}

func TestRequireAuthMissingHeader(t *testing.T) {
	err, _ := callGate(t, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAuthNotBearer(t *testing.T) {
	err, _ := callGate(t, "Basic abc")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAuthExpired(t *testing.T) {
	raw, err := tokens.Sign("user-1", testSecret, -time.Minute)
	require.NoError(t, err)

	gateErr, _ := callGate(t, "Bearer "+raw)
	he, ok := gateErr.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.Equal(t, "Token expired. Please refresh your token.", he.Message)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	raw, err := tokens.Sign("user-1", []byte("other-secret"), time.Minute)
	require.NoError(t, err)

	gateErr, _ := callGate(t, "Bearer "+raw)
	he, ok := gateErr.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAuthOK(t *testing.T) {
	raw, err := tokens.Sign("user-1", testSecret, time.Minute)
	require.NoError(t, err)

	gateErr, c := callGate(t, "Bearer "+raw)
	require.NoError(t, gateErr)
	require.Equal(t, "user-1", c.Get(ContextKey))
}
