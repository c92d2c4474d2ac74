package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	secret := []byte("test-secret")

	raw, err := Sign("user-1", secret, AccessTTL)
	require.NoError(t, err)

	claims, err := ClaimsFromToken(raw, secret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestParseWrongSecret(t *testing.T) {
	raw, err := Sign("user-1", []byte("right"), AccessTTL)
	require.NoError(t, err)

	_, err = ClaimsFromToken(raw, []byte("wrong"))
	require.Error(t, err)
	require.NotErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseExpired(t *testing.T) {
	secret := []byte("test-secret")
	raw, err := Sign("user-1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ClaimsFromToken(raw, secret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}
