package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/openmart/shop_backend/internal/tokens"
)

// ContextKey is where the gate stores the resolved principal id.
const ContextKey = "userID"

type Gate struct {
	JWTSecret []byte
}

func NewGate(secret []byte) *Gate {
	return &Gate{JWTSecret: secret}
}

// RequireAuth verifies the bearer access token. Expired tokens get a 401 with
// a refresh hint; everything else that fails gets a 403.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.ClaimsFromToken(raw, g.JWTSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token expired. Please refresh your token.")
			}
			return echo.NewHTTPError(http.StatusForbidden, "invalid access token")
		}
		if claims.UserID == "" {
			return echo.NewHTTPError(http.StatusForbidden, "invalid token payload")
		}

		c.Set(ContextKey, claims.UserID)
		return next(c)
	}
}
