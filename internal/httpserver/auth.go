package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openmart/shop_backend/internal/logging"
	mwauth "github.com/openmart/shop_backend/internal/middleware/auth"
	"github.com/openmart/shop_backend/internal/service/auth"
	"github.com/openmart/shop_backend/internal/service/token"
	"github.com/openmart/shop_backend/internal/transport"
)

type AuthHTTP struct {
	Svc    *auth.Service
	Tokens *token.Service
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Signup(ctx, req.Username, req.FullName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			l.Warn("signup_failed", "status", 403, "reason", "invalid credentials format")
			return echo.NewHTTPError(http.StatusForbidden, "Please enter valid type of credentials")
		case errors.Is(err, auth.ErrConflict):
			l.Warn("signup_failed", "status", 409, "reason", "user already exists")
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		default:
			l.Error("signup_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error creating user")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "User created successfully",
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signin")

	var req transport.SigninRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Signin(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return echo.NewHTTPError(http.StatusForbidden, "Please enter valid type of credentials")
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("signin_failed", "status", 404, "reason", "user not found")
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrBadCredentials):
			l.Warn("signin_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		default:
			l.Error("signin_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error signing in")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Signed in successfully",
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) AdminSignup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.admin_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	admin, pair, err := h.Svc.AdminSignup(ctx, req.Username, req.FullName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return echo.NewHTTPError(http.StatusForbidden, "Please enter valid type of credentials")
		case errors.Is(err, auth.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "Admin already exists")
		default:
			l.Error("admin_signup_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error creating admin")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Admin created successfully",
		"admin":        admin,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.admin_login")

	var req transport.SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	admin, pair, err := h.Svc.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return echo.NewHTTPError(http.StatusForbidden, "Please enter valid type of credentials")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Admin not found")
		case errors.Is(err, auth.ErrBadCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		default:
			l.Error("admin_login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error signing in admin")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Admin signed in successfully",
		"admin":        admin,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh_token")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is required")
	}

	pair, err := h.Tokens.Rotate(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			l.Warn("refresh_failed", "status", 403, "reason", "invalid or expired refresh token")
			return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired refresh token")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error refreshing token")
	}

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	principalID, _ := c.Get(mwauth.ContextKey).(string)
	if principalID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.Svc.Logout(ctx, principalID); err != nil {
		if errors.Is(err, token.ErrNotFound) {
			l.Warn("logout_failed", "status", 404, "reason", "principal not found")
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error during logout")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}
