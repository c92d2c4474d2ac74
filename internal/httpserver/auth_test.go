package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	mwauth "github.com/openmart/shop_backend/internal/middleware/auth"
)

func signupAlice(t *testing.T, env *testEnv) map[string]any {
	t.Helper()
	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/user/signup", map[string]string{
		"username": "alice@example.com",
		"password": "password",
		"fullName": "Alice",
	})
	require.NoError(t, env.Auth.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	body := signupAlice(t, env)
	require.Equal(t, "User created successfully", body["message"])
	require.NotEmpty(t, body["accessToken"])
	require.NotEmpty(t, body["refreshToken"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "alice@example.com", user["username"])
	require.NotEmpty(t, user["id"])
	// the hash never leaves the server
	require.NotContains(t, user, "PasswordHash")

	// same username again
	_, c := env.doJSON(t, http.MethodPost, "/api/v1/user/signup", map[string]string{
		"username": "alice@example.com",
		"password": "password",
		"fullName": "Alice",
	})
	he := httpErr(t, env.Auth.Signup(c))
	require.Equal(t, http.StatusConflict, he.Code)
	require.Equal(t, "User already exists", he.Message)
}

func TestSignupBadCredentialsFormat(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(t, http.MethodPost, "/api/v1/user/signup", map[string]string{
		"username": "not-an-email",
		"password": "password",
	})
	he := httpErr(t, env.Auth.Signup(c))
	require.Equal(t, http.StatusForbidden, he.Code)
	require.Equal(t, "Please enter valid type of credentials", he.Message)
}

func TestSignin(t *testing.T) {
	env := newTestEnv(t)
	signupAlice(t, env)

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/user/signin", map[string]string{
		"username": "alice@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Signin(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotEmpty(t, body["accessToken"])

	_, c = env.doJSON(t, http.MethodPost, "/api/v1/user/signin", map[string]string{
		"username": "alice@example.com",
		"password": "wrongpw",
	})
	he := httpErr(t, env.Auth.Signin(c))
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.Equal(t, "Invalid credentials", he.Message)

	_, c = env.doJSON(t, http.MethodPost, "/api/v1/user/signin", map[string]string{
		"username": "nobody@example.com",
		"password": "password",
	})
	he = httpErr(t, env.Auth.Signin(c))
	require.Equal(t, http.StatusNotFound, he.Code)
	require.Equal(t, "User not found", he.Message)
}

func TestAdminSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/user/admin-signup", map[string]string{
		"username": "root@example.com",
		"password": "password",
		"fullName": "Root",
	})
	require.NoError(t, env.Auth.AdminSignup(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "admin")

	rec, c = env.doJSON(t, http.MethodPost, "/api/v1/user/admin-login", map[string]string{
		"username": "root@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.AdminLogin(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.NotEmpty(t, body["accessToken"])
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	first := signupAlice(t, env)

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/user/refresh-token", map[string]string{
		"refreshToken": first["refreshToken"].(string),
	})
	require.NoError(t, env.Auth.RefreshToken(c))
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decodeBody(t, rec)
	require.NotEmpty(t, rotated["accessToken"])
	require.NotEmpty(t, rotated["refreshToken"])

	// the rotated-out token is dead
	_, c = env.doJSON(t, http.MethodPost, "/api/v1/user/refresh-token", map[string]string{
		"refreshToken": first["refreshToken"].(string),
	})
	he := httpErr(t, env.Auth.RefreshToken(c))
	require.Equal(t, http.StatusForbidden, he.Code)
	require.Equal(t, "Invalid or expired refresh token", he.Message)
}

func TestRefreshTokenMissing(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(t, http.MethodPost, "/api/v1/user/refresh-token", map[string]string{})
	he := httpErr(t, env.Auth.RefreshToken(c))
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.Equal(t, "Refresh token is required", he.Message)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	body := signupAlice(t, env)
	userID := body["user"].(map[string]any)["id"].(string)

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/user/logout", nil)
	c.Set(mwauth.ContextKey, userID)
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged out successfully", decodeBody(t, rec)["message"])

	// without a principal on the context the handler refuses
	_, c = env.doJSON(t, http.MethodPost, "/api/v1/user/logout", nil)
	he := httpErr(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
