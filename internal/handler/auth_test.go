package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/user-directory-api/internal/config"
	"github.com/iliyamo/user-directory-api/internal/handler"
	"github.com/iliyamo/user-directory-api/internal/repository"
	"github.com/iliyamo/user-directory-api/internal/router"
	"github.com/iliyamo/user-directory-api/internal/utils"
)

const testSecret = "unit-test-secret-key-minimum-256-bits-for-hs256-algo"

// newTestServer builds the real route table over a fresh, seeded
// directory.  No Redis and no broker: the limiter degrades to a
// passthrough and events are disabled.
func newTestServer(t *testing.T) (*echo.Echo, *repository.UserRepo, config.Config) {
	t.Helper()
	cfg := config.Config{
		Env:        "test",
		JWTSecret:  testSecret,
		AccessTTL:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	users := repository.NewUserRepo()
	users.Seed(context.Background(), cfg.BcryptCost)

	e := echo.New()
	router.Register(e, cfg, handler.NewAuthHandler(cfg, users, nil), handler.NewUserHandler(cfg, users), nil)
	return e, users, cfg
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func loginToken(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body tokenBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.AccessToken
}

func TestLoginSuccess(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body tokenBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, int64(3600), body.ExpiresIn)

	// The token's decoded role set is the user's role set at issue time.
	claims, err := utils.VerifyToken(testSecret, body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.ElementsMatch(t, []string{"USER", "ADMIN"}, claims.Roles)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	e, _, _ := newTestServer(t)

	// Unknown user and wrong password yield the identical response.
	for name, body := range map[string]string{
		"unknown user":   `{"username":"nobody","password":"admin123"}`,
		"wrong password": `{"username":"admin","password":"nope"}`,
	} {
		rec := doJSON(e, http.MethodPost, "/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String(), name)
	}
}

func TestLoginMissingFields(t *testing.T) {
	e, _, _ := newTestServer(t)
	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterIssuesTokenImmediately(t *testing.T) {
	e, users, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{
		"user_name": "newbie",
		"email_address": "newbie@example.com",
		"first_name": "New",
		"last_name": "Bee",
		"password": "supersecret1"
	}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body tokenBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bearer", body.TokenType)

	// Default role set applied, plaintext never stored.
	u, err := users.GetByUsername(context.Background(), "newbie")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, u.Roles)
	assert.NotEqual(t, "supersecret1", u.PasswordHash)

	// The fresh token works on a protected endpoint right away.
	me := doJSON(e, http.MethodGet, "/v1/me", "", body.AccessToken)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"user_name":"newbie"`)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e, users, _ := newTestServer(t)

	payload := `{
		"user_name": "dup",
		"email_address": "dup@example.com",
		"first_name": "Du",
		"last_name": "Plicate",
		"password": "supersecret1"
	}`
	rec := doJSON(e, http.MethodPost, "/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/register", payload, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Username already exists"}`, rec.Body.String())

	// First registration is unaffected by the rejected duplicate.
	_, ok := users.Authenticate(context.Background(), "dup", "supersecret1")
	assert.True(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{
		"user_name": "ab",
		"email_address": "not-an-email",
		"first_name": "",
		"last_name": "",
		"password": "short"
	}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation failed")
}

func TestAuthHealthIsPublic(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/auth/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	// Liveness endpoint too.
	rec = doJSON(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeadersPresent(t *testing.T) {
	e, _, _ := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
}
