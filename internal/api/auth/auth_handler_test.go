package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/api"
)

func newTestHandler(t *testing.T, repo AuthRepo) (*Handler, *TokenMinter, *config.Config) {
	t.Helper()
	cfg := &config.Config{Auth: testAuthConfig()}
	minter, err := NewTokenMinter(cfg.Auth)
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	service := NewAuthService(repo, minter, cfg, logger)
	return NewAuthHandler(service, minter, cfg, logger), minter, cfg
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, minter, cfg := newTestHandler(t, repo)

	user := testUser()
	user.Password = hashPassword(t, "s3cret")
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec, cfg.Auth.CookieName)
	require.NotNil(t, cookie, "session cookie must be set")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure, "secure flag stays off outside production")
	assert.Equal(t, cfg.Auth.CookieMaxAge, cookie.MaxAge)

	claims, err := minter.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)

	body := rec.Body.String()
	assert.Contains(t, body, "Login successful")
	assert.Contains(t, body, user.Username)
	assert.NotContains(t, body, user.Password, "password hash must never be serialized")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, cfg := newTestHandler(t, repo)

	user := testUser()
	user.Password = hashPassword(t, "correct")
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookie(t, rec, cfg.Auth.CookieName))
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, _ := newTestHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register_Created(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, _ := newTestHandler(t, repo)

	created := testUser()
	created.Username = "bob"
	created.Password = "this-hash-must-not-leak"
	repo.On("CreateUser", mock.Anything, "bob", "bob@example.com", mock.Anything, (*string)(nil)).
		Return(created, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"bob","email":"bob@example.com","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "bob")
	assert.NotContains(t, body, "this-hash-must-not-leak")
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, _ := newTestHandler(t, repo)

	repo.On("CreateUser", mock.Anything, "bob", "bob@example.com", mock.Anything, (*string)(nil)).
		Return(nil, api.ErrConflict)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"bob","email":"bob@example.com","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, _ := newTestHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"bob"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Me_ReturnsLiveAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, minter, cfg := newTestHandler(t, repo)

	user := testUser()
	signed, _, err := minter.Issue(user)
	require.NoError(t, err)
	repo.On("GetUserByID", mock.Anything, user.ID.String()).Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: cfg.Auth.CookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.Username)
}

func TestAuthHandler_Me_NoCookie(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, _ := newTestHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Me_AccountGone(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, minter, cfg := newTestHandler(t, repo)

	user := testUser()
	signed, _, err := minter.Issue(user)
	require.NoError(t, err)
	repo.On("GetUserByID", mock.Anything, user.ID.String()).Return(nil, api.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: cfg.Auth.CookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	repo := new(mockAuthRepo)
	handler, _, cfg := newTestHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cfg.Auth.CookieName, Value: "whatever"})
	req.AddCookie(&http.Cookie{Name: "other_cookie", Value: "x"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logout successful")

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 && c.Value == "" {
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared[cfg.Auth.CookieName])
	assert.True(t, cleared["other_cookie"])
}
