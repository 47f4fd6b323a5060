package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bank-demo/internal/directory"
	"bank-demo/internal/model"
	"bank-demo/internal/service"
	"bank-demo/internal/token"
)

const testCookieName = "bank_auth_token"

func newAuthHandler(t *testing.T) (*AuthHandler, *service.SessionService) {
	t.Helper()

	codec := token.NewHMACCodec("handler-test-secret", time.Hour)
	sessions := service.NewSessionService(service.NewAuthService(directory.NewDemoDirectory()), codec, time.Minute)
	return NewAuthHandler(sessions, testCookieName, 168*time.Hour), sessions
}

func loginRequest(t *testing.T, body any) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, model.LoginRequest{Username: "demo", Password: "demo"}))

	require.Equal(t, http.StatusOK, rec.Code)

	var parsed struct {
		Success bool                `json:"success"`
		Data    model.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.True(t, parsed.Success)
	require.Equal(t, "demo", parsed.Data.User.Username)
	require.Equal(t, "5000.00", parsed.Data.User.Balance)
	require.Equal(t, "Welcome back, Demo User", parsed.Data.Message)

	cookie := sessionCookie(t, rec)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.False(t, cookie.Secure, "plain HTTP request must not set Secure")
	require.Equal(t, 0, cookie.MaxAge, "session-only cookie without remember")
}

func TestLoginRememberExtendsCookieLifetime(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, model.LoginRequest{Username: "demo", Password: "demo", Remember: true}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int((168 * time.Hour).Seconds()), sessionCookie(t, rec).MaxAge)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, model.LoginRequest{Username: "demo", Password: "wrong"}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid username or password")
}

type downDirectory struct{}

func (downDirectory) FetchAll(context.Context) ([]model.DirectoryEntry, error) {
	return nil, fmt.Errorf("%w: dial tcp: connection refused", model.ErrDirectoryUnavailable)
}

func TestLoginDirectoryDownLooksLikeBadCredentials(t *testing.T) {
	t.Parallel()

	codec := token.NewHMACCodec("handler-test-secret", time.Hour)
	sessions := service.NewSessionService(service.NewAuthService(downDirectory{}), codec, time.Minute)
	h := NewAuthHandler(sessions, testCookieName, 168*time.Hour)

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, model.LoginRequest{Username: "demo", Password: "demo"}))

	// Directory-down must not be distinguishable from a wrong password.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid username or password")
	require.NotContains(t, rec.Body.String(), "directory")
}

func TestLoginRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookieAndSession(t *testing.T) {
	t.Parallel()

	h, sessions := newAuthHandler(t)

	loginRec := httptest.NewRecorder()
	h.Login(loginRec, loginRequest(t, model.LoginRequest{Username: "demo", Password: "demo"}))
	tokenValue := sessionCookie(t, loginRec).Value

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tokenValue})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.Empty(t, cookie.Value)
	require.Equal(t, -1, cookie.MaxAge)

	_, err := sessions.CurrentUser(tokenValue)
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	// Idempotent without a cookie.
	again := httptest.NewRecorder()
	h.Logout(again, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	require.Equal(t, http.StatusOK, again.Code)
}

func TestSessionEndpointReportsState(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	anonRec := httptest.NewRecorder()
	h.Session(anonRec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	require.Equal(t, http.StatusOK, anonRec.Code)
	require.Contains(t, anonRec.Body.String(), `"authenticated":false`)

	loginRec := httptest.NewRecorder()
	h.Login(loginRec, loginRequest(t, model.LoginRequest{Username: "test", Password: "test"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: sessionCookie(t, loginRec).Value})
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"authenticated":true`)
	require.Contains(t, rec.Body.String(), "2500.50")
}

func TestRefreshBalanceWithoutSession(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.RefreshBalance(rec, httptest.NewRequest(http.MethodPost, "/api/v1/banking/refresh-balance", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshBalanceRotatesCookie(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	loginRec := httptest.NewRecorder()
	h.Login(loginRec, loginRequest(t, model.LoginRequest{Username: "demo", Password: "demo"}))
	oldToken := sessionCookie(t, loginRec).Value

	req := httptest.NewRequest(http.MethodPost, "/api/v1/banking/refresh-balance", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: oldToken})
	rec := httptest.NewRecorder()
	h.RefreshBalance(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "5000.00")
	require.NotEqual(t, oldToken, sessionCookie(t, rec).Value)
}
