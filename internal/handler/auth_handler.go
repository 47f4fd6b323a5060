package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bank-demo/internal/model"
	"bank-demo/internal/service"
	"bank-demo/pkg/apierror"
)

// AuthHandler owns the login/logout/session surface and the session
// cookie lifecycle.
type AuthHandler struct {
	sessions   *service.SessionService
	cookieName string
	cookieTTL  time.Duration
}

func NewAuthHandler(sessions *service.SessionService, cookieName string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	session, err := h.sessions.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		// Directory-down is logged but not exposed: the caller sees the
		// same generic message as a wrong password, so the response does
		// not reveal which accounts exist.
		if errors.Is(err, model.ErrDirectoryUnavailable) {
			slog.Warn("login failed, user directory unreachable", "error", err)
		}
		writeError(w, model.ErrInvalidCredentials)
		return
	}

	h.setSessionCookie(w, r, session.Token, payload.Remember)

	writeSuccess(w, http.StatusOK, model.LoginResponse{
		User:      session.User,
		Message:   fmt.Sprintf("Welcome back, %s", session.User.AccountName),
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(h.sessionToken(r))
	h.clearSessionCookie(w, r)
	writeSuccess(w, http.StatusOK, map[string]any{"signed_out": true})
}

// Session reports the current session state. Public: an absent or invalid
// token is "logged out", not an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.sessions.Info(h.sessionToken(r)))
}

// RefreshBalance re-reads the directory balance and rotates the session
// token so a page reload sees the new value without another directory
// round-trip. A directory failure keeps the user logged in.
func (h *AuthHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.RefreshBalance(r.Context(), h.sessionToken(r))
	if err != nil {
		if errors.Is(err, model.ErrDirectoryUnavailable) {
			writeError(w, apierror.New("BALANCE_REFRESH_FAILED", "Could not refresh balance, please try again", "", http.StatusBadGateway))
			return
		}
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, r, session.Token, false)

	writeSuccess(w, http.StatusOK, model.BalanceResponse{
		Username: session.User.Username,
		Balance:  session.User.Balance,
	})
}

func (h *AuthHandler) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}

// setSessionCookie persists the token client-side. Without remember the
// cookie is session-only; with it the lifetime matches the configured
// cookie TTL. Secure is set only when the request arrived over TLS.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, remember bool) {
	cookie := &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	}
	if remember {
		cookie.MaxAge = int(h.cookieTTL.Seconds())
	}

	http.SetCookie(w, cookie)
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}
