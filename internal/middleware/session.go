package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"bank-demo/internal/model"
)

type sessionResolver interface {
	CurrentUser(tokenString string) (model.UserRecord, error)
}

type contextKey string

const sessionUserContextKey contextKey = "session_user"

// SessionMiddleware gates access to protected routes. API routes get a
// JSON 401; page routes get a redirect to the login entry point.
type SessionMiddleware struct {
	sessions      sessionResolver
	cookieName    string
	legacyCookies []string
}

func NewSessionMiddleware(sessions sessionResolver, cookieName string, legacyCookies []string) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:      sessions,
		cookieName:    cookieName,
		legacyCookies: legacyCookies,
	}
}

// RequireSession is the API flavor of the guard: no valid session means a
// 401 envelope, a valid one puts the user record on the request context.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.sessions.CurrentUser(m.ExtractToken(r))
		if err != nil {
			writeUnauthorized(w, "missing or invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), sessionUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GuardPage is the page flavor: no valid session clears any leftover
// cookies from prior session schemes and redirects to /login without
// rendering anything.
func (m *SessionMiddleware) GuardPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.sessions.CurrentUser(m.ExtractToken(r))
		if err != nil {
			m.clearLegacyCookies(w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractToken pulls the session token from the cookie, falling back to
// a bearer Authorization header for cookie-less API clients.
func (m *SessionMiddleware) ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}

// clearLegacyCookies expires artifacts left behind by earlier session
// schemes. One-time migration cleanup, not a supported format.
func (m *SessionMiddleware) clearLegacyCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range m.legacyCookies {
		if _, err := r.Cookie(name); err != nil {
			continue
		}

		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

func UserFromContext(ctx context.Context) (model.UserRecord, bool) {
	user, ok := ctx.Value(sessionUserContextKey).(model.UserRecord)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}
