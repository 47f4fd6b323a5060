package service

import (
	"context"
	"sync"
	"time"

	"bank-demo/internal/model"
	"bank-demo/internal/token"
)

type cachedSession struct {
	user      model.UserRecord
	expiresAt time.Time
}

// SessionService is the session store: it issues tokens through the codec
// on login, mirrors decoded sessions in memory for fast re-reads, and
// falls back to full token verification when a presented token is not in
// the mirror. The mirror and the client-held cookie must agree; an
// unknown or stale mirror entry loses to re-verifying the token itself.
type SessionService struct {
	auth          *AuthService
	codec         token.Codec
	expiryWarning time.Duration

	mu       sync.RWMutex
	sessions map[string]cachedSession
	revoked  map[string]time.Time
}

func NewSessionService(auth *AuthService, codec token.Codec, expiryWarning time.Duration) *SessionService {
	if expiryWarning <= 0 {
		expiryWarning = time.Hour
	}

	return &SessionService{
		auth:          auth,
		codec:         codec,
		expiryWarning: expiryWarning,
		sessions:      map[string]cachedSession{},
		revoked:       map[string]time.Time{},
	}
}

// Login verifies credentials and issues a fresh session token.
func (s *SessionService) Login(ctx context.Context, username string, password string) (model.Session, error) {
	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return model.Session{}, err
	}

	return s.issue(user)
}

// CurrentUser resolves a presented token to its user record. A valid
// in-memory session is preferred; otherwise the token is re-verified.
// Absent, malformed, tampered and expired tokens all come back as
// model.ErrNotAuthenticated: callers treat that as "logged out", not as
// a fault.
func (s *SessionService) CurrentUser(tokenString string) (model.UserRecord, error) {
	if tokenString == "" {
		return model.UserRecord{}, model.ErrNotAuthenticated
	}

	s.mu.RLock()
	_, isRevoked := s.revoked[tokenString]
	cached, ok := s.sessions[tokenString]
	s.mu.RUnlock()

	if isRevoked {
		return model.UserRecord{}, model.ErrNotAuthenticated
	}

	if ok && time.Now().UTC().Before(cached.expiresAt) {
		return cached.user, nil
	}

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		s.drop(tokenString)
		return model.UserRecord{}, model.ErrNotAuthenticated
	}

	user := claims.User()
	s.remember(tokenString, user, claims.ExpiresAt)
	return user, nil
}

// IsAuthenticated reports whether the token resolves to a live session.
func (s *SessionService) IsAuthenticated(tokenString string) bool {
	_, err := s.CurrentUser(tokenString)
	return err == nil
}

// RefreshBalance re-reads the directory for the session's username,
// re-issues the token with the new balance, and replaces the cached
// session. The old token is dropped from the mirror; the caller persists
// the replacement. A directory failure leaves the session untouched.
func (s *SessionService) RefreshBalance(ctx context.Context, tokenString string) (model.Session, error) {
	user, err := s.CurrentUser(tokenString)
	if err != nil {
		return model.Session{}, model.ErrNotAuthenticated
	}

	balance, err := s.auth.Balance(ctx, user.Username)
	if err != nil {
		return model.Session{}, err
	}

	user.Balance = balance
	session, err := s.issue(user)
	if err != nil {
		return model.Session{}, err
	}

	s.drop(tokenString)
	return session, nil
}

// SignOut drops the session and revokes the token unconditionally, so a
// replayed cookie value is rejected even while it still verifies
// cryptographically. Idempotent; clearing the client-held cookie is the
// transport layer's job.
func (s *SessionService) SignOut(tokenString string) {
	if tokenString == "" {
		return
	}

	expiresAt := time.Now().UTC().Add(s.expiryWarning)
	if claims, err := s.codec.Verify(tokenString); err == nil {
		expiresAt = claims.ExpiresAt
	}

	s.mu.Lock()
	delete(s.sessions, tokenString)
	s.revoked[tokenString] = expiresAt
	s.gcRevokedLocked()
	s.mu.Unlock()
}

// gcRevokedLocked discards revocation entries for tokens that have
// expired on their own.
func (s *SessionService) gcRevokedLocked() {
	if len(s.revoked) < 100 {
		return
	}

	now := time.Now().UTC()
	for t, expiresAt := range s.revoked {
		if expiresAt.Before(now) {
			delete(s.revoked, t)
		}
	}
}

// TokenExpiration returns the expiry of a valid presented token.
func (s *SessionService) TokenExpiration(tokenString string) (time.Time, bool) {
	if tokenString == "" {
		return time.Time{}, false
	}

	s.mu.RLock()
	cached, ok := s.sessions[tokenString]
	s.mu.RUnlock()

	if ok && time.Now().UTC().Before(cached.expiresAt) {
		return cached.expiresAt, true
	}

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt, true
}

// ExpiringSoon reports whether the token expires within the configured
// warning window; pages use it to prompt re-login instead of failing
// mid-session.
func (s *SessionService) ExpiringSoon(tokenString string) bool {
	expiresAt, ok := s.TokenExpiration(tokenString)
	if !ok {
		return false
	}

	return expiresAt.Before(time.Now().UTC().Add(s.expiryWarning))
}

// Info assembles the display view of the session behind a token.
func (s *SessionService) Info(tokenString string) model.SessionInfo {
	user, err := s.CurrentUser(tokenString)
	if err != nil {
		return model.SessionInfo{}
	}

	info := model.SessionInfo{
		Authenticated: true,
		User:          &user,
		ExpiresSoon:   s.ExpiringSoon(tokenString),
	}

	if expiresAt, ok := s.TokenExpiration(tokenString); ok {
		info.ExpiresAt = &expiresAt
	}

	return info
}

func (s *SessionService) issue(user model.UserRecord) (model.Session, error) {
	tokenString, claims, err := s.codec.Issue(user)
	if err != nil {
		return model.Session{}, err
	}

	s.remember(tokenString, user, claims.ExpiresAt)

	return model.Session{
		Token:     tokenString,
		User:      user,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *SessionService) remember(tokenString string, user model.UserRecord, expiresAt time.Time) {
	s.mu.Lock()
	s.sessions[tokenString] = cachedSession{user: user, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *SessionService) drop(tokenString string) {
	s.mu.Lock()
	delete(s.sessions, tokenString)
	s.mu.Unlock()
}
