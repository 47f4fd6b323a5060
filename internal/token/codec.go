// Package token issues and verifies the opaque session artifact. Two
// codecs exist behind one interface: a standard JWT and a compact
// HMAC-signed payload. Which one runs is configuration, not a code path
// callers choose between.
package token

import (
	"fmt"
	"time"

	"bank-demo/internal/model"
)

// Claims is the decoded session token payload.
type Claims struct {
	Username    string
	AccountName string
	Balance     string
	TokenID     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

func (c *Claims) User() model.UserRecord {
	return model.UserRecord{
		Username:    c.Username,
		AccountName: c.AccountName,
		Balance:     c.Balance,
	}
}

type Codec interface {
	// Issue serializes the user plus issued-at/expiry into a signed
	// opaque string, returning the claims it embedded alongside.
	Issue(user model.UserRecord) (string, *Claims, error)

	// Verify validates the signature and expiry and returns the decoded
	// claims. Any failure satisfies errors.Is(err, model.ErrTokenInvalid);
	// an expired token additionally matches model.ErrTokenExpired.
	Verify(token string) (*Claims, error)
}

// New selects a codec implementation by name ("jwt" or "hmac").
func New(kind string, secret string, ttl time.Duration, issuer string, audience string) (Codec, error) {
	switch kind {
	case "jwt":
		return NewJWTCodec(secret, ttl, issuer, audience), nil
	case "hmac":
		return NewHMACCodec(secret, ttl), nil
	default:
		return nil, fmt.Errorf("unknown token codec %q", kind)
	}
}
