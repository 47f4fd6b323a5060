package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bank-demo/internal/model"
)

// HMACCodec signs session tokens as base64url(JSON payload) + "." +
// base64url(HMAC-SHA256 tag). The tag is keyed with the server-held
// secret; a token is valid only if the tag matches the payload bytes and
// the embedded expiry is in the future.
type HMACCodec struct {
	secret []byte
	ttl    time.Duration
}

type hmacPayload struct {
	Username    string    `json:"username"`
	AccountName string    `json:"account_name"`
	Balance     string    `json:"balance"`
	TokenID     string    `json:"jti"`
	IssuedAt    time.Time `json:"iat"`
	ExpiresAt   time.Time `json:"exp"`
}

func NewHMACCodec(secret string, ttl time.Duration) *HMACCodec {
	return &HMACCodec{secret: []byte(secret), ttl: ttl}
}

func (c *HMACCodec) Issue(user model.UserRecord) (string, *Claims, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Username:    user.Username,
		AccountName: user.AccountName,
		Balance:     user.Balance,
		TokenID:     uuid.NewString(),
		IssuedAt:    now,
		ExpiresAt:   now.Add(c.ttl),
	}

	payload, err := json.Marshal(hmacPayload{
		Username:    claims.Username,
		AccountName: claims.AccountName,
		Balance:     claims.Balance,
		TokenID:     claims.TokenID,
		IssuedAt:    claims.IssuedAt,
		ExpiresAt:   claims.ExpiresAt,
	})
	if err != nil {
		return "", nil, err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + c.sign(encoded), claims, nil
}

func (c *HMACCodec) Verify(tokenString string) (*Claims, error) {
	encoded, tag, found := strings.Cut(tokenString, ".")
	if !found || encoded == "" || tag == "" {
		return nil, fmt.Errorf("%w: malformed token", model.ErrTokenInvalid)
	}

	if !hmac.Equal([]byte(tag), []byte(c.sign(encoded))) {
		return nil, fmt.Errorf("%w: signature mismatch", model.ErrTokenInvalid)
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	var payload hmacPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	if time.Now().UTC().After(payload.ExpiresAt) {
		return nil, fmt.Errorf("%w: %w", model.ErrTokenInvalid, model.ErrTokenExpired)
	}

	return &Claims{
		Username:    payload.Username,
		AccountName: payload.AccountName,
		Balance:     payload.Balance,
		TokenID:     payload.TokenID,
		IssuedAt:    payload.IssuedAt,
		ExpiresAt:   payload.ExpiresAt,
	}, nil
}

func (c *HMACCodec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
