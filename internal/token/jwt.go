package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bank-demo/internal/model"
)

// JWTCodec signs session tokens as HS256 JWTs with issuer and audience
// tags enforced on verification.
type JWTCodec struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
}

func NewJWTCodec(secret string, ttl time.Duration, issuer string, audience string) *JWTCodec {
	return &JWTCodec{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
	}
}

func (c *JWTCodec) Issue(user model.UserRecord) (string, *Claims, error) {
	now := time.Now().UTC()
	tokenID := uuid.NewString()
	expiresAt := now.Add(c.ttl)

	mapClaims := jwt.MapClaims{
		"sub":          user.Username,
		"username":     user.Username,
		"account_name": user.AccountName,
		"balance":      user.Balance,
		"iss":          c.issuer,
		"aud":          c.audience,
		"jti":          tokenID,
		"iat":          now.Unix(),
		"exp":          expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}

	return signed, &Claims{
		Username:    user.Username,
		AccountName: user.AccountName,
		Balance:     user.Balance,
		TokenID:     tokenID,
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
	}, nil
}

func (c *JWTCodec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithAudience(c.audience), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", model.ErrTokenInvalid, model.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenInvalid
	}

	claims := &Claims{}
	claims.Username, _ = claimsMap["username"].(string)
	claims.AccountName, _ = claimsMap["account_name"].(string)
	claims.Balance, _ = claimsMap["balance"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing subject", model.ErrTokenInvalid)
	}

	if iat, err := claimsMap.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
