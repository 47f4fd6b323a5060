package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bank-demo/internal/model"
)

const testSecret = "unit-test-secret"

func testUser() model.UserRecord {
	return model.UserRecord{
		Username:    "demo",
		AccountName: "Demo User",
		Balance:     "5000.00",
	}
}

func codecsUnderTest(ttl time.Duration) map[string]Codec {
	return map[string]Codec{
		"jwt":  NewJWTCodec(testSecret, ttl, "bank-demo", "bank-demo-users"),
		"hmac": NewHMACCodec(testSecret, ttl),
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	for name, codec := range codecsUnderTest(time.Hour) {
		t.Run(name, func(t *testing.T) {
			issued, _, err := codec.Issue(testUser())
			require.NoError(t, err)
			require.NotEmpty(t, issued)

			claims, err := codec.Verify(issued)
			require.NoError(t, err)
			require.Equal(t, "demo", claims.Username)
			require.Equal(t, "Demo User", claims.AccountName)
			require.Equal(t, "5000.00", claims.Balance)
			require.NotEmpty(t, claims.TokenID)
			require.True(t, claims.ExpiresAt.After(time.Now()))
		})
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	for name, codec := range codecsUnderTest(-time.Minute) {
		t.Run(name, func(t *testing.T) {
			issued, _, err := codec.Issue(testUser())
			require.NoError(t, err)

			_, err = codec.Verify(issued)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
			require.ErrorIs(t, err, model.ErrTokenExpired)
		})
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	t.Parallel()

	for name, codec := range codecsUnderTest(time.Hour) {
		t.Run(name, func(t *testing.T) {
			issued, _, err := codec.Issue(testUser())
			require.NoError(t, err)

			// Flip a single character in the signed portion; both codecs
			// sign everything before the final separator.
			sep := strings.LastIndex(issued, ".")
			require.Greater(t, sep, 0)
			mutated := flipChar(issued[:sep]) + issued[sep:]

			_, err = codec.Verify(mutated)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
			require.False(t, errors.Is(err, model.ErrTokenExpired))
		})
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	for name, codec := range codecsUnderTest(time.Hour) {
		t.Run(name, func(t *testing.T) {
			for _, tokenString := range []string{"", "no-separator", "a.b.c.d", "..", "%%%.%%%"} {
				_, err := codec.Verify(tokenString)
				require.ErrorIs(t, err, model.ErrTokenInvalid, "token %q", tokenString)
			}
		})
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	issuers := codecsUnderTest(time.Hour)
	verifiers := map[string]Codec{
		"jwt":  NewJWTCodec("other-secret", time.Hour, "bank-demo", "bank-demo-users"),
		"hmac": NewHMACCodec("other-secret", time.Hour),
	}

	for name, issuer := range issuers {
		t.Run(name, func(t *testing.T) {
			issued, _, err := issuer.Issue(testUser())
			require.NoError(t, err)

			_, err = verifiers[name].Verify(issued)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
		})
	}
}

func TestNewSelectsCodecByName(t *testing.T) {
	t.Parallel()

	jwtCodec, err := New("jwt", testSecret, time.Hour, "iss", "aud")
	require.NoError(t, err)
	require.IsType(t, &JWTCodec{}, jwtCodec)

	hmacCodec, err := New("hmac", testSecret, time.Hour, "iss", "aud")
	require.NoError(t, err)
	require.IsType(t, &HMACCodec{}, hmacCodec)

	_, err = New("base64", testSecret, time.Hour, "iss", "aud")
	require.Error(t, err)
}

func flipChar(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c != 'A' {
			b[i] = 'A'
			return string(b)
		}
	}
	b[0] = 'B'
	return string(b)
}
