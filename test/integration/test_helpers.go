//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bank-demo/internal/config"
	"bank-demo/internal/directory"
	"bank-demo/internal/handler"
	"bank-demo/internal/middleware"
	"bank-demo/internal/router"
	"bank-demo/internal/service"
	"bank-demo/internal/token"
)

const cookieName = "bank_auth_token"

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		TokenCodec:       config.CodecJWT,
		TokenSecret:      "integration-secret",
		TokenTTL:         time.Hour,
		TokenIssuer:      "bank-demo",
		TokenAudience:    "bank-demo-users",
		CookieName:       cookieName,
		CookieTTL:        168 * time.Hour,
		ExpiryWarning:    time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}
}

func newServer(t *testing.T, cfg *config.Config, dir directory.Directory) *httptest.Server {
	t.Helper()

	codec, err := token.New(cfg.TokenCodec, cfg.TokenSecret, cfg.TokenTTL, cfg.TokenIssuer, cfg.TokenAudience)
	require.NoError(t, err)

	sessions := service.NewSessionService(service.NewAuthService(dir), codec, cfg.ExpiryWarning)
	sessionMiddleware := middleware.NewSessionMiddleware(sessions, cfg.CookieName, []string{"auth_token"})

	server := httptest.NewServer(router.New(cfg, sessionMiddleware, router.Handlers{
		Auth:    handler.NewAuthHandler(sessions, cfg.CookieName, cfg.CookieTTL),
		Banking: handler.NewBankingHandler(),
		Pages:   handler.NewPageHandler(),
	}))
	t.Cleanup(server.Close)

	return server
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func login(t *testing.T, client *http.Client, baseURL string, username string, password string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(map[string]any{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeJSON(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
