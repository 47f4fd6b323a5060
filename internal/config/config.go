package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and never mutated afterwards; every
// component receives the values it needs through its constructor.
type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	TokenCodec    string
	TokenSecret   string
	TokenTTL      time.Duration
	TokenIssuer   string
	TokenAudience string

	CookieName    string
	CookieTTL     time.Duration
	ExpiryWarning time.Duration

	SheetBaseURL     string
	SheetID          string
	SheetAPIKey      string
	SheetRange       string
	DirectoryTimeout time.Duration

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
}

const (
	CodecJWT  = "jwt"
	CodecHMAC = "hmac"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 15*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		TokenCodec:              strings.ToLower(getEnv("TOKEN_CODEC", CodecJWT)),
		TokenSecret:             strings.TrimSpace(os.Getenv("TOKEN_SECRET")),
		TokenTTL:                getDuration("TOKEN_TTL", 24*time.Hour),
		TokenIssuer:             getEnv("TOKEN_ISSUER", "bank-demo"),
		TokenAudience:           getEnv("TOKEN_AUDIENCE", "bank-demo-users"),
		CookieName:              getEnv("SESSION_COOKIE_NAME", "bank_auth_token"),
		CookieTTL:               getDuration("SESSION_COOKIE_TTL", 168*time.Hour),
		ExpiryWarning:           getDuration("SESSION_EXPIRY_WARNING", time.Hour),
		SheetBaseURL:            getEnv("SHEET_BASE_URL", "https://sheets.googleapis.com/v4/spreadsheets"),
		SheetID:                 strings.TrimSpace(os.Getenv("SHEET_ID")),
		SheetAPIKey:             strings.TrimSpace(os.Getenv("SHEET_API_KEY")),
		SheetRange:              getEnv("SHEET_RANGE", "Sheet1!A:D"),
		DirectoryTimeout:        getDuration("DIRECTORY_TIMEOUT", 10*time.Second),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.TokenSecret) == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}

	if c.TokenCodec != CodecJWT && c.TokenCodec != CodecHMAC {
		return fmt.Errorf("TOKEN_CODEC must be %q or %q", CodecJWT, CodecHMAC)
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.CookieTTL < c.TokenTTL {
		return fmt.Errorf("SESSION_COOKIE_TTL cannot be shorter than TOKEN_TTL")
	}

	if strings.TrimSpace(c.CookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DirectoryTimeout <= 0 {
		return fmt.Errorf("DIRECTORY_TIMEOUT must be positive")
	}

	return nil
}

// SheetConfigured reports whether the remote directory has been set up.
// When it is not, the service falls back to the built-in demo table.
func (c *Config) SheetConfigured() bool {
	return c.SheetID != "" && c.SheetAPIKey != ""
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
