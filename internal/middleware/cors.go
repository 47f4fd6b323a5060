package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the configured origins. Credentials are allowed because the
// session rides in a cookie; the wildcard origin therefore cannot be
// combined with credentials and is left as-is only for same-origin
// deployments.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if len(origins) == 1 && origins[0] == "*" {
		allowCredentials = false
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: allowCredentials,
	})

	return handler.Handler
}
