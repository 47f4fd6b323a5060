package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bank-demo/internal/config"
	"bank-demo/internal/handler"
	"bank-demo/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Banking *handler.BankingHandler
	Pages   *handler.PageHandler
}

func New(cfg *config.Config, sessionMiddleware *middleware.SessionMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	r.Get("/login", handlers.Pages.Login)
	r.With(sessionMiddleware.GuardPage).Get("/banking", handlers.Pages.Banking)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", handlers.Auth.Login)
			auth.Post("/logout", handlers.Auth.Logout)
			auth.Get("/session", handlers.Auth.Session)
		})

		api.Route("/banking", func(banking chi.Router) {
			banking.Use(sessionMiddleware.RequireSession)
			banking.Get("/summary", handlers.Banking.Summary)
			banking.Post("/refresh-balance", handlers.Auth.RefreshBalance)
		})
	})

	return r
}
