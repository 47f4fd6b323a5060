package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-demo/internal/config"
	"bank-demo/internal/directory"
	"bank-demo/internal/handler"
	"bank-demo/internal/middleware"
	"bank-demo/internal/router"
	"bank-demo/internal/service"
	"bank-demo/internal/token"
)

// Cookie names used by earlier iterations of the session scheme; the
// page guard expires them when it finds them.
var legacyCookieNames = []string{"auth_token", "refresh_token"}

type App struct {
	server *http.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var dir directory.Directory
	if cfg.SheetConfigured() {
		slog.Info("using remote sheet directory", "sheet_id", cfg.SheetID)
		dir = directory.NewSheetsDirectory(cfg.SheetBaseURL, cfg.SheetID, cfg.SheetAPIKey, cfg.SheetRange, cfg.DirectoryTimeout)
	} else {
		slog.Info("remote directory not configured, using built-in demo table")
		dir = directory.NewDemoDirectory()
	}

	codec, err := token.New(cfg.TokenCodec, cfg.TokenSecret, cfg.TokenTTL, cfg.TokenIssuer, cfg.TokenAudience)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	slog.Info("token codec ready", "codec", cfg.TokenCodec, "ttl", cfg.TokenTTL)

	authService := service.NewAuthService(dir)
	sessionService := service.NewSessionService(authService, codec, cfg.ExpiryWarning)

	sessionMiddleware := middleware.NewSessionMiddleware(sessionService, cfg.CookieName, legacyCookieNames)

	appRouter := router.New(cfg, sessionMiddleware, router.Handlers{
		Auth:    handler.NewAuthHandler(sessionService, cfg.CookieName, cfg.CookieTTL),
		Banking: handler.NewBankingHandler(),
		Pages:   handler.NewPageHandler(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
