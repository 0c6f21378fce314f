package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davrien/studyloop/internal/config"
	"github.com/davrien/studyloop/internal/handler"
	"github.com/davrien/studyloop/internal/repository/sqlite"
	"github.com/davrien/studyloop/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost)
	moduleService := service.NewModuleService(db.Modules())
	conversationService := service.NewConversationService(db.Conversations(), db.Modules())

	// Per-email login throttle: a burst of 5, refilling one attempt every 6s.
	loginLimiter := service.NewTokenBucket(1.0/6.0, 5)

	// Seed the builtin module catalog (idempotent).
	if err := moduleService.SeedCatalog(context.Background()); err != nil {
		slog.Error("failed to seed module catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("module catalog seeded")

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, moduleService, conversationService, loginLimiter, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
