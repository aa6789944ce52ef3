package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"cardforge/internal/auth"
	"cardforge/internal/config"
	"cardforge/internal/http/server"
	"cardforge/internal/infra/logging"
	"cardforge/internal/render"
	"cardforge/internal/store"
)

func main() {
	cfg := config.Load()
	// Allow common container env vars to override the admin secret.
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}

	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	logging.SetLogLevel(cfg.Logger.Level)

	st, err := store.New(cfg.Cards.Dir)
	if err != nil {
		logging.Error("Cards directory init failed", "dir", cfg.Cards.Dir, "error", err)
		os.Exit(1)
	}

	gate := auth.New(cfg.Admin.Password, cfg.Admin.PasswordHash)
	// The gate only keeps the hash; drop the plaintext from the config.
	cfg.Admin.Password = ""

	app := server.New(server.Deps{
		Config:   cfg,
		Store:    st,
		Renderer: render.New(cfg),
		Gate:     gate,
	})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint

	logging.Warn("Shutdown signal received, closing server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
