// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyunix/go-easyemail/internal/config"
	"github.com/iyunix/go-easyemail/internal/services"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("easy_email")

	app, err := BuildApplication(cfg, logger)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		// Model calls can take up to AI_TIMEOUT_SECONDS.
		WriteTimeout: cfg.AITimeout + 30*time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "default_ai", app.Gateway.DefaultProvider(), "providers", app.Gateway.Providers())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped")
}
