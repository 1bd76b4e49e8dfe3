package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventlisting/config"
	"eventlisting/internal/delivery/http/middleware"
	"eventlisting/internal/stats"
	"eventlisting/migrations"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger("stats")

	db, err := sql.Open("postgres", cfg.StatsDBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(startupCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := migrations.ApplyStats(startupCtx, db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	service := stats.NewService(stats.NewHitRepository(db), serviceTimeout)
	router := stats.NewRouter(stats.NewController(logger, service))
	handler := middleware.LoggingMiddleware(logger, router)

	server := &http.Server{
		Addr:    ":" + cfg.StatsPort,
		Handler: handler,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("stats listening", "port", cfg.StatsPort)
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
