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
	_ "eventlisting/docs"
	"eventlisting/internal/adapters/email"
	statsclient "eventlisting/internal/adapters/stats"
	deliveryhttp "eventlisting/internal/delivery/http"
	"eventlisting/internal/delivery/http/controllers"
	"eventlisting/internal/delivery/http/middleware"
	"eventlisting/internal/repository/postgres"
	"eventlisting/internal/services"
	"eventlisting/migrations"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title Event Listing API
// @version 1.0
// @description Event listing and participation service.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger("api")

	db, err := sql.Open("postgres", cfg.DBUrl)
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
	if err := migrations.ApplyMain(startupCtx, db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	compilationRepo := postgres.NewCompilationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	stats := statsclient.NewHTTPClient(cfg.StatsURL, cfg.AppName, &http.Client{Timeout: serviceTimeout}, logger)
	notifier := services.NewRequestNotifier(mailer, email.NewTemplateRenderer(), logger)

	userService := services.NewUserService(userRepo, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, eventRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, userRepo, categoryRepo, requestRepo, stats, serviceTimeout)
	requestService := services.NewRequestService(requestRepo, eventRepo, userRepo, notifier, serviceTimeout)
	compilationService := services.NewCompilationService(compilationRepo, eventRepo, serviceTimeout)
	commentService := services.NewCommentService(commentRepo, userRepo, eventRepo, serviceTimeout)

	router := deliveryhttp.NewRouter(
		controllers.NewUserController(logger, userService),
		controllers.NewCategoryController(logger, categoryService),
		controllers.NewEventController(logger, eventService, stats),
		controllers.NewRequestController(logger, requestService),
		controllers.NewCompilationController(logger, compilationService),
		controllers.NewCommentController(logger, commentService),
	)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSOrigins, router))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", "port", cfg.Port)
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
