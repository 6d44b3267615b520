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
	"golang.org/x/crypto/bcrypt"

	"slotscheduler/config"
	_ "slotscheduler/docs"
	"slotscheduler/internal/adapters/auth"
	"slotscheduler/internal/adapters/email"
	delivery "slotscheduler/internal/delivery/http"
	"slotscheduler/internal/delivery/http/controllers"
	"slotscheduler/internal/delivery/http/middleware"
	"slotscheduler/internal/repository/postgres"
	"slotscheduler/internal/services"
	"slotscheduler/migrations"
)

// @title Slot Scheduler API
// @version 1.0
// @description Availability slot management: per-user slot CRUD plus admin session booking.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	if err := migrations.Up(db); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	slotRepo := postgres.NewSlotRepository(db)
	userRepo := postgres.NewUserRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer, verifier := auth.NewJWTManager(cfg.JWTSecret)

	mailer, err := email.NewMailer(cfg.Mailer)
	if err != nil {
		logger.Error("failed to configure mailer", "err", err)
		os.Exit(1)
	}
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())

	availabilitySvc := services.NewAvailabilityService(slotRepo, userRepo, emailSvc, logger)
	authSvc := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry)

	authController := controllers.NewAuthController(logger, authSvc)
	availabilityController := controllers.NewAvailabilityController(logger, availabilitySvc)
	adminController := controllers.NewAdminController(logger, userRepo, availabilitySvc)

	mux := delivery.NewRouter(logger, verifier, authController, availabilityController, adminController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
