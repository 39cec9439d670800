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

	"github.com/gin-gonic/gin"

	"alcyxob/neurofeedback-app/internal/api"
	"alcyxob/neurofeedback-app/internal/config"
	"alcyxob/neurofeedback-app/internal/logger"
	"alcyxob/neurofeedback-app/internal/metrics"
	"alcyxob/neurofeedback-app/internal/registry"
	"alcyxob/neurofeedback-app/internal/repository/memory"
	"alcyxob/neurofeedback-app/internal/service"
	"alcyxob/neurofeedback-app/internal/storage"
)

// @title Neurofeedback Training Programs API
// @version 1.0
// @description Publish, buy and track neurofeedback training programs.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("FATAL: Could not create logger: %v", err)
	}
	if cfg.JWT.Secret == "" {
		appLog.Error("jwt.secret (JWT_SECRET) must be set")
		os.Exit(1)
	}
	appLog.Info("configuration loaded", "address", cfg.Server.Address)

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, appLog)
		if err != nil {
			appLog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
	} else {
		appLog.Warn("s3.bucket_name not set, program material endpoints are disabled")
	}

	// --- Registry, Repositories, Services ---
	programRegistry := registry.New()
	appMetrics := metrics.New()
	userRepo := memory.NewUserRepository()

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, appLog)
	programService := service.NewProgramService(programRegistry, appMetrics, appLog)
	mediaService := service.NewMediaService(programRegistry, fileStorage, cfg.Media.URLExpiry, appLog)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, api.RouteDeps{
		JWTSecret:      cfg.JWT.Secret,
		AuthService:    authService,
		ProgramService: programService,
		MediaService:   mediaService,
		Metrics:        appMetrics.Handler(),
		MaxPageLimit:   cfg.Pagination.MaxLimit,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
		return
	}
	appLog.Info("server exiting")
}
