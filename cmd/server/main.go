package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fittrack/internal/api"
	"fittrack/internal/config"
	"fittrack/internal/logger"
	"fittrack/internal/oauth"
	"fittrack/internal/repository/postgres"
	"fittrack/internal/service"
	"fittrack/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Security.SecretKey == "" {
		return errors.New("security.secret_key must be set")
	}
	if cfg.Security.AdminPassword == "" {
		return errors.New("security.admin_password must be set")
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("starting fittrack server", zap.String("addr", cfg.Server.Address))

	// --- Database ---
	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()
	if err := postgres.Ping(ctx, pool); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database ready")

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(pool)
	workoutRepo := postgres.NewWorkoutRepository(pool)
	exerciseRepo := postgres.NewExerciseRepository(pool)

	// --- Optional export archive ---
	var archive storage.ExportArchive
	if cfg.S3.ArchiveEnabled() {
		archive, err = storage.NewS3Archive(cfg.S3)
		if err != nil {
			return fmt.Errorf("init export archive: %w", err)
		}
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.Security.AdminPassword)
	userService := service.NewUserService(userRepo)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo)
	exportService := service.NewExportService(workoutRepo, archive)

	// --- Federated login (optional) ---
	var google oauth.Provider
	if cfg.OAuth.GoogleEnabled() {
		google = oauth.NewGoogleProvider(cfg.OAuth)
		logger.Info("google federated login enabled")
	}

	// --- HTTP ---
	sessions := api.NewSessionManager(cfg.Security.SecretKey, cfg.Session)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, cfg, sessions, authService, userService, workoutService, exportService, google)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
