package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/nmtri-dev/goflix/app/db"
	appLogger "github.com/nmtri-dev/goflix/app/logger"
	appMiddleware "github.com/nmtri-dev/goflix/app/middleware"
	"github.com/nmtri-dev/goflix/app/observability/metrics"
	"github.com/nmtri-dev/goflix/app/tracer"
	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/api/auth"
	"github.com/nmtri-dev/goflix/internal/api/chapter"
	"github.com/nmtri-dev/goflix/internal/api/comment"
	"github.com/nmtri-dev/goflix/internal/api/episode"
	"github.com/nmtri-dev/goflix/internal/api/image"
	"github.com/nmtri-dev/goflix/internal/api/movie"
	"github.com/nmtri-dev/goflix/internal/api/user"
	"github.com/nmtri-dev/goflix/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(&cfg)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations *before* initializing the main pool
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	minter, err := auth.NewTokenMinter(cfg.Auth)
	if err != nil {
		logger.Error("Failed to initialize token minter", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, minter, &cfg, logger)
	authHandler := auth.NewAuthHandler(authService, minter, &cfg, logger)

	movieHandler := movie.NewMovieHandler(movie.NewMovieRepository(pool, logger), logger)
	chapterHandler := chapter.NewChapterHandler(chapter.NewChapterRepository(pool, logger), logger)
	commentHandler := comment.NewCommentHandler(comment.NewCommentRepository(pool, logger), logger)
	episodeHandler := episode.NewEpisodeHandler(episode.NewEpisodeRepository(pool, logger), logger)
	imageHandler := image.NewImageHandler(image.NewImageRepository(pool, logger), logger)
	userHandler := user.NewUserHandler(user.NewUserRepository(pool, logger), logger)

	gate := appMiddleware.NewGate(&cfg, minter, logger)

	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:    authHandler,
		MovieHandler:   movieHandler,
		ChapterHandler: chapterHandler,
		CommentHandler: commentHandler,
		EpisodeHandler: episodeHandler,
		ImageHandler:   imageHandler,
		UserHandler:    userHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Use(gate.Handler)
	mux.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger := slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
		return logger
	}

	// Colored logs for development
	tintOpts := &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}
	logger := slog.New(tint.NewHandler(os.Stdout, tintOpts))
	log.Println("Initialized development logger (tint)")
	return logger
}
