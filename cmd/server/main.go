package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/database"
	"github.com/vinealms/vinea-backend/internal/handler"
	"github.com/vinealms/vinea-backend/internal/logger"
	"github.com/vinealms/vinea-backend/internal/repository"
	"github.com/vinealms/vinea-backend/internal/router"
	"github.com/vinealms/vinea-backend/internal/service"
	"github.com/vinealms/vinea-backend/internal/validator"
	"github.com/vinealms/vinea-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Vinea Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	draftRepo := repository.NewDraftRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, authService, log)
	courseService := service.NewCourseService(courseRepo, quizRepo, log)
	quizService := service.NewQuizService(quizRepo, rdb, log)
	draftService := service.NewDraftService(draftRepo, rdb, log)
	submissionService := service.NewSubmissionService(submissionRepo, quizRepo, userRepo, draftRepo, rdb, log)
	exportService := service.NewExportService(cfg, log)
	dashboardService := service.NewDashboardService(dashboardRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(userService),
		QuizPortal: handler.NewQuizPortalHandler(courseService, quizService, draftService, submissionService),
		Course:     handler.NewCourseHandler(courseService),
		QuizAdmin:  handler.NewQuizAdminHandler(quizService),
		Submission: handler.NewSubmissionHandler(submissionService, exportService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	autosaveWorker := worker.NewAutosaveWorker(draftRepo, rdb, log)
	go autosaveWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published quizzes into Redis BEFORE accepting traffic so
	// the first learner never hits a cold cache.
	if err := quizService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and wait for the draft queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
