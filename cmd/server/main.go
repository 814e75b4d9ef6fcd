package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/openplanner/gradplan-backend/internal/database"
	"github.com/openplanner/gradplan-backend/internal/handler"
	"github.com/openplanner/gradplan-backend/internal/logger"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/router"
	"github.com/openplanner/gradplan-backend/internal/service"
	"github.com/openplanner/gradplan-backend/internal/validator"
	"github.com/openplanner/gradplan-backend/internal/worker"
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
		Msg("Starting GradPlan Backend")

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
	studentRepo := repository.NewStudentRepository(pool)
	advisorRepo := repository.NewAdvisorRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	programRepo := repository.NewProgramRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	plannedRepo := repository.NewPlannedCourseRepository(pool)
	fulfillmentRepo := repository.NewFulfillmentRepository(pool)
	auditStore := repository.NewAuditStore(pool, fulfillmentRepo)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	catalogService := service.NewCatalogService(courseRepo)
	programService := service.NewProgramService(programRepo, log)
	planService := service.NewPlanService(planRepo, plannedRepo, courseRepo, programRepo, rdb, log)
	progressService := service.NewProgressService(auditStore, fulfillmentRepo, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, studentRepo, advisorRepo),
		Course:   handler.NewCourseHandler(catalogService),
		Program:  handler.NewProgramHandler(programService),
		Plan:     handler.NewPlanHandler(planService),
		Progress: handler.NewProgressHandler(planService, progressService),
		Advisor:  handler.NewAdvisorHandler(planService, progressService),
		WS:       handler.NewWSHandler(rdb, planService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	assigner := audit.NewAssigner(auditStore, log)
	auditWorker := worker.NewAuditWorker(assigner, rdb, log)

	go auditWorker.Start(workerCtx)

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

	// 2. Stop the audit worker and let the in-flight pass finish.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}
