package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"glossify/internal/config"
	"glossify/internal/database"
	"glossify/internal/handlers"
	"glossify/internal/logger"
	"glossify/internal/practice"
	"glossify/internal/repository"
	"glossify/internal/scheduler"
	"glossify/internal/security"
	"glossify/internal/service"
	"glossify/migrations"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	status := handlers.NewStartupStatus()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	zlog.Info("Database connection established", zap.String("type", cfg.DatabaseType))
	status.CompleteStep(handlers.StepDatabase)

	// Run migrations, preferring files on disk over the embedded copies
	if err := db.RunMigrations(database.MigrationSource(cfg.MigrationsPath, migrations.FS), zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	status.CompleteStep(handlers.StepMigrations)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	// Initialize repositories
	listRepo := repository.NewWordListRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	practiceRepo := repository.NewPracticeRepository(db)

	// Initialize services
	normalizeLevel := practice.LevelStrict
	if cfg.LenientAnswers {
		normalizeLevel = practice.LevelLenient
	}
	listService := service.NewListService(listRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	practiceService := service.NewPracticeService(listService, settingsService, practiceRepo, service.NewSessionStore(), metrics, service.PracticeOptions{
		FeedbackDuration:      cfg.FeedbackDuration,
		CelebrationDuration:   cfg.CelebrationDuration,
		StreakPolicy:          practice.ParseStreakPolicy(cfg.StreakPolicy),
		DeterministicOrder:    cfg.DeterministicOrder,
		DeterministicMessages: cfg.DeterministicMessages,
		NormalizeLevel:        normalizeLevel,
		IdleTimeout:           cfg.SessionIdleTimeout,
		HistoryLimit:          cfg.HistoryLimit,
	}, zlog)
	backupService := service.NewBackupService(listRepo, settingsRepo, zlog)

	verifier := security.NewTokenVerifier(cfg.JWTSecret, cfg.TokenIssuer)
	if verifier.SingleUser() {
		zlog.Warn("JWT_SECRET not set, serving every request as the local user")
	}
	limiter := security.NewRateLimiter(cfg.RateLimit, time.Minute)
	status.CompleteStep(handlers.StepServices)

	// Start background cleanup
	sched := scheduler.New(zlog)
	if err := sched.Every("sweep-idle-sessions", scheduler.DefaultSweepInterval, practiceService.SweepIdle); err != nil {
		zlog.Fatal("Failed to schedule session sweep", zap.Error(err))
	}
	if err := sched.Every("rate-limit-cleanup", time.Hour, limiter.Cleanup); err != nil {
		zlog.Fatal("Failed to schedule rate limiter cleanup", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()
	status.CompleteStep(handlers.StepScheduler)

	// Initialize handlers
	handler := handlers.NewRouter(handlers.Router{
		Middleware: handlers.NewMiddleware(verifier, limiter, zlog),
		Practice:   handlers.NewPracticeHandler(practiceService, zlog),
		Lists:      handlers.NewListHandler(listService, zlog),
		Settings:   handlers.NewSettingsHandler(settingsService, zlog),
		Backup:     handlers.NewBackupHandler(backupService, zlog),
		Health:     handlers.NewHealthHandler(status, db),
		Metrics:    registry,
		Logger:     zlog,
	})

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		zlog.Info("Server starting", zap.String("addr", "http://localhost"+addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()
	status.MarkReady()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}
