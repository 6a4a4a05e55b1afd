// Package main provides the transfer advising server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dvc-advising/transferbot-go/internal/advisor"
	"github.com/dvc-advising/transferbot-go/internal/buildinfo"
	"github.com/dvc-advising/transferbot-go/internal/config"
	"github.com/dvc-advising/transferbot-go/internal/equivsearch"
	"github.com/dvc-advising/transferbot-go/internal/httpapi"
	"github.com/dvc-advising/transferbot-go/internal/llm"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/metrics"
	"github.com/dvc-advising/transferbot-go/internal/objstore"
	"github.com/dvc-advising/transferbot-go/internal/ratelimit"
	"github.com/dvc-advising/transferbot-go/internal/sentry"
	"github.com/dvc-advising/transferbot-go/internal/session"
	"github.com/dvc-advising/transferbot-go/internal/storage"
	"github.com/dvc-advising/transferbot-go/internal/translog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting transfer advising server")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: "production",
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed, error tracking disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Connect to database
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	// Create Prometheus registry with Go and process collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Session manager with idle eviction
	sessions := session.NewManager(cfg.SessionIdleTTL, cfg.SessionSweepTick)
	defer sessions.Stop()

	// Per-session LLM budget and per-IP request budget
	llmLimiter := ratelimit.NewLLMLimiter(cfg.LLMPerHour, cfg.SessionSweepTick)
	llmLimiter.OnDrop(func() { m.RecordRateLimiterDrop("llm") })
	defer llmLimiter.Stop()

	userLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		MaxTokens:     30,
		RefillRate:    0.5, // 30 burst, one token per 2s
		CleanupPeriod: cfg.SessionSweepTick,
	})
	userLimiter.OnDrop(func() { m.RecordRateLimiterDrop("user") })
	defer userLimiter.Stop()

	// LLM provider chains
	llmCfg := llm.Config{
		OpenAIAPIKey:         cfg.OpenAIAPIKey,
		GroqAPIKey:           cfg.GroqAPIKey,
		GeminiAPIKey:         cfg.GeminiAPIKey,
		OpenAIIntentModel:    cfg.OpenAIIntentModel,
		OpenAISummarizeModel: cfg.OpenAISummarizeModel,
		GroqIntentModel:      cfg.GroqIntentModel,
		GroqSummarizeModel:   cfg.GroqSummarizeModel,
		GeminiIntentModel:    cfg.GeminiIntentModel,
		GeminiSummarizeModel: cfg.GeminiSummarizeModel,
		PrimaryProvider:      llm.Provider(cfg.LLMPrimaryProvider),
		FallbackProvider:     llm.Provider(cfg.LLMFallbackProvider),
		InterpretTimeout:     cfg.InterpretTimeout,
		SummarizeTimeout:     cfg.SummarizeTimeout,
		Retry:                llm.DefaultRetryConfig(),
	}

	interpreter, err := llm.NewInterpreter(context.Background(), llmCfg, m, log)
	if err != nil {
		log.WithError(err).Warn("Interpreter setup failed, using local detection only")
	}
	summarizer, err := llm.NewSummarizer(context.Background(), llmCfg, m, log)
	if err != nil {
		log.WithError(err).Warn("Summarizer setup failed, using plain rendering only")
	}

	// Equivalency search index over the loaded articulation rows
	equivIndex := equivsearch.New(log)
	if allRows, err := db.AllRows(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to load rows for equivalency index")
	} else {
		for key, rows := range allRows {
			if err := equivIndex.SetCampus(key, rows); err != nil {
				log.WithError(err).WithField("campus", key.String()).Warn("Equivalency index build failed")
			}
		}
	}

	// Conversation transcript log with optional archive upload
	var archiver translog.Archiver
	if cfg.ArchiveEnabled() {
		store, err := objstore.New(context.Background(), objstore.Config{
			Endpoint:    cfg.ArchiveEndpoint,
			AccessKeyID: cfg.ArchiveAccessKeyID,
			SecretKey:   cfg.ArchiveSecretKey,
			BucketName:  cfg.ArchiveBucket,
		})
		if err != nil {
			log.WithError(err).Warn("Archive storage unavailable, transcripts stay local")
		} else {
			archiver = translog.ArchiveUploader{Client: store}
			log.WithField("bucket", cfg.ArchiveBucket).Info("Transcript archiving enabled")
		}
	}

	transcript, err := translog.NewWriter(translog.Options{
		Path:     cfg.TranscriptPath(),
		MaxBytes: cfg.TranscriptMaxBytes,
		Archiver: archiver,
		Metrics:  m,
		Logger:   log,
	})
	if err != nil {
		log.WithError(err).Warn("Transcript log unavailable")
	}

	adv := advisor.New(advisor.Options{
		DB:               db,
		Sessions:         sessions,
		Interpreter:      interpreter,
		Summarizer:       summarizer,
		Equiv:            equivIndex,
		Limiter:          llmLimiter,
		Transcript:       transcript,
		Metrics:          m,
		Logger:           log,
		InterpretTimeout: cfg.InterpretTimeout,
		SummarizeTimeout: cfg.SummarizeTimeout,
	})

	apiHandler := httpapi.NewHandler(adv, sessions, db, log)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	setupMiddleware(router, m, userLimiter, log)
	setupRoutes(router, apiHandler, db, sessions, registry, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close LLM clients
	if interpreter != nil {
		if err := interpreter.Close(); err != nil {
			log.WithError(err).Error("Failed to close interpreter")
		}
	}
	if summarizer != nil {
		if err := summarizer.Close(); err != nil {
			log.WithError(err).Error("Failed to close summarizer")
		}
	}

	// Flush transcripts, then close the database
	if transcript != nil {
		if err := transcript.Close(); err != nil {
			log.WithError(err).Error("Failed to close transcript log")
		}
	}
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
