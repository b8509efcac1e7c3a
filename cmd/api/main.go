package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/meetscribe-team/meetscribe/internal/adapter/handler"
	"github.com/meetscribe-team/meetscribe/internal/adapter/repository"
	"github.com/meetscribe-team/meetscribe/internal/infrastructure/cache"
	"github.com/meetscribe-team/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe-team/meetscribe/internal/infrastructure/storage"
	"github.com/meetscribe-team/meetscribe/internal/usecase/media"
	meetinguse "github.com/meetscribe-team/meetscribe/internal/usecase/meeting"
	"github.com/meetscribe-team/meetscribe/internal/usecase/pipeline"
	summaryuse "github.com/meetscribe-team/meetscribe/internal/usecase/summary"
	"github.com/meetscribe-team/meetscribe/internal/usecase/transcription"
	pkgai "github.com/meetscribe-team/meetscribe/pkg/ai"
	"github.com/meetscribe-team/meetscribe/pkg/config"
	"github.com/meetscribe-team/meetscribe/pkg/executor"
	pkgvalidator "github.com/meetscribe-team/meetscribe/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Manage schema with sql-migrate instead.")
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Initialize Redis detail cache
	log.Println("📦 Connecting to Redis...")
	detailCache, err := cache.NewDetailCache(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer detailCache.Close()

	// Initialize object storage (optional; local disk is the fallback)
	var videoStore *storage.VideoStore
	if cfg.Storage.Endpoint != "" {
		log.Println("📦 Connecting to object storage...")
		videoStore, err = storage.NewVideoStore(&cfg.Storage)
		if err != nil {
			logger.Warn("object storage unavailable, recordings stay on local disk", zap.Error(err))
			videoStore = nil
		}
	}

	// Initialize repositories
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize media normalizer
	log.Println("🎬 Resolving ffmpeg...")
	normalizer, err := media.NewNormalizer(&cfg.FFmpeg, executor.New(), logger)
	if err != nil {
		log.Fatalf("Failed to initialize media normalizer: %v", err)
	}

	// Initialize transcription chain: AssemblyAI first, Whisper fallback
	log.Println("🎙️ Initializing transcription providers...")
	whisperClient := pkgai.NewWhisperClient(&cfg.OpenAI)
	transcriber := transcription.NewService(logger,
		transcription.NewAssemblyAIProvider(&cfg.AssemblyAI, logger),
		transcription.NewWhisperProvider(whisperClient, normalizer, cfg.OpenAI.MaxPayloadMB, logger),
	)

	// Initialize summarization
	log.Println("🤖 Initializing summarization...")
	groqClient := pkgai.NewGroqClient(&cfg.Groq)
	summarizer := summaryuse.NewService(groqClient, logger)

	// Initialize pipeline and worker pool
	pipelineSvc := pipeline.NewService(
		meetingRepo, transcriptRepo, summaryRepo, analyticsRepo,
		normalizer, transcriber, summarizer, detailCache, logger,
	)
	queue := pipeline.NewQueue(pipelineSvc, cfg.Pipeline.WorkerCount, cfg.Pipeline.QueueSize, logger)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	queue.Start(workerCtx)

	// Initialize meeting service and handlers
	var storageDep meetinguse.VideoStorage
	if videoStore != nil {
		storageDep = videoStore
	}
	meetingSvc := meetinguse.NewService(
		meetingRepo, transcriptRepo, summaryRepo, analyticsRepo,
		storageDep, queue, detailCache, &cfg.Upload, logger,
	)
	meetingHandler := handler.NewMeetingHandler(meetingSvc, &cfg.Upload, logger)

	router := handler.NewRouter(cfg, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Drain in-flight pipeline runs before exiting
	queue.Stop()

	log.Println("✅ Server stopped gracefully")
}
