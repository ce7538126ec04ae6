package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/windfall/lingo_practice/internal/client"
	"github.com/windfall/lingo_practice/internal/config"
	"github.com/windfall/lingo_practice/internal/handler/http"
	"github.com/windfall/lingo_practice/internal/logger"
	"github.com/windfall/lingo_practice/internal/repository"
	"github.com/windfall/lingo_practice/internal/server"
	"github.com/windfall/lingo_practice/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.Environment).Msg("Starting lingo_practice server")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres is the system of record; the server cannot run without it.
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	postgresClient, err := client.NewPostgresClient(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Postgres client")
	}
	if err := repository.EnsureSchema(ctx, postgresClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}
	log.Info().Msg("Postgres client initialized")

	// Redis is optional; without it the progress report is computed on
	// every request.
	var redisClient *client.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = client.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Redis client, progress caching disabled")
			redisClient = nil
		} else {
			log.Info().Msg("Redis client initialized")
		}
	}

	// OpenAI is optional; without it scripts are stored without model
	// translations and no AI feedback is produced.
	var openaiClient *client.OpenAIClient
	if cfg.OpenAIAPIKey != "" {
		openaiClient = client.NewOpenAIClient(cfg.OpenAIAPIKey).WithModel(cfg.OpenAIModel)
		log.Info().Str("model", cfg.OpenAIModel).Msg("OpenAI client initialized")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, auto-translation and AI feedback disabled")
	}

	// Initialize repositories
	scriptRepo := repository.NewPostgresScriptRepository(postgresClient)
	practiceRepo := repository.NewPostgresPracticeRepository(postgresClient)

	// Initialize services
	var translator service.Translator
	var feedback service.FeedbackProvider
	if openaiClient != nil {
		translator = openaiClient
		feedback = openaiClient
	}
	scriptService := service.NewScriptService(scriptRepo, translator, log)
	progressService := service.NewProgressService(practiceRepo, redisClient, cfg.ProgressCacheTTL, log)
	practiceService := service.NewPracticeService(scriptRepo, practiceRepo, feedback, progressService, log)

	// Initialize handlers
	healthHandler := http.NewHealthHandler()
	scriptHandler := http.NewScriptHandler(log, scriptService)
	practiceHandler := http.NewPracticeHandler(log, practiceService)
	progressHandler := http.NewProgressHandler(log, progressService)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(cfg, log, healthHandler, scriptHandler, practiceHandler, progressHandler)

	// Start server
	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server error")
			cancel()
		}
	}()

	log.Info().Str("http_addr", cfg.HTTPAddress()).Msg("Server started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if redisClient != nil {
		redisClient.Close()
	}
	postgresClient.Close()

	log.Info().Msg("Server stopped")
}
