package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/interview-mentor-bot/internal/bot"
	"github.com/interview-mentor-bot/internal/channel"
	"github.com/interview-mentor-bot/internal/config"
	"github.com/interview-mentor-bot/internal/interview"
	"github.com/interview-mentor-bot/internal/llm"
	"github.com/interview-mentor-bot/internal/prompt"
	"github.com/interview-mentor-bot/internal/ratelimit"
	"github.com/interview-mentor-bot/internal/scheduler"
	"github.com/interview-mentor-bot/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	log.Logger = logger
	logger.Info().
		Str("environment", cfg.Environment).
		Str("timezone", cfg.Timezone).
		Str("llm_provider", cfg.LLMProvider.String()).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Bool("channel_enabled", cfg.ChannelEnabled(cfg.ChannelID)).
		Msg("Starting interview mentor bot")

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services := bot.Services{}

	// Storage is optional: without it there are no limits and no request log
	if cfg.StorageEnabled() {
		logger.Info().Msg("Initializing Supabase client...")
		storageClient, err := storage.NewClient(
			cfg.SupabaseURL,
			cfg.SupabaseKey,
			cfg.SupabaseTimeout,
			logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create storage client")
		}

		// Ping Supabase to verify connection
		if err := storageClient.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Supabase")
		}
		logger.Info().Msg("Supabase connection successful")

		// Initialize rate limiter
		limiter, err := ratelimit.NewLimiter(storageClient, cfg.Timezone, cfg.DailyRequestLimit, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create rate limiter")
		}

		services.Limiter = limiter
		services.Requests = storageClient
	} else {
		logger.Warn().Msg("Supabase is not configured, daily limits and request logging are disabled")
	}

	// Initialize LLM client
	logger.Info().Msg("Initializing LLM client...")
	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create LLM provider")
	}
	llmClient := llm.NewClient(provider, cfg.LLMTimeout, cfg.LLMMaxRetries, logger)
	defer func() {
		if err := llmClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close LLM client")
		}
	}()

	services.LLM = llmClient
	services.Interview = interview.NewService(
		prompt.NewBuilder(prompt.DefaultRegistry()),
		llmClient,
		interview.NewStore(),
		logger,
	)
	services.Channel = channel.NewService(llmClient, cfg, logger)

	// Periodic API status check
	sched, err := scheduler.NewScheduler(llmClient, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	services.Status = sched

	// Initialize bot
	logger.Info().Msg("Initializing Telegram bot...")
	telegramBot, err := bot.New(cfg, services, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bot")
	}

	logger.Info().
		Str("username", telegramBot.GetUsername()).
		Str("model", llmClient.Model()).
		Msg("Bot initialized successfully")

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := sched.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("Scheduler stopped with error")
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start bot in a goroutine
	botErrChan := make(chan error, 1)
	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if err := telegramBot.Start(ctx); err != nil {
			botErrChan <- err
		}
	}()

	logger.Info().Msg("Bot is running. Press Ctrl+C to stop.")

	// Wait for termination signal or bot error
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	case err := <-botErrChan:
		logger.Error().Err(err).Msg("Bot stopped with error")
	}

	// Graceful shutdown
	logger.Info().Msg("Initiating graceful shutdown...")
	cancel()

	// Give the bot some time to finish processing
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Wait for shutdown or timeout
	for _, done := range []<-chan struct{}{botDone, schedDone} {
		select {
		case <-shutdownCtx.Done():
			logger.Warn().Msg("Shutdown timeout exceeded, some requests may be lost")
			return
		case <-done:
		}
	}

	logger.Info().Msg("Graceful shutdown completed")
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Configure output format
	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
