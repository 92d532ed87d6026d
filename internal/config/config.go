package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
// It first attempts to load from .env file, then reads environment variables
func Load() (*models.BotConfig, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	config := &models.BotConfig{
		// Telegram settings
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", getEnv("BOT_TOKEN", "")),

		// LLM settings
		LLMProvider:      models.Provider(strings.ToLower(getEnv("LLM_PROVIDER", string(models.ProviderOpenRouter)))),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:    getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "google/gemini-2.0-flash-lite-preview-02-05:free"),
		SiteURL:          getEnv("SITE_URL", ""),
		SiteName:         getEnv("SITE_NAME", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:       getEnvInt("LLM_TIMEOUT", 60),
		LLMMaxRetries:    getEnvInt("LLM_MAX_RETRIES", 3),

		// Supabase settings
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseTimeout: getEnvInt("SUPABASE_TIMEOUT", 10),

		// Channel comments
		ChannelID:            getEnvInt64("CHANNEL_ID", 0),
		DiscussionGroupID:    getEnvInt64("DISCUSSION_GROUP_ID", 0),
		ChannelPostsEnabled:  getEnv("ENABLE_CHANNEL_POSTS", "true") != "false",
		ChannelResponseDelay: time.Duration(getEnvInt("CHANNEL_RESPONSE_DELAY", 3000)) * time.Millisecond,
		ReplyResponseDelay:   time.Duration(getEnvInt("REPLY_RESPONSE_DELAY", 1500)) * time.Millisecond,
		ResponseTemplates:    loadResponseTemplates(),

		// App settings
		Timezone:            getEnv("TIMEZONE", "Europe/Moscow"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Environment:         getEnv("ENVIRONMENT", "production"),
		DailyRequestLimit:   getEnvInt("DAILY_REQUEST_LIMIT", 50),
		StatusCheckSchedule: getEnv("STATUS_CHECK_SCHEDULE", "@every 30m"),
		MaxMessageLength:    getEnvInt("MAX_MESSAGE_LENGTH", 3500),
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadResponseTemplates reads optional static channel comments
func loadResponseTemplates() map[models.ContentType]string {
	templates := make(map[models.ContentType]string)
	for _, ct := range []models.ContentType{
		models.ContentText,
		models.ContentPhoto,
		models.ContentVideo,
		models.ContentUnknown,
	} {
		key := "CHANNEL_TEMPLATE_" + strings.ToUpper(string(ct))
		if value := getEnv(key, ""); value != "" {
			templates[ct] = value
		}
	}
	return templates
}

// validate checks if all required configuration values are set
func validate(cfg *models.BotConfig) error {
	if cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	switch cfg.LLMProvider {
	case models.ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for provider %s", cfg.LLMProvider)
		}
	case models.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %s", cfg.LLMProvider)
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: openrouter, gemini; got %s", cfg.LLMProvider)
	}

	// Supabase is optional but must be configured completely
	if (cfg.SupabaseURL == "") != (cfg.SupabaseKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set together")
	}

	if cfg.ChannelID != 0 && cfg.DiscussionGroupID == 0 {
		return fmt.Errorf("DISCUSSION_GROUP_ID is required when CHANNEL_ID is set")
	}

	// Validate positive values
	if cfg.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %d", cfg.LLMTimeout)
	}
	if cfg.LLMMaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must not be negative, got %d", cfg.LLMMaxRetries)
	}
	if cfg.SupabaseTimeout <= 0 {
		return fmt.Errorf("SUPABASE_TIMEOUT must be positive, got %d", cfg.SupabaseTimeout)
	}
	if cfg.DailyRequestLimit <= 0 {
		return fmt.Errorf("DAILY_REQUEST_LIMIT must be positive, got %d", cfg.DailyRequestLimit)
	}
	if cfg.MaxMessageLength <= 0 || cfg.MaxMessageLength > 4096 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH must be in 1..4096, got %d", cfg.MaxMessageLength)
	}
	if cfg.ChannelResponseDelay < 0 || cfg.ReplyResponseDelay < 0 {
		return fmt.Errorf("response delays must not be negative")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvInt64 retrieves environment variable as int64 or returns default value
func getEnvInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
