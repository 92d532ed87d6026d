package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/rs/zerolog"
)

// ErrCompletion wraps every transport or API failure of a completion call
var ErrCompletion = errors.New("completion failed")

// Completer turns a system prompt and user text into model output
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Provider is a single LLM backend without retries
type Provider interface {
	Completer
	ListModels(ctx context.Context) ([]string, error)
	Name() models.Provider
	Model() string
	Close() error
}

// Client wraps a provider with timeouts, retries and logging
type Client struct {
	provider   Provider
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	logger     zerolog.Logger
}

// NewClient creates a new LLM client over provider
func NewClient(provider Provider, timeout int, maxRetries int, logger zerolog.Logger) *Client {
	return &Client{
		provider:   provider,
		timeout:    time.Duration(timeout) * time.Second,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		logger: logger.With().
			Str("component", "llm").
			Str("provider", provider.Name().String()).
			Logger(),
	}
}

// NewProvider creates the provider selected in config
func NewProvider(config *models.BotConfig, logger zerolog.Logger) (Provider, error) {
	switch config.LLMProvider {
	case models.ProviderOpenRouter:
		return NewOpenRouter(
			config.OpenRouterAPIKey,
			config.OpenRouterURL,
			config.OpenRouterModel,
			config.SiteURL,
			config.SiteName,
		), nil
	case models.ProviderGemini:
		return NewGemini(config.GeminiAPIKey, config.GeminiModel, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", config.LLMProvider)
	}
}

// Model returns the model name used for completions
func (c *Client) Model() string {
	return c.provider.Model()
}

// Close releases provider resources
func (c *Client) Close() error {
	return c.provider.Close()
}

// Complete generates a response with retry logic
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	startTime := time.Now()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastError error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Retrying LLM request")

			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrCompletion, ctx.Err())
			case <-time.After(backoff):
			}
		}

		c.logger.Debug().
			Str("model", c.provider.Model()).
			Int("system_prompt_length", len(systemPrompt)).
			Int("user_text_length", len(userText)).
			Msg("Sending request to LLM")

		text, err := c.provider.Complete(ctx, systemPrompt, userText)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty completion")
		}
		if err == nil {
			c.logger.Info().
				Str("model", c.provider.Model()).
				Int("response_length", len([]rune(text))).
				Dur("duration", time.Since(startTime)).
				Msg("LLM response generated successfully")
			return text, nil
		}

		lastError = err
		c.logger.Error().
			Err(err).
			Int("attempt", attempt+1).
			Str("model", c.provider.Model()).
			Msg("LLM request failed")
	}

	// All retries failed
	return "", fmt.Errorf("%w after %d attempts: %w", ErrCompletion, c.maxRetries+1, lastError)
}

// CheckStatus verifies the API is reachable by listing the available models
func (c *Client) CheckStatus(ctx context.Context) *models.APIStatus {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := &models.APIStatus{
		Provider:  c.provider.Name(),
		Model:     c.provider.Model(),
		CheckedAt: startTime,
	}

	names, err := c.provider.ListModels(ctx)
	status.Latency = time.Since(startTime)
	if err != nil {
		status.Error = err
		c.logger.Error().
			Err(err).
			Dur("latency", status.Latency).
			Msg("LLM API status check failed")
		return status
	}

	status.Available = true
	status.ModelCount = len(names)

	event := c.logger.Info().
		Int("model_count", status.ModelCount).
		Dur("latency", status.Latency)
	if c.logger.GetLevel() <= zerolog.DebugLevel {
		event = event.Strs("models", names)
	}
	event.Msg("LLM API is available")

	return status
}
