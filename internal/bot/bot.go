package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/interview-mentor-bot/internal/channel"
	"github.com/interview-mentor-bot/internal/interview"
	"github.com/interview-mentor-bot/internal/llm"
	"github.com/interview-mentor-bot/internal/models"
	"github.com/interview-mentor-bot/internal/ratelimit"
	"github.com/rs/zerolog"
)

// sender is the subset of *tgbotapi.BotAPI used to talk to Telegram
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// LLM is the completion backend with its health check
type LLM interface {
	llm.Completer
	CheckStatus(ctx context.Context) *models.APIStatus
	Model() string
}

// RequestLogger stores an audit record of every LLM request
type RequestLogger interface {
	LogRequest(ctx context.Context, log *models.RequestLog) error
}

// StatusSource returns the most recent scheduled API check, or nil
type StatusSource interface {
	LastStatus() *models.APIStatus
}

// Services are the collaborators of the bot. Limiter, Requests and Status are optional.
type Services struct {
	LLM       LLM
	Interview *interview.Service
	Channel   *channel.Service
	Limiter   *ratelimit.Limiter
	Requests  RequestLogger
	Status    StatusSource
}

// Bot represents the Telegram bot
type Bot struct {
	api       *tgbotapi.BotAPI
	sender    sender
	self      tgbotapi.User
	config    *models.BotConfig
	llm       LLM
	interview *interview.Service
	channel   *channel.Service
	limiter   *ratelimit.Limiter
	requests  RequestLogger
	status    StatusSource
	logger    zerolog.Logger
	wg        sync.WaitGroup // Tracks active handlers for graceful shutdown
}

// New creates a new bot instance
func New(config *models.BotConfig, services Services, logger zerolog.Logger) (*Bot, error) {
	// Create Telegram bot API client
	api, err := tgbotapi.NewBotAPI(config.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	// Set debug mode based on log level
	api.Debug = config.LogLevel == "debug"

	logger.Info().
		Str("username", api.Self.UserName).
		Int64("id", api.Self.ID).
		Msg("Telegram bot authorized")

	b := newBot(api, api.Self, config, services, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, self tgbotapi.User, config *models.BotConfig, services Services, logger zerolog.Logger) *Bot {
	return &Bot{
		sender:    s,
		self:      self,
		config:    config,
		llm:       services.LLM,
		interview: services.Interview,
		channel:   services.Channel,
		limiter:   services.Limiter,
		requests:  services.Requests,
		status:    services.Status,
		logger:    logger.With().Str("component", "bot").Logger(),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting bot...")

	// Configure update settings
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "channel_post", "callback_query"}

	// Get updates channel
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Msg("Bot started, waiting for messages...")

	// Process updates
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Shutting down bot...")
			b.api.StopReceivingUpdates()

			// Wait for all active handlers to complete
			b.logger.Info().Msg("Waiting for active handlers to complete...")
			b.wg.Wait()
			b.logger.Info().Msg("All handlers completed")

			return nil

		case update := <-updates:
			// Track this handler in WaitGroup
			b.wg.Add(1)
			// Process update in a goroutine to not block
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// GetUsername returns bot username
func (b *Bot) GetUsername() string {
	return b.self.UserName
}
