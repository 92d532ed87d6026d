package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/interview-mentor-bot/internal/channel"
	"github.com/interview-mentor-bot/internal/llm"
	"github.com/interview-mentor-bot/internal/models"
	"github.com/interview-mentor-bot/internal/render"
)

const (
	quickEmptyText  = "К сожалению, не удалось сформировать понятный ответ на ваш вопрос."
	quickFailedText = "❌ Произошла ошибка при обработке запроса. Пожалуйста, попробуйте еще раз."
)

// handleUpdate processes incoming update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Wrap in recover middleware
	b.recoverMiddleware(func() {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		case update.ChannelPost != nil:
			b.handleChannelPost(update.ChannelPost)
		case update.Message != nil:
			b.handleMessage(ctx, update.Message)
		}
	})
}

// handleMessage processes incoming message
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// Comments under channel posts
	if b.config.DiscussionGroupID != 0 && message.Chat.ID == b.config.DiscussionGroupID {
		b.handleDiscussionMessage(ctx, message)
		return
	}

	if message.From == nil {
		return
	}

	// Handle commands
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if !message.Chat.IsPrivate() || strings.TrimSpace(message.Text) == "" {
		return
	}

	if b.interview.Active(message.From.ID) {
		b.handleAnswer(ctx, message)
		return
	}

	b.handleQuickResponse(ctx, message)
}

// handleCommand processes bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()

	b.logger.Info().
		Str("command", command).
		Int64("user_id", message.From.ID).
		Str("username", message.From.UserName).
		Msg("Received command")

	switch command {
	case "start", "help":
		b.handleHelpCommand(message)
	case "interview":
		b.handleInterviewCommand(message)
	case "skip":
		b.handleSkipCommand(ctx, message)
	case "end":
		b.handleEndCommand(message)
	case "explain":
		b.handleExplainCommand(ctx, message)
	case "stats":
		b.handleStatsCommand(ctx, message)
	case "debug":
		b.handleDebugCommand(ctx, message)
	default:
		b.sendText(message.Chat.ID, "❓ Неизвестная команда. Используйте /help для списка команд.")
	}
}

// handleHelpCommand handles /help and /start commands
func (b *Bot) handleHelpCommand(message *tgbotapi.Message) {
	helpMsg := "👋 Привет! Я помогу подготовиться к техническому собеседованию.\n\n" +
		"Доступные команды:\n" +
		"/interview - Начать пробное интервью\n" +
		"/skip - Пропустить текущий вопрос\n" +
		"/end - Завершить интервью\n" +
		"/explain <вопрос> - Разобрать непонятную тему\n" +
		"/stats - Посмотреть свою статистику\n" +
		"/help - Показать это сообщение\n\n" +
		"Вне интервью просто напишите вопрос о программировании, и я коротко на него отвечу."

	if b.limiter != nil {
		helpMsg += fmt.Sprintf(
			"\n\nЛимит: %d запросов в день, сброс в полночь (%s).",
			b.config.DailyRequestLimit,
			b.config.Timezone,
		)
	}

	b.sendText(message.Chat.ID, helpMsg)
}

// handleStatsCommand handles /stats command
func (b *Bot) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) {
	if b.limiter == nil {
		b.sendText(message.Chat.ID, "📊 Статистика недоступна: хранилище не настроено.")
		return
	}

	userID := message.From.ID
	firstName := message.From.FirstName

	// Get user stats
	stats, err := b.limiter.GetUserStats(ctx, userID, message.From.UserName, firstName)
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to get user stats")
		b.sendErrorMessage(message.Chat.ID, "❌ Ошибка при получении статистики")
		return
	}

	statsMsg := fmt.Sprintf(
		"📊 Статистика для %s\n\n"+
			"Использовано сегодня: %d/%d\n"+
			"Осталось: %d\n\n"+
			"📈 Всего запросов: %d\n"+
			"⏰ Сброс лимита через: %d ч.",
		firstName,
		stats.RequestsUsed, stats.RequestsLimit,
		max(stats.RequestsLimit-stats.RequestsUsed, 0),
		stats.TotalRequests,
		stats.ResetsInHours,
	)

	b.sendText(message.Chat.ID, statsMsg)
}

// handleDebugCommand reports LLM API availability
func (b *Bot) handleDebugCommand(ctx context.Context, message *tgbotapi.Message) {
	b.sendTypingAction(message.Chat.ID)
	text := formatStatus(b.llm.CheckStatus(ctx))

	if b.status != nil {
		if last := b.status.LastStatus(); last != nil {
			text += formatScheduledStatus(last, b.config.Timezone)
		}
	}

	b.sendText(message.Chat.ID, text)
}

func formatScheduledStatus(status *models.APIStatus, timezone string) string {
	checkedAt := status.CheckedAt
	if loc, err := time.LoadLocation(timezone); err == nil {
		checkedAt = checkedAt.In(loc)
	}

	mark := "✅"
	if !status.Available {
		mark = "❌"
	}
	return fmt.Sprintf("\n\nПлановая проверка (%s): %s", checkedAt.Format("02.01 15:04"), mark)
}

func formatStatus(status *models.APIStatus) string {
	var sb strings.Builder
	sb.WriteString("🔧 Статус API\n\n")
	fmt.Fprintf(&sb, "Провайдер: %s\n", status.Provider)
	fmt.Fprintf(&sb, "Модель: %s\n", status.Model)

	if !status.Available {
		sb.WriteString("Доступность: ❌\n")
		if status.Error != nil {
			fmt.Fprintf(&sb, "Ошибка: %s\n", status.Error)
		}
	} else {
		sb.WriteString("Доступность: ✅\n")
		fmt.Fprintf(&sb, "Доступно моделей: %d\n", status.ModelCount)
	}
	fmt.Fprintf(&sb, "Время ответа: %d мс", status.Latency.Milliseconds())

	return sb.String()
}

// handleQuickResponse answers a free-form question as plain text
func (b *Bot) handleQuickResponse(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	question := strings.TrimSpace(message.Text)

	b.logger.Info().
		Int64("user_id", message.From.ID).
		Int("question_length", len(question)).
		Msg("Processing quick response")

	answer, err := b.callLLM(ctx, chatID, message.From, models.RequestQuick, question,
		func(ctx context.Context) (string, error) {
			return b.llm.Complete(ctx, llm.QuickResponsePrompt, question)
		})
	if err != nil {
		if !errors.Is(err, errReported) {
			b.sendErrorMessage(chatID, quickFailedText)
		}
		return
	}

	if render.Clean(answer) == "" {
		b.logger.Warn().
			Int64("user_id", message.From.ID).
			Msg("Response is empty after cleanup")
		b.sendText(chatID, quickEmptyText)
		return
	}

	b.sendRendered(chatID, 0, answer, render.DialectNone)
}

// handleChannelPost logs channel posts. The comment itself is posted when the
// automatic forward of the post reaches the discussion group.
func (b *Bot) handleChannelPost(post *tgbotapi.Message) {
	b.logger.Debug().
		Int64("channel_id", post.Chat.ID).
		Int("message_id", post.MessageID).
		Bool("enabled", b.config.ChannelEnabled(post.Chat.ID)).
		Msg("Channel post received")
}

// handleDiscussionMessage comments forwarded posts and answers replies to the bot
func (b *Bot) handleDiscussionMessage(ctx context.Context, message *tgbotapi.Message) {
	switch {
	case message.IsAutomaticForward:
		b.handleForwardedPost(ctx, message)
	case message.ReplyToMessage != nil &&
		message.ReplyToMessage.From != nil &&
		message.ReplyToMessage.From.ID == b.self.ID &&
		message.From != nil && !message.From.IsBot:
		b.handleCommentReply(ctx, message)
	}
}

func (b *Bot) handleForwardedPost(ctx context.Context, message *tgbotapi.Message) {
	if message.ForwardFromChat == nil || !b.config.ChannelEnabled(message.ForwardFromChat.ID) {
		return
	}

	contentType := channel.DetectContentType(message)
	text := channel.PostText(message)
	if !channel.ShouldReact(text, contentType) {
		b.logger.Debug().
			Int("message_id", message.MessageID).
			Str("content_type", string(contentType)).
			Msg("Skipping channel post")
		return
	}

	if !sleepContext(ctx, b.config.ChannelResponseDelay) {
		return
	}

	b.postComment(ctx, message, text, false, contentType, models.RequestChannelPost)
}

func (b *Bot) handleCommentReply(ctx context.Context, message *tgbotapi.Message) {
	text := channel.PostText(message)
	if strings.TrimSpace(text) == "" {
		return
	}

	if !sleepContext(ctx, b.config.ReplyResponseDelay) {
		return
	}

	b.postComment(ctx, message, text, true, models.ContentText, models.RequestReply)
}

func (b *Bot) postComment(
	ctx context.Context,
	message *tgbotapi.Message,
	text string,
	isReply bool,
	contentType models.ContentType,
	kind models.RequestKind,
) {
	startTime := time.Now()
	comment := b.channel.Generate(ctx, text, isReply, contentType)

	delivered := b.sendRendered(message.Chat.ID, message.MessageID, comment, render.DialectNone)

	b.logger.Info().
		Int64("chat_id", message.Chat.ID).
		Int("reply_to", message.MessageID).
		Bool("is_reply", isReply).
		Int("chunks", delivered).
		Msg("Comment posted")

	entry := &models.RequestLog{
		ChatID:          message.Chat.ID,
		Kind:            kind,
		RequestText:     text,
		ResponseText:    comment,
		ModelUsed:       b.llm.Model(),
		ResponseLength:  len([]rune(comment)),
		ExecutionTimeMs: int(time.Since(startTime).Milliseconds()),
		CreatedAt:       time.Now().UTC(),
	}
	if message.From != nil {
		entry.UserID = message.From.ID
		entry.Username = message.From.UserName
		entry.FirstName = message.From.FirstName
	}
	b.logRequest(ctx, entry)
}
