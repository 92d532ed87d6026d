package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/interview-mentor-bot/internal/models"
	"github.com/interview-mentor-bot/internal/render"
)

const sendFailedText = "Извините, я не могу корректно сформулировать ответ на ваш вопрос."

// errReported means the user has already been told why the request stopped
var errReported = errors.New("reported to user")

// recoverMiddleware handles panics in message handlers
func (b *Bot) recoverMiddleware(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Panic recovered in handler")
		}
	}()

	handler()
}

// callLLM enforces the daily limit around call and records the request
func (b *Bot) callLLM(
	ctx context.Context,
	chatID int64,
	user *tgbotapi.User,
	kind models.RequestKind,
	requestText string,
	call func(context.Context) (string, error),
) (string, error) {
	if b.limiter != nil {
		limitResult, err := b.limiter.CheckLimit(ctx, user.ID)
		if err != nil {
			b.logger.Error().
				Err(err).
				Int64("user_id", user.ID).
				Msg("Failed to check rate limit")
			b.sendErrorMessage(chatID, "❌ Ошибка при проверке лимитов")
			return "", errReported
		}

		// If limit exceeded, send message and return
		if !limitResult.Allowed {
			b.sendText(chatID, limitResult.Message)
			return "", errReported
		}
	}

	b.sendTypingAction(chatID)

	startTime := time.Now()
	text, err := call(ctx)

	entry := &models.RequestLog{
		UserID:          user.ID,
		Username:        user.UserName,
		FirstName:       user.FirstName,
		ChatID:          chatID,
		Kind:            kind,
		RequestText:     requestText,
		ResponseText:    text,
		ModelUsed:       b.llm.Model(),
		ResponseLength:  utf8.RuneCountInString(text),
		ExecutionTimeMs: int(time.Since(startTime).Milliseconds()),
		CreatedAt:       time.Now().UTC(),
	}

	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Str("kind", string(kind)).
			Msg("LLM request failed")

		// Don't increment usage if request failed
		entry.ErrorMessage = err.Error()
		b.logRequest(ctx, entry)
		return "", err
	}

	if b.limiter != nil {
		if err := b.limiter.IncrementUsage(ctx, user.ID); err != nil {
			// Continue anyway, we already generated the response
			b.logger.Error().
				Err(err).
				Int64("user_id", user.ID).
				Msg("Failed to increment usage")
		}
	}

	b.logRequest(ctx, entry)
	return text, nil
}

// logRequest writes an audit record when storage is configured
func (b *Bot) logRequest(ctx context.Context, entry *models.RequestLog) {
	if b.requests == nil {
		return
	}
	if err := b.requests.LogRequest(ctx, entry); err != nil {
		b.logger.Warn().
			Err(err).
			Int64("user_id", entry.UserID).
			Str("kind", string(entry.Kind)).
			Msg("Failed to log request")
	}
}

// sendRendered renders text for the dialect and sends every chunk. A chunk
// rejected by Telegram is resent as plain text; if that fails too the user
// gets a generic apology. Returns the number of chunks delivered.
func (b *Bot) sendRendered(chatID int64, replyTo int, text string, dialect render.Dialect) int {
	messages := render.Render(text, dialect, b.config.MaxMessageLength)

	delivered := 0
	for _, m := range messages {
		err := b.sendChunk(chatID, replyTo, m.Text, m.Dialect.ParseMode())
		if err != nil && m.Dialect != render.DialectNone {
			b.logger.Warn().
				Err(err).
				Int64("chat_id", chatID).
				Str("dialect", string(m.Dialect)).
				Msg("Formatted send failed, retrying as plain text")
			err = b.sendChunk(chatID, replyTo, m.Plain(), "")
		}
		if err != nil {
			b.logger.Error().
				Err(err).
				Int64("chat_id", chatID).
				Int("chunk_length", utf8.RuneCountInString(m.Text)).
				Msg("Failed to send message")
			b.sendErrorMessage(chatID, sendFailedText)
			return delivered
		}
		delivered++
	}

	return delivered
}

func (b *Bot) sendChunk(chatID int64, replyTo int, text, parseMode string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	msg.ReplyToMessageID = replyTo
	msg.DisableWebPagePreview = true

	if _, err := b.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// sendErrorMessage sends an error message to the user
func (b *Bot) sendErrorMessage(chatID int64, errorMsg string) {
	msg := tgbotapi.NewMessage(chatID, errorMsg)
	_, err := b.sender.Send(msg)
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Msg("Failed to send error message")
	}
}

// sendText sends a plain text message to the chat
func (b *Bot) sendText(chatID int64, text string) {
	if err := b.sendChunk(chatID, 0, text, ""); err != nil {
		b.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Msg("Failed to send message")
	}
}

// sendTypingAction sends typing action to the chat
func (b *Bot) sendTypingAction(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, _ = b.sender.Request(action)
}

// sleepContext waits for d unless ctx is cancelled first
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
