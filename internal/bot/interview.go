package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/interview-mentor-bot/internal/interview"
	"github.com/interview-mentor-bot/internal/models"
	"github.com/interview-mentor-bot/internal/render"
)

const (
	levelCallbackPrefix   = "level:"
	sectionCallbackPrefix = "section:"

	noSessionText      = "У вас нет активного интервью. Начните его командой /interview."
	questionFailedText = "❌ Не удалось получить вопрос. Попробуйте /skip или начните заново."
	evaluateFailedText = "❌ Не удалось оценить ответ. Попробуйте отправить его еще раз."
	explainFailedText  = "❌ Не удалось подготовить объяснение. Попробуйте позже."
)

func levelKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(interview.Levels))
	for _, level := range interview.Levels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(level), levelCallbackPrefix+string(level)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func sectionKeyboard(level interview.Level) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(interview.Sections))
	for _, section := range interview.Sections {
		data := sectionCallbackPrefix + string(level) + ":" + section.ID
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(section.Name, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleInterviewCommand offers level selection
func (b *Bot) handleInterviewCommand(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "🎯 Выберите уровень собеседования:")
	msg.ReplyMarkup = levelKeyboard()

	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error().
			Err(err).
			Int64("chat_id", message.Chat.ID).
			Msg("Failed to send level keyboard")
	}
}

// handleCallback processes inline keyboard presses
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Stop the loading indicator on the button
	if _, err := b.sender.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to answer callback")
	}

	if query.Message == nil || query.From == nil {
		return
	}
	chatID := query.Message.Chat.ID

	switch {
	case strings.HasPrefix(query.Data, levelCallbackPrefix):
		level, err := interview.ParseLevel(strings.TrimPrefix(query.Data, levelCallbackPrefix))
		if err != nil {
			b.logger.Warn().Err(err).Str("data", query.Data).Msg("Bad level callback")
			return
		}

		edit := tgbotapi.NewEditMessageTextAndMarkup(
			chatID,
			query.Message.MessageID,
			fmt.Sprintf("Уровень: %s\n\n📚 Выберите раздел:", level),
			sectionKeyboard(level),
		)
		if _, err := b.sender.Send(edit); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send section keyboard")
		}

	case strings.HasPrefix(query.Data, sectionCallbackPrefix):
		levelName, sectionID, ok := strings.Cut(strings.TrimPrefix(query.Data, sectionCallbackPrefix), ":")
		if !ok {
			b.logger.Warn().Str("data", query.Data).Msg("Bad section callback")
			return
		}

		session, err := b.interview.Start(query.From.ID, interview.Level(levelName), sectionID)
		if err != nil {
			b.logger.Warn().Err(err).Str("data", query.Data).Msg("Failed to start interview")
			b.sendErrorMessage(chatID, "❌ Не удалось начать интервью. Попробуйте /interview еще раз.")
			return
		}

		b.sendText(chatID, fmt.Sprintf(
			"🚀 Начинаем интервью!\n\nРаздел: %s\nУровень: %s\n\nОтвечайте на вопросы обычным сообщением. /skip - пропустить вопрос, /end - завершить.",
			session.Section.Name, session.Level,
		))
		b.askQuestion(ctx, chatID, query.From, b.interview.NextQuestion)

	default:
		b.logger.Debug().Str("data", query.Data).Msg("Unknown callback")
	}
}

// askQuestion fetches a question with next and sends it
func (b *Bot) askQuestion(
	ctx context.Context,
	chatID int64,
	user *tgbotapi.User,
	next func(ctx context.Context, userID int64) (string, error),
) {
	question, err := b.callLLM(ctx, chatID, user, models.RequestQuestion, "",
		func(ctx context.Context) (string, error) {
			return next(ctx, user.ID)
		})
	switch {
	case err == nil:
		b.sendRendered(chatID, 0, "**Вопрос**\n"+question, render.DialectMarkdownV2)
	case errors.Is(err, errReported):
	case errors.Is(err, interview.ErrNoSession):
		b.sendText(chatID, noSessionText)
	default:
		b.sendErrorMessage(chatID, questionFailedText)
	}
}

// handleAnswer evaluates the answer to the current question and asks the next one
func (b *Bot) handleAnswer(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := message.From
	answer := strings.TrimSpace(message.Text)

	feedback, err := b.callLLM(ctx, chatID, user, models.RequestEvaluation, answer,
		func(ctx context.Context) (string, error) {
			return b.interview.Evaluate(ctx, user.ID, answer)
		})
	switch {
	case err == nil:
	case errors.Is(err, errReported):
		return
	case errors.Is(err, interview.ErrNoSession), errors.Is(err, interview.ErrNoQuestion):
		b.sendText(chatID, noSessionText)
		return
	default:
		b.sendErrorMessage(chatID, evaluateFailedText)
		return
	}

	b.sendRendered(chatID, message.MessageID, feedback, render.DialectMarkdownV2)
	b.askQuestion(ctx, chatID, user, b.interview.NextQuestion)
}

// handleSkipCommand handles /skip command
func (b *Bot) handleSkipCommand(ctx context.Context, message *tgbotapi.Message) {
	b.askQuestion(ctx, message.Chat.ID, message.From, b.interview.Skip)
}

// handleEndCommand handles /end command
func (b *Bot) handleEndCommand(message *tgbotapi.Message) {
	summary, err := b.interview.End(message.From.ID)
	if err != nil {
		b.sendText(message.Chat.ID, noSessionText)
		return
	}

	b.sendText(message.Chat.ID, fmt.Sprintf(
		"🏁 Интервью завершено\n\n"+
			"Раздел: %s\n"+
			"Уровень: %s\n"+
			"Задано вопросов: %d\n"+
			"Отвечено: %d\n"+
			"Пропущено: %d\n\n"+
			"Чтобы начать заново, используйте /interview.",
		summary.Section, summary.Level, summary.Asked, summary.Answered, summary.Skipped,
	))
}

// handleExplainCommand handles /explain <question>
func (b *Bot) handleExplainCommand(ctx context.Context, message *tgbotapi.Message) {
	question := strings.TrimSpace(message.CommandArguments())
	if question == "" {
		b.sendText(message.Chat.ID, "✍️ Напишите вопрос после команды, например: /explain что такое замыкание")
		return
	}

	explanation, err := b.callLLM(ctx, message.Chat.ID, message.From, models.RequestFollowUp, question,
		func(ctx context.Context) (string, error) {
			return b.interview.FollowUp(ctx, message.From.ID, question)
		})
	if err != nil {
		if !errors.Is(err, errReported) {
			b.sendErrorMessage(message.Chat.ID, explainFailedText)
		}
		return
	}

	b.sendRendered(message.Chat.ID, message.MessageID, explanation, render.DialectMarkdownV2)
}
