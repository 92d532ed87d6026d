package channel

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/interview-mentor-bot/internal/llm"
	"github.com/interview-mentor-bot/internal/models"
	"github.com/rs/zerolog"
)

const (
	minTextPostLength = 5
	quoteLength       = 50
)

// DetectContentType classifies a channel post
func DetectContentType(msg *tgbotapi.Message) models.ContentType {
	switch {
	case msg == nil:
		return models.ContentUnknown
	case len(msg.Photo) > 0:
		return models.ContentPhoto
	case msg.Video != nil:
		return models.ContentVideo
	case msg.Text != "":
		return models.ContentText
	default:
		return models.ContentUnknown
	}
}

// PostText returns the text of a post or the caption of a media post
func PostText(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

// ShouldReact filters out posts not worth a comment
func ShouldReact(text string, contentType models.ContentType) bool {
	if contentType == models.ContentText {
		return len([]rune(strings.TrimSpace(text))) >= minTextPostLength
	}
	return true
}

// Service generates comments for channel posts and replies to readers
type Service struct {
	completer llm.Completer
	templates map[models.ContentType]string
	logger    zerolog.Logger
}

// NewService creates a channel comment service
func NewService(completer llm.Completer, config *models.BotConfig, logger zerolog.Logger) *Service {
	return &Service{
		completer: completer,
		templates: config.ResponseTemplates,
		logger:    logger.With().Str("component", "channel").Logger(),
	}
}

// Generate returns the comment text. A configured template wins over the model
// and any model failure is replaced by a fallback, so the result is never empty.
func (s *Service) Generate(ctx context.Context, text string, isReply bool, contentType models.ContentType) string {
	if !isReply {
		if tmpl := s.templates[contentType]; tmpl != "" {
			s.logger.Info().
				Str("content_type", string(contentType)).
				Msg("Using configured response template")
			return tmpl
		}
	}

	systemPrompt, userText := ChannelPostPrompt(text, contentType)
	if isReply {
		systemPrompt, userText = llm.CommentReplyPrompt, text
	}

	response, err := s.completer.Complete(ctx, systemPrompt, userText)
	if err == nil && strings.TrimSpace(response) != "" {
		return strings.TrimSpace(response)
	}

	s.logger.Error().
		Err(err).
		Bool("is_reply", isReply).
		Str("content_type", string(contentType)).
		Msg("Failed to generate comment, using fallback")

	return Fallback(isReply, contentType, text)
}

// ChannelPostPrompt builds the system prompt and user text for a post comment
func ChannelPostPrompt(text string, contentType models.ContentType) (string, string) {
	prefix, ok := llm.ChannelPostContext[contentType]
	if !ok {
		prefix = llm.ChannelPostContext[models.ContentUnknown]
	}
	if strings.TrimSpace(text) == "" {
		text = "(без текста)"
	}
	return llm.ChannelPostPrompt, prefix + "\n" + text
}

// Fallback returns a canned comment for when the model is unavailable
func Fallback(isReply bool, contentType models.ContentType, text string) string {
	if isReply {
		return fmt.Sprintf("Спасибо за ваш комментарий! Вы написали: %q", quote(text))
	}

	switch contentType {
	case models.ContentText:
		return "Интересная публикация! Вот мой комментарий к вашему посту."
	case models.ContentPhoto:
		if text != "" {
			return fmt.Sprintf("Отличное фото! Подпись %q хорошо его описывает.", text)
		}
		return "Отличное фото!"
	case models.ContentVideo:
		if text != "" {
			return fmt.Sprintf("Интересное видео! Описание %q очень подходящее.", text)
		}
		return "Интересное видео!"
	default:
		return "Интересная публикация! Спасибо за ваш контент."
	}
}

func quote(text string) string {
	runes := []rune(text)
	if len(runes) <= quoteLength {
		return text
	}
	return string(runes[:quoteLength]) + "..."
}
