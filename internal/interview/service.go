package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/interview-mentor-bot/internal/llm"
	"github.com/interview-mentor-bot/internal/prompt"
	"github.com/rs/zerolog"
)

var (
	ErrNoSession  = errors.New("no active interview")
	ErrNoQuestion = errors.New("no question awaiting an answer")
)

const (
	nextQuestionRequest = "Задай следующий вопрос."
	evaluationRequest   = "Вопрос: %s\n\nОтвет кандидата: %s"

	// used by /explain outside an interview
	defaultSection = "Программирование"
	defaultLevel   = LevelMiddle
)

// Summary describes a finished interview
type Summary struct {
	Level    Level
	Section  string
	Asked    int
	Answered int
	Skipped  int
}

// Service drives mock interviews
type Service struct {
	builder   *prompt.Builder
	completer llm.Completer
	store     *Store
	logger    zerolog.Logger
}

// NewService creates a new interview service
func NewService(builder *prompt.Builder, completer llm.Completer, store *Store, logger zerolog.Logger) *Service {
	return &Service{
		builder:   builder,
		completer: completer,
		store:     store,
		logger:    logger.With().Str("component", "interview").Logger(),
	}
}

// Start opens a new session, replacing any previous one
func (s *Service) Start(userID int64, level Level, sectionID string) (Session, error) {
	if _, err := ParseLevel(string(level)); err != nil {
		return Session{}, err
	}
	section, err := FindSection(sectionID)
	if err != nil {
		return Session{}, err
	}

	sess := Session{Level: level, Section: section}
	s.store.Save(userID, sess)

	s.logger.Info().
		Int64("user_id", userID).
		Str("level", string(level)).
		Str("section", section.ID).
		Msg("Interview started")

	return sess, nil
}

// Active reports whether the user is waiting to answer a question
func (s *Service) Active(userID int64) bool {
	sess, ok := s.store.Get(userID)
	return ok && sess.CurrentQuestion != ""
}

// NextQuestion asks the model for a question not yet asked in the session
func (s *Service) NextQuestion(ctx context.Context, userID int64) (string, error) {
	sess, ok := s.store.Get(userID)
	if !ok {
		return "", ErrNoSession
	}

	question, err := s.complete(ctx, prompt.KindNextQuestion, promptContext(sess), nextQuestionRequest)
	if err != nil {
		return "", err
	}
	question = strings.TrimSpace(question)

	// session may have ended while the model was answering
	current, ok := s.store.Get(userID)
	if !ok {
		return "", ErrNoSession
	}
	current.CurrentQuestion = question
	current.AskedQuestions = append(current.AskedQuestions, question)
	current.Asked++
	s.store.Save(userID, current)

	return question, nil
}

// Evaluate grades the answer to the current question and clears it
func (s *Service) Evaluate(ctx context.Context, userID int64, answer string) (string, error) {
	sess, ok := s.store.Get(userID)
	if !ok {
		return "", ErrNoSession
	}
	if sess.CurrentQuestion == "" {
		return "", ErrNoQuestion
	}

	userText := fmt.Sprintf(evaluationRequest, sess.CurrentQuestion, answer)
	feedback, err := s.complete(ctx, prompt.KindEvaluation, promptContext(sess), userText)
	if err != nil {
		return "", err
	}

	if current, ok := s.store.Get(userID); ok {
		current.CurrentQuestion = ""
		current.Answered++
		s.store.Save(userID, current)
	}

	return feedback, nil
}

// FollowUp answers a clarifying question. Without a session a general context is used.
func (s *Service) FollowUp(ctx context.Context, userID int64, question string) (string, error) {
	pctx := prompt.Context{Section: defaultSection, Level: string(defaultLevel)}
	if sess, ok := s.store.Get(userID); ok {
		pctx = promptContext(sess)
	}
	return s.complete(ctx, prompt.KindFollowUp, pctx, question)
}

// Skip drops the current question and asks the next one
func (s *Service) Skip(ctx context.Context, userID int64) (string, error) {
	sess, ok := s.store.Get(userID)
	if !ok {
		return "", ErrNoSession
	}
	if sess.CurrentQuestion != "" {
		sess.CurrentQuestion = ""
		sess.Skipped++
		s.store.Save(userID, sess)
	}
	return s.NextQuestion(ctx, userID)
}

// End closes the session and returns its summary
func (s *Service) End(userID int64) (Summary, error) {
	sess, ok := s.store.Delete(userID)
	if !ok {
		return Summary{}, ErrNoSession
	}

	summary := Summary{
		Level:    sess.Level,
		Section:  sess.Section.Name,
		Asked:    sess.Asked,
		Answered: sess.Answered,
		Skipped:  sess.Skipped,
	}

	s.logger.Info().
		Int64("user_id", userID).
		Int("answered", summary.Answered).
		Int("skipped", summary.Skipped).
		Msg("Interview ended")

	return summary, nil
}

func (s *Service) complete(ctx context.Context, kind prompt.Kind, pctx prompt.Context, userText string) (string, error) {
	systemPrompt, err := s.builder.Build(kind, pctx)
	if err != nil {
		return "", fmt.Errorf("failed to build %s prompt: %w", kind, err)
	}

	s.logger.Debug().
		Str("kind", kind.String()).
		Str("section", pctx.Section).
		Int("prompt_length", len(systemPrompt)).
		Msg("Requesting completion")

	text, err := s.completer.Complete(ctx, systemPrompt, userText)
	if err != nil {
		return "", fmt.Errorf("failed to complete %s: %w", kind, err)
	}
	return text, nil
}

func promptContext(sess Session) prompt.Context {
	return prompt.Context{
		Section:        sess.Section.Name,
		Level:          string(sess.Level),
		Topics:         sess.Section.Topics,
		AskedQuestions: sess.AskedQuestions,
	}
}
