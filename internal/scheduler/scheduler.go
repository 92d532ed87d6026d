package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StatusChecker checks the LLM provider
type StatusChecker interface {
	CheckStatus(ctx context.Context) *models.APIStatus
}

// Scheduler runs periodic background jobs
type Scheduler struct {
	cron     *cron.Cron
	checker  StatusChecker
	schedule string
	timeout  time.Duration
	logger   zerolog.Logger

	mu         sync.RWMutex
	lastStatus *models.APIStatus
}

// NewScheduler creates a new scheduler
func NewScheduler(checker StatusChecker, config *models.BotConfig, logger zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", config.Timezone, err)
	}

	timeout := time.Duration(config.LLMTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		checker:  checker,
		schedule: config.StatusCheckSchedule,
		timeout:  timeout,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Start registers the jobs and blocks until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting scheduler...")

	if _, err := s.cron.AddFunc(s.schedule, func() { s.runStatusCheck(ctx) }); err != nil {
		return fmt.Errorf("invalid status check schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.schedule).
		Msg("Scheduler started, API status check registered")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("Scheduler stopped")
	return ctx.Err()
}

// LastStatus returns the result of the most recent scheduled check, or nil
func (s *Scheduler) LastStatus() *models.APIStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus
}

// runStatusCheck checks the provider once and logs the outcome
func (s *Scheduler) runStatusCheck(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := s.checker.CheckStatus(checkCtx)

	s.mu.Lock()
	s.lastStatus = status
	s.mu.Unlock()

	if !status.Available {
		s.logger.Warn().
			Err(status.Error).
			Str("provider", status.Provider.String()).
			Str("model", status.Model).
			Dur("latency", status.Latency).
			Msg("LLM API unavailable")
		return
	}

	s.logger.Info().
		Str("provider", status.Provider.String()).
		Str("model", status.Model).
		Int("model_count", status.ModelCount).
		Dur("latency", status.Latency).
		Msg("LLM API status check passed")
}
