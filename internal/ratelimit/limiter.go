package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/rs/zerolog"
)

// UsageStore persists per-day request counters
type UsageStore interface {
	GetDailyLimit(ctx context.Context, userID int64, date string) (*models.DailyLimit, error)
	IncrementLimit(ctx context.Context, userID int64, date string) error
	GetUserTotalRequests(ctx context.Context, userID int64) (int64, error)
}

// Limiter manages daily LLM request limits for users
type Limiter struct {
	storage    UsageStore
	timezone   *time.Location
	dailyLimit int
	now        func() time.Time
	logger     zerolog.Logger
}

// NewLimiter creates a new rate limiter
func NewLimiter(storage UsageStore, timezone string, dailyLimit int, logger zerolog.Logger) (*Limiter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", timezone, err)
	}

	return &Limiter{
		storage:    storage,
		timezone:   loc,
		dailyLimit: dailyLimit,
		now:        time.Now,
		logger:     logger.With().Str("component", "ratelimit").Logger(),
	}, nil
}

func (l *Limiter) today() (time.Time, string) {
	now := l.now().In(l.timezone)
	return now, now.Format("2006-01-02")
}

// CheckLimit checks if user can make another LLM request today
func (l *Limiter) CheckLimit(ctx context.Context, userID int64) (*models.RateLimitResult, error) {
	now, dateStr := l.today()

	limits, err := l.storage.GetDailyLimit(ctx, userID, dateStr)
	if err != nil {
		l.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Str("date", dateStr).
			Msg("Failed to get daily limit")
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}

	remaining := l.dailyLimit - limits.RequestsCount

	l.logger.Debug().
		Int64("user_id", userID).
		Int("used", limits.RequestsCount).
		Int("remaining", remaining).
		Msg("Checking rate limit")

	if remaining <= 0 {
		return &models.RateLimitResult{
			Allowed:   false,
			Remaining: 0,
			Message: fmt.Sprintf(
				"🚫 Вы исчерпали дневной лимит запросов (%d/%d).\n\nЛимит сбросится через %d ч.",
				limits.RequestsCount, l.dailyLimit,
				l.hoursUntilMidnight(now),
			),
		}, nil
	}

	return &models.RateLimitResult{
		Allowed:   true,
		Remaining: remaining,
	}, nil
}

// IncrementUsage increments the usage count for a user
func (l *Limiter) IncrementUsage(ctx context.Context, userID int64) error {
	_, dateStr := l.today()

	if err := l.storage.IncrementLimit(ctx, userID, dateStr); err != nil {
		l.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to increment usage")
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	l.logger.Debug().
		Int64("user_id", userID).
		Str("date", dateStr).
		Msg("Usage incremented")

	return nil
}

// GetUserStats returns statistics for a user
func (l *Limiter) GetUserStats(ctx context.Context, userID int64, username, firstName string) (*models.UserStats, error) {
	now, dateStr := l.today()

	limits, err := l.storage.GetDailyLimit(ctx, userID, dateStr)
	if err != nil {
		l.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to get user stats")
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	// Get total requests (all time)
	totalRequests, err := l.storage.GetUserTotalRequests(ctx, userID)
	if err != nil {
		l.logger.Warn().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to get total requests, using 0")
		totalRequests = 0
	}

	return &models.UserStats{
		UserID:        userID,
		Username:      username,
		FirstName:     firstName,
		RequestsUsed:  limits.RequestsCount,
		RequestsLimit: l.dailyLimit,
		TotalRequests: totalRequests,
		ResetsInHours: l.hoursUntilMidnight(now),
	}, nil
}

// hoursUntilMidnight calculates hours until midnight in the timezone
func (l *Limiter) hoursUntilMidnight(now time.Time) int {
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, l.timezone)
	hours := int(midnight.Sub(now).Hours())

	// If less than 1 hour, show at least 1
	if hours < 1 {
		hours = 1
	}

	return hours
}
