package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/interview-mentor-bot/internal/models"
)

// GetDailyLimit retrieves the daily usage of a user on a specific date
func (c *Client) GetDailyLimit(ctx context.Context, userID int64, date string) (*models.DailyLimit, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := map[string]interface{}{
		"p_user_id": userID,
		"p_date":    date,
	}

	data := c.client.Rpc("get_daily_limit", "", params)
	count, err := parseDailyCount(data)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to parse RPC response, returning zero count")
	}

	c.logger.Debug().
		Int64("user_id", userID).
		Str("date", date).
		Int("requests_count", count).
		Msg("Retrieved daily limit")

	return &models.DailyLimit{
		UserID:        userID,
		Date:          date,
		RequestsCount: count,
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

// parseDailyCount reads the count returned by get_daily_limit.
// An empty response means no usage yet.
func parseDailyCount(data string) (int, error) {
	if data == "" {
		return 0, nil
	}

	var results []struct {
		RequestsCount int `json:"requests_count"`
	}
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		return 0, fmt.Errorf("failed to unmarshal daily limit: %w", err)
	}

	if len(results) == 0 {
		return 0, nil
	}
	return results[0].RequestsCount, nil
}

// IncrementLimit increments the request count of a user for date
func (c *Client) IncrementLimit(ctx context.Context, userID int64, date string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	operation := "increment_limit"
	err := c.withRetry(ctx, operation, func() error {
		// Use RPC function for atomic increment
		params := map[string]interface{}{
			"p_user_id": userID,
			"p_date":    date,
		}

		result := c.client.Rpc("increment_daily_limit", "", params)
		if result == "" {
			return fmt.Errorf("failed to increment daily limit: RPC returned empty")
		}

		return nil
	})

	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Str("date", date).
			Msg("Failed to increment limit")
		return err
	}

	c.logger.Debug().
		Int64("user_id", userID).
		Str("date", date).
		Msg("Limit incremented successfully")

	return nil
}
