package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/interview-mentor-bot/internal/models"
)

const requestLogsTable = "request_logs"

// LogRequest logs a request to the database
func (c *Client) LogRequest(ctx context.Context, log *models.RequestLog) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Set created_at if not set
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	operation := "log_request"
	err := c.withRetry(ctx, operation, func() error {
		_, _, err := c.client.From(requestLogsTable).
			Insert(requestLogRow(log), false, "", "", "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to insert request log: %w", err)
		}

		return nil
	})

	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("user_id", log.UserID).
			Str("kind", string(log.Kind)).
			Msg("Failed to log request")
		return err
	}

	c.logger.Debug().
		Int64("user_id", log.UserID).
		Str("kind", string(log.Kind)).
		Str("model", log.ModelUsed).
		Int("response_len", log.ResponseLength).
		Int("exec_time_ms", log.ExecutionTimeMs).
		Msg("Request logged successfully")

	return nil
}

// requestLogRow maps a log entry to the request_logs columns
func requestLogRow(log *models.RequestLog) map[string]interface{} {
	return map[string]interface{}{
		"user_id":           log.UserID,
		"username":          log.Username,
		"first_name":        log.FirstName,
		"chat_id":           log.ChatID,
		"kind":              string(log.Kind),
		"request_text":      log.RequestText,
		"response_text":     log.ResponseText,
		"model_used":        log.ModelUsed,
		"response_length":   log.ResponseLength,
		"execution_time_ms": log.ExecutionTimeMs,
		"error_message":     log.ErrorMessage,
		"created_at":        log.CreatedAt,
	}
}

// GetUserTotalRequests returns total number of requests made by a user
func (c *Client) GetUserTotalRequests(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, count, err := c.client.From(requestLogsTable).
		Select("id", "exact", false).
		Eq("user_id", fmt.Sprintf("%d", userID)).
		Execute()

	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to get user total requests")
		return 0, fmt.Errorf("failed to get user total requests: %w", err)
	}

	return count, nil
}
