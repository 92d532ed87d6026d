package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	counts   map[string]int
	total    int64
	getErr   error
	totalErr error
}

func key(userID int64, date string) string {
	return fmt.Sprintf("%s/%d", date, userID)
}

func (m *memoryStore) GetDailyLimit(ctx context.Context, userID int64, date string) (*models.DailyLimit, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &models.DailyLimit{UserID: userID, Date: date, RequestsCount: m.counts[key(userID, date)]}, nil
}

func (m *memoryStore) IncrementLimit(ctx context.Context, userID int64, date string) error {
	m.counts[key(userID, date)]++
	m.total++
	return nil
}

func (m *memoryStore) GetUserTotalRequests(ctx context.Context, userID int64) (int64, error) {
	return m.total, m.totalErr
}

func newTestLimiter(t *testing.T, store UsageStore, limit int) *Limiter {
	t.Helper()
	l, err := NewLimiter(store, "UTC", limit, zerolog.Nop())
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC) }
	return l
}

func TestLimiter_AllowsUntilLimit(t *testing.T) {
	store := &memoryStore{counts: map[string]int{}}
	l := newTestLimiter(t, store, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.CheckLimit(ctx, 1)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		require.NoError(t, l.IncrementUsage(ctx, 1))
	}

	res, err := l.CheckLimit(ctx, 1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Message, "2/2")
	assert.Contains(t, res.Message, "через 1 ч.")

	// other users are unaffected
	res, err = l.CheckLimit(ctx, 2)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_StorageError(t *testing.T) {
	l := newTestLimiter(t, &memoryStore{getErr: errors.New("down")}, 5)
	_, err := l.CheckLimit(context.Background(), 1)
	assert.Error(t, err)
}

func TestLimiter_GetUserStats(t *testing.T) {
	store := &memoryStore{counts: map[string]int{}, totalErr: errors.New("timeout")}
	l := newTestLimiter(t, store, 10)
	require.NoError(t, l.IncrementUsage(context.Background(), 7))

	stats, err := l.GetUserStats(context.Background(), 7, "neo", "Thomas")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RequestsUsed)
	assert.Equal(t, 10, stats.RequestsLimit)
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, 1, stats.ResetsInHours)
}

func TestNewLimiter_BadTimezone(t *testing.T) {
	_, err := NewLimiter(&memoryStore{}, "Mars/Olympus", 1, zerolog.Nop())
	assert.Error(t, err)
}
