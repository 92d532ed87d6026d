package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	status *models.APIStatus
	calls  int
}

func (f *fakeChecker) CheckStatus(ctx context.Context) *models.APIStatus {
	f.calls++
	return f.status
}

func testConfig(schedule string) *models.BotConfig {
	return &models.BotConfig{Timezone: "UTC", StatusCheckSchedule: schedule, LLMTimeout: 5}
}

func TestRunStatusCheck_StoresLastStatus(t *testing.T) {
	checker := &fakeChecker{status: &models.APIStatus{
		Provider:   models.ProviderOpenRouter,
		Model:      "m",
		Available:  true,
		ModelCount: 3,
	}}
	s, err := NewScheduler(checker, testConfig("@every 30m"), zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, s.LastStatus())

	s.runStatusCheck(context.Background())
	assert.Equal(t, 1, checker.calls)
	require.NotNil(t, s.LastStatus())
	assert.Equal(t, 3, s.LastStatus().ModelCount)

	checker.status = &models.APIStatus{Provider: models.ProviderGemini, Error: errors.New("boom")}
	s.runStatusCheck(context.Background())
	assert.False(t, s.LastStatus().Available)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s, err := NewScheduler(&fakeChecker{}, testConfig("not a schedule"), zerolog.Nop())
	require.NoError(t, err)

	err = s.Start(context.Background())
	assert.ErrorContains(t, err, "invalid status check schedule")
}

func TestStart_StopsOnCancel(t *testing.T) {
	s, err := NewScheduler(&fakeChecker{}, testConfig("@every 1h"), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewScheduler_BadTimezone(t *testing.T) {
	cfg := testConfig("@every 1h")
	cfg.Timezone = "Nowhere/City"
	_, err := NewScheduler(&fakeChecker{}, cfg, zerolog.Nop())
	assert.Error(t, err)
}
