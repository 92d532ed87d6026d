package config

import (
	"testing"
	"time"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LLM_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("CHANNEL_ID", "")
	t.Setenv("DISCUSSION_GROUP_ID", "")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("MAX_MESSAGE_LENGTH", "")
	t.Setenv("CHANNEL_TEMPLATE_PHOTO", "")
	t.Setenv("ENABLE_CHANNEL_POSTS", "")
	t.Setenv("CHANNEL_RESPONSE_DELAY", "")
	t.Setenv("REPLY_RESPONSE_DELAY", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, models.ProviderOpenRouter, cfg.LLMProvider)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterURL)
	assert.Equal(t, 3500, cfg.MaxMessageLength)
	assert.Equal(t, 3*time.Second, cfg.ChannelResponseDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.ReplyResponseDelay)
	assert.False(t, cfg.StorageEnabled())
	assert.Empty(t, cfg.ResponseTemplates)
}

func TestLoad_ChannelSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CHANNEL_ID", "-1001")
	t.Setenv("DISCUSSION_GROUP_ID", "-1002")
	t.Setenv("CHANNEL_TEMPLATE_PHOTO", "Отличное фото!")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.ChannelEnabled(-1001))
	assert.False(t, cfg.ChannelEnabled(-1003))
	assert.Equal(t, "Отличное фото!", cfg.ResponseTemplates[models.ContentPhoto])

	t.Setenv("ENABLE_CHANNEL_POSTS", "false")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.ChannelEnabled(-1001))
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"TELEGRAM_BOT_TOKEN": "", "BOT_TOKEN": ""}},
		{"unknown provider", map[string]string{"LLM_PROVIDER": "yandex"}},
		{"gemini without key", map[string]string{"LLM_PROVIDER": "gemini", "GEMINI_API_KEY": ""}},
		{"partial supabase", map[string]string{"SUPABASE_URL": "https://x.supabase.co"}},
		{"channel without group", map[string]string{"CHANNEL_ID": "-100"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "trace"}},
		{"message too long", map[string]string{"MAX_MESSAGE_LENGTH": "5000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
