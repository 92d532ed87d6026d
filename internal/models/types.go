package models

import "time"

// Provider identifies the LLM backend
type Provider string

const (
	// ProviderOpenRouter talks to OpenRouter through the OpenAI-compatible API
	ProviderOpenRouter Provider = "openrouter"

	// ProviderGemini talks to Google Gemini directly
	ProviderGemini Provider = "gemini"
)

// String returns string representation of Provider
func (p Provider) String() string {
	return string(p)
}

// RequestKind tells which feature produced a logged request
type RequestKind string

const (
	RequestQuestion    RequestKind = "question"
	RequestEvaluation  RequestKind = "evaluation"
	RequestFollowUp    RequestKind = "follow_up"
	RequestQuick       RequestKind = "quick_response"
	RequestChannelPost RequestKind = "channel_post"
	RequestReply       RequestKind = "comment_reply"
)

// RequestLog represents a log entry for a user request
type RequestLog struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	Username        string      `json:"username,omitempty"`
	FirstName       string      `json:"first_name,omitempty"`
	ChatID          int64       `json:"chat_id"`
	Kind            RequestKind `json:"kind"`
	RequestText     string      `json:"request_text"`
	ResponseText    string      `json:"response_text"`
	ModelUsed       string      `json:"model_used"`
	ResponseLength  int         `json:"response_length"`
	ExecutionTimeMs int         `json:"execution_time_ms"`
	ErrorMessage    string      `json:"error_message,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// DailyLimit represents daily usage of a user
type DailyLimit struct {
	UserID        int64     `json:"user_id"`
	Date          string    `json:"date"` // Format: YYYY-MM-DD in the configured timezone
	RequestsCount int       `json:"requests_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserStats represents statistics for a specific user
type UserStats struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	RequestsUsed  int    `json:"requests_used"`
	RequestsLimit int    `json:"requests_limit"`
	TotalRequests int64  `json:"total_requests"`
	ResetsInHours int    `json:"resets_in_hours"`
}

// RateLimitResult represents the result of rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	Message   string
}

// APIStatus is the outcome of an LLM API availability check
type APIStatus struct {
	Provider   Provider
	Model      string
	Available  bool
	ModelCount int
	Latency    time.Duration
	Error      error
	CheckedAt  time.Time
}

// ContentType is the kind of a channel post
type ContentType string

const (
	ContentText    ContentType = "text"
	ContentPhoto   ContentType = "photo"
	ContentVideo   ContentType = "video"
	ContentUnknown ContentType = "unknown"
)

// BotConfig represents bot configuration
type BotConfig struct {
	// Telegram settings
	TelegramToken string

	// LLM settings
	LLMProvider      Provider
	OpenRouterAPIKey string
	OpenRouterURL    string
	OpenRouterModel  string
	SiteURL          string
	SiteName         string
	GeminiAPIKey     string
	GeminiModel      string
	LLMTimeout       int
	LLMMaxRetries    int

	// Supabase settings (optional)
	SupabaseURL     string
	SupabaseKey     string
	SupabaseTimeout int

	// Channel comments
	ChannelID            int64
	DiscussionGroupID    int64
	ChannelPostsEnabled  bool
	ChannelResponseDelay time.Duration
	ReplyResponseDelay   time.Duration
	ResponseTemplates    map[ContentType]string // static comments that bypass the LLM

	// App settings
	Timezone            string
	LogLevel            string
	Environment         string
	DailyRequestLimit   int
	StatusCheckSchedule string
	MaxMessageLength    int
}

// StorageEnabled reports whether Supabase credentials are configured
func (c *BotConfig) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// ChannelEnabled reports whether comments should be posted for the given channel
func (c *BotConfig) ChannelEnabled(channelID int64) bool {
	return c.ChannelPostsEnabled && c.ChannelID != 0 && c.ChannelID == channelID
}
