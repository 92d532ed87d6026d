package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/interview-mentor-bot/internal/models"
	"github.com/sashabaranov/go-openai"
)

// OpenRouterClient talks to OpenRouter (or any OpenAI-compatible endpoint)
type OpenRouterClient struct {
	client *openai.Client
	model  string
}

// headerTransport adds the attribution headers OpenRouter uses for rankings
type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone request to avoid mutating the original
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

// NewOpenRouter creates an OpenRouter provider
func NewOpenRouter(apiKey, baseURL, model, siteURL, siteName string) *OpenRouterClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if siteURL != "" || siteName != "" {
		h := http.Header{}
		if siteURL != "" {
			h.Set("HTTP-Referer", siteURL)
		}
		if siteName != "" {
			h.Set("X-Title", siteName)
		}
		config.HTTPClient = &http.Client{Transport: headerTransport{rt: http.DefaultTransport, headers: h}}
	}
	return &OpenRouterClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Name returns the provider identifier
func (c *OpenRouterClient) Name() models.Provider { return models.ProviderOpenRouter }

// Model returns the configured model
func (c *OpenRouterClient) Model() string { return c.model }

// Close is a no-op, the HTTP client holds no resources of its own
func (c *OpenRouterClient) Close() error { return nil }

// Complete sends a single system + user exchange
func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("invalid response format: no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the ids of the models available to the key
func (c *OpenRouterClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}
