package google

import (
	"context"
	"strings"

	hub "github.com/minju-kim98/personal-ai-hub"
	"google.golang.org/genai"
)

// Client wraps the Google GenAI SDK for one model and temperature.
type Client struct {
	client      *genai.Client
	model       string
	temperature *float64
	maxTokens   int32
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the model identifier sent with every request.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.temperature = &t
	}
}

// WithMaxTokens caps the output length. Zero leaves the API default.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxTokens = int32(n)
	}
}

// Model returns the model identifier.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user turn and returns the text reply.
func (c *Client) Complete(ctx context.Context, prompt string) (*hub.Response, error) {
	config := &genai.GenerateContentConfig{}
	if c.maxTokens > 0 {
		config.MaxOutputTokens = c.maxTokens
	}
	if c.temperature != nil {
		temp := float32(*c.temperature)
		config.Temperature = &temp
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, classify(err)
	}

	var content strings.Builder
	var finishReason string
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				// skip thought summaries
				if part.Text != "" && !part.Thought {
					content.WriteString(part.Text)
				}
			}
		}
		finishReason = string(cand.FinishReason)
	}

	var usage hub.Usage
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &hub.Response{
		Content:      content.String(),
		FinishReason: finishReason,
		Usage:        usage,
	}, nil
}
