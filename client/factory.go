package client

import (
	"context"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/minju-kim98/personal-ai-hub/internal/provider/anthropic"
	"github.com/minju-kim98/personal-ai-hub/internal/provider/google"
	"github.com/minju-kim98/personal-ai-hub/internal/provider/openai"
	"github.com/minju-kim98/personal-ai-hub/model"
)

// Completer is a provider client bound to one model and temperature.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*hub.Response, error)
}

// Factory builds a Completer for m. It is called at most once per cache key.
type Factory func(ctx context.Context, apiKey string, m model.ChatModel, temperature float64, maxTokens int) (Completer, error)

func newAnthropic(_ context.Context, apiKey string, m model.ChatModel, temperature float64, maxTokens int) (Completer, error) {
	return anthropic.New(apiKey,
		anthropic.WithModel(m.String()),
		anthropic.WithTemperature(temperature),
		anthropic.WithMaxTokens(maxTokens),
	), nil
}

func newOpenAI(_ context.Context, apiKey string, m model.ChatModel, temperature float64, maxTokens int) (Completer, error) {
	return openai.New(apiKey,
		openai.WithModel(m.String()),
		openai.WithTemperature(temperature),
		openai.WithMaxTokens(maxTokens),
	), nil
}

func newGoogle(ctx context.Context, apiKey string, m model.ChatModel, temperature float64, maxTokens int) (Completer, error) {
	return google.New(ctx, apiKey,
		google.WithModel(m.String()),
		google.WithTemperature(temperature),
		google.WithMaxTokens(maxTokens),
	)
}

func defaultFactories() map[hub.Provider]Factory {
	return map[hub.Provider]Factory{
		hub.ProviderAnthropic: newAnthropic,
		hub.ProviderOpenAI:    newOpenAI,
		hub.ProviderGoogle:    newGoogle,
	}
}
