package model

import (
	"errors"
	"fmt"
	"sort"

	hub "github.com/minju-kim98/personal-ai-hub"
)

// ErrUnknownAlias matches any *UnknownAliasError with errors.Is.
var ErrUnknownAlias = errors.New("unknown model alias")

// UnknownAliasError is returned when an alias is missing from the table.
type UnknownAliasError struct {
	Alias string
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("unknown model alias %q", e.Alias)
}

// Is reports whether target is ErrUnknownAlias.
func (e *UnknownAliasError) Is(target error) bool {
	return target == ErrUnknownAlias
}

// ChatModel represents a concrete chat model from one provider.
type ChatModel struct {
	id          string
	provider    hub.Provider
	temperature float64
	pricing     ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() hub.Provider { return m.provider }

// DefaultTemperature returns the temperature used when a call sets none.
func (m ChatModel) DefaultTemperature() float64 { return m.temperature }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost returns the estimated cost in USD of the given usage.
func (m ChatModel) Cost(usage hub.Usage) float64 {
	return CalculateCost(usage, m.pricing)
}

// Provider default temperatures.
const (
	openAITemperature    = 0.7
	googleTemperature    = 1.0
	anthropicTemperature = 0.7
)

// OpenAI models. Model pricing last verified: December 14, 2025
var (
	GPT52    = ChatModel{id: "gpt-5.2", provider: hub.ProviderOpenAI, temperature: openAITemperature, pricing: ChatPricing{InputPerMillion: 1.75, OutputPerMillion: 14.00, CachedInputPerMillion: 0.175}}
	GPT5     = ChatModel{id: "gpt-5", provider: hub.ProviderOpenAI, temperature: openAITemperature, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, CachedInputPerMillion: 0.125}}
	GPT5Mini = ChatModel{id: "gpt-5-mini", provider: hub.ProviderOpenAI, temperature: openAITemperature, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 2.00, CachedInputPerMillion: 0.025}}
	GPT5Nano = ChatModel{id: "gpt-5-nano", provider: hub.ProviderOpenAI, temperature: openAITemperature, pricing: ChatPricing{InputPerMillion: 0.05, OutputPerMillion: 0.40, CachedInputPerMillion: 0.005}}
)

// Google Gemini models.
var (
	Gemini3Pro   = ChatModel{id: "gemini-3-pro-preview", provider: hub.ProviderGoogle, temperature: googleTemperature, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 12.00, InputPerMillionLong: 4.00, OutputPerMillionLong: 18.00}}
	Gemini3Flash = ChatModel{id: "gemini-3-flash-preview", provider: hub.ProviderGoogle, temperature: googleTemperature, pricing: ChatPricing{InputPerMillion: 0.50, OutputPerMillion: 3.00}}
)

// Anthropic Claude models, pinned versions.
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5-20251101", provider: hub.ProviderAnthropic, temperature: anthropicTemperature, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5-20250929", provider: hub.ProviderAnthropic, temperature: anthropicTemperature, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5-20251001", provider: hub.ProviderAnthropic, temperature: anthropicTemperature, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}
)

// Aliases used by the workflows.
const (
	AliasGPT52          = "gpt-5.2"
	AliasGPT5           = "gpt-5"
	AliasGPT5Mini       = "gpt-5-mini"
	AliasGPT5Nano       = "gpt-5-nano"
	AliasGemini3Pro     = "gemini-3-pro"
	AliasGemini3Flash   = "gemini-3-flash"
	AliasClaudeOpus45   = "claude-opus-4.5"
	AliasClaudeSonnet45 = "claude-sonnet-4.5"
	AliasClaudeHaiku45  = "claude-haiku-4.5"
)

var aliases = map[string]ChatModel{
	AliasGPT52:    GPT52,
	AliasGPT5:     GPT5,
	AliasGPT5Mini: GPT5Mini,
	AliasGPT5Nano: GPT5Nano,

	AliasGemini3Pro:         Gemini3Pro,
	AliasGemini3Flash:       Gemini3Flash,
	Gemini3Pro.String():     Gemini3Pro,
	Gemini3Flash.String():   Gemini3Flash,
	AliasClaudeOpus45:       ClaudeOpus45,
	AliasClaudeSonnet45:     ClaudeSonnet45,
	AliasClaudeHaiku45:      ClaudeHaiku45,
	ClaudeOpus45.String():   ClaudeOpus45,
	ClaudeSonnet45.String(): ClaudeSonnet45,
	ClaudeHaiku45.String():  ClaudeHaiku45,
}

// Resolve returns the concrete model for an alias.
func Resolve(alias string) (ChatModel, error) {
	m, ok := aliases[alias]
	if !ok {
		return ChatModel{}, &UnknownAliasError{Alias: alias}
	}
	return m, nil
}

// Aliases returns every known alias in sorted order.
func Aliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
