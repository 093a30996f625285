package model

import hub "github.com/minju-kim98/personal-ai-hub"

// ChatPricing is list price in USD per million tokens.
type ChatPricing struct {
	InputPerMillion       float64
	OutputPerMillion      float64
	CachedInputPerMillion float64 // OpenAI prompt cache; informational, Usage has no cached count

	// Gemini Pro bills prompts above longPromptTokens at a higher tier.
	InputPerMillionLong  float64
	OutputPerMillionLong float64
}

const longPromptTokens = 200_000

// CalculateCost estimates the USD cost of usage. The whole call moves to the
// long tier once the prompt crosses the threshold.
func CalculateCost(usage hub.Usage, p ChatPricing) float64 {
	in, out := p.InputPerMillion, p.OutputPerMillion
	if usage.InputTokens > longPromptTokens && (p.InputPerMillionLong > 0 || p.OutputPerMillionLong > 0) {
		in, out = p.InputPerMillionLong, p.OutputPerMillionLong
	}
	return (float64(usage.InputTokens)*in + float64(usage.OutputTokens)*out) / 1e6
}
