package model

import (
	"testing"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCost(t *testing.T) {
	flat := ChatPricing{InputPerMillion: 1, OutputPerMillion: 2}
	tiered := ChatPricing{InputPerMillion: 1, OutputPerMillion: 1, InputPerMillionLong: 2, OutputPerMillionLong: 4}

	tests := []struct {
		name    string
		usage   hub.Usage
		pricing ChatPricing
		want    float64
	}{
		{"flat rate", hub.Usage{InputTokens: 1000, OutputTokens: 500}, flat, 0.002},
		{"nothing used", hub.Usage{}, flat, 0},
		{"short prompt stays on base tier", hub.Usage{InputTokens: 200_000, OutputTokens: 0}, tiered, 0.2},
		{"long prompt moves whole call up", hub.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, tiered, 6},
		{"flat pricing ignores prompt size", hub.Usage{InputTokens: 1_000_000}, flat, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateCost(tt.usage, tt.pricing), 1e-9)
		})
	}
}

func TestSonnetCost(t *testing.T) {
	// $3/M in, $15/M out
	assert.InDelta(t, 0.105, ClaudeSonnet45.Cost(hub.Usage{InputTokens: 10000, OutputTokens: 5000}), 1e-9)
}
