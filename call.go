package hub

import "time"

// Provider names the vendor behind a model alias.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

func (p Provider) String() string { return string(p) }

// CallOptions overrides gateway defaults for one Invoke. Nil or zero fields
// keep the default.
type CallOptions struct {
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

// Option adjusts a single call.
type Option func(*CallOptions)

// WithTemperature pins the sampling temperature. The gateway caches one client
// per model and temperature.
func WithTemperature(t float64) Option {
	return func(c *CallOptions) { c.Temperature = &t }
}

// WithMaxTokens caps output length.
func WithMaxTokens(n int) Option {
	return func(c *CallOptions) { c.MaxTokens = n }
}

// WithTimeout bounds the call; workflow steps use it to stay inside their own
// step deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *CallOptions) { c.Timeout = d }
}

// CollectOptions folds opts left to right, so later options win.
func CollectOptions(opts ...Option) CallOptions {
	var c CallOptions
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
