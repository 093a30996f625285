package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/minju-kim98/personal-ai-hub/model"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

func (k APIKeys) forProvider(p hub.Provider) string {
	switch p {
	case hub.ProviderAnthropic:
		return k.Anthropic
	case hub.ProviderOpenAI:
		return k.OpenAI
	case hub.ProviderGoogle:
		return k.Google
	default:
		return ""
	}
}

// Config holds configuration for creating a gateway.
type Config struct {
	APIKeys APIKeys

	// Timeout bounds every call that does not set its own with
	// hub.WithTimeout. Zero means no gateway-imposed limit.
	Timeout time.Duration

	// MaxTokens is the default output limit. Zero leaves the provider default.
	MaxTokens int

	// Events is an optional channel for receiving gateway events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithFactory replaces the constructor used for a provider's clients.
func WithFactory(p hub.Provider, f Factory) ClientOption {
	return func(c *Client) {
		c.factories[p] = f
	}
}

type cacheKey struct {
	model       string
	temperature float64
	maxTokens   int
}

// Client is the model gateway. It is safe for concurrent use.
// Provider clients are lazily initialized and never evicted.
type Client struct {
	apiKeys   APIKeys
	timeout   time.Duration
	maxTokens int
	events    chan<- Event
	factories map[hub.Provider]Factory

	mu    sync.RWMutex
	cache map[cacheKey]Completer
}

// New creates a gateway with the given configuration.
func New(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		apiKeys:   cfg.APIKeys,
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
		events:    cfg.Events,
		factories: defaultFactories(),
		cache:     make(map[cacheKey]Completer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke sends prompt to the model behind alias and returns the reply text.
func (c *Client) Invoke(ctx context.Context, alias, prompt string, opts ...hub.Option) (string, error) {
	resp, err := c.Complete(ctx, alias, prompt, opts...)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Complete is Invoke with token usage. An unknown alias fails before any
// network activity with an error matching model.ErrUnknownAlias; every other
// failure is an *InvocationError.
func (c *Client) Complete(ctx context.Context, alias, prompt string, opts ...hub.Option) (*hub.Response, error) {
	m, err := model.Resolve(alias)
	if err != nil {
		return nil, err
	}

	options := hub.CollectOptions(opts...)
	temperature := m.DefaultTemperature()
	if options.Temperature != nil {
		temperature = *options.Temperature
	}
	maxTokens := c.maxTokens
	if options.MaxTokens > 0 {
		maxTokens = options.MaxTokens
	}

	invErr := func(err error) *InvocationError {
		return &InvocationError{Alias: alias, Model: m.String(), Provider: m.Provider(), Err: err}
	}

	completer, err := c.get(ctx, m, temperature, maxTokens)
	if err != nil {
		return nil, invErr(err)
	}

	timeout := c.timeout
	if options.Timeout > 0 {
		timeout = options.Timeout
	}
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	base := Event{Alias: alias, Model: m.String(), Provider: m.Provider(), Temperature: temperature}
	start := time.Now()
	startEv := base
	startEv.Type = EventRequestStart
	emit(c.events, startEv)

	resp, err := completer.Complete(callCtx, prompt)
	if err == nil && resp == nil {
		err = errors.New("provider returned no response")
	}
	if err != nil {
		// SDKs do not always wrap the context error on deadline
		if ctxErr := callCtx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		ev := base
		ev.Type = EventRequestError
		ev.Duration = time.Since(start)
		ev.Error = err
		emit(c.events, ev)
		return nil, invErr(err)
	}

	ev := base
	ev.Type = EventRequestComplete
	ev.Duration = time.Since(start)
	ev.Usage = &resp.Usage
	ev.CostUSD = m.Cost(resp.Usage)
	emit(c.events, ev)
	return resp, nil
}

// get returns the cached client for the key, building it on first use.
func (c *Client) get(ctx context.Context, m model.ChatModel, temperature float64, maxTokens int) (Completer, error) {
	key := cacheKey{model: m.String(), temperature: temperature, maxTokens: maxTokens}

	c.mu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := c.cache[key]; ok {
		return cached, nil
	}

	apiKey := c.apiKeys.forProvider(m.Provider())
	if apiKey == "" {
		return nil, &MissingAPIKeyError{Provider: m.Provider(), Model: m.String()}
	}
	factory, ok := c.factories[m.Provider()]
	if !ok {
		return nil, fmt.Errorf("no client factory for provider %s", m.Provider())
	}

	completer, err := factory(ctx, apiKey, m, temperature, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", m.Provider(), err)
	}
	c.cache[key] = completer
	return completer, nil
}

// CachedClients reports how many provider clients have been built.
func (c *Client) CachedClients() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// HasKey reports whether an API key is configured for p.
func (c *Client) HasKey(p hub.Provider) bool {
	return c.apiKeys.forProvider(p) != ""
}

// ValidateAliases checks that every alias resolves. It is meant to run at
// startup so a mistyped alias fails before any job is accepted.
func ValidateAliases(aliases ...string) error {
	var errs []error
	for _, a := range aliases {
		if _, err := model.Resolve(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
