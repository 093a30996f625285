package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/minju-kim98/personal-ai-hub/internal/retry"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultTimeout bounds one feed download.
	DefaultTimeout = 30 * time.Second
	// DefaultPerFeed caps entries taken from one feed.
	DefaultPerFeed = 10

	userAgent = "Mozilla/5.0 (compatible; PersonalAIHub/1.0)"
)

// Fetcher downloads and parses RSS and Atom feeds.
type Fetcher struct {
	client  *http.Client
	retry   retry.Config
	perFeed int
	now     func() time.Time
	logger  *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default client and its 30s timeout.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithRetry sets the backoff for transient download failures.
func WithRetry(cfg retry.Config) FetcherOption {
	return func(f *Fetcher) {
		f.retry = cfg
	}
}

// WithPerFeed caps entries taken from each feed.
func WithPerFeed(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.perFeed = n
		}
	}
}

// WithFetcherClock sets the fallback publication time source.
func WithFetcherClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.now = now
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher creates a fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{Timeout: DefaultTimeout},
		retry:   retry.DefaultConfig(),
		perFeed: DefaultPerFeed,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns up to the per-feed cap of articles from feed. Entries
// without a title or link are dropped.
func (f *Fetcher) Fetch(ctx context.Context, feed Feed) ([]Article, error) {
	cfg := f.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		f.logger.WarnContext(ctx, "feed download failed, retrying",
			"url", feed.URL, "attempt", attempt, "delay", delay, "error", err)
	}

	parsed, err := retry.Do(ctx, cfg, func(ctx context.Context) (*gofeed.Feed, error) {
		return f.download(ctx, feed.URL)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed.URL, err)
	}

	out := make([]Article, 0, min(len(parsed.Items), f.perFeed))
	for _, item := range parsed.Items {
		if len(out) == f.perFeed {
			break
		}
		if a, ok := f.article(feed, item); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *Fetcher) download(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, hub.NewPermanentError("build request", 0, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, hub.NewStatusError(fmt.Sprintf("feed status %d", resp.StatusCode),
			resp.StatusCode, retryAfter(resp.Header.Get("Retry-After")), nil)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, hub.NewPermanentError("parse feed", 0, err)
	}
	return parsed, nil
}

// article maps an entry; the entry is dropped when title or link is missing.
func (f *Fetcher) article(feed Feed, item *gofeed.Item) (Article, bool) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Article{}, false
	}

	published := f.now()
	switch {
	case item.PublishedParsed != nil:
		published = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		published = item.UpdatedParsed.UTC()
	}

	content := item.Description
	if content == "" {
		content = item.Content
	}

	return Article{
		Title:           title,
		URL:             link,
		Source:          feed.Source,
		Category:        feed.Category,
		OriginalContent: PlainText(content),
		PublishedAt:     published,
	}, true
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
