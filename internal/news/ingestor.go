package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minju-kim98/personal-ai-hub/internal/metrics"
)

const (
	// DefaultFeedDelay spaces consecutive feed downloads.
	DefaultFeedDelay = 500 * time.Millisecond
	// DefaultRetention is how long articles are kept.
	DefaultRetention = 30 * 24 * time.Hour
)

// Stats summarizes one ingestion run.
type Stats struct {
	Fetched int `json:"fetched"`
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Ingestor fetches every feed and stores new articles.
type Ingestor struct {
	feeds      []Feed
	fetcher    *Fetcher
	summarizer *Summarizer
	store      ArticleStore
	seen       SeenCache
	delay      time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithFeeds replaces DefaultFeeds.
func WithFeeds(feeds []Feed) IngestorOption {
	return func(i *Ingestor) {
		i.feeds = feeds
	}
}

// WithSeenCache adds a cache consulted before the store.
func WithSeenCache(c SeenCache) IngestorOption {
	return func(i *Ingestor) {
		i.seen = c
	}
}

// WithFeedDelay sets the pause between feeds.
func WithFeedDelay(d time.Duration) IngestorOption {
	return func(i *Ingestor) {
		i.delay = d
	}
}

// WithClock sets the time source used by Cleanup.
func WithClock(now func() time.Time) IngestorOption {
	return func(i *Ingestor) {
		i.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) IngestorOption {
	return func(i *Ingestor) {
		i.logger = l
	}
}

// NewIngestor creates an ingestor.
func NewIngestor(fetcher *Fetcher, summarizer *Summarizer, store ArticleStore, opts ...IngestorOption) *Ingestor {
	i := &Ingestor{
		feeds:      DefaultFeeds(),
		fetcher:    fetcher,
		summarizer: summarizer,
		store:      store,
		delay:      DefaultFeedDelay,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run fetches all feeds, then summarizes and stores the articles not seen
// before. A failing feed or article is logged and counted, never fatal;
// only cancellation ends the run early.
func (i *Ingestor) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	i.logger.InfoContext(ctx, "news fetch started", "feeds", len(i.feeds))

	var articles []Article
	for n, feed := range i.feeds {
		if n > 0 && i.delay > 0 {
			if err := sleep(ctx, i.delay); err != nil {
				return stats, err
			}
		}
		got, err := i.fetcher.Fetch(ctx, feed)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			i.logger.ErrorContext(ctx, "feed fetch failed", "url", feed.URL, "error", err)
			continue
		}
		articles = append(articles, got...)
		stats.Fetched += len(got)
	}
	i.logger.InfoContext(ctx, "feeds fetched", "articles", stats.Fetched)

	for n := range articles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		result, err := i.ingest(ctx, &articles[n])
		switch {
		case err != nil:
			stats.Errors++
			result = "error"
			i.logger.ErrorContext(ctx, "article not stored", "url", articles[n].URL, "error", err)
		case result == "stored":
			stats.Stored++
		default:
			stats.Skipped++
		}
		metrics.NewsArticles.WithLabelValues(result).Inc()
	}

	i.logger.InfoContext(ctx, "news fetch completed",
		"fetched", stats.Fetched,
		"stored", stats.Stored,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)
	return stats, nil
}

// ingest returns "stored" or "skipped".
func (i *Ingestor) ingest(ctx context.Context, a *Article) (string, error) {
	if i.seen != nil {
		seen, err := i.seen.Seen(ctx, a.URL)
		if err != nil {
			i.logger.WarnContext(ctx, "seen cache unavailable", "error", err)
		} else if seen {
			return "skipped", nil
		}
	}

	exists, err := i.store.ArticleExists(ctx, a.URL)
	if err != nil {
		return "", fmt.Errorf("lookup: %w", err)
	}
	if exists {
		i.mark(ctx, a.URL)
		return "skipped", nil
	}

	i.summarizer.Summarize(ctx, a)
	created, err := i.store.CreateArticle(ctx, a)
	if err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	i.mark(ctx, a.URL)
	if !created {
		return "skipped", nil
	}
	return "stored", nil
}

func (i *Ingestor) mark(ctx context.Context, url string) {
	if i.seen == nil {
		return
	}
	if err := i.seen.Mark(ctx, url); err != nil {
		i.logger.WarnContext(ctx, "seen cache unavailable", "error", err)
	}
}

// Cleanup deletes articles published more than retention ago.
func (i *Ingestor) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	n, err := i.store.DeleteArticlesBefore(ctx, i.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	i.logger.InfoContext(ctx, "old news removed", "deleted", n)
	return n, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
