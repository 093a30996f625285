package news_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minju-kim98/personal-ai-hub/internal/news"
	"github.com/minju-kim98/personal-ai-hub/internal/retry"
	"github.com/minju-kim98/personal-ai-hub/internal/store/memory"
	"github.com/minju-kim98/personal-ai-hub/internal/testutil"
	"github.com/minju-kim98/personal-ai-hub/model"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>test</title>
  <item>
    <title>금리 동결</title>
    <link>https://news.example.com/1</link>
    <description>&lt;p&gt;한국은행이 &lt;b&gt;기준금리&lt;/b&gt;를 동결했다.&lt;/p&gt;</description>
    <pubDate>Mon, 05 Oct 2026 09:00:00 +0900</pubDate>
  </item>
  <item>
    <title>반도체 수출 증가</title>
    <link>https://news.example.com/2</link>
    <description>반도체 수출이 늘었다.</description>
  </item>
  <item>
    <title></title>
    <link>https://news.example.com/untitled</link>
  </item>
  <item>
    <title>링크 없음</title>
  </item>
</channel>
</rss>`

var fixedNow = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetcher(opts ...news.FetcherOption) *news.Fetcher {
	base := []news.FetcherOption{
		news.WithRetry(retry.Disabled()),
		news.WithFetcherClock(func() time.Time { return fixedNow }),
	}
	return news.NewFetcher(append(base, opts...)...)
}

func TestFetchParsesFeed(t *testing.T) {
	srv := feedServer(t, rss)
	feed := news.Feed{URL: srv.URL, Source: "테스트", Category: "economy"}

	got, err := fetcher().Fetch(context.Background(), feed)
	require.NoError(t, err)
	require.Len(t, got, 2, "entries without title or link are dropped")

	assert.Equal(t, "금리 동결", got[0].Title)
	assert.Equal(t, "https://news.example.com/1", got[0].URL)
	assert.Equal(t, "테스트", got[0].Source)
	assert.Equal(t, "economy", got[0].Category)
	assert.Equal(t, "한국은행이 기준금리를 동결했다.", got[0].OriginalContent)
	assert.True(t, got[0].PublishedAt.Equal(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)), "got %v", got[0].PublishedAt)

	assert.True(t, got[1].PublishedAt.Equal(fixedNow), "missing date falls back to now")
}

func TestFetchPerFeedCap(t *testing.T) {
	srv := feedServer(t, rss)
	got, err := fetcher(news.WithPerFeed(1)).Fetch(context.Background(), news.Feed{URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	f := fetcher(news.WithRetry(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}))
	got, err := f.Fetch(context.Background(), news.Feed{URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.EqualValues(t, 3, hits.Load())
}

func TestFetchNotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := fetcher(news.WithRetry(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}))
	_, err := f.Fetch(context.Background(), news.Feed{URL: srv.URL})
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetchMalformedFeed(t *testing.T) {
	srv := feedServer(t, "not a feed")
	_, err := fetcher().Fetch(context.Background(), news.Feed{URL: srv.URL})
	assert.Error(t, err)
}

func TestSummarizer(t *testing.T) {
	ctx := context.Background()

	t.Run("parses reply", func(t *testing.T) {
		gw := testutil.NewGateway().On(model.AliasGemini3Flash, "금리 동결",
			testutil.Text("요약: 기준금리가 동결됐다.\n감정: neutral"))
		a := &news.Article{Title: "금리 동결", OriginalContent: "본문"}

		news.NewSummarizer(gw, nil).Summarize(ctx, a)
		assert.Equal(t, "기준금리가 동결됐다.", a.Summary)
		assert.Equal(t, news.SentimentNeutral, a.Sentiment)
	})

	t.Run("falls back on failure", func(t *testing.T) {
		gw := testutil.NewGateway().Default(testutil.Fail(errors.New("boom")))
		a := &news.Article{Title: "t", OriginalContent: "짧은 본문", Sentiment: news.SentimentPositive}

		news.NewSummarizer(gw, nil).Summarize(ctx, a)
		assert.Equal(t, "짧은 본문...", a.Summary)
		assert.Equal(t, news.SentimentNeutral, a.Sentiment)
	})

	t.Run("nil gateway", func(t *testing.T) {
		a := &news.Article{OriginalContent: string(make([]rune, 300))}
		news.NewSummarizer(nil, nil).Summarize(ctx, a)
		assert.Equal(t, 203, len([]rune(a.Summary)))
	})
}

func TestRedisSeenCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	cache := news.NewRedisSeenCache(client, time.Hour)
	seen, err := cache.Seen(ctx, "https://news.example.com/1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, cache.Mark(ctx, "https://news.example.com/1"))
	seen, err = cache.Seen(ctx, "https://news.example.com/1")
	require.NoError(t, err)
	assert.True(t, seen)

	mr.FastForward(2 * time.Hour)
	seen, err = cache.Seen(ctx, "https://news.example.com/1")
	require.NoError(t, err)
	assert.False(t, seen, "entries expire")
}

func newIngestor(t *testing.T, store *memory.Store, gw *testutil.Gateway, feeds []news.Feed, opts ...news.IngestorOption) *news.Ingestor {
	t.Helper()
	base := []news.IngestorOption{
		news.WithFeeds(feeds),
		news.WithFeedDelay(0),
		news.WithClock(func() time.Time { return fixedNow }),
	}
	return news.NewIngestor(fetcher(), news.NewSummarizer(gw, nil), store, append(base, opts...)...)
}

func TestIngestorStoresNewArticles(t *testing.T) {
	srv := feedServer(t, rss)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	store := memory.New()
	gw := testutil.NewGateway().Default(testutil.Text("요약: 요약문\n감정: positive"))
	feeds := []news.Feed{
		{URL: broken.URL, Source: "깨짐", Category: "tech"},
		{URL: srv.URL, Source: "테스트", Category: "economy"},
	}
	ing := newIngestor(t, store, gw, feeds)
	ctx := context.Background()

	stats, err := ing.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, news.Stats{Fetched: 2, Stored: 2}, stats)

	list, err := store.ListArticles(ctx, "economy", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "요약문", list[0].Summary)
	assert.Equal(t, news.SentimentPositive, list[0].Sentiment)

	stats, err = ing.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, news.Stats{Fetched: 2, Skipped: 2}, stats)
	assert.Equal(t, 2, gw.Count(model.AliasGemini3Flash, ""), "known articles are not summarized again")
}

func TestIngestorSeenCacheShortCircuits(t *testing.T) {
	srv := feedServer(t, rss)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := news.NewRedisSeenCache(client, time.Hour)
	ctx := context.Background()
	require.NoError(t, cache.Mark(ctx, "https://news.example.com/1"))

	store := memory.New()
	gw := testutil.NewGateway().Default(testutil.Text("요약: s\n감정: neutral"))
	ing := newIngestor(t, store, gw, []news.Feed{{URL: srv.URL, Category: "economy"}}, news.WithSeenCache(cache))

	stats, err := ing.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, news.Stats{Fetched: 2, Stored: 1, Skipped: 1}, stats)

	seen, err := cache.Seen(ctx, "https://news.example.com/2")
	require.NoError(t, err)
	assert.True(t, seen, "stored articles are marked")
}

func TestIngestorCancelled(t *testing.T) {
	srv := feedServer(t, rss)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := newIngestor(t, memory.New(), testutil.NewGateway(), []news.Feed{{URL: srv.URL}})
	_, err := ing.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestorCleanup(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	for i, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour} {
		_, err := store.CreateArticle(ctx, &news.Article{
			Title:       "a",
			URL:         fmt.Sprintf("https://news.example.com/%d", i),
			Category:    "economy",
			PublishedAt: fixedNow.Add(-age),
		})
		require.NoError(t, err)
	}

	ing := newIngestor(t, store, nil, nil)
	n, err := ing.Cleanup(ctx, news.DefaultRetention)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := store.ListArticles(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSchedulerRunNow(t *testing.T) {
	srv := feedServer(t, rss)
	store := memory.New()
	gw := testutil.NewGateway().Default(testutil.Text("요약: s\n감정: neutral"))
	ing := newIngestor(t, store, gw, []news.Feed{{URL: srv.URL, Category: "economy"}})
	s := news.NewScheduler(ing, nil, news.WithLocation(time.UTC))
	ctx := context.Background()

	res, err := s.RunNow(ctx, news.JobFetch)
	require.NoError(t, err)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 2, res.Stats.Stored)

	res, err = s.RunNow(ctx, news.JobCleanup)
	require.NoError(t, err)
	assert.Equal(t, news.JobCleanup, res.Job)

	_, err = s.RunNow(ctx, "news_publish")
	assert.ErrorIs(t, err, news.ErrUnknownJob)
}

func TestSchedulerStartStop(t *testing.T) {
	s := news.NewScheduler(newIngestor(t, memory.New(), nil, nil), nil)
	require.NoError(t, s.Start())
	assert.Equal(t, 3, s.Entries())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
