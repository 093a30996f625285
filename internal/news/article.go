package news

import (
	"context"
	"time"
)

// Sentiment is the tone assigned to an article by the summarizer.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Article is one stored news item.
type Article struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Source          string    `json:"source"`
	Category        string    `json:"category"`
	OriginalContent string    `json:"original_content,omitempty"`
	Summary         string    `json:"summary"`
	Sentiment       Sentiment `json:"sentiment"`
	PublishedAt     time.Time `json:"published_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// ArticleStore persists articles, unique by URL.
type ArticleStore interface {
	ArticleExists(ctx context.Context, url string) (bool, error)
	// CreateArticle stores a and reports false when its URL is already present.
	CreateArticle(ctx context.Context, a *Article) (bool, error)
	// ListArticles returns the newest articles first. An empty category lists all.
	ListArticles(ctx context.Context, category string, limit int) ([]Article, error)
	// DeleteArticlesBefore removes articles published before t and returns the count.
	DeleteArticlesBefore(ctx context.Context, t time.Time) (int, error)
}
