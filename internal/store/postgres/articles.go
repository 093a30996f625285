package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minju-kim98/personal-ai-hub/internal/news"
)

var _ news.ArticleStore = (*Store)(nil)

func (s *Store) ArticleExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM news_articles WHERE url = $1)`, url,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("article exists: %w", err)
	}
	return exists, nil
}

func (s *Store) CreateArticle(ctx context.Context, a *news.Article) (bool, error) {
	id := a.ID
	if id == "" {
		id = s.newID()
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	sentiment := a.Sentiment
	if sentiment == "" {
		sentiment = news.SentimentNeutral
	}

	var gotID string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO news_articles
		   (id, title, url, source, category, original_content, summary, sentiment, published_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id`,
		id, a.Title, a.URL, a.Source, a.Category, a.OriginalContent, a.Summary,
		string(sentiment), a.PublishedAt, created,
	).Scan(&gotID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create article: %w", err)
	}
	a.ID, a.CreatedAt, a.Sentiment = gotID, created, sentiment
	return true, nil
}

func (s *Store) ListArticles(ctx context.Context, category string, limit int) ([]news.Article, error) {
	// LIMIT NULL means no limit.
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, url, source, category, original_content, summary, sentiment, published_at, created_at
		 FROM news_articles
		 WHERE $1 = '' OR category = $1
		 ORDER BY published_at DESC, id DESC
		 LIMIT $2`,
		category, lim,
	)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []news.Article
	for rows.Next() {
		var (
			a         news.Article
			sentiment string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.Source, &a.Category, &a.OriginalContent,
			&a.Summary, &sentiment, &a.PublishedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Sentiment = news.Sentiment(sentiment)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteArticlesBefore(ctx context.Context, t time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM news_articles WHERE published_at < $1`, t)
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
