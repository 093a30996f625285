package memory

import (
	"context"
	"sort"
	"time"

	"github.com/minju-kim98/personal-ai-hub/internal/news"
)

var _ news.ArticleStore = (*Store)(nil)

func (s *Store) ArticleExists(_ context.Context, url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.articles[url]
	return ok, nil
}

func (s *Store) CreateArticle(_ context.Context, a *news.Article) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[a.URL]; ok {
		return false, nil
	}
	rec := *a
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	raw, err := encode(rec)
	if err != nil {
		return false, err
	}
	s.articles[rec.URL] = raw
	a.ID, a.CreatedAt = rec.ID, rec.CreatedAt
	return true, nil
}

func (s *Store) ListArticles(_ context.Context, category string, limit int) ([]news.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []news.Article
	for _, raw := range s.articles {
		a, err := decode[news.Article](raw)
		if err != nil {
			return nil, err
		}
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DeleteArticlesBefore(_ context.Context, t time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for url, raw := range s.articles {
		a, err := decode[news.Article](raw)
		if err != nil {
			return n, err
		}
		if a.PublishedAt.Before(t) {
			delete(s.articles, url)
			n++
		}
	}
	return n, nil
}
