package api

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/minju-kim98/personal-ai-hub/internal/news"
)

const (
	defaultNewsLimit = 20
	maxNewsLimit     = 100
)

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	if s.articles == nil {
		writeError(w, http.StatusServiceUnavailable, "news is disabled")
		return
	}

	q := r.URL.Query()
	category := q.Get("category")
	if category != "" && !slices.Contains(news.Categories(), category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	limit := defaultNewsLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxNewsLimit)
	}

	articles, err := s.articles.ListArticles(r.Context(), category, limit)
	if err != nil {
		s.log(r).ErrorContext(r.Context(), "list news failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list news")
		return
	}
	if articles == nil {
		articles = []news.Article{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// handleRefreshNews starts an ingestion run detached from the request. A
// refresh already in flight is reported as a conflict.
func (s *Server) handleRefreshNews(w http.ResponseWriter, r *http.Request) {
	if s.news == nil {
		writeError(w, http.StatusServiceUnavailable, "news is disabled")
		return
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "refresh already running")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	logger := s.log(r)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer s.refreshing.Store(false)
		res, err := s.news.RunNow(ctx, news.JobFetch)
		if err != nil {
			logger.ErrorContext(ctx, "news refresh failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "news refresh finished", "stored", res.Stats.Stored)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "processing",
		"message": "뉴스 수집이 시작되었습니다.",
	})
}
