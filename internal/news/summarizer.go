package news

import (
	"context"
	"log/slog"
	"strings"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/minju-kim98/personal-ai-hub/model"
)

const (
	summaryModel       = model.AliasGemini3Flash
	summaryTemperature = 0.3
	promptContentRunes = 1000
	fallbackRunes      = 200
)

// Invoker is the slice of the model gateway the summarizer needs.
type Invoker interface {
	Invoke(ctx context.Context, alias, prompt string, opts ...hub.Option) (string, error)
}

// Summarizer writes a short summary and a sentiment for each article.
// Without a gateway, or when a call fails, it falls back to the opening of
// the article text and a neutral sentiment.
type Summarizer struct {
	gateway Invoker
	logger  *slog.Logger
}

// NewSummarizer creates a summarizer. A nil gateway always falls back.
func NewSummarizer(gateway Invoker, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{gateway: gateway, logger: logger}
}

// Summarize fills a.Summary and a.Sentiment. It never fails.
func (s *Summarizer) Summarize(ctx context.Context, a *Article) {
	if s.gateway == nil {
		fallbackSummary(a)
		return
	}

	content := truncateRunes(a.OriginalContent, promptContentRunes)
	reply, err := s.gateway.Invoke(ctx, summaryModel, summaryPrompt(a.Title, content),
		hub.WithTemperature(summaryTemperature))
	if err != nil {
		s.logger.WarnContext(ctx, "article summary failed", "url", a.URL, "error", err)
		fallbackSummary(a)
		return
	}

	summary, sentiment := parseSummary(reply)
	if summary == "" {
		summary = truncateRunes(content, fallbackRunes) + "..."
	}
	a.Summary, a.Sentiment = summary, sentiment
}

func summaryPrompt(title, content string) string {
	return "다음 뉴스 기사를 분석해주세요.\n\n" +
		"제목: " + title + "\n" +
		"내용: " + content + "\n\n" +
		"다음 형식으로 응답해주세요:\n" +
		"요약: (2-3문장으로 핵심 내용 요약)\n" +
		"감정: (positive/negative/neutral 중 하나)"
}

// parseSummary reads the "요약:" and "감정:" lines of a reply.
func parseSummary(reply string) (string, Sentiment) {
	var summary string
	sentiment := SentimentNeutral
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "요약:"); ok {
			summary = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "감정:"); ok {
			sentiment = normalizeSentiment(v)
		}
	}
	return summary, sentiment
}

func normalizeSentiment(v string) Sentiment {
	v = strings.ToLower(v)
	switch {
	case strings.Contains(v, "positive") || strings.Contains(v, "긍정"):
		return SentimentPositive
	case strings.Contains(v, "negative") || strings.Contains(v, "부정"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func fallbackSummary(a *Article) {
	a.Summary = truncateRunes(a.OriginalContent, fallbackRunes) + "..."
	a.Sentiment = SentimentNeutral
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
