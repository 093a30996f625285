package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		summary   string
		sentiment Sentiment
	}{
		{"both lines", "요약: 금리가 동결됐다.\n감정: negative", "금리가 동결됐다.", SentimentNegative},
		{"padded", "  요약:  시장이 올랐다. \n 감정: Positive ", "시장이 올랐다.", SentimentPositive},
		{"unknown sentiment", "요약: 발표가 있었다.\n감정: 혼합", "발표가 있었다.", SentimentNeutral},
		{"no summary", "감정: positive", "", SentimentPositive},
		{"free text", "잘 모르겠습니다", "", SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, sentiment := parseSummary(tt.reply)
			assert.Equal(t, tt.summary, summary)
			assert.Equal(t, tt.sentiment, sentiment)
		})
	}
}
