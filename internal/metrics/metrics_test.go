package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/minju-kim98/personal-ai-hub/client"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGateway(t *testing.T) {
	ok := ModelRequests.WithLabelValues("openai", "gpt-5-nano", "ok")
	failed := ModelRequests.WithLabelValues("openai", "gpt-5-nano", "error")
	cost := ModelCost.WithLabelValues("openai", "gpt-5-nano")
	before, beforeErr, beforeCost := testutil.ToFloat64(ok), testutil.ToFloat64(failed), testutil.ToFloat64(cost)

	ObserveGateway(client.Event{Type: client.EventRequestStart, Provider: hub.ProviderOpenAI, Model: "gpt-5-nano"})
	ObserveGateway(client.Event{
		Type:     client.EventRequestComplete,
		Provider: hub.ProviderOpenAI,
		Model:    "gpt-5-nano",
		Duration: time.Second,
		Usage:    &hub.Usage{InputTokens: 10, OutputTokens: 2},
		CostUSD:  0.5,
	})
	ObserveGateway(client.Event{Type: client.EventRequestError, Provider: hub.ProviderOpenAI, Model: "gpt-5-nano"})

	assert.Equal(t, before+1, testutil.ToFloat64(ok))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(failed))
	assert.InDelta(t, beforeCost+0.5, testutil.ToFloat64(cost), 1e-9)
}

func TestConsumeGatewayStopsOnClose(t *testing.T) {
	ch := make(chan client.Event, 1)
	ch <- client.Event{Type: client.EventRequestError, Provider: hub.ProviderGoogle, Model: "gemini-3-flash-preview"}
	close(ch)

	done := make(chan struct{})
	go func() {
		ConsumeGateway(context.Background(), ch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ConsumeGateway did not return after channel close")
	}
}

func TestHandler(t *testing.T) {
	h := Handler()
	// second call must not panic on duplicate registration
	h = Handler()

	JobsInFlight.Set(0)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aihub_jobs_inflight")
}
