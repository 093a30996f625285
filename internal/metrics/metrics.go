// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/minju-kim98/personal-ai-hub/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsStarted      = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_jobs_started_total", Help: "Generation jobs launched"}, []string{"kind"})
	JobsFinished     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_jobs_finished_total", Help: "Generation jobs that reached a terminal status"}, []string{"kind", "status"})
	JobsInFlight     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "aihub_jobs_inflight", Help: "Generation jobs currently running"})
	StepDuration     = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "aihub_workflow_step_seconds", Help: "Workflow step latency", Buckets: prometheus.ExponentialBuckets(0.05, 2, 14)}, []string{"workflow", "step"})
	ExtractFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_extract_fallbacks_total", Help: "Model replies that could not be decoded and fell back to defaults"}, []string{"label"})
	ModelRequests    = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_model_requests_total", Help: "Gateway calls by outcome"}, []string{"provider", "model", "outcome"})
	ModelLatency     = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "aihub_model_request_seconds", Help: "Gateway call latency", Buckets: prometheus.ExponentialBuckets(0.25, 2, 12)}, []string{"provider", "model"})
	ModelTokens      = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_model_tokens_total", Help: "Tokens consumed through the gateway"}, []string{"provider", "direction"})
	ModelCost        = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_model_cost_usd_total", Help: "Estimated spend at list price"}, []string{"provider", "model"})
	NewsArticles     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aihub_news_articles_total", Help: "News ingestion results"}, []string{"result"})
)

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			JobsStarted,
			JobsFinished,
			JobsInFlight,
			StepDuration,
			ExtractFallbacks,
			ModelRequests,
			ModelLatency,
			ModelTokens,
			ModelCost,
			NewsArticles,
		)
	})
}

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// ObserveGateway records one gateway event.
func ObserveGateway(ev client.Event) {
	provider := string(ev.Provider)
	switch ev.Type {
	case client.EventRequestComplete:
		ModelRequests.WithLabelValues(provider, ev.Model, "ok").Inc()
		ModelLatency.WithLabelValues(provider, ev.Model).Observe(ev.Duration.Seconds())
		if ev.Usage != nil {
			ModelTokens.WithLabelValues(provider, "input").Add(float64(ev.Usage.InputTokens))
			ModelTokens.WithLabelValues(provider, "output").Add(float64(ev.Usage.OutputTokens))
		}
		if ev.CostUSD > 0 {
			ModelCost.WithLabelValues(provider, ev.Model).Add(ev.CostUSD)
		}
	case client.EventRequestError:
		ModelRequests.WithLabelValues(provider, ev.Model, "error").Inc()
		ModelLatency.WithLabelValues(provider, ev.Model).Observe(ev.Duration.Seconds())
	}
}

// ConsumeGateway drains events until ctx is done or the channel closes.
func ConsumeGateway(ctx context.Context, events <-chan client.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			ObserveGateway(ev)
		}
	}
}
