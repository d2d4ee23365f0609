package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tool discovery metrics
	discoveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolbridge_tool_discovery_failures_total",
		Help: "Total number of failed tool catalog fetches (the catalog falls back to empty)",
	})

	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toolbridge_tool_catalog_size",
		Help: "Number of tools in the cached catalog",
	})

	// Tool invocation metrics
	toolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolbridge_tool_invocations_total",
		Help: "Total number of remote tool invocations",
	}, []string{"tool", "status"})

	toolLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "toolbridge_tool_invocation_latency_seconds",
		Help:    "Remote tool invocation latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	})

	// Model backend metrics
	modelRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolbridge_model_requests_total",
		Help: "Total number of model backend requests",
	}, []string{"provider", "mode", "status"})

	modelLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "toolbridge_model_latency_seconds",
		Help:    "Model backend request latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	})

	// Orchestration metrics
	orchestrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolbridge_orchestrations_total",
		Help: "Total number of LLM orchestration requests",
	}, []string{"mode", "status"})

	orchestrationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "toolbridge_orchestration_latency_seconds",
		Help:    "End-to-end orchestration latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	})
)

// RecordDiscoveryFailure increments the fail-open discovery counter.
func RecordDiscoveryFailure() {
	discoveryFailures.Inc()
}

// RecordCatalogSize records the size of a freshly cached catalog.
func RecordCatalogSize(n int) {
	catalogSize.Set(float64(n))
}

// RecordToolInvocation records one remote tool call.
func RecordToolInvocation(tool string, start time.Time, err error) {
	toolLatency.Observe(time.Since(start).Seconds())
	toolInvocations.WithLabelValues(tool, status(err)).Inc()
}

// RecordModelRequest records one model backend call.
// mode is "text" or "tools".
func RecordModelRequest(provider, mode string, start time.Time, err error) {
	modelLatency.Observe(time.Since(start).Seconds())
	modelRequests.WithLabelValues(provider, mode, status(err)).Inc()
}

// RecordOrchestration records one orchestration request.
// mode is "fallback", "text" or "tools".
func RecordOrchestration(mode string, start time.Time, err error) {
	orchestrationLatency.Observe(time.Since(start).Seconds())
	orchestrations.WithLabelValues(mode, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
