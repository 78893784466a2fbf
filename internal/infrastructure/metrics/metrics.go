package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inbound"

var (
	// Registry holds the relay's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "route"},
	)

	analysisOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "calls_total",
			Help:      "Call analyses by outcome.",
		},
		[]string{"outcome"},
	)

	llmDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Latency of LLM completion requests.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		},
		[]string{"provider", "success"},
	)

	leadUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "upserts_total",
			Help:      "Lead upserts by source and result (created, updated, skipped, failed).",
		},
		[]string{"source", "result"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "messages_total",
			Help:      "Outbound email attempts by kind, SMTP host and result.",
		},
		[]string{"kind", "host", "result"},
	)

	documentsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "extractions_total",
			Help:      "Document text extractions by MIME type and result.",
		},
		[]string{"mime", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		analysisOutcomes,
		llmDuration,
		leadUpserts,
		emailsSent,
		documentsExtracted,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request.
func ObserveHTTP(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAnalysis records a call analysis outcome (success, not_found, no_transcript, llm_error, ...).
func RecordAnalysis(outcome string) {
	analysisOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveLLM records the latency of one completion request.
func ObserveLLM(provider string, success bool, elapsed time.Duration) {
	llmDuration.WithLabelValues(provider, boolLabel(success)).Observe(elapsed.Seconds())
}

// RecordLeadUpsert records a lead upsert result.
func RecordLeadUpsert(source, result string) {
	leadUpserts.WithLabelValues(source, result).Inc()
}

// RecordEmail records an outbound email attempt.
func RecordEmail(kind, host, result string) {
	emailsSent.WithLabelValues(kind, host, result).Inc()
}

// RecordExtraction records a document extraction attempt.
func RecordExtraction(mime, result string) {
	documentsExtracted.WithLabelValues(mime, result).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
