package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "procurement",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s, LLM calls are slow
		},
		[]string{"method", "route"},
	)

	llmCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of generative model calls.",
		},
		[]string{"purpose", "status"},
	)

	llmDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "procurement",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of generative model calls.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"purpose"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "mail",
			Name:      "sent_total",
			Help:      "Outbound RFQ emails by result.",
		},
		[]string{"status"},
	)

	inboundReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "mail",
			Name:      "inbound_total",
			Help:      "Inbound vendor emails by outcome.",
		},
		[]string{"source", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		llmCalls,
		llmDuration,
		emailsSent,
		inboundReplies,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveLLMCall(purpose string, err error, d time.Duration) {
	if purpose == "" {
		purpose = "unknown"
	}
	llmCalls.WithLabelValues(purpose, statusLabel(err)).Inc()
	llmDuration.WithLabelValues(purpose).Observe(d.Seconds())
}

func RecordEmailSent(err error) {
	emailsSent.WithLabelValues(statusLabel(err)).Inc()
}

// RecordInbound counts an inbound email; source is "webhook" or "imap".
func RecordInbound(source, outcome string) {
	inboundReplies.WithLabelValues(source, outcome).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
