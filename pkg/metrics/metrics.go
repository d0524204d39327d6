package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goodmorning_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"method", "path", "status"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goodmorning_llm_request_duration_seconds",
			Help:    "Language model request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider", "purpose", "status"},
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodmorning_sync_runs_total",
			Help: "Per-user sync steps by kind and outcome",
		},
		[]string{"kind", "status"}, // kind: calendar, gmail; status: success, error, skipped
	)

	SuggestionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goodmorning_suggestions_created_total",
			Help: "Email actions created by the extraction pipeline",
		},
	)

	CandidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodmorning_candidates_dropped_total",
			Help: "Extraction candidates dropped before persistence",
		},
		[]string{"reason"}, // reason: duplicate, unresolved
	)

	MalformedExtractions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goodmorning_malformed_extractions_total",
			Help: "Extraction responses that could not be parsed",
		},
	)

	SummaryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodmorning_summary_requests_total",
			Help: "Daily summary lookups by result",
		},
		[]string{"result"}, // result: hit, generated, fallback
	)

	PushNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodmorning_push_notifications_total",
			Help: "Push notifications sent by kind and outcome",
		},
		[]string{"kind", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordLLMRequest(provider, purpose, status string, duration time.Duration) {
	LLMRequestDuration.WithLabelValues(provider, purpose, status).Observe(duration.Seconds())
}

func IncrementSyncRun(kind, status string) {
	SyncRuns.WithLabelValues(kind, status).Inc()
}

func AddSuggestionsCreated(n int) {
	if n > 0 {
		SuggestionsCreated.Add(float64(n))
	}
}

func AddCandidatesDropped(reason string, n int) {
	if n > 0 {
		CandidatesDropped.WithLabelValues(reason).Add(float64(n))
	}
}

func IncrementMalformedExtraction() {
	MalformedExtractions.Inc()
}

func IncrementSummaryRequest(result string) {
	SummaryRequests.WithLabelValues(result).Inc()
}

func IncrementPushNotification(kind, status string) {
	PushNotifications.WithLabelValues(kind, status).Inc()
}
