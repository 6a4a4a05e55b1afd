// Package metrics defines the Prometheus instrumentation for the
// advising service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// LLM boundary metrics
	InterpretRequestsTotal  *prometheus.CounterVec
	InterpretDuration       *prometheus.HistogramVec
	SummarizeRequestsTotal  *prometheus.CounterVec
	SummarizeDuration       *prometheus.HistogramVec
	SummarizeFallbacksTotal prometheus.Counter
	LLMRetriesTotal         *prometheus.CounterVec

	// Core pipeline metrics
	FilterRunsTotal      *prometheus.CounterVec
	RowsFilteredTotal    prometheus.Counter
	SessionCommandsTotal *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPDurationSeconds *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Transcript log metrics
	TranscriptRecordsTotal   prometheus.Counter
	TranscriptRotationsTotal prometheus.Counter
	TranscriptUploadsTotal   *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		InterpretRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_interpret_requests_total",
				Help: "Total number of LLM interpretation requests by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error, timeout, disabled
		),
		InterpretDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transferbot_interpret_duration_seconds",
				Help:    "Duration of LLM interpretation requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		SummarizeRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_summarize_requests_total",
				Help: "Total number of LLM summarize requests by provider and status",
			},
			[]string{"provider", "status"},
		),
		SummarizeDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transferbot_summarize_duration_seconds",
				Help:    "Duration of LLM summarize requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		SummarizeFallbacksTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "transferbot_summarize_fallbacks_total",
				Help: "Times the deterministic plain rendering replaced an unavailable or failed summarizer",
			},
		),
		LLMRetriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_llm_retries_total",
				Help: "Total number of LLM call retries by provider",
			},
			[]string{"provider"},
		),
		FilterRunsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_filter_runs_total",
				Help: "Row filter engine runs by campus",
			},
			[]string{"campus"},
		),
		RowsFilteredTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "transferbot_rows_filtered_total",
				Help: "Total rows excluded by the filter engine",
			},
		),
		SessionCommandsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_session_commands_total",
				Help: "Session commands processed by kind",
			},
			[]string{"command"},
		),
		ActiveSessions: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "transferbot_active_sessions",
				Help: "Number of live conversation sessions",
			},
		),
		HTTPRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		HTTPDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transferbot_http_duration_seconds",
				Help:    "HTTP request duration by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_http_errors_total",
				Help: "HTTP error responses by route and status code",
			},
			[]string{"route", "status"},
		),
		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_ratelimiter_dropped_total",
				Help: "Requests dropped by rate limiters",
			},
			[]string{"limiter"}, // limiter: llm, user
		),
		TranscriptRecordsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "transferbot_transcript_records_total",
				Help: "Conversation transcript records written",
			},
		),
		TranscriptRotationsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "transferbot_transcript_rotations_total",
				Help: "Transcript log rotations performed",
			},
		),
		TranscriptUploadsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferbot_transcript_uploads_total",
				Help: "Transcript archive uploads by status",
			},
			[]string{"status"},
		),
	}
}

// RecordInterpret records one interpretation request outcome.
func (m *Metrics) RecordInterpret(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.InterpretRequestsTotal.WithLabelValues(provider, status).Inc()
	m.InterpretDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordSummarize records one summarize request outcome.
func (m *Metrics) RecordSummarize(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.SummarizeRequestsTotal.WithLabelValues(provider, status).Inc()
	m.SummarizeDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordSummarizeFallback records one deterministic-rendering fallback.
func (m *Metrics) RecordSummarizeFallback() {
	if m == nil {
		return
	}
	m.SummarizeFallbacksTotal.Inc()
}

// RecordLLMRetry records one retried LLM call.
func (m *Metrics) RecordLLMRetry(provider string) {
	if m == nil {
		return
	}
	m.LLMRetriesTotal.WithLabelValues(provider).Inc()
}

// RecordFilterRun records one filter engine run and its excluded count.
func (m *Metrics) RecordFilterRun(campus string, excluded int) {
	if m == nil {
		return
	}
	m.FilterRunsTotal.WithLabelValues(campus).Inc()
	m.RowsFilteredTotal.Add(float64(excluded))
}

// RecordSessionCommand records one processed session command.
func (m *Metrics) RecordSessionCommand(command string) {
	if m == nil {
		return
	}
	m.SessionCommandsTotal.WithLabelValues(command).Inc()
}

// SetActiveSessions updates the live session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// RecordRateLimiterDrop records one dropped request.
func (m *Metrics) RecordRateLimiterDrop(limiter string) {
	if m == nil {
		return
	}
	m.RateLimiterDropped.WithLabelValues(limiter).Inc()
}

// RecordTranscriptRecord counts one transcript record written.
func (m *Metrics) RecordTranscriptRecord() {
	if m == nil {
		return
	}
	m.TranscriptRecordsTotal.Inc()
}

// RecordTranscriptRotation counts one transcript rotation.
func (m *Metrics) RecordTranscriptRotation() {
	if m == nil {
		return
	}
	m.TranscriptRotationsTotal.Inc()
}

// RecordTranscriptUpload counts one archive upload attempt.
func (m *Metrics) RecordTranscriptUpload(status string) {
	if m == nil {
		return
	}
	m.TranscriptUploadsTotal.WithLabelValues(status).Inc()
}
