// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voice_tutor"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Call metrics
	CallsTotal     prometheus.Counter
	CallsEnded     *prometheus.CounterVec
	SessionsActive prometheus.Gauge

	// Turn metrics
	TurnsTotal   *prometheus.CounterVec
	TurnDuration prometheus.Histogram

	// Transcription metrics
	TranscriptionsTotal *prometheus.CounterVec
	STTErrors           *prometheus.CounterVec

	// Grading metrics
	VerdictsTotal *prometheus.CounterVec

	// Session store metrics
	EvictionsTotal *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Results sink metrics
	ResultsSinkErrors *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of tutoring calls started",
		}),
		CallsEnded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_ended_total",
			Help:      "Total number of calls ended",
		}, []string{"status"}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live call sessions in the store",
		}),

		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of processed webhook turns",
		}, []string{"state"}),
		TurnDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Duration of one webhook turn in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		}),

		TranscriptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Total number of resolved transcriptions by cascade tier",
		}, []string{"tier"}),
		STTErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider", "error_type"}),

		VerdictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Total number of graded answers by verdict",
		}, []string{"verdict"}),

		EvictionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_evictions_total",
			Help:      "Total number of session evictions",
		}, []string{"reason"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		ResultsSinkErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_sink_errors_total",
			Help:      "Total number of ignored results sink write failures",
		}, []string{"sink"}),
	}
}

// RecordCallStarted records a new call session being created.
func (m *Metrics) RecordCallStarted() {
	m.CallsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordCallEnded records a call leaving the store.
func (m *Metrics) RecordCallEnded(status string) {
	m.SessionsActive.Dec()
	m.CallsEnded.WithLabelValues(status).Inc()
}

// RecordTurn records one processed webhook turn.
func (m *Metrics) RecordTurn(state string, durationSeconds float64) {
	m.TurnsTotal.WithLabelValues(state).Inc()
	m.TurnDuration.Observe(durationSeconds)
}

// RecordTranscription records a resolved transcription by tier.
func (m *Metrics) RecordTranscription(tier string) {
	m.TranscriptionsTotal.WithLabelValues(tier).Inc()
}

// RecordSTTError records an STT error.
func (m *Metrics) RecordSTTError(provider, errorType string) {
	m.STTErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordVerdict records a graded answer.
func (m *Metrics) RecordVerdict(verdict string) {
	m.VerdictsTotal.WithLabelValues(verdict).Inc()
}

// RecordEviction records a session eviction.
func (m *Metrics) RecordEviction(reason string) {
	m.EvictionsTotal.WithLabelValues(reason).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordResultsSinkError records an ignored sink write failure.
func (m *Metrics) RecordResultsSinkError(sink string) {
	m.ResultsSinkErrors.WithLabelValues(sink).Inc()
}
