package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "interview_gateway_active_sessions",
		Help: "Number of active audio sessions",
	})

	totalSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_gateway_sessions_total",
		Help: "Total number of audio sessions processed",
	})

	sessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_gateway_session_duration_seconds",
		Help:    "Duration of audio sessions in seconds",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
	})

	// ASR metrics
	asrRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_gateway_asr_requests_total",
		Help: "Total number of transcription requests",
	}, []string{"status"})

	asrLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_gateway_asr_latency_seconds",
		Help:    "Transcription latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	})

	// Pipeline metrics
	utterancesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_gateway_utterances_emitted_total",
		Help: "Total number of final transcripts sent to clients",
	})

	utterancesSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_gateway_utterances_suppressed_total",
		Help: "Total number of utterances suppressed before emission",
	}, []string{"reason"}) // reason: "too_short", "duplicate", "queue_full"

	evidenceRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_gateway_evidence_records_total",
		Help: "Total number of evidence records extracted from utterances",
	})

	audioBytesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_gateway_audio_bytes_total",
		Help: "Total audio bytes received from clients",
	})

	reportsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_gateway_reports_total",
		Help: "Total number of reports built",
	})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_gateway_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Circuit breaker metrics
	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "interview_gateway_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"service"})

	circuitBreakerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_gateway_circuit_breaker_failures_total",
		Help: "Total circuit breaker failures",
	}, []string{"service"})
)

// SessionMetrics tracks metrics for a single audio session
type SessionMetrics struct {
	sessionID    string
	startTime    time.Time
	asrStartTime time.Time
	mu           sync.Mutex
}

// NewSessionMetrics creates a new metrics tracker for an audio session
func NewSessionMetrics(sessionID string) *SessionMetrics {
	return &SessionMetrics{
		sessionID: sessionID,
		startTime: time.Now(),
	}
}

// RecordSessionStart records the start of a session
func (m *SessionMetrics) RecordSessionStart() {
	activeSessions.Inc()
	totalSessions.Inc()
}

// RecordSessionEnd records the end of a session
func (m *SessionMetrics) RecordSessionEnd() {
	activeSessions.Dec()
	sessionDuration.Observe(time.Since(m.startTime).Seconds())
}

// RecordASRStart records the start of a transcription request
func (m *SessionMetrics) RecordASRStart() {
	m.mu.Lock()
	m.asrStartTime = time.Now()
	m.mu.Unlock()
}

// RecordASREnd records the end of a transcription request
func (m *SessionMetrics) RecordASREnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.asrStartTime.IsZero() {
		asrLatency.Observe(time.Since(m.asrStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	asrRequests.WithLabelValues(status).Inc()
}

// RecordEmission records a final transcript sent to the client
func (m *SessionMetrics) RecordEmission() {
	utterancesEmitted.Inc()
}

// RecordSuppressed records an utterance suppressed before emission
func (m *SessionMetrics) RecordSuppressed(reason string) {
	utterancesSuppressed.WithLabelValues(reason).Inc()
}

// RecordEvidence records evidence records extracted from one utterance
func (m *SessionMetrics) RecordEvidence(count int) {
	evidenceRecords.Add(float64(count))
}

// RecordAudioBytes records audio bytes received
func (m *SessionMetrics) RecordAudioBytes(bytes int64) {
	audioBytesProcessed.Add(float64(bytes))
}

// RecordError records an error
func (m *SessionMetrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordReportBuilt increments the report counter
func RecordReportBuilt() {
	reportsBuilt.Inc()
}

// UpdateCircuitBreakerState updates circuit breaker state metric
func UpdateCircuitBreakerState(service string, state int) {
	circuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// IncrementCircuitBreakerFailures increments circuit breaker failure counter
func IncrementCircuitBreakerFailures(service string) {
	circuitBreakerFailures.WithLabelValues(service).Inc()
}
