package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CoachMetrics holds all Prometheus metrics for the streaming bridge.
type CoachMetrics struct {
	// Session metrics
	SessionsStarted prometheus.Counter
	SessionsEnded   *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge

	// Frame metrics
	FramesReceived *prometheus.CounterVec
	FramesSent     *prometheus.CounterVec

	// Coaching metrics
	NudgesDelivered *prometheus.CounterVec

	// Failure metrics
	AgentErrors     prometheus.Counter
	PersistFailures *prometheus.CounterVec
}

// NewCoachMetrics creates a new set of coach metrics on reg.
func NewCoachMetrics(reg prometheus.Registerer) *CoachMetrics {
	factory := promauto.With(reg)

	return &CoachMetrics{
		SessionsStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meeting_coach_sessions_started_total",
				Help: "Total meeting sessions accepted",
			},
		),
		SessionsEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_coach_sessions_ended_total",
				Help: "Total meeting sessions closed, by reason",
			},
			[]string{"reason"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "meeting_coach_active_sessions",
				Help: "Meeting sessions currently streaming",
			},
		),
		FramesReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_coach_frames_received_total",
				Help: "Client frames received, by type",
			},
			[]string{"type"},
		),
		FramesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_coach_frames_sent_total",
				Help: "Frames sent to clients, by type",
			},
			[]string{"type"},
		),
		NudgesDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_coach_nudges_delivered_total",
				Help: "Nudges delivered to clients, by category",
			},
			[]string{"category"},
		),
		AgentErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meeting_coach_agent_errors_total",
				Help: "Agent connection and stream failures",
			},
		),
		PersistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_coach_persist_failures_total",
				Help: "Failed persistence calls, by operation",
			},
			[]string{"operation"},
		),
	}
}

// SessionStarted records an accepted connection
func (m *CoachMetrics) SessionStarted() {
	m.SessionsStarted.Inc()
	m.ActiveSessions.Inc()
}

// SessionEnded records a closed connection
func (m *CoachMetrics) SessionEnded(reason string) {
	m.SessionsEnded.WithLabelValues(reason).Inc()
	m.ActiveSessions.Dec()
}

func (m *CoachMetrics) FrameReceived(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.FramesReceived.WithLabelValues(kind).Inc()
}

func (m *CoachMetrics) FrameSent(kind string) {
	m.FramesSent.WithLabelValues(kind).Inc()
}

func (m *CoachMetrics) NudgeDelivered(category string) {
	m.NudgesDelivered.WithLabelValues(category).Inc()
}

func (m *CoachMetrics) AgentError() {
	m.AgentErrors.Inc()
}

func (m *CoachMetrics) PersistFailed(operation string) {
	m.PersistFailures.WithLabelValues(operation).Inc()
}
