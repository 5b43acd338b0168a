// Package observability exposes prometheus instrumentation for the
// negotiation pipeline and for live sessions.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the castlet collectors. A nil *Metrics is valid and
// records nothing, so instrumentation stays optional.
type Metrics struct {
	NegotiationAttempts *prometheus.CounterVec
	NegotiationFailures *prometheus.CounterVec
	SessionsEstablished *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	MessagesPosted      prometheus.Counter
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NegotiationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "castlet",
			Name:      "negotiation_attempts_total",
			Help:      "Transport create attempts, by transport.",
		}, []string{"transport"}),
		NegotiationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "castlet",
			Name:      "negotiation_failures_total",
			Help:      "Transport create failures, by transport.",
		}, []string{"transport"}),
		SessionsEstablished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "castlet",
			Name:      "sessions_established_total",
			Help:      "Sessions successfully bound, by winning transport.",
		}, []string{"transport"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "castlet",
			Name:      "sessions_active",
			Help:      "Sessions currently connected.",
		}),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "castlet",
			Name:      "messages_posted_total",
			Help:      "Application payloads posted through session facades.",
		}),
	}
	reg.MustRegister(
		m.NegotiationAttempts,
		m.NegotiationFailures,
		m.SessionsEstablished,
		m.ActiveSessions,
		m.MessagesPosted,
	)
	return m
}

// Attempt records a transport create attempt.
func (m *Metrics) Attempt(transport string) {
	if m == nil {
		return
	}
	m.NegotiationAttempts.WithLabelValues(transport).Inc()
}

// Failure records a transport create failure.
func (m *Metrics) Failure(transport string) {
	if m == nil {
		return
	}
	m.NegotiationFailures.WithLabelValues(transport).Inc()
}

// Established records a successful bind and bumps the active gauge.
func (m *Metrics) Established(transport string) {
	if m == nil {
		return
	}
	m.SessionsEstablished.WithLabelValues(transport).Inc()
	m.ActiveSessions.Inc()
}

// Dropped decrements the active gauge.
func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

// Posted records one posted payload.
func (m *Metrics) Posted() {
	if m == nil {
		return
	}
	m.MessagesPosted.Inc()
}
