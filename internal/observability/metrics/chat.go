package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics tracks the chat session lifecycle. It registers into the
// api server's registry so everything is scraped from one endpoint.
type ChatMetrics struct {
	activeSessions     prometheus.Gauge
	sessionsTotal      prometheus.Counter
	messagesTotal      *prometheus.CounterVec
	contactSubmissions prometheus.Counter
}

func NewChatMetrics(service string, registry *prometheus.Registry) *ChatMetrics {
	labels := prometheus.Labels{"service": service}

	activeSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "sa",
			Subsystem:   "chat",
			Name:        "active_sessions",
			Help:        "Number of open chat sessions.",
			ConstLabels: labels,
		},
	)
	sessionsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "sa",
			Subsystem:   "chat",
			Name:        "sessions_total",
			Help:        "Total chat sessions opened.",
			ConstLabels: labels,
		},
	)
	messagesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "sa",
			Subsystem:   "chat",
			Name:        "messages_total",
			Help:        "Total handled chat messages by outcome.",
			ConstLabels: labels,
		},
		[]string{"outcome"},
	)
	contactSubmissions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "sa",
			Subsystem:   "chat",
			Name:        "contact_submissions_total",
			Help:        "Total contact records submitted from chat.",
			ConstLabels: labels,
		},
	)

	registry.MustRegister(activeSessions, sessionsTotal, messagesTotal, contactSubmissions)

	return &ChatMetrics{
		activeSessions:     activeSessions,
		sessionsTotal:      sessionsTotal,
		messagesTotal:      messagesTotal,
		contactSubmissions: contactSubmissions,
	}
}

func (m *ChatMetrics) SessionOpened() {
	m.activeSessions.Inc()
	m.sessionsTotal.Inc()
}

func (m *ChatMetrics) SessionClosed() {
	m.activeSessions.Dec()
}

func (m *ChatMetrics) MessageHandled(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.messagesTotal.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ContactSubmitted() {
	m.contactSubmissions.Inc()
}
