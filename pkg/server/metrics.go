package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for live sessions. A nil *Metrics
// records nothing.
type Metrics struct {
	activeSessions   prometheus.Gauge
	sessionsTotal    prometheus.Counter
	sessionsRejected prometheus.Counter
	eventsTotal      *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec
	eventDuration    prometheus.Histogram
	patchesSent      prometheus.Counter
	handlerPanics    prometheus.Counter
	wsErrors         *prometheus.CounterVec
}

// NewMetrics registers the session collectors with reg under namespace.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "active_sessions",
			Help:      "Number of open live sessions",
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "sessions_total",
			Help:      "Total number of live sessions created",
		}),

		sessionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "sessions_rejected_total",
			Help:      "Live sessions refused because the session limit was reached",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "events_total",
			Help:      "Client frames processed by type",
		}, []string{"type"}),

		eventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "events_dropped_total",
			Help:      "Client frames dropped by reason",
		}, []string{"reason"}),

		eventDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "event_duration_seconds",
			Help:      "Time to apply a frame and send the resulting patches",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "patches_sent_total",
			Help:      "Total number of patches sent to clients",
		}),

		handlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "handler_panics_total",
			Help:      "Panics recovered while applying frames or dispatched callbacks",
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "websocket_errors_total",
			Help:      "WebSocket errors by type",
		}, []string{"type"}),
	}
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
	m.sessionsTotal.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func (m *Metrics) sessionRejected() {
	if m == nil {
		return
	}
	m.sessionsRejected.Inc()
}

func (m *Metrics) event(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(kind).Inc()
	m.eventDuration.Observe(seconds)
}

func (m *Metrics) dropped(reason string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) patches(n int) {
	if m == nil {
		return
	}
	m.patchesSent.Add(float64(n))
}

func (m *Metrics) panicked() {
	if m == nil {
		return
	}
	m.handlerPanics.Inc()
}

func (m *Metrics) wsError(kind string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(kind).Inc()
}
