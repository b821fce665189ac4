// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for classification and dispatch.
// Методы безопасны для nil-получателя, чтобы тесты могли не регистрировать метрики.
type Metrics struct {
	ClassificationsTotal *prometheus.CounterVec
	ExternalDuration     *prometheus.HistogramVec
	IncidentsCreated     prometheus.Counter
	MessagesAppended     prometheus.Counter
	TransitionsTotal     *prometheus.CounterVec
	RejectionsTotal      *prometheus.CounterVec
	ActiveMissions       prometheus.Gauge
	SnapshotsTotal       *prometheus.CounterVec
}

// NewMetrics registers and returns service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crisis_classifications_total",
			Help: "Total message classifications by source.",
		}, []string{"source"}),
		ExternalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crisis_external_classification_duration_seconds",
			Help:    "Duration of external classification calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms .. ~6.4s
		}, []string{"result"}),
		IncidentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crisis_incidents_created_total",
			Help: "Total incidents opened.",
		}),
		MessagesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crisis_messages_appended_total",
			Help: "Total follow-up messages appended to open incidents.",
		}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crisis_incident_transitions_total",
			Help: "Total applied incident status transitions by target status.",
		}, []string{"status"}),
		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crisis_incident_rejections_total",
			Help: "Total rejected incident actions by reason.",
		}, []string{"reason"}),
		ActiveMissions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crisis_active_missions",
			Help: "Missions currently simulated by this process.",
		}),
		SnapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crisis_observer_snapshots_total",
			Help: "Total observer snapshot polls by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ClassificationsTotal,
		m.ExternalDuration,
		m.IncidentsCreated,
		m.MessagesAppended,
		m.TransitionsTotal,
		m.RejectionsTotal,
		m.ActiveMissions,
		m.SnapshotsTotal,
	)

	return m
}

// ObserveClassification учитывает классификацию; source - "baseline" или "external"
func (m *Metrics) ObserveClassification(source string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(source).Inc()
}

// ObserveExternalCall учитывает длительность внешнего вызова; result - "ok" или "fallback"
func (m *Metrics) ObserveExternalCall(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ExternalDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) IncidentCreated() {
	if m == nil {
		return
	}
	m.IncidentsCreated.Inc()
}

func (m *Metrics) MessageAppended() {
	if m == nil {
		return
	}
	m.MessagesAppended.Inc()
}

func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) Rejection(reason string) {
	if m == nil {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// MissionStarted и MissionStopped поддерживают gauge активных миссий
func (m *Metrics) MissionStarted() {
	if m == nil {
		return
	}
	m.ActiveMissions.Inc()
}

func (m *Metrics) MissionStopped() {
	if m == nil {
		return
	}
	m.ActiveMissions.Dec()
}

func (m *Metrics) Snapshot(result string) {
	if m == nil {
		return
	}
	m.SnapshotsTotal.WithLabelValues(result).Inc()
}
