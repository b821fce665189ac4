package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveClassification("baseline")
	m.ObserveClassification("baseline")
	m.ObserveClassification("external")
	m.Rejection("volunteer_busy")
	m.MissionStarted()
	m.MissionStarted()
	m.MissionStopped()
	m.ObserveExternalCall("ok", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("baseline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("external")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("volunteer_busy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveMissions))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveClassification("baseline")
		m.IncidentCreated()
		m.MessageAppended()
		m.Transition("accepted")
		m.MissionStarted()
		m.MissionStopped()
		m.Snapshot("ok")
		m.ObserveExternalCall("fallback", time.Second)
	})
}
