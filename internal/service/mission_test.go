package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDistance(t *testing.T) {
	assert.Equal(t, NearDistance, SeedDistance(9))
	assert.Equal(t, NearDistance, SeedDistance(10))
	assert.Equal(t, FarDistance, SeedDistance(8))
	assert.Equal(t, FarDistance, SeedDistance(1))
}

func TestMission_AdvanceNeverNegative(t *testing.T) {
	// Подготовка
	m := NewMission(uuid.New(), uuid.New(), 10, 0.15, nil)
	prevDistance := m.Distance()
	prevETA := m.ETA()
	assert.Equal(t, 4, prevETA)

	// Действие
	for i := 0; i < 20; i++ {
		d := m.Advance()

		// Проверки
		assert.LessOrEqual(t, d, prevDistance)
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, m.ETA(), prevETA)
		prevDistance, prevETA = d, m.ETA()
	}

	assert.Equal(t, 0.0, m.Distance())
	assert.Equal(t, 0, m.ETA())
}

func TestMission_StepsToArrival(t *testing.T) {
	m := NewMission(uuid.New(), uuid.New(), 9, 0.15, nil)

	for i := 0; i < 9; i++ {
		m.Advance()
	}
	assert.InDelta(t, 0.15, m.Distance(), 1e-9)
	assert.Equal(t, 1, m.ETA())

	m.Advance()
	assert.Equal(t, 0.0, m.Distance())
}

func TestMission_SnapshotIsCopy(t *testing.T) {
	// Подготовка
	transcript := []string{"Reporter: help"}
	m := NewMission(uuid.New(), uuid.New(), 5, 0.15, transcript)

	// Действие
	snapshot := m.Snapshot()
	snapshot.Transcript[0] = "changed"
	transcript[0] = "changed too"
	m.Append("Reporter: still here")

	// Проверки
	assert.Equal(t, []string{"Reporter: help", "Reporter: still here"}, m.Snapshot().Transcript)
	assert.Len(t, snapshot.Transcript, 1)
	assert.Equal(t, 6, snapshot.ETAMinutes)
}

func TestMissionScheduler_StartIsIdempotent(t *testing.T) {
	// Подготовка
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	scheduler := newMissionScheduler(time.Hour, logger, nil)
	defer scheduler.close()
	incidentID := uuid.New()

	// Действие
	first := scheduler.start(NewMission(incidentID, uuid.New(), 5, 0.15, nil))
	second := scheduler.start(NewMission(incidentID, uuid.New(), 9, 0.15, nil))

	// Проверки
	assert.Same(t, first, second)
	assert.Equal(t, 1, scheduler.count())
}

func TestMissionScheduler_TicksAdvanceDistance(t *testing.T) {
	// Подготовка
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	scheduler := newMissionScheduler(time.Second, logger, nil)
	m := scheduler.start(NewMission(uuid.New(), uuid.New(), 5, 0.15, nil))

	// Действие / Проверки
	require.Eventually(t, func() bool { return m.Distance() < FarDistance }, 3*time.Second, 50*time.Millisecond)

	scheduler.close()
	assert.Equal(t, 0, scheduler.count())
	stopped := m.Distance()
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, stopped, m.Distance())
}

func TestMissionScheduler_StopUnknownIsNoop(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	scheduler := newMissionScheduler(time.Hour, logger, nil)
	defer scheduler.close()

	scheduler.stop(uuid.New())
	assert.Equal(t, 0, scheduler.count())
}
