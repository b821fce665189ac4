package service

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shenikar/crisis_mesh/internal/metrics"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// NearDistance и FarDistance - начальная дистанция миссии в условных единицах
	NearDistance = 1.5
	FarDistance  = 2.4

	minutesPerUnit = 2.5
)

// SeedDistance выбирает начальную дистанцию по срочности
func SeedDistance(urgency int) float64 {
	if urgency >= 9 {
		return NearDistance
	}
	return FarDistance
}

// Mission - активное назначение волонтера. Дистанция только убывает
type Mission struct {
	mu          sync.Mutex
	incidentID  uuid.UUID
	volunteerID uuid.UUID
	distance    float64
	step        float64
	transcript  []string
	acceptedAt  time.Time
	entryID     cron.EntryID
}

// NewMission создает миссию с дистанцией, зависящей от срочности
func NewMission(incidentID, volunteerID uuid.UUID, urgency int, step float64, transcript []string) *Mission {
	return &Mission{
		incidentID:  incidentID,
		volunteerID: volunteerID,
		distance:    SeedDistance(urgency),
		step:        step,
		transcript:  append([]string(nil), transcript...),
		acceptedAt:  time.Now(),
	}
}

// Advance уменьшает дистанцию на шаг, не опускаясь ниже нуля
func (m *Mission) Advance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	// округление убирает хвосты вида 1e-16, которые дали бы лишнюю минуту ETA
	m.distance = math.Max(0, math.Round((m.distance-m.step)*1e6)/1e6)
	return m.distance
}

func (m *Mission) Distance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.distance
}

// ETA - минуты до прибытия, пересчитываются при каждом чтении
func (m *Mission) ETA() int {
	return etaMinutes(m.Distance())
}

// Append добавляет строку в транскрипт
func (m *Mission) Append(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcript = append(m.transcript, line)
}

// Snapshot возвращает копию состояния миссии
func (m *Mission) Snapshot() *models.Mission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.Mission{
		IncidentID:        m.incidentID,
		VolunteerID:       m.volunteerID,
		DistanceRemaining: m.distance,
		ETAMinutes:        etaMinutes(m.distance),
		Transcript:        append([]string(nil), m.transcript...),
		AcceptedAt:        m.acceptedAt,
	}
}

func etaMinutes(distance float64) int {
	if distance <= 0 {
		return 0
	}
	return int(math.Ceil(distance * minutesPerUnit))
}

// missionScheduler владеет миссиями процесса и их периодическими задачами
type missionScheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	tick     time.Duration
	missions map[uuid.UUID]*Mission
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

func newMissionScheduler(tick time.Duration, logger *logrus.Logger, m *metrics.Metrics) *missionScheduler {
	c := cron.New()
	c.Start()
	return &missionScheduler{
		cron:     c,
		tick:     tick,
		missions: make(map[uuid.UUID]*Mission),
		logger:   logger,
		metrics:  m,
	}
}

// start регистрирует миссию и задачу уменьшения дистанции. Повторный вызов
// для того же инцидента возвращает уже существующую миссию
func (s *missionScheduler) start(m *Mission) *Mission {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.missions[m.incidentID]; ok {
		return existing
	}

	distance := m.Distance()
	m.entryID = s.cron.Schedule(cron.Every(s.tick), cron.FuncJob(func() {
		m.Advance()
	}))
	s.missions[m.incidentID] = m
	s.metrics.MissionStarted()

	s.logger.WithFields(logrus.Fields{
		"incident_id":  m.incidentID,
		"volunteer_id": m.volunteerID,
		"distance":     distance,
	}).Info("Mission started")
	return m
}

// stop снимает задачу миссии. Отсутствующая миссия не является ошибкой
func (s *missionScheduler) stop(incidentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.missions[incidentID]
	if !ok {
		return
	}
	s.cron.Remove(m.entryID)
	delete(s.missions, incidentID)
	s.metrics.MissionStopped()

	s.logger.WithField("incident_id", incidentID).Info("Mission stopped")
}

func (s *missionScheduler) get(incidentID uuid.UUID) (*Mission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions[incidentID]
	return m, ok
}

func (s *missionScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.missions)
}

// close снимает все задачи и ждет завершения выполняющихся
func (s *missionScheduler) close() {
	s.mu.Lock()
	for id, m := range s.missions {
		s.cron.Remove(m.entryID)
		delete(s.missions, id)
		s.metrics.MissionStopped()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
}
