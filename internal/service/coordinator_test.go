package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/ai"
	"github.com/shenikar/crisis_mesh/internal/classifier"
	"github.com/shenikar/crisis_mesh/internal/config"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/shenikar/crisis_mesh/internal/repository/memstore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ IncidentRepository = (*memstore.Store)(nil)

// newCoordinator собирает координатор поверх хранилища в памяти и каскада
func newCoordinator(t *testing.T, volunteers ...*models.Volunteer) (IncidentService, *memstore.Store) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		ETATickInterval:          time.Hour,
		ETAStep:                  0.15,
		IncidentListDefaultLimit: 30,
	}
	store := memstore.New(volunteers...)
	svc := NewIncidentService(store, ai.NewAdapter(nil, 0, logger, nil), nil, logger, cfg, nil)
	t.Cleanup(svc.Close)
	return svc, store
}

func volunteer(name string) *models.Volunteer {
	return &models.Volunteer{ID: uuid.New(), Name: name, OnDuty: true, Available: true}
}

func ingest(t *testing.T, svc IncidentService, from, body string) *models.Incident {
	t.Helper()
	result, err := svc.IngestMessage(context.Background(), models.IncomingMessage{From: from, Body: body})
	require.NoError(t, err)
	return result.Incident
}

func TestCoordinator_ConcurrentAcceptHasSingleWinner(t *testing.T) {
	// Подготовка
	volunteers := make([]*models.Volunteer, 8)
	for i := range volunteers {
		volunteers[i] = volunteer("v")
	}
	svc, _ := newCoordinator(t, volunteers...)
	incident := ingest(t, svc, "+1555", "someone is following me")

	// Действие
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		assigned int
	)
	for _, v := range volunteers {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.Accept(context.Background(), incident.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case assert.ErrorIs(t, err, ErrAlreadyAssigned):
				assigned++
			}
		}(v.ID)
	}
	wg.Wait()

	// Проверки
	assert.Equal(t, 1, winners)
	assert.Equal(t, len(volunteers)-1, assigned)

	history, err := svc.History(context.Background(), incident.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusAccepted, history[1].To)
}

func TestCoordinator_VolunteerHoldsOneMission(t *testing.T) {
	// Подготовка
	maya := volunteer("Maya")
	svc, _ := newCoordinator(t, maya)
	ctx := context.Background()
	first := ingest(t, svc, "+1", "someone is following me")
	second := ingest(t, svc, "+2", "there is a drunk guy passed out")

	// Действие
	_, err := svc.Accept(ctx, first.ID, maya.ID)
	require.NoError(t, err)
	_, busyErr := svc.Accept(ctx, second.ID, maya.ID)

	_, err = svc.UpdateStatus(ctx, first.ID, models.StatusResolved, &maya.ID)
	require.NoError(t, err)
	accepted, freeErr := svc.Accept(ctx, second.ID, maya.ID)

	// Проверки
	assert.ErrorIs(t, busyErr, ErrVolunteerBusy)
	require.NoError(t, freeErr)
	assert.Equal(t, maya.ID, *accepted.AssignedVolunteerID)
}

func TestCoordinator_SecondMessageDoesNotReclassify(t *testing.T) {
	// Подготовка
	svc, store := newCoordinator(t)
	ctx := context.Background()
	first := ingest(t, svc, "+1", "someone is following me")

	// Действие
	result, err := svc.IngestMessage(ctx, models.IncomingMessage{From: "+1", Body: "hi"})

	// Проверки
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, first.ID, result.Incident.ID)
	assert.Equal(t, first.Classification.Category, result.Incident.Classification.Category)
	assert.Equal(t, classifier.Classify("hi").Category, result.Analysis.Category)

	messages, err := store.ListMessages(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestCoordinator_NewIncidentAfterResolve(t *testing.T) {
	// Подготовка
	maya := volunteer("Maya")
	svc, _ := newCoordinator(t, maya)
	ctx := context.Background()
	first := ingest(t, svc, "+1", "someone is following me")
	_, err := svc.Accept(ctx, first.ID, maya.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, first.ID, models.StatusResolved, nil)
	require.NoError(t, err)

	// Действие
	result, err := svc.IngestMessage(ctx, models.IncomingMessage{From: "+1", Body: "they came back"})

	// Проверки
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEqual(t, first.ID, result.Incident.ID)
}

func TestCoordinator_FullLifecycle(t *testing.T) {
	// Подготовка
	maya := volunteer("Maya")
	svc, _ := newCoordinator(t, maya)
	ctx := context.Background()
	incident := ingest(t, svc, "+1", "someone is following me")

	// Действие
	_, err := svc.UpdateStatus(ctx, incident.ID, models.StatusPending, nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, incident.ID, models.StatusAccepted, &maya.ID)
	require.NoError(t, err)

	mission, err := svc.GetMission(ctx, incident.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, incident.ID, models.StatusOnScene, &maya.ID)
	require.NoError(t, err)
	resolved, err := svc.UpdateStatus(ctx, incident.ID, models.StatusResolved, &maya.ID)
	require.NoError(t, err)

	_, reopenErr := svc.UpdateStatus(ctx, incident.ID, models.StatusOnScene, &maya.ID)
	_, missionErr := svc.GetMission(ctx, incident.ID)

	// Проверки
	assert.Equal(t, maya.ID, mission.VolunteerID)
	assert.Equal(t, []string{"Reporter: someone is following me"}, mission.Transcript)
	assert.Equal(t, models.StatusResolved, resolved.Status)
	assert.Equal(t, int64(5), resolved.Version)
	assert.ErrorIs(t, reopenErr, ErrInvalidTransition)
	assert.ErrorIs(t, missionErr, ErrMissionNotFound)

	history, err := svc.History(ctx, incident.ID)
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].To, history[i].From)
		assert.Equal(t, history[i-1].Version+1, history[i].Version)
	}
}

func TestCoordinator_MissionTranscriptFollowsMessages(t *testing.T) {
	// Подготовка
	maya := volunteer("Maya")
	svc, _ := newCoordinator(t, maya)
	ctx := context.Background()
	incident := ingest(t, svc, "+1", "someone is following me")
	_, err := svc.Accept(ctx, incident.ID, maya.ID)
	require.NoError(t, err)

	// Действие
	_, err = svc.IngestMessage(ctx, models.IncomingMessage{From: "+1", Body: "he is still behind me"})
	require.NoError(t, err)
	mission, err := svc.GetMission(ctx, incident.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Reporter: someone is following me",
		"Reporter: he is still behind me",
	}, mission.Transcript)
}

func TestCoordinator_StatsAndVolunteers(t *testing.T) {
	// Подготовка
	maya := volunteer("Maya")
	svc, _ := newCoordinator(t, maya)
	ctx := context.Background()
	ingest(t, svc, "+1", "someone is following me")
	ingest(t, svc, "+2", "hi")

	// Действие
	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	updated, err := svc.SetVolunteerDuty(ctx, maya.ID, false, false)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Open)
	assert.Equal(t, 1, stats.VolunteersOnDuty)
	assert.False(t, updated.OnDuty)

	_, err = svc.SetVolunteerDuty(ctx, uuid.New(), true, true)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
}

// resolvingStore закрывает инцидент в момент чтения транскрипта, то есть
// между записью статуса и регистрацией миссии
type resolvingStore struct {
	*memstore.Store
	once    sync.Once
	resolve func(ctx context.Context, id uuid.UUID)
}

func (s *resolvingStore) ListMessages(ctx context.Context, id uuid.UUID) ([]models.IncidentMessage, error) {
	s.once.Do(func() { s.resolve(ctx, id) })
	return s.Store.ListMessages(ctx, id)
}

func newResolvingCoordinator(t *testing.T, store *memstore.Store) *incidentService {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{ETATickInterval: time.Hour, ETAStep: 0.15, IncidentListDefaultLimit: 30}
	hooked := &resolvingStore{Store: store}
	svc := NewIncidentService(hooked, ai.NewAdapter(nil, 0, logger, nil), nil, logger, cfg, nil).(*incidentService)
	hooked.resolve = func(ctx context.Context, id uuid.UUID) {
		_, err := svc.UpdateStatus(ctx, id, models.StatusResolved, nil)
		require.NoError(t, err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func TestCoordinator_ResolveDuringAcceptLeavesNoMission(t *testing.T) {
	// Подготовка
	v := volunteer("Sarah")
	store := memstore.New(v)
	svc := newResolvingCoordinator(t, store)
	incident := ingest(t, svc, "+1555", "he hit me")
	ctx := context.Background()

	// Действие
	_, err := svc.Accept(ctx, incident.ID, v.ID)
	require.NoError(t, err)

	// Проверки
	current, err := svc.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, current.Status)
	assert.Equal(t, 0, svc.missions.count())

	mission, err := svc.GetMission(ctx, incident.ID)
	assert.ErrorIs(t, err, ErrMissionNotFound)
	assert.Nil(t, mission)
}

func TestCoordinator_ResolveDuringRestoreLeavesNoMission(t *testing.T) {
	// Подготовка
	v := volunteer("Maria")
	svc, store := newCoordinator(t, v)
	incident := ingest(t, svc, "+1555", "he hit me")
	ctx := context.Background()
	_, err := svc.Accept(ctx, incident.ID, v.ID)
	require.NoError(t, err)

	restarted := newResolvingCoordinator(t, store)

	// Действие
	mission, err := restarted.GetMission(ctx, incident.ID)

	// Проверки
	assert.ErrorIs(t, err, ErrMissionNotFound)
	assert.Nil(t, mission)
	assert.Equal(t, 0, restarted.missions.count())
}
