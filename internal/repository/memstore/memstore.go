// Package memstore - хранилище инцидентов в памяти для запуска без Postgres и тестов
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/models"
)

// Store хранит инциденты, журнал переходов и волонтеров в памяти.
// Все записи выполняются под одним мьютексом, поэтому CAS и проверка
// занятости волонтера атомарны. Наружу отдаются только копии.
type Store struct {
	mu         sync.RWMutex
	incidents  map[uuid.UUID]*models.Incident
	order      []uuid.UUID // порядок создания
	history    map[uuid.UUID][]models.StatusChange
	messages   map[uuid.UUID][]models.IncidentMessage
	volunteers map[uuid.UUID]*models.Volunteer
	now        func() time.Time
}

// New создает хранилище с заданными волонтерами
func New(volunteers ...*models.Volunteer) *Store {
	s := &Store{
		incidents:  make(map[uuid.UUID]*models.Incident),
		history:    make(map[uuid.UUID][]models.StatusChange),
		messages:   make(map[uuid.UUID][]models.IncidentMessage),
		volunteers: make(map[uuid.UUID]*models.Volunteer),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, v := range volunteers {
		s.volunteers[v.ID] = cloneVolunteer(v)
	}
	return s
}

// Create сохраняет инцидент с версией 1 и его первое сообщение
func (s *Store) Create(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.incidents {
		if existing.ReporterContact == incident.ReporterContact && !existing.Status.Terminal() {
			return models.ErrOpenIncidentExists
		}
	}

	now := s.now()
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = now
	}
	incident.UpdatedAt = incident.CreatedAt
	incident.Status = models.StatusOpen
	incident.Version = 1

	s.incidents[incident.ID] = cloneIncident(incident)
	s.order = append(s.order, incident.ID)
	s.history[incident.ID] = []models.StatusChange{{
		ID:         uuid.New(),
		IncidentID: incident.ID,
		To:         models.StatusOpen,
		Version:    1,
		ChangedAt:  incident.CreatedAt,
	}}
	s.messages[incident.ID] = []models.IncidentMessage{{
		IncidentID: incident.ID,
		Sender:     models.SenderReporter,
		Body:       incident.Message,
		SentAt:     incident.CreatedAt,
	}}
	return nil
}

// GetByID возвращает копию инцидента по его UUID
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inc, ok := s.incidents[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneIncident(inc), nil
}

// FindOpenByReporter возвращает незакрытый инцидент отправителя или nil
func (s *Store) FindOpenByReporter(_ context.Context, reporter string) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		inc := s.incidents[s.order[i]]
		if inc.ReporterContact == reporter && !inc.Status.Terminal() {
			return cloneIncident(inc), nil
		}
	}
	return nil, nil
}

// ListIncidents возвращает до limit инцидентов, новые первыми
func (s *Store) ListIncidents(_ context.Context, limit int) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Incident, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneIncident(s.incidents[s.order[i]]))
	}
	return out, nil
}

// UpdateStatus применяет переход, только если текущий статус входит в from
func (s *Store) UpdateStatus(_ context.Context, id uuid.UUID, from []models.Status, to models.Status, volunteerID *uuid.UUID) (*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.incidents[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !slices.Contains(from, inc.Status) {
		return nil, models.ErrStatusConflict
	}

	if volunteerID != nil {
		if _, ok := s.volunteers[*volunteerID]; !ok {
			return nil, models.ErrNotFound
		}
		if to.Active() && s.volunteerBusy(*volunteerID, id) {
			return nil, models.ErrVolunteerBusy
		}
		vid := *volunteerID
		inc.AssignedVolunteerID = &vid
	}

	prev := inc.Status
	inc.Status = to
	inc.Version++
	inc.UpdatedAt = s.now()

	s.history[id] = append(s.history[id], models.StatusChange{
		ID:          uuid.New(),
		IncidentID:  id,
		From:        prev,
		To:          to,
		VolunteerID: cloneUUID(volunteerID),
		Version:     inc.Version,
		ChangedAt:   inc.UpdatedAt,
	})
	return cloneIncident(inc), nil
}

func (s *Store) volunteerBusy(volunteerID, except uuid.UUID) bool {
	for id, inc := range s.incidents {
		if id == except || inc.AssignedVolunteerID == nil {
			continue
		}
		if *inc.AssignedVolunteerID == volunteerID && inc.Status.Active() {
			return true
		}
	}
	return false
}

// History возвращает переходы инцидента по порядку
func (s *Store) History(_ context.Context, id uuid.UUID) ([]models.StatusChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StatusChange, 0, len(s.history[id]))
	for _, c := range s.history[id] {
		c.VolunteerID = cloneUUID(c.VolunteerID)
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) AppendMessage(_ context.Context, msg *models.IncidentMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incidents[msg.IncidentID]; !ok {
		return models.ErrNotFound
	}
	s.messages[msg.IncidentID] = append(s.messages[msg.IncidentID], *msg)
	return nil
}

func (s *Store) ListMessages(_ context.Context, id uuid.UUID) ([]models.IncidentMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages[id]), nil
}

// GetStats считает агрегаты по всем инцидентам
func (s *Store) GetStats(_ context.Context) (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.Stats{Total: len(s.incidents)}
	for _, inc := range s.incidents {
		if inc.Status.Terminal() {
			stats.Resolved++
		} else {
			stats.Open++
		}
		if inc.Classification.PoliceNeeded {
			stats.PoliceInvolved++
		}
		if inc.Classification.CommunityResolution {
			stats.CommunityResolved++
		}
	}
	for _, v := range s.volunteers {
		if v.OnDuty {
			stats.VolunteersOnDuty++
		}
	}
	stats.PoliceInvolvedPercentage = models.Percent(stats.PoliceInvolved, stats.Total)
	stats.CommunityPercentage = models.Percent(stats.CommunityResolved, stats.Total)
	return stats, nil
}

// ListVolunteers возвращает волонтеров, отсортированных по имени
func (s *Store) ListVolunteers(_ context.Context) ([]*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Volunteer, 0, len(s.volunteers))
	for _, v := range s.volunteers {
		out = append(out, cloneVolunteer(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetVolunteer(_ context.Context, id uuid.UUID) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.volunteers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneVolunteer(v), nil
}

func (s *Store) SetVolunteerDuty(_ context.Context, id uuid.UUID, onDuty, available bool) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volunteers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	v.OnDuty = onDuty
	v.Available = available
	return cloneVolunteer(v), nil
}

// Кеш не нужен: чтения и так из памяти

func (s *Store) GetIncidentFromCache(context.Context, uuid.UUID) (*models.Incident, error) {
	return nil, nil
}

func (s *Store) SetIncidentCache(context.Context, *models.Incident) error { return nil }

func (s *Store) InvalidateIncidentCache(context.Context, uuid.UUID) error { return nil }

func cloneIncident(inc *models.Incident) *models.Incident {
	cp := *inc
	cp.Classification = inc.Classification.Clone()
	cp.AssignedVolunteerID = cloneUUID(inc.AssignedVolunteerID)
	return &cp
}

func cloneVolunteer(v *models.Volunteer) *models.Volunteer {
	cp := *v
	cp.Skills = slices.Clone(v.Skills)
	return &cp
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}
