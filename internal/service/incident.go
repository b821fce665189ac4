package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/config"
	"github.com/shenikar/crisis_mesh/internal/metrics"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/shenikar/crisis_mesh/internal/webhook"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

const maxListLimit = 100

// IncidentRepository определяет контракт хранилища инцидентов.
// UpdateStatus - compare-and-set: переход применяется только если текущий статус
// входит в from; при to == accepted хранилище также проверяет занятость волонтера
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	FindOpenByReporter(ctx context.Context, reporter string) (*models.Incident, error)
	ListIncidents(ctx context.Context, limit int) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from []models.Status, to models.Status, volunteerID *uuid.UUID) (*models.Incident, error)
	History(ctx context.Context, id uuid.UUID) ([]models.StatusChange, error)
	AppendMessage(ctx context.Context, msg *models.IncidentMessage) error
	ListMessages(ctx context.Context, id uuid.UUID) ([]models.IncidentMessage, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	ListVolunteers(ctx context.Context) ([]*models.Volunteer, error)
	GetVolunteer(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	SetVolunteerDuty(ctx context.Context, id uuid.UUID, onDuty, available bool) (*models.Volunteer, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// Classifier сопоставляет тексту классификацию. Реализация не возвращает ошибок
type Classifier interface {
	Classify(ctx context.Context, text string) models.Classification
}

// IncidentService определяет контракт координатора инцидентов
type IncidentService interface {
	Analyze(ctx context.Context, text string) models.Classification
	IngestMessage(ctx context.Context, msg models.IncomingMessage) (*models.IngestResult, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, limit int) ([]*models.Incident, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	History(ctx context.Context, id uuid.UUID) ([]models.StatusChange, error)
	Accept(ctx context.Context, id, volunteerID uuid.UUID) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status, volunteerID *uuid.UUID) (*models.Incident, error)
	GetMission(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	ListVolunteers(ctx context.Context) ([]*models.Volunteer, error)
	SetVolunteerDuty(ctx context.Context, id uuid.UUID, onDuty, available bool) (*models.Volunteer, error)
	Close()
}

type incidentService struct {
	repo       IncidentRepository
	classifier Classifier
	publisher  webhook.WebhookPublisher
	logger     *logrus.Logger
	cfg        *config.Config
	metrics    *metrics.Metrics
	missions   *missionScheduler
}

// NewIncidentService создает координатор. publisher и m могут быть nil
func NewIncidentService(
	repo IncidentRepository,
	classifier Classifier,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
	m *metrics.Metrics,
) IncidentService {
	return &incidentService{
		repo:       repo,
		classifier: classifier,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
		metrics:    m,
		missions:   newMissionScheduler(cfg.ETATickInterval, logger, m),
	}
}

// Analyze классифицирует текст без побочных эффектов
func (s *incidentService) Analyze(ctx context.Context, text string) models.Classification {
	return s.classifier.Classify(ctx, text)
}

// IngestMessage создает инцидент или дописывает сообщение в уже открытый.
// Классификация открытого инцидента повторным сообщением не меняется
func (s *incidentService) IngestMessage(ctx context.Context, msg models.IncomingMessage) (*models.IngestResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "IngestMessage",
		"reporter": msg.From,
	})

	var analysis models.Classification
	if msg.Analysis != nil {
		analysis = msg.Analysis.Clone()
	} else {
		analysis = s.classifier.Classify(ctx, msg.Body)
	}

	existing, err := s.repo.FindOpenByReporter(ctx, msg.From)
	if err != nil {
		log.WithError(err).Error("Failed to look up open incident")
		return nil, fmt.Errorf("service: could not look up open incident: %w: %w", ErrPersistenceUnavailable, err)
	}
	if existing != nil {
		return s.appendMessage(ctx, existing, msg, analysis)
	}

	now := time.Now().UTC()
	incident := &models.Incident{
		ID:              uuid.New(),
		ReporterContact: msg.From,
		Message:         msg.Body,
		Classification:  analysis.Clone(),
		Status:          models.StatusOpen,
		LocationHint:    msg.LocationHint,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if incident.LocationHint == "" {
		incident.LocationHint = models.LocationLabels[rand.IntN(len(models.LocationLabels))]
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		if errors.Is(err, models.ErrOpenIncidentExists) {
			// параллельное сообщение того же отправителя успело открыть инцидент
			existing, findErr := s.repo.FindOpenByReporter(ctx, msg.From)
			if findErr == nil && existing != nil {
				return s.appendMessage(ctx, existing, msg, analysis)
			}
		}
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w: %w", ErrPersistenceUnavailable, err)
	}

	s.metrics.IncidentCreated()
	log.WithFields(logrus.Fields{
		"incident_id": incident.ID,
		"category":    incident.Classification.Category,
		"urgency":     incident.Classification.Urgency,
	}).Info("Incident created successfully")

	s.notifyVolunteers(ctx, incident)

	return &models.IngestResult{Incident: incident, Analysis: analysis, Created: true}, nil
}

func (s *incidentService) appendMessage(ctx context.Context, incident *models.Incident, msg models.IncomingMessage, analysis models.Classification) (*models.IngestResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "appendMessage",
		"incident_id": incident.ID,
	})

	entry := &models.IncidentMessage{
		IncidentID: incident.ID,
		Sender:     models.SenderReporter,
		Body:       msg.Body,
		SentAt:     time.Now().UTC(),
	}
	if err := s.repo.AppendMessage(ctx, entry); err != nil {
		log.WithError(err).Error("Failed to append message")
		return nil, fmt.Errorf("service: could not append message: %w: %w", ErrPersistenceUnavailable, err)
	}

	if m, ok := s.missions.get(incident.ID); ok {
		m.Append(entry.Line())
	}
	s.metrics.MessageAppended()
	log.Info("Message appended to open incident")

	return &models.IngestResult{Incident: incident, Analysis: analysis, Created: false}, nil
}

// notifyVolunteers ставит оповещение для дежурных волонтеров. Ошибки не прерывают создание инцидента
func (s *incidentService) notifyVolunteers(ctx context.Context, incident *models.Incident) {
	if s.publisher == nil {
		return
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "notifyVolunteers",
		"incident_id": incident.ID,
	})

	volunteers, err := s.repo.ListVolunteers(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to list volunteers for alert")
		return
	}

	ids := make([]uuid.UUID, 0, len(volunteers))
	for _, v := range volunteers {
		if v.OnDuty && v.Available {
			ids = append(ids, v.ID)
		}
	}

	event := webhook.WebhookEvent{
		IncidentID:   incident.ID,
		Alert:        webhook.AlertText(incident.Classification.Category.Label()),
		Category:     string(incident.Classification.Category),
		Urgency:      incident.Classification.Urgency,
		PoliceNeeded: incident.Classification.PoliceNeeded,
		LocationHint: incident.LocationHint,
		VolunteerIDs: ids,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish volunteer alert")
		return
	}
	log.WithField("volunteers", len(ids)).Debug("Volunteer alert queued")
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.incidentError(log, "get incident", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает последние инциденты, новые первыми
func (s *incidentService) ListIncidents(ctx context.Context, limit int) ([]*models.Incident, error) {
	if limit < 1 {
		limit = s.cfg.IncidentListDefaultLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"limit":   limit,
	})

	incidents, err := s.repo.ListIncidents(ctx, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w: %w", ErrPersistenceUnavailable, err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// GetStats возвращает агрегаты по всем инцидентам
func (s *incidentService) GetStats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "incident",
			"method":  "GetStats",
		}).WithError(err).Error("Failed to get stats from repository")
		return nil, fmt.Errorf("service: could not get stats: %w: %w", ErrPersistenceUnavailable, err)
	}
	return stats, nil
}

// History возвращает журнал переходов инцидента
func (s *incidentService) History(ctx context.Context, id uuid.UUID) ([]models.StatusChange, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "History",
		"incident_id": id,
	})

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, s.incidentError(log, "get incident", err)
	}
	changes, err := s.repo.History(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to read history")
		return nil, fmt.Errorf("service: could not read history: %w: %w", ErrPersistenceUnavailable, err)
	}
	return changes, nil
}

// Accept назначает волонтера на ожидающий инцидент.
// Из параллельных попыток принять один инцидент успешна ровно одна
func (s *incidentService) Accept(ctx context.Context, id, volunteerID uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "Accept",
		"incident_id":  id,
		"volunteer_id": volunteerID,
	})

	if _, err := s.repo.GetVolunteer(ctx, volunteerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Unknown volunteer tried to accept incident")
			return nil, fmt.Errorf("service: volunteer %s: %w", volunteerID, ErrVolunteerNotFound)
		}
		log.WithError(err).Error("Failed to get volunteer")
		return nil, fmt.Errorf("service: could not get volunteer: %w: %w", ErrPersistenceUnavailable, err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.incidentError(log, "get incident", err)
	}
	if !current.Status.Awaiting() {
		s.metrics.Rejection("already_assigned")
		log.WithField("status", current.Status).Warn("Incident is not awaiting a volunteer")
		return nil, fmt.Errorf("service: incident %s is %s: %w", id, current.Status, ErrAlreadyAssigned)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, models.AwaitingStatuses, models.StatusAccepted, &volunteerID)
	switch {
	case errors.Is(err, models.ErrStatusConflict):
		s.metrics.Rejection("already_assigned")
		log.Warn("Lost acceptance race")
		return nil, fmt.Errorf("service: incident %s: %w", id, ErrAlreadyAssigned)
	case errors.Is(err, models.ErrVolunteerBusy):
		s.metrics.Rejection("volunteer_busy")
		log.Warn("Volunteer already holds an active mission")
		return nil, fmt.Errorf("service: volunteer %s: %w", volunteerID, ErrVolunteerBusy)
	case err != nil:
		return nil, s.incidentError(log, "accept incident", err)
	}

	if _, err := s.startMission(ctx, updated, volunteerID); err != nil {
		log.WithError(err).Warn("Mission was not started")
	}
	s.invalidate(ctx, id)
	s.metrics.Transition(string(models.StatusAccepted))
	log.Info("Incident accepted")
	return updated, nil
}

// UpdateStatus применяет переход по таблице допустимых переходов
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status, volunteerID *uuid.UUID) (*models.Incident, error) {
	if status == models.StatusAccepted {
		if volunteerID == nil {
			return nil, ErrVolunteerRequired
		}
		return s.Accept(ctx, id, *volunteerID)
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"to":          status,
	})

	if !status.Valid() {
		s.metrics.Rejection("invalid_transition")
		return nil, fmt.Errorf("service: unknown status %q: %w", status, ErrInvalidTransition)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.incidentError(log, "get incident", err)
	}

	if volunteerID != nil && current.AssignedVolunteerID != nil && *current.AssignedVolunteerID != *volunteerID {
		s.metrics.Rejection("not_assignee")
		log.Warn("Status change from a volunteer not assigned to the incident")
		return nil, fmt.Errorf("service: incident %s is assigned to another volunteer: %w", id, ErrInvalidTransition)
	}

	if !CanTransition(current.Status, status) {
		s.metrics.Rejection("invalid_transition")
		log.WithField("from", current.Status).Warn("Rejected status transition")
		return nil, fmt.Errorf("service: %s -> %s: %w", current.Status, status, ErrInvalidTransition)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, []models.Status{current.Status}, status, nil)
	if err != nil {
		if errors.Is(err, models.ErrStatusConflict) {
			s.metrics.Rejection("invalid_transition")
			log.Warn("Incident status changed concurrently")
			return nil, fmt.Errorf("service: incident %s changed concurrently: %w", id, ErrInvalidTransition)
		}
		return nil, s.incidentError(log, "update status", err)
	}

	if status.Terminal() {
		s.missions.stop(id)
	}
	s.invalidate(ctx, id)
	s.metrics.Transition(string(status))
	log.WithField("from", current.Status).Info("Incident status updated")
	return updated, nil
}

// GetMission возвращает снимок миссии. Если процесс перезапускался,
// миссия активного инцидента восстанавливается с начальной дистанцией
func (s *incidentService) GetMission(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	if m, ok := s.missions.get(id); ok {
		return m.Snapshot(), nil
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetMission",
		"incident_id": id,
	})

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.incidentError(log, "get incident", err)
	}
	if !incident.Status.Active() || incident.AssignedVolunteerID == nil {
		return nil, fmt.Errorf("service: incident %s is %s: %w", id, incident.Status, ErrMissionNotFound)
	}

	log.Info("Restoring mission for active incident")
	m, err := s.startMission(ctx, incident, *incident.AssignedVolunteerID)
	if err != nil {
		if errors.Is(err, ErrMissionNotFound) {
			return nil, err
		}
		return nil, s.incidentError(log, "get incident", err)
	}
	return m.Snapshot(), nil
}

// startMission регистрирует миссию и перечитывает инцидент. Если инцидент
// закрыли между записью статуса и регистрацией, миссия снимается
func (s *incidentService) startMission(ctx context.Context, incident *models.Incident, volunteerID uuid.UUID) (*Mission, error) {
	transcript := []string{models.IncidentMessage{Sender: models.SenderReporter, Body: incident.Message}.Line()}
	messages, err := s.repo.ListMessages(ctx, incident.ID)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", incident.ID).Warn("Failed to load transcript, seeding with first message")
	} else if len(messages) > 0 {
		transcript = transcript[:0]
		for _, msg := range messages {
			transcript = append(transcript, msg.Line())
		}
	}

	m := s.missions.start(NewMission(incident.ID, volunteerID, incident.Classification.Urgency, s.cfg.ETAStep, transcript))

	latest, err := s.repo.GetByID(ctx, incident.ID)
	if err != nil {
		s.missions.stop(incident.ID)
		return nil, err
	}
	if !latest.Status.Active() {
		s.missions.stop(incident.ID)
		return nil, fmt.Errorf("service: incident %s is %s: %w", incident.ID, latest.Status, ErrMissionNotFound)
	}
	return m, nil
}

// ListVolunteers возвращает всех волонтеров
func (s *incidentService) ListVolunteers(ctx context.Context) ([]*models.Volunteer, error) {
	volunteers, err := s.repo.ListVolunteers(ctx)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "incident",
			"method":  "ListVolunteers",
		}).WithError(err).Error("Failed to list volunteers")
		return nil, fmt.Errorf("service: could not list volunteers: %w: %w", ErrPersistenceUnavailable, err)
	}
	return volunteers, nil
}

// SetVolunteerDuty меняет дежурство и доступность волонтера
func (s *incidentService) SetVolunteerDuty(ctx context.Context, id uuid.UUID, onDuty, available bool) (*models.Volunteer, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "SetVolunteerDuty",
		"volunteer_id": id,
		"on_duty":      onDuty,
	})

	volunteer, err := s.repo.SetVolunteerDuty(ctx, id, onDuty, available)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service: volunteer %s: %w", id, ErrVolunteerNotFound)
		}
		log.WithError(err).Error("Failed to update volunteer duty")
		return nil, fmt.Errorf("service: could not update volunteer: %w: %w", ErrPersistenceUnavailable, err)
	}
	log.Info("Volunteer duty updated")
	return volunteer, nil
}

// Close останавливает все задачи миссий
func (s *incidentService) Close() {
	s.missions.close()
}

func (s *incidentService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		s.logger.WithError(err).WithField("incident_id", id).Warn("Failed to invalidate incident cache")
	}
}

func (s *incidentService) incidentError(log *logrus.Entry, op string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		log.WithError(err).Warn("Incident not found")
		return fmt.Errorf("service: %s: %w", op, ErrIncidentNotFound)
	}
	log.WithError(err).Error("Incident store failure")
	return fmt.Errorf("service: could not %s: %w: %w", op, ErrPersistenceUnavailable, err)
}
