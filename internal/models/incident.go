package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ошибки хранилища инцидентов
var (
	ErrNotFound           = errors.New("not found")
	ErrStatusConflict     = errors.New("status conflict")
	ErrVolunteerBusy      = errors.New("volunteer already holds an active mission")
	ErrOpenIncidentExists = errors.New("reporter already has an open incident")
)

// Status - статус жизненного цикла инцидента
type Status string

const (
	StatusOpen       Status = "open"
	StatusPending    Status = "pending"
	StatusDispatched Status = "dispatched"
	StatusAccepted   Status = "accepted"
	StatusOnScene    Status = "on-scene"
	StatusResolved   Status = "resolved"
)

// AwaitingStatuses - статусы ожидания волонтера, отличаются только отображением
var AwaitingStatuses = []Status{StatusOpen, StatusPending, StatusDispatched}

// ActiveStatuses - статусы, в которых у инцидента есть активная миссия
var ActiveStatuses = []Status{StatusAccepted, StatusOnScene}

// NonTerminalStatuses - все статусы кроме resolved
var NonTerminalStatuses = []Status{StatusOpen, StatusPending, StatusDispatched, StatusAccepted, StatusOnScene}

// Valid сообщает, известен ли статус
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPending, StatusDispatched, StatusAccepted, StatusOnScene, StatusResolved:
		return true
	}
	return false
}

// Awaiting сообщает, ожидает ли инцидент волонтера
func (s Status) Awaiting() bool {
	return s == StatusOpen || s == StatusPending || s == StatusDispatched
}

// Active сообщает, идет ли по инциденту миссия
func (s Status) Active() bool {
	return s == StatusAccepted || s == StatusOnScene
}

// Terminal сообщает, является ли статус конечным
func (s Status) Terminal() bool {
	return s == StatusResolved
}

// Incident - отслеживаемое обращение с классификацией и статусом
type Incident struct {
	ID                  uuid.UUID      `json:"id"`
	ReporterContact     string         `json:"reporter_contact"`
	Message             string         `json:"message"`
	Classification      Classification `json:"classification"`
	Status              Status         `json:"status"`
	LocationHint        string         `json:"location_hint,omitempty"`
	AssignedVolunteerID *uuid.UUID     `json:"assigned_volunteer_id,omitempty"`
	Version             int64          `json:"version"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// StatusChange - запись в журнале переходов (только добавление)
type StatusChange struct {
	ID          uuid.UUID  `json:"id"`
	IncidentID  uuid.UUID  `json:"incident_id"`
	From        Status     `json:"from"`
	To          Status     `json:"to"`
	VolunteerID *uuid.UUID `json:"volunteer_id,omitempty"`
	Version     int64      `json:"version"`
	ChangedAt   time.Time  `json:"changed_at"`
}

// SenderReporter - подпись сообщений отправителя в транскрипте
const SenderReporter = "Reporter"

// IncidentMessage - строка переписки по инциденту
type IncidentMessage struct {
	IncidentID uuid.UUID `json:"incident_id"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
}

// Line форматирует сообщение как строку транскрипта
func (m IncidentMessage) Line() string {
	return m.Sender + ": " + m.Body
}

// IncomingMessage - входящее сообщение отправителя. Analysis задается,
// если клиент уже классифицировал текст
type IncomingMessage struct {
	From         string
	Body         string
	Analysis     *Classification
	LocationHint string
}

// IngestResult - итог обработки входящего сообщения
type IngestResult struct {
	Incident *Incident
	Analysis Classification
	Created  bool
}

// Stats - агрегаты по всем инцидентам
type Stats struct {
	Total                    int `json:"total"`
	Resolved                 int `json:"resolved"`
	Open                     int `json:"open"`
	PoliceInvolved           int `json:"policeInvolved"`
	PoliceInvolvedPercentage int `json:"policeInvolvedPercentage"`
	CommunityResolved        int `json:"communityResolved"`
	CommunityPercentage      int `json:"communityPercentage"`
	VolunteersOnDuty         int `json:"volunteersOnDuty"`
}

// Percent считает долю в процентах с округлением; для пустой выборки 0
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*100 + total/2) / total
}
