package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/models"
)

// AnalyzeRequest DTO для классификации текста без создания инцидента
// @Description DTO для классификации текста без создания инцидента
type AnalyzeRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// AnalyzeResponse DTO с результатом классификации
// @Description DTO с результатом классификации
type AnalyzeResponse struct {
	Analysis models.Classification `json:"analysis"`
}

// IncomingSMSRequest DTO входящего сообщения. analysis передается, если клиент
// уже классифицировал текст
// @Description DTO входящего сообщения
type IncomingSMSRequest struct {
	From         string                 `json:"from" validate:"required,max=64"`
	Body         string                 `json:"body" validate:"required,max=2000"`
	Analysis     *models.Classification `json:"analysis,omitempty"`
	LocationHint string                 `json:"locationHint,omitempty" validate:"max=128"`
}

// IncomingSMSResponse DTO ответа на входящее сообщение
// @Description DTO ответа на входящее сообщение
type IncomingSMSResponse struct {
	Incident *IncidentResponse     `json:"incident"`
	Analysis models.Classification `json:"analysis"`
	Created  bool                  `json:"created"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                  uuid.UUID             `json:"id"`
	ReporterContact     string                `json:"reporter_contact"`
	Message             string                `json:"message"`
	Classification      models.Classification `json:"classification"`
	Status              string                `json:"status"`
	LocationHint        string                `json:"location_hint,omitempty"`
	AssignedVolunteerID *uuid.UUID            `json:"assigned_volunteer_id,omitempty"`
	Version             int64                 `json:"version"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ActionRequest DTO действия волонтера над инцидентом
// @Description DTO действия волонтера над инцидентом
type ActionRequest struct {
	Status      string     `json:"status" validate:"required,oneof=open pending dispatched accepted on-scene resolved"`
	VolunteerID *uuid.UUID `json:"volunteerId,omitempty"`
}

// DutyRequest DTO смены дежурства волонтера
// @Description DTO смены дежурства волонтера
type DutyRequest struct {
	OnDuty    *bool `json:"onDuty" validate:"required"`
	Available *bool `json:"available" validate:"required"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	Total                    int `json:"total"`
	Resolved                 int `json:"resolved"`
	Open                     int `json:"open"`
	PoliceInvolved           int `json:"policeInvolved"`
	PoliceInvolvedPercentage int `json:"policeInvolvedPercentage"`
	CommunityResolved        int `json:"communityResolved"`
	CommunityPercentage      int `json:"communityPercentage"`
	VolunteersOnDuty         int `json:"volunteersOnDuty"`
}

// VolunteerResponse DTO волонтера
// @Description DTO волонтера
type VolunteerResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	OnDuty    bool            `json:"onDuty"`
	Available bool            `json:"available"`
	Skills    []string        `json:"skills"`
	Rating    float64         `json:"rating"`
	Location  models.GeoPoint `json:"location"`
}

// MissionResponse DTO активной миссии
// @Description DTO активной миссии
type MissionResponse struct {
	IncidentID        uuid.UUID `json:"incidentId"`
	VolunteerID       uuid.UUID `json:"volunteerId"`
	DistanceRemaining float64   `json:"distanceRemaining"`
	ETAMinutes        int       `json:"etaMinutes"`
	Transcript        []string  `json:"transcript"`
	AcceptedAt        time.Time `json:"acceptedAt"`
}

// StatusChangeResponse DTO записи журнала переходов
// @Description DTO записи журнала переходов
type StatusChangeResponse struct {
	From        string     `json:"from,omitempty"`
	To          string     `json:"to"`
	VolunteerID *uuid.UUID `json:"volunteer_id,omitempty"`
	Version     int64      `json:"version"`
	ChangedAt   time.Time  `json:"changed_at"`
}

// CategoryResponse DTO справочника категорий
// @Description DTO справочника категорий
type CategoryResponse struct {
	Category     string `json:"category"`
	Label        string `json:"label"`
	Color        string `json:"color"`
	Urgency      int    `json:"urgency"`
	PoliceNeeded bool   `json:"policeNeeded"`
}
