package v1

import (
	"github.com/shenikar/crisis_mesh/internal/classifier"
	"github.com/shenikar/crisis_mesh/internal/models"
)

// DTOToIncomingMessage преобразует DTO входящего сообщения в доменную модель
func DTOToIncomingMessage(dto IncomingSMSRequest) models.IncomingMessage {
	return models.IncomingMessage{
		From:         dto.From,
		Body:         dto.Body,
		Analysis:     dto.Analysis,
		LocationHint: dto.LocationHint,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                  model.ID,
		ReporterContact:     model.ReporterContact,
		Message:             model.Message,
		Classification:      model.Classification,
		Status:              string(model.Status),
		LocationHint:        model.LocationHint,
		AssignedVolunteerID: model.AssignedVolunteerID,
		Version:             model.Version,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelToStatsResponse(s *models.Stats) StatsResponse {
	return StatsResponse{
		Total:                    s.Total,
		Resolved:                 s.Resolved,
		Open:                     s.Open,
		PoliceInvolved:           s.PoliceInvolved,
		PoliceInvolvedPercentage: s.PoliceInvolvedPercentage,
		CommunityResolved:        s.CommunityResolved,
		CommunityPercentage:      s.CommunityPercentage,
		VolunteersOnDuty:         s.VolunteersOnDuty,
	}
}

func ModelToVolunteerResponse(v *models.Volunteer) *VolunteerResponse {
	return &VolunteerResponse{
		ID:        v.ID,
		Name:      v.Name,
		OnDuty:    v.OnDuty,
		Available: v.Available,
		Skills:    v.Skills,
		Rating:    v.Rating,
		Location:  v.Location,
	}
}

func ModelsToVolunteerResponses(volunteers []*models.Volunteer) []*VolunteerResponse {
	responses := make([]*VolunteerResponse, len(volunteers))
	for i, v := range volunteers {
		responses[i] = ModelToVolunteerResponse(v)
	}
	return responses
}

func ModelToMissionResponse(m *models.Mission) *MissionResponse {
	return &MissionResponse{
		IncidentID:        m.IncidentID,
		VolunteerID:       m.VolunteerID,
		DistanceRemaining: m.DistanceRemaining,
		ETAMinutes:        m.ETAMinutes,
		Transcript:        m.Transcript,
		AcceptedAt:        m.AcceptedAt,
	}
}

func ModelsToStatusChangeResponses(changes []models.StatusChange) []StatusChangeResponse {
	responses := make([]StatusChangeResponse, len(changes))
	for i, ch := range changes {
		responses[i] = StatusChangeResponse{
			From:        string(ch.From),
			To:          string(ch.To),
			VolunteerID: ch.VolunteerID,
			Version:     ch.Version,
			ChangedAt:   ch.ChangedAt,
		}
	}
	return responses
}

// CategoryResponses собирает справочник категорий в порядке каскада
func CategoryResponses() []CategoryResponse {
	categories := classifier.Categories()
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		display := category.Display()
		resp := CategoryResponse{
			Category: string(display.Category),
			Label:    display.Label,
			Color:    display.Color,
		}
		if profile, ok := classifier.Profile(category); ok {
			resp.Urgency = profile.Urgency
			resp.PoliceNeeded = profile.PoliceNeeded
		}
		responses = append(responses, resp)
	}
	return responses
}
