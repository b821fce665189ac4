package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/config"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/shenikar/crisis_mesh/internal/service"
	"github.com/shenikar/crisis_mesh/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIncidentService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		IncidentListDefaultLimit: 30,
	}

	handler := NewHandler(mockService, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func testIncident(status models.Status) *models.Incident {
	return &models.Incident{
		ID:              uuid.New(),
		ReporterContact: "+15550001",
		Message:         "someone is following me",
		Classification: models.Classification{
			Category:          models.CategoryFollowing,
			Urgency:           8,
			RecommendedAction: models.ActionDispatchMonitor,
		},
		Status:    status,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestAnalyze_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	analysis := models.Classification{Category: models.CategoryFollowing, Urgency: 8}

	mockService.EXPECT().Analyze(gomock.Any(), "someone is following me").Return(analysis).Times(1)

	w := makeRequest(router, "POST", "/api/v1/sms/analyze", jsonBody(t, AnalyzeRequest{Message: "someone is following me"}))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.CategoryFollowing, resp.Analysis.Category)
}

func TestAnalyze_ValidationError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Analyze(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/sms/analyze", jsonBody(t, AnalyzeRequest{}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncoming_Created(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incident := testIncident(models.StatusOpen)

	mockService.EXPECT().
		IngestMessage(gomock.Any(), models.IncomingMessage{From: "+15550001", Body: "someone is following me"}).
		Return(&models.IngestResult{Incident: incident, Analysis: incident.Classification, Created: true}, nil).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/sms/incoming", jsonBody(t, IncomingSMSRequest{
		From: "+15550001",
		Body: "someone is following me",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp IncomingSMSResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Created)
	assert.Equal(t, incident.ID, resp.Incident.ID)
	assert.Equal(t, "open", resp.Incident.Status)
}

func TestIncoming_Appended(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incident := testIncident(models.StatusAccepted)

	mockService.EXPECT().
		IngestMessage(gomock.Any(), gomock.Any()).
		Return(&models.IngestResult{Incident: incident, Created: false}, nil)

	w := makeRequest(router, "POST", "/api/v1/sms/incoming", jsonBody(t, IncomingSMSRequest{From: "+1", Body: "still here"}))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIncoming_InvalidAnalysis(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().IngestMessage(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/sms/incoming", jsonBody(t, IncomingSMSRequest{
		From:     "+1",
		Body:     "help",
		Analysis: &models.Classification{Category: models.CategoryHelpRequest, Urgency: 42},
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid analysis")
}

func TestIncoming_UnknownAnalysisCategory(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().IngestMessage(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/sms/incoming", jsonBody(t, IncomingSMSRequest{
		From: "+1",
		Body: "help",
		Analysis: &models.Classification{
			Category:          models.Category("alien_invasion"),
			Urgency:           5,
			RecommendedAction: models.ActionDispatchImmediate,
		},
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid analysis")
}

func TestIncoming_StoreUnavailable(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().
		IngestMessage(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: could not create incident: %w: connection refused", service.ErrPersistenceUnavailable))

	w := makeRequest(router, "POST", "/api/v1/sms/incoming", jsonBody(t, IncomingSMSRequest{From: "+1", Body: "help"}))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestListIncidents_DefaultLimit(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidents := []*models.Incident{testIncident(models.StatusOpen), testIncident(models.StatusResolved)}

	mockService.EXPECT().ListIncidents(gomock.Any(), 30).Return(incidents, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestListIncidents_DecodesAsModels(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	volunteerID := uuid.New()
	incident := testIncident(models.StatusAccepted)
	incident.AssignedVolunteerID = &volunteerID
	incident.Version = 2

	mockService.EXPECT().ListIncidents(gomock.Any(), 5).Return([]*models.Incident{incident}, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents?limit=5", nil)

	// наблюдатели читают ответ напрямую в доменные модели
	var decoded []*models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, models.StatusAccepted, decoded[0].Status)
	assert.Equal(t, int64(2), decoded[0].Version)
	assert.Equal(t, volunteerID, *decoded[0].AssignedVolunteerID)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()

	mockService.EXPECT().GetIncident(gomock.Any(), incidentID).Return(nil, service.ErrIncidentNotFound)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "incident not found")
}

func TestAction_Accept(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incident := testIncident(models.StatusAccepted)
	volunteerID := uuid.New()

	mockService.EXPECT().
		UpdateStatus(gomock.Any(), incident.ID, models.StatusAccepted, &volunteerID).
		Return(incident, nil).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/"+incident.ID.String()+"/action",
		jsonBody(t, ActionRequest{Status: "accepted", VolunteerID: &volunteerID}))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
}

func TestAction_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid transition", service.ErrInvalidTransition},
		{"already assigned", service.ErrAlreadyAssigned},
		{"volunteer busy", service.ErrVolunteerBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mockService, router := newTestHandler(t)
			incidentID := uuid.New()

			mockService.EXPECT().
				UpdateStatus(gomock.Any(), incidentID, models.StatusOnScene, nil).
				Return(nil, fmt.Errorf("service: %w", tt.err))

			w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/action",
				jsonBody(t, ActionRequest{Status: "on-scene"}))

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestAction_UnknownStatus(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents/"+uuid.NewString()+"/action",
		jsonBody(t, ActionRequest{Status: "teleported"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMission_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()

	mockService.EXPECT().GetMission(gomock.Any(), incidentID).Return(nil, service.ErrMissionNotFound)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String()+"/mission", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMission_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	mission := &models.Mission{
		IncidentID:        incidentID,
		VolunteerID:       uuid.New(),
		DistanceRemaining: 1.35,
		ETAMinutes:        4,
		Transcript:        []string{"Reporter: help"},
	}

	mockService.EXPECT().GetMission(gomock.Any(), incidentID).Return(mission, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String()+"/mission", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"etaMinutes":4`)
}

func TestGetHistory_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	changes := []models.StatusChange{
		{IncidentID: incidentID, To: models.StatusOpen, Version: 1},
		{IncidentID: incidentID, From: models.StatusOpen, To: models.StatusAccepted, Version: 2},
	}

	mockService.EXPECT().History(gomock.Any(), incidentID).Return(changes, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String()+"/history", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []StatusChangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "accepted", resp[1].To)
}

func TestGetStats_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	stats := &models.Stats{Total: 3, Resolved: 1, Open: 2, PoliceInvolved: 1, PoliceInvolvedPercentage: 33}

	mockService.EXPECT().GetStats(gomock.Any()).Return(stats, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 33, resp.PoliceInvolvedPercentage)
}

func TestGetStats_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetStats(gomock.Any()).Return(nil, fmt.Errorf("boom")).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestListVolunteers_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	volunteers := []*models.Volunteer{{ID: uuid.New(), Name: "Maya", OnDuty: true, Available: true}}

	mockService.EXPECT().ListVolunteers(gomock.Any()).Return(volunteers, nil)

	w := makeRequest(router, "GET", "/api/v1/volunteers", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"onDuty":true`)
}

func TestSetVolunteerDuty(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	volunteerID := uuid.New()
	off := false

	mockService.EXPECT().
		SetVolunteerDuty(gomock.Any(), volunteerID, false, false).
		Return(&models.Volunteer{ID: volunteerID, Name: "Maya"}, nil)

	w := makeRequest(router, "PUT", "/api/v1/volunteers/"+volunteerID.String()+"/duty",
		jsonBody(t, DutyRequest{OnDuty: &off, Available: &off}))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetVolunteerDuty_MissingFlags(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().SetVolunteerDuty(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", "/api/v1/volunteers/"+uuid.NewString()+"/duty", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/categories", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 18)
	assert.Equal(t, "suicide_risk", resp[0].Category)
	assert.Equal(t, "suicide risk", resp[0].Label)
	assert.Equal(t, 10, resp[0].Urgency)
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
