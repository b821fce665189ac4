package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_mesh/internal/classifier"
	"github.com/shenikar/crisis_mesh/internal/config"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/shenikar/crisis_mesh/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// errorStatuses сопоставляет ошибки сервиса HTTP-статусам. Порядок важен:
// ошибка хранилища может оборачивать и другие причины
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrPersistenceUnavailable, http.StatusServiceUnavailable},
	{service.ErrInvalidTransition, http.StatusConflict},
	{service.ErrAlreadyAssigned, http.StatusConflict},
	{service.ErrVolunteerBusy, http.StatusConflict},
	{service.ErrVolunteerRequired, http.StatusBadRequest},
	{service.ErrIncidentNotFound, http.StatusNotFound},
	{service.ErrVolunteerNotFound, http.StatusNotFound},
	{service.ErrMissionNotFound, http.StatusNotFound},
}

// respondError пишет ответ с текстом сентинела, не раскрывая деталей хранилища
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		if e.status >= http.StatusInternalServerError {
			log.WithError(err).Error("Service unavailable")
		} else {
			log.WithError(err).Warn("Request rejected by service")
		}
		c.JSON(e.status, gin.H{"error": e.err.Error()})
		return
	}
	log.WithError(err).Error("Unexpected service error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (h *Handler) parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// bind разбирает и валидирует тело запроса
func (h *Handler) bind(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary Classify a message
// @Description Classify a message without creating an incident. No side effects.
// @Tags SMS
// @Accept json
// @Produce json
// @Param message body AnalyzeRequest true "Message to classify"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /sms/analyze [post]
func (h *Handler) analyzeMessage(c *gin.Context) {
	var input AnalyzeRequest
	log := h.logger.WithField("method", "analyzeMessage")

	if !h.bind(c, log, &input) {
		return
	}

	analysis := h.incidentService.Analyze(c.Request.Context(), input.Message)
	c.JSON(http.StatusOK, AnalyzeResponse{Analysis: analysis})
}

// @Summary Ingest an incoming message
// @Description Create an incident for the sender or append the message to their open incident.
// @Tags SMS
// @Accept json
// @Produce json
// @Param message body IncomingSMSRequest true "Incoming message"
// @Success 201 {object} IncomingSMSResponse "Incident created"
// @Success 200 {object} IncomingSMSResponse "Message appended to open incident"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /sms/incoming [post]
func (h *Handler) incomingMessage(c *gin.Context) {
	var input IncomingSMSRequest
	log := h.logger.WithField("method", "incomingMessage")

	if !h.bind(c, log, &input) {
		return
	}
	if input.Analysis != nil && !validAnalysis(input.Analysis) {
		log.Warn("Provided analysis is malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis"})
		return
	}

	result, err := h.incidentService.IngestMessage(c.Request.Context(), DTOToIncomingMessage(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, IncomingSMSResponse{
		Incident: ModelToIncidentResponse(result.Incident),
		Analysis: result.Analysis,
		Created:  result.Created,
	})
}

func validAnalysis(a *models.Classification) bool {
	if _, known := classifier.Profile(a.Category); !known {
		return false
	}
	return a.Urgency >= 1 && a.Urgency <= 10 &&
		a.RecommendedAction.Valid()
}

// @Summary Get a list of incidents
// @Description Get the most recent incidents, newest first.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param limit query int false "Number of incidents" default(30)
// @Success 200 {array} IncidentResponse
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.cfg.IncidentListDefaultLimit)))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := h.parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get the active mission of an incident
// @Description Distance and ETA of the assigned volunteer and the message transcript.
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} MissionResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident or mission not found"
// @Router /incidents/{id}/mission [get]
func (h *Handler) getMission(c *gin.Context) {
	id, ok := h.parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getMission").WithField("id", id)

	mission, err := h.incidentService.GetMission(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToMissionResponse(mission))
}

// @Summary Get status history of an incident
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {array} StatusChangeResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	id, ok := h.parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getHistory").WithField("id", id)

	changes, err := h.incidentService.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToStatusChangeResponses(changes))
}

// @Summary Apply a volunteer action
// @Description Move the incident to the requested status. Acceptance requires volunteerId.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param action body ActionRequest true "Target status"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 404 {object} map[string]string "Incident or volunteer not found"
// @Failure 409 {object} map[string]string "Transition rejected"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /incidents/{id}/action [post]
func (h *Handler) incidentAction(c *gin.Context) {
	id, ok := h.parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "incidentAction").WithField("id", id)

	var input ActionRequest
	if !h.bind(c, log, &input) {
		return
	}

	incident, err := h.incidentService.UpdateStatus(c.Request.Context(), id, models.Status(input.Status), input.VolunteerID)
	if err != nil {
		h.respondError(c, log.WithField("status", input.Status), err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get incident statistics
// @Description Aggregates over all incidents.
// @Tags Incidents
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelToStatsResponse(stats))
}

// @Summary List volunteers
// @Tags Volunteers
// @Produce json
// @Success 200 {array} VolunteerResponse
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /volunteers [get]
func (h *Handler) listVolunteers(c *gin.Context) {
	log := h.logger.WithField("method", "listVolunteers")

	volunteers, err := h.incidentService.ListVolunteers(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToVolunteerResponses(volunteers))
}

// @Summary Change volunteer duty
// @Tags Volunteers
// @Accept json
// @Produce json
// @Param id path string true "Volunteer ID"
// @Param duty body DutyRequest true "Duty flags"
// @Success 200 {object} VolunteerResponse
// @Failure 400 {object} map[string]string "Invalid volunteer ID or request body"
// @Failure 404 {object} map[string]string "Volunteer not found"
// @Router /volunteers/{id}/duty [put]
func (h *Handler) setVolunteerDuty(c *gin.Context) {
	id, ok := h.parseID(c, "volunteer")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "setVolunteerDuty").WithField("id", id)

	var input DutyRequest
	if !h.bind(c, log, &input) {
		return
	}

	volunteer, err := h.incidentService.SetVolunteerDuty(c.Request.Context(), id, *input.OnDuty, *input.Available)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVolunteerResponse(volunteer))
}

// @Summary List categories
// @Description Category display data in cascade priority order.
// @Tags System
// @Produce json
// @Success 200 {array} CategoryResponse
// @Router /categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoryResponses())
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
