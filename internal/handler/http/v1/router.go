package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Входящие сообщения
	sms := api.Group("/sms")
	{
		sms.POST("/analyze", h.analyzeMessage)
		sms.POST("/incoming", h.incomingMessage)
	}

	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/stats", h.getStats)
		incidents.GET("/:id", h.getIncident)
		incidents.GET("/:id/mission", h.getMission)
		incidents.GET("/:id/history", h.getHistory)
		incidents.POST("/:id/action", h.incidentAction)
	}

	volunteers := api.Group("/volunteers")
	{
		volunteers.GET("", h.listVolunteers)
		volunteers.PUT("/:id/duty", h.setVolunteerDuty)
	}

	api.GET("/categories", h.listCategories)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
