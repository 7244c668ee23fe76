package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1. auth защищает все маршруты,
// кроме health-check и колбэков провайдеров, которые проверяются по подписи.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth ...gin.HandlerFunc) {
	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	// Колбэки провайдеров доставки
	api.POST("/callbacks/delivery/:attempt_id", SignatureAuthMiddleware(h.cfg, h.logger), h.deliveryCallback)

	protected := api.Group("", auth...)

	users := protected.Group("/users/:user_id")
	{
		users.PUT("/profile", h.setProfile)
		users.GET("/obligations", h.listUserObligations)
		users.GET("/emergency", h.getActiveEmergency)
	}

	geofences := protected.Group("/geofences")
	{
		geofences.POST("", h.createGeofence)
		geofences.GET("", h.listGeofences)
		geofences.GET("/stats", h.getStats)
		geofences.GET("/:id", h.getGeofence)
		geofences.PUT("/:id", h.updateGeofence)
		geofences.DELETE("/:id", h.deleteGeofence)
	}

	obligations := protected.Group("/obligations")
	{
		obligations.POST("/checkins", h.scheduleCheckin)
		obligations.GET("/:id", h.getObligation)
		obligations.POST("/:id/cancel", h.cancelObligation)
	}

	journeys := protected.Group("/journeys")
	{
		journeys.POST("", h.startJourney)
		journeys.POST("/:id/end", h.endJourney)
	}

	protected.POST("/ingest", h.ingest)

	emergencies := protected.Group("/emergencies")
	{
		emergencies.POST("", h.triggerEmergency)
		emergencies.GET("/:id", h.getEmergency)
		emergencies.POST("/:id/escalate", h.escalateEmergency)
		emergencies.POST("/:id/acknowledge", h.acknowledgeEmergency)
		emergencies.POST("/:id/resolve", h.resolveEmergency)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.POST("", h.sendNotification)
		notifications.GET("/:id/attempts", h.listAttempts)
	}
}
