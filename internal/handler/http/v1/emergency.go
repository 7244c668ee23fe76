package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// @Summary Trigger an emergency
// @Description Trigger an emergency for the user. An already active emergency is returned with status 200. Requires API key.
// @Tags Emergencies
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param emergency body TriggerEmergencyRequest true "Trigger request"
// @Success 201 {object} models.Emergency "Emergency created"
// @Success 200 {object} models.Emergency "Emergency already active"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /emergencies [post]
func (h *Handler) triggerEmergency(c *gin.Context) {
	log := h.logger.WithField("method", "triggerEmergency")
	var input TriggerEmergencyRequest
	if !h.bind(c, log, &input) {
		return
	}
	reason := models.TriggerReason(input.Reason)
	if reason == "" {
		reason = models.ReasonManual
	}

	e, err := h.emergencies.TriggerEmergency(c.Request.Context(), input.UserID, reason, input.CausationID)
	if errors.Is(err, apperror.ErrAlreadyActive) && e != nil {
		log.WithField("emergency_id", e.ID).Info("Emergency already active, returning existing")
		c.JSON(http.StatusOK, e)
		return
	}
	if err != nil {
		h.respondError(c, log, err, "Failed to trigger emergency in service")
		return
	}
	c.JSON(http.StatusCreated, e)
}

// @Summary Get emergency by ID
// @Tags Emergencies
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Emergency ID"
// @Success 200 {object} models.Emergency
// @Failure 404 {object} map[string]string "Emergency not found"
// @Router /emergencies/{id} [get]
func (h *Handler) getEmergency(c *gin.Context) {
	id, ok := parseID(c, "id", "emergency")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getEmergency").WithField("id", id)

	e, err := h.emergencies.GetEmergency(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get emergency from service")
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary Get the user's active emergency
// @Tags Emergencies
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} models.Emergency
// @Failure 404 {object} map[string]string "No active emergency"
// @Router /users/{user_id}/emergency [get]
func (h *Handler) getActiveEmergency(c *gin.Context) {
	userID := c.Param("user_id")
	log := h.logger.WithField("method", "getActiveEmergency").WithField("user_id", userID)

	e, err := h.emergencies.GetActiveEmergency(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, log, err, "Failed to get active emergency from service")
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary Escalate an emergency
// @Description Raise the escalation level by one step and notify the next ladder tier. Requires API key.
// @Tags Emergencies
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Emergency ID"
// @Success 200 {object} models.Emergency
// @Failure 404 {object} map[string]string "Emergency not found"
// @Failure 409 {object} map[string]string "Emergency is not active"
// @Router /emergencies/{id}/escalate [post]
func (h *Handler) escalateEmergency(c *gin.Context) {
	id, ok := parseID(c, "id", "emergency")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "escalateEmergency").WithField("id", id)

	e, err := h.emergencies.Escalate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to escalate emergency in service")
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary Acknowledge an emergency
// @Tags Emergencies
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Emergency ID"
// @Param ack body AcknowledgeRequest true "Acknowledging contact"
// @Success 200 {object} models.Emergency
// @Failure 400 {object} map[string]string "Unknown contact"
// @Failure 409 {object} map[string]string "Emergency already closed"
// @Router /emergencies/{id}/acknowledge [post]
func (h *Handler) acknowledgeEmergency(c *gin.Context) {
	id, ok := parseID(c, "id", "emergency")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "acknowledgeEmergency").WithField("id", id)

	var input AcknowledgeRequest
	if !h.bind(c, log, &input) {
		return
	}

	e, err := h.emergencies.Acknowledge(c.Request.Context(), id, input.ContactID)
	if err != nil {
		h.respondError(c, log, err, "Failed to acknowledge emergency in service")
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary Resolve an emergency
// @Tags Emergencies
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Emergency ID"
// @Param resolve body ResolveRequest true "Outcome"
// @Success 200 {object} models.Emergency
// @Failure 409 {object} map[string]string "Emergency already closed"
// @Router /emergencies/{id}/resolve [post]
func (h *Handler) resolveEmergency(c *gin.Context) {
	id, ok := parseID(c, "id", "emergency")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resolveEmergency").WithField("id", id)

	var input ResolveRequest
	if !h.bind(c, log, &input) {
		return
	}

	e, err := h.emergencies.Resolve(c.Request.Context(), id, models.EmergencyStatus(input.Outcome))
	if err != nil {
		h.respondError(c, log, err, "Failed to resolve emergency in service")
		return
	}
	c.JSON(http.StatusOK, e)
}
