package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// @Summary Schedule a check-in
// @Description Create a scheduled_checkin obligation. Missing the deadline plus grace triggers an emergency. Requires API key.
// @Tags Obligations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param checkin body ScheduleCheckinRequest true "Check-in request"
// @Success 201 {object} ObligationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /obligations/checkins [post]
func (h *Handler) scheduleCheckin(c *gin.Context) {
	log := h.logger.WithField("method", "scheduleCheckin")
	var input ScheduleCheckinRequest
	if !h.bind(c, log, &input) {
		return
	}

	var grace *time.Duration
	if input.GraceSeconds != nil {
		g := time.Duration(*input.GraceSeconds) * time.Second
		grace = &g
	}

	ob, err := h.obligations.ScheduleCheckin(c.Request.Context(), input.UserID, input.Deadline, grace, input.Note)
	if err != nil {
		h.respondError(c, log, err, "Failed to schedule check-in in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToObligationResponse(ob))
}

// @Summary Get obligation by ID
// @Tags Obligations
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Obligation ID"
// @Success 200 {object} ObligationResponse
// @Failure 400 {object} map[string]string "Invalid obligation ID"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Router /obligations/{id} [get]
func (h *Handler) getObligation(c *gin.Context) {
	id, ok := parseID(c, "id", "obligation")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getObligation").WithField("id", id)

	ob, err := h.obligations.GetObligation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get obligation from service")
		return
	}
	c.JSON(http.StatusOK, ModelToObligationResponse(ob))
}

// @Summary Cancel a pending obligation
// @Tags Obligations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Obligation ID"
// @Param cancel body CancelObligationRequest false "Cancel reason"
// @Success 200 {object} ObligationResponse
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 409 {object} map[string]string "Obligation already resolved"
// @Router /obligations/{id}/cancel [post]
func (h *Handler) cancelObligation(c *gin.Context) {
	id, ok := parseID(c, "id", "obligation")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "cancelObligation").WithField("id", id)

	var input CancelObligationRequest
	if c.Request.ContentLength > 0 && !h.bind(c, log, &input) {
		return
	}

	ob, err := h.obligations.Cancel(c.Request.Context(), id, input.Reason)
	if err != nil {
		h.respondError(c, log, err, "Failed to cancel obligation in service")
		return
	}
	c.JSON(http.StatusOK, ModelToObligationResponse(ob))
}

// @Summary List user obligations
// @Tags Obligations
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param status query string false "Filter by status" Enums(pending, satisfied, violated, cancelled)
// @Success 200 {array} ObligationResponse
// @Router /users/{user_id}/obligations [get]
func (h *Handler) listUserObligations(c *gin.Context) {
	userID := c.Param("user_id")
	log := h.logger.WithField("method", "listUserObligations").WithField("user_id", userID)

	status := models.ObligationStatus(c.Query("status"))
	if status != "" && status != models.ObligationPending && !status.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	obs, err := h.obligations.ListObligations(c.Request.Context(), userID, status)
	if err != nil {
		h.respondError(c, log, err, "Failed to list obligations from service")
		return
	}
	c.JSON(http.StatusOK, ModelsToObligationResponses(obs))
}

// @Summary Start a journey
// @Description Start an active journey and its arrival obligation. Requires API key.
// @Tags Journeys
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param journey body StartJourneyRequest true "Journey request"
// @Success 201 {object} JourneyResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "User already has an active journey"
// @Router /journeys [post]
func (h *Handler) startJourney(c *gin.Context) {
	log := h.logger.WithField("method", "startJourney")
	var input StartJourneyRequest
	if !h.bind(c, log, &input) {
		return
	}

	journey, arrival, err := h.obligations.StartJourney(c.Request.Context(), DTOToJourneyModel(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to start journey in service")
		return
	}
	c.JSON(http.StatusCreated, JourneyResponse{Journey: journey, Obligation: ModelToObligationResponse(arrival)})
}

// @Summary End a journey
// @Description End the journey and satisfy its pending obligations. Requires API key.
// @Tags Journeys
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Journey ID"
// @Success 200 {object} models.Journey
// @Failure 404 {object} map[string]string "Journey not found"
// @Failure 409 {object} map[string]string "Journey already ended"
// @Router /journeys/{id}/end [post]
func (h *Handler) endJourney(c *gin.Context) {
	id, ok := parseID(c, "id", "journey")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "endJourney").WithField("id", id)

	journey, err := h.obligations.EndJourney(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to end journey in service")
		return
	}
	c.JSON(http.StatusOK, journey)
}
