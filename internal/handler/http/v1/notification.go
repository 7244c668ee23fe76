package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// @Summary Send a notification
// @Description Fan out a notification to the given recipients under the priority's delivery policy. Requires API key.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param notification body SendNotificationRequest true "Notification request"
// @Success 202 {object} models.DeliveryReport
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /notifications [post]
func (h *Handler) sendNotification(c *gin.Context) {
	log := h.logger.WithField("method", "sendNotification")
	var input SendNotificationRequest
	if !h.bind(c, log, &input) {
		return
	}

	n := &models.Notification{
		ID:          uuid.New(),
		EmergencyID: input.EmergencyID,
		UserID:      input.UserID,
		Title:       input.Title,
		Body:        input.Body,
		Channels:    input.Channels,
	}
	report, err := h.dispatcher.Send(c.Request.Context(), n, DTOToRecipients(input.UserID, input.Recipients), models.Priority(input.Priority))
	if err != nil {
		h.respondError(c, log, err, "Failed to send notification in service")
		return
	}
	c.JSON(http.StatusAccepted, report)
}

// @Summary List delivery attempts of a notification
// @Tags Notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Notification ID"
// @Success 200 {array} models.NotificationAttempt
// @Router /notifications/{id}/attempts [get]
func (h *Handler) listAttempts(c *gin.Context) {
	id, ok := parseID(c, "id", "notification")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listAttempts").WithField("id", id)

	attempts, err := h.dispatcher.ListAttempts(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to list attempts from service")
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// @Summary Provider delivery status callback
// @Description Report the delivery status of an attempt. The body must be signed with HMAC-SHA256 in X-Webhook-Signature.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param attempt_id path string true "Attempt ID"
// @Param callback body DeliveryCallbackRequest true "Delivery status"
// @Success 200 {object} models.NotificationAttempt
// @Failure 401 {object} map[string]string "Invalid signature"
// @Failure 409 {object} map[string]string "Status regression"
// @Router /callbacks/delivery/{attempt_id} [post]
func (h *Handler) deliveryCallback(c *gin.Context) {
	id, ok := parseID(c, "attempt_id", "attempt")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deliveryCallback").WithField("attempt_id", id)

	var input DeliveryCallbackRequest
	if !h.bind(c, log, &input) {
		return
	}

	attempt, err := h.dispatcher.ReportDeliveryStatus(c.Request.Context(), id, models.AttemptStatus(input.Status), input.Detail)
	if err != nil {
		h.respondError(c, log, err, "Failed to apply delivery status")
		return
	}
	c.JSON(http.StatusOK, attempt)
}
