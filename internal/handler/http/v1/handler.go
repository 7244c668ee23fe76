package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Services - сервисы движка, которые обслуживает API
type Services struct {
	Profiles    service.ProfileService
	Geofences   service.GeofenceService
	Obligations service.ObligationService
	Ingestion   service.IngestionService
	Emergencies service.EmergencyService
	Dispatcher  service.DispatchService
}

type Handler struct {
	profiles    service.ProfileService
	geofences   service.GeofenceService
	obligations service.ObligationService
	ingestion   service.IngestionService
	emergencies service.EmergencyService
	dispatcher  service.DispatchService
	logger      *logrus.Logger
	validate    *validator.Validate
	cfg         *config.Config
}

func NewHandler(services Services, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		profiles:    services.Profiles,
		geofences:   services.Geofences,
		obligations: services.Obligations,
		ingestion:   services.Ingestion,
		emergencies: services.Emergencies,
		dispatcher:  services.Dispatcher,
		logger:      logger,
		validate:    validator.New(),
		cfg:         cfg,
	}
}

// bind разбирает и валидирует тело запроса, при ошибке сам отвечает 400
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

func parseID(c *gin.Context, param, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + entity + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// statusFor сопоставляет вид ошибки движка с HTTP-статусом
func statusFor(err error) int {
	kind, ok := apperror.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidTransition, apperror.KindConcurrencyConflict, apperror.KindDuplicate:
		return http.StatusConflict
	case apperror.KindValidation, apperror.KindConfiguration:
		return http.StatusBadRequest
	case apperror.KindAlreadyActive:
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// respondError пишет ответ по виду ошибки. Внутренние ошибки наружу не раскрываются.
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body["kind"] = appErr.Kind
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error(msg)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	log.WithError(err).Warn(msg)
	c.JSON(status, body)
}

// @Summary Set user home timezone
// @Description Set the IANA timezone used to evaluate geofence schedules. Requires API key.
// @Tags Profiles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param profile body SetProfileRequest true "Profile update request"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} map[string]string "Invalid request body or unknown timezone"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/profile [put]
func (h *Handler) setProfile(c *gin.Context) {
	log := h.logger.WithField("method", "setProfile").WithField("user_id", c.Param("user_id"))
	var input SetProfileRequest
	if !h.bind(c, log, &input) {
		return
	}

	profile, err := h.profiles.SetTimezone(c.Request.Context(), c.Param("user_id"), input.Timezone)
	if err != nil {
		h.respondError(c, log, err, "Failed to set timezone in service")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Summary Create a new geofence
// @Description Create a circle or polygon geofence with a risk level. Requires API key.
// @Tags Geofences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param geofence body GeofenceRequest true "Geofence creation request"
// @Success 201 {object} GeofenceResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /geofences [post]
func (h *Handler) createGeofence(c *gin.Context) {
	log := h.logger.WithField("method", "createGeofence")
	var input GeofenceRequest
	if !h.bind(c, log, &input) {
		return
	}

	model := DTOToGeofenceModel(input)
	if err := h.geofences.CreateGeofence(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err, "Failed to create geofence in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToGeofenceResponse(model))
}

// @Summary Get a list of geofences
// @Description Get a paginated list of geofences, optionally filtered by user. Requires API key.
// @Tags Geofences
// @Produce json
// @Security ApiKeyAuth
// @Param user_id query string false "Owner user ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} GeofenceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /geofences [get]
func (h *Handler) listGeofences(c *gin.Context) {
	log := h.logger.WithField("method", "listGeofences")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	fences, err := h.geofences.ListGeofences(c.Request.Context(), c.Query("user_id"), page, pageSize)
	if err != nil {
		h.respondError(c, log, err, "Failed to list geofences from service")
		return
	}
	c.JSON(http.StatusOK, ModelsToGeofenceResponses(fences))
}

// @Summary Get geofence by ID
// @Tags Geofences
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Geofence ID"
// @Success 200 {object} GeofenceResponse
// @Failure 400 {object} map[string]string "Invalid geofence ID"
// @Failure 404 {object} map[string]string "Geofence not found"
// @Router /geofences/{id} [get]
func (h *Handler) getGeofence(c *gin.Context) {
	id, ok := parseID(c, "id", "geofence")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getGeofence").WithField("id", id)

	fence, err := h.geofences.GetGeofence(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get geofence from service")
		return
	}
	c.JSON(http.StatusOK, ModelToGeofenceResponse(fence))
}

// @Summary Update an existing geofence
// @Tags Geofences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Geofence ID"
// @Param geofence body GeofenceRequest true "Geofence update request"
// @Success 200 {object} GeofenceResponse
// @Failure 400 {object} map[string]string "Invalid geofence ID or request body"
// @Failure 404 {object} map[string]string "Geofence not found"
// @Router /geofences/{id} [put]
func (h *Handler) updateGeofence(c *gin.Context) {
	id, ok := parseID(c, "id", "geofence")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateGeofence").WithField("id", id)

	var input GeofenceRequest
	if !h.bind(c, log, &input) {
		return
	}

	model := DTOToGeofenceModel(input)
	model.ID = id
	updated, err := h.geofences.UpdateGeofence(c.Request.Context(), model)
	if err != nil {
		h.respondError(c, log, err, "Failed to update geofence in service")
		return
	}
	c.JSON(http.StatusOK, ModelToGeofenceResponse(updated))
}

// @Summary Deactivate a geofence
// @Description Mark the geofence inactive. Users inside it are treated as leaving on their next update. Requires API key.
// @Tags Geofences
// @Security ApiKeyAuth
// @Param id path string true "Geofence ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid geofence ID"
// @Failure 404 {object} map[string]string "Geofence not found"
// @Router /geofences/{id} [delete]
func (h *Handler) deleteGeofence(c *gin.Context) {
	id, ok := parseID(c, "id", "geofence")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteGeofence").WithField("id", id)

	if err := h.geofences.DeactivateGeofence(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err, "Failed to deactivate geofence in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get user statistics
// @Description Get the number of distinct users seen within the stats window. Requires API key.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /geofences/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.geofences.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to get stats from service")
		return
	}
	c.JSON(http.StatusOK, StatsResponse{UserCount: stats.UserCount, WindowMinutes: stats.WindowMinutes})
}

// @Summary Ingest a location update or check-in
// @Description Evaluate a location against the user's geofences and active journey, accept a check-in or a duress signal. Requires API key.
// @Tags Location
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param update body IngestRequest true "Location update"
// @Success 200 {object} models.IngestResult
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ingest [post]
func (h *Handler) ingest(c *gin.Context) {
	log := h.logger.WithField("method", "ingest")
	var input IngestRequest
	if !h.bind(c, log, &input) {
		return
	}

	res, err := h.ingestion.Ingest(c.Request.Context(), DTOToLocationUpdate(input), service.SourceHTTP)
	if err != nil {
		// шаги независимы, частичный результат отдается вместе с ошибкой
		status := statusFor(err)
		if status == http.StatusInternalServerError && res != nil {
			log.WithError(err).Error("Ingest completed with errors")
			c.JSON(http.StatusMultiStatus, gin.H{"result": res, "error": "some steps failed"})
			return
		}
		h.respondError(c, log, err, "Failed to ingest update")
		return
	}
	c.JSON(http.StatusOK, res)
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
