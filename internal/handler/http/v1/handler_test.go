package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/delivery"
	"github.com/shenikar/safety_coordination_system/internal/mocks"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testAPIKey = "test-api-key"

var apiKeyHeader = map[string]string{"X-API-Key": testAPIKey}

type testMocks struct {
	profiles    *mocks.MockProfileService
	geofences   *mocks.MockGeofenceService
	obligations *mocks.MockObligationService
	ingestion   *mocks.MockIngestionService
	emergencies *mocks.MockEmergencyService
	dispatcher  *mocks.MockDispatchService
}

// newTestHandler создает роутер с мокированными сервисами и проверкой API-ключа
func newTestHandler(t *testing.T) (*testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &testMocks{
		profiles:    mocks.NewMockProfileService(ctrl),
		geofences:   mocks.NewMockGeofenceService(ctrl),
		obligations: mocks.NewMockObligationService(ctrl),
		ingestion:   mocks.NewMockIngestionService(ctrl),
		emergencies: mocks.NewMockEmergencyService(ctrl),
		dispatcher:  mocks.NewMockDispatchService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:       []string{testAPIKey},
		WebhookSecret: "callback-secret",
	}

	handler := NewHandler(Services{
		Profiles:    m.profiles,
		Geofences:   m.geofences,
		Obligations: m.obligations,
		Ingestion:   m.ingestion,
		Emergencies: m.emergencies,
		Dispatcher:  m.dispatcher,
	}, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, APIKeyAuthMiddleware(cfg, logger))

	return m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func TestHealthCheck_NoAPIKey(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuth_MissingAndInvalidKey(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/geofences", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")

	w = makeRequest(router, http.MethodGet, "/api/v1/geofences", nil, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestCreateGeofence_Success(t *testing.T) {
	// Подготовка
	m, router := newTestHandler(t)
	fenceID := uuid.New()
	reqBody := GeofenceRequest{
		UserID:          "u1",
		Name:            "Night market",
		Latitude:        55.75,
		Longitude:       37.61,
		RadiusMeters:    150,
		RiskLevel:       "risk",
		MaxDwellSeconds: 600,
	}

	// Ожидания
	m.geofences.EXPECT().
		CreateGeofence(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.Geofence) error {
			assert.Equal(t, 10*time.Minute, g.MaxDwell)
			assert.Equal(t, models.RiskRisk, g.RiskLevel)
			g.ID = fenceID
			g.Shape = models.ShapeCircle
			g.Status = models.GeofenceStatusActive
			return nil
		})

	// Действие
	w := makeRequest(router, http.MethodPost, "/api/v1/geofences", jsonBody(t, reqBody), apiKeyHeader)

	// Проверки
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp GeofenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, fenceID, resp.ID)
	assert.Equal(t, 600, resp.MaxDwellSeconds)
	assert.Equal(t, "circle", resp.Shape)
}

func TestCreateGeofence_InvalidJSON(t *testing.T) {
	m, router := newTestHandler(t)

	m.geofences.EXPECT().CreateGeofence(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, http.MethodPost, "/api/v1/geofences", bytes.NewBufferString(`{"user_id": "u1"`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateGeofence_ValidationError(t *testing.T) {
	m, router := newTestHandler(t)
	reqBody := GeofenceRequest{UserID: "u1", RiskLevel: "deadly"} // Неизвестный уровень риска

	m.geofences.EXPECT().CreateGeofence(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, http.MethodPost, "/api/v1/geofences", jsonBody(t, reqBody), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'RiskLevel' failed on the 'oneof' tag")
}

func TestCreateGeofence_ServiceValidationError(t *testing.T) {
	m, router := newTestHandler(t)
	reqBody := GeofenceRequest{UserID: "u1", RiskLevel: "risk", Schedule: []models.TimeWindow{{Start: "25:00", End: "06:00"}}}

	m.geofences.EXPECT().CreateGeofence(gomock.Any(), gomock.Any()).Return(apperror.Validation("invalid schedule"))

	w := makeRequest(router, http.MethodPost, "/api/v1/geofences", jsonBody(t, reqBody), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid schedule")
}

func TestListGeofences_PassesQuery(t *testing.T) {
	m, router := newTestHandler(t)

	m.geofences.EXPECT().ListGeofences(gomock.Any(), "u1", 2, 5).Return([]*models.Geofence{{ID: uuid.New(), UserID: "u1"}}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/geofences?user_id=u1&page=2&pageSize=5", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []GeofenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestGetGeofence_Errors(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	w := makeRequest(router, http.MethodGet, "/api/v1/geofences/not-a-uuid", nil, apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid geofence ID")

	m.geofences.EXPECT().GetGeofence(gomock.Any(), id).Return(nil, apperror.NotFound("geofence", id.String()))
	w = makeRequest(router, http.MethodGet, "/api/v1/geofences/"+id.String(), nil, apiKeyHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)

	m.geofences.EXPECT().GetGeofence(gomock.Any(), id).Return(nil, errors.New("connection reset"))
	w = makeRequest(router, http.MethodGet, "/api/v1/geofences/"+id.String(), nil, apiKeyHeader)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestDeleteGeofence(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.geofences.EXPECT().DeactivateGeofence(gomock.Any(), id).Return(nil)

	w := makeRequest(router, http.MethodDelete, "/api/v1/geofences/"+id.String(), nil, apiKeyHeader)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetStats(t *testing.T) {
	m, router := newTestHandler(t)

	m.geofences.EXPECT().GetStats(gomock.Any()).Return(&models.LocationStats{UserCount: 7, WindowMinutes: 60}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/geofences/stats", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_count":7,"window_minutes":60}`, w.Body.String())
}

func TestSetProfile(t *testing.T) {
	m, router := newTestHandler(t)

	m.profiles.EXPECT().SetTimezone(gomock.Any(), "u1", "Mars/Olympus").Return(nil, apperror.Validation("unknown timezone"))

	w := makeRequest(router, http.MethodPut, "/api/v1/users/u1/profile", jsonBody(t, SetProfileRequest{Timezone: "Mars/Olympus"}), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation")
}

func TestScheduleCheckin_ConvertsGrace(t *testing.T) {
	// Подготовка
	m, router := newTestHandler(t)
	deadline := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	grace := 300
	obID := uuid.New()

	// Ожидания
	m.obligations.EXPECT().
		ScheduleCheckin(gomock.Any(), "u1", deadline, gomock.Any(), "hike").
		DoAndReturn(func(_ context.Context, userID string, d time.Time, g *time.Duration, note string) (*models.Obligation, error) {
			require.NotNil(t, g)
			assert.Equal(t, 5*time.Minute, *g)
			return &models.Obligation{ID: obID, UserID: userID, Kind: models.ObligationScheduledCheckin,
				Deadline: d, GracePeriod: *g, Status: models.ObligationPending, Version: 1}, nil
		})

	// Действие
	w := makeRequest(router, http.MethodPost, "/api/v1/obligations/checkins",
		jsonBody(t, ScheduleCheckinRequest{UserID: "u1", Deadline: deadline, GraceSeconds: &grace, Note: "hike"}), apiKeyHeader)

	// Проверки
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp ObligationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, obID, resp.ID)
	assert.Equal(t, 300, resp.GraceSeconds)
	assert.Equal(t, "pending", resp.Status)
}

func TestCancelObligation_AlreadyResolved(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.obligations.EXPECT().Cancel(gomock.Any(), id, "").
		Return(nil, apperror.InvalidTransition("obligation", id.String(), "satisfied", "cancelled"))

	w := makeRequest(router, http.MethodPost, "/api/v1/obligations/"+id.String()+"/cancel", nil, apiKeyHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}

func TestListUserObligations_StatusFilter(t *testing.T) {
	m, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/users/u1/obligations?status=late", nil, apiKeyHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	m.obligations.EXPECT().ListObligations(gomock.Any(), "u1", models.ObligationPending).Return(nil, nil)
	w = makeRequest(router, http.MethodGet, "/api/v1/users/u1/obligations?status=pending", nil, apiKeyHeader)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStartJourney_AlreadyActive(t *testing.T) {
	m, router := newTestHandler(t)
	req := StartJourneyRequest{
		UserID:          "u1",
		Route:           []PointDTO{{Latitude: 55.75, Longitude: 37.61}, {Latitude: 55.76, Longitude: 37.62}},
		ToleranceMeters: 100,
		ExpectedArrival: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	m.obligations.EXPECT().StartJourney(gomock.Any(), gomock.Any()).Return(nil, nil, apperror.Duplicate("journey", "u1"))

	w := makeRequest(router, http.MethodPost, "/api/v1/journeys", jsonBody(t, req), apiKeyHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTriggerEmergency(t *testing.T) {
	existing := &models.Emergency{ID: uuid.New(), UserID: "u1", Status: models.EmergencyActive, Reason: models.ReasonManual}

	tests := []struct {
		name       string
		returned   *models.Emergency
		err        error
		wantStatus int
	}{
		{name: "created", returned: existing, wantStatus: http.StatusCreated},
		{name: "already active", returned: existing, err: apperror.AlreadyActive("emergency", existing.ID.String()), wantStatus: http.StatusOK},
		{name: "no contacts", err: apperror.Configuration("user", "u1", "no contacts"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)

			m.emergencies.EXPECT().TriggerEmergency(gomock.Any(), "u1", models.ReasonManual, nil).Return(tt.returned, tt.err)

			w := makeRequest(router, http.MethodPost, "/api/v1/emergencies", jsonBody(t, TriggerEmergencyRequest{UserID: "u1"}), apiKeyHeader)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.returned != nil {
				var resp models.Emergency
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, existing.ID, resp.ID)
			}
		})
	}
}

func TestResolveEmergency_InvalidOutcome(t *testing.T) {
	m, router := newTestHandler(t)

	m.emergencies.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, http.MethodPost, "/api/v1/emergencies/"+uuid.NewString()+"/resolve",
		jsonBody(t, ResolveRequest{Outcome: "forgotten"}), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcknowledgeEmergency(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.emergencies.EXPECT().Acknowledge(gomock.Any(), id, "c1").
		Return(&models.Emergency{ID: id, Status: models.EmergencyAcknowledged, AcknowledgedBy: "c1"}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/emergencies/"+id.String()+"/acknowledge",
		jsonBody(t, AcknowledgeRequest{ContactID: "c1"}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"acknowledged"`)
}

func TestIngest_PartialFailure(t *testing.T) {
	m, router := newTestHandler(t)
	fenceID := uuid.New()

	m.ingestion.EXPECT().Ingest(gomock.Any(), gomock.Any(), "http").
		Return(&models.IngestResult{Entered: []uuid.UUID{fenceID}}, errors.New("emergency store unavailable"))

	w := makeRequest(router, http.MethodPost, "/api/v1/ingest",
		jsonBody(t, IngestRequest{UserID: "u1", Location: &PointDTO{Latitude: 55.75, Longitude: 37.61}}), apiKeyHeader)

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Contains(t, w.Body.String(), fenceID.String())
}

func TestSendNotification(t *testing.T) {
	m, router := newTestHandler(t)
	req := SendNotificationRequest{
		UserID:   "u1",
		Priority: "high",
		Body:     "Running late",
		Recipients: []RecipientDTO{
			{ContactID: "c1", PriorityTier: 1, Addresses: map[models.Channel]string{models.ChannelSMS: "+100"}},
		},
	}

	m.dispatcher.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), models.PriorityHigh).
		DoAndReturn(func(_ context.Context, n *models.Notification, recipients []models.Contact, p models.Priority) (*models.DeliveryReport, error) {
			assert.NotEqual(t, uuid.Nil, n.ID)
			require.Len(t, recipients, 1)
			assert.Equal(t, "u1", recipients[0].UserID)
			return &models.DeliveryReport{NotificationID: n.ID, Priority: p}, nil
		})

	w := makeRequest(router, http.MethodPost, "/api/v1/notifications", jsonBody(t, req), apiKeyHeader)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestDeliveryCallback_Signature(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()
	body := []byte(`{"status":"delivered"}`)

	// неверная подпись
	w := makeRequest(router, http.MethodPost, "/api/v1/callbacks/delivery/"+id.String(), bytes.NewReader(body),
		map[string]string{delivery.SignatureHeader: "00"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// верная подпись, API-ключ не нужен
	m.dispatcher.EXPECT().ReportDeliveryStatus(gomock.Any(), id, models.AttemptDelivered, "").
		Return(&models.NotificationAttempt{ID: id, Status: models.AttemptDelivered}, nil)
	w = makeRequest(router, http.MethodPost, "/api/v1/callbacks/delivery/"+id.String(), bytes.NewReader(body),
		map[string]string{delivery.SignatureHeader: delivery.Sign(body, "callback-secret")})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeliveryCallback_StatusRegression(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()
	body := []byte(`{"status":"sent"}`)

	m.dispatcher.EXPECT().ReportDeliveryStatus(gomock.Any(), id, models.AttemptSent, "").
		Return(nil, apperror.InvalidTransition("notification_attempt", id.String(), "delivered", "sent"))

	w := makeRequest(router, http.MethodPost, "/api/v1/callbacks/delivery/"+id.String(), bytes.NewReader(body),
		map[string]string{delivery.SignatureHeader: delivery.Sign(body, "callback-secret")})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.NotFound("emergency", "1"), http.StatusNotFound},
		{apperror.InvalidTransition("emergency", "1", "resolved", "acknowledged"), http.StatusConflict},
		{apperror.ConcurrencyConflict("emergency", "1"), http.StatusConflict},
		{apperror.Validation("bad"), http.StatusBadRequest},
		{apperror.Configuration("user", "u1", "no contacts"), http.StatusBadRequest},
		{apperror.AlreadyActive("emergency", "1"), http.StatusOK},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	_, err := RateLimitMiddleware("lots")
	assert.Error(t, err)

	mw, err := RateLimitMiddleware("2-M")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, makeRequest(router, http.MethodGet, "/ping", nil, apiKeyHeader).Code)
	assert.Equal(t, http.StatusOK, makeRequest(router, http.MethodGet, "/ping", nil, apiKeyHeader).Code)
	assert.Equal(t, http.StatusTooManyRequests, makeRequest(router, http.MethodGet, "/ping", nil, apiKeyHeader).Code)
}
