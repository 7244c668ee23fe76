package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestGeofenceService создает сервис геозон с мокированными репозиториями
func newTestGeofenceService(t *testing.T) (*geofenceService, *mocks.MockGeofenceRepository, *mocks.MockLocationRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockGeofenceRepository(ctrl)
	locationsMock := mocks.NewMockLocationRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		StatsTimeWindowMinutes: 60,
	}

	svc := NewGeofenceService(repoMock, locationsMock, cfg, logger, WithClock(func() time.Time { return testEpoch }))
	return svc.(*geofenceService), repoMock, locationsMock
}

func TestCreateGeofence_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestGeofenceService(t)
	ctx := context.Background()
	fence := &models.Geofence{
		UserID:       "u1",
		Name:         "Стройплощадка",
		Latitude:     55.75,
		Longitude:    37.61,
		RadiusMeters: 150,
		RiskLevel:    models.RiskRisk,
		MaxDwell:     20 * time.Minute,
	}

	// Ожидания
	repoMock.EXPECT().
		CreateGeofence(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.Geofence) error {
			assert.NotEqual(t, uuid.Nil, g.ID)
			assert.Equal(t, models.ShapeCircle, g.Shape)
			assert.Equal(t, models.GeofenceStatusActive, g.Status)
			assert.Equal(t, testEpoch, g.CreatedAt)
			return nil
		}).
		Times(1)

	// Действие
	err := svc.CreateGeofence(ctx, fence)

	// Проверки
	require.NoError(t, err)
}

func TestCreateGeofence_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		fence models.Geofence
	}{
		{name: "no user", fence: models.Geofence{RiskLevel: models.RiskSafe}},
		{name: "unknown shape", fence: models.Geofence{UserID: "u1", Shape: "hexagon", RiskLevel: models.RiskSafe}},
		{name: "unknown risk", fence: models.Geofence{UserID: "u1", RiskLevel: "extreme"}},
		{name: "negative dwell", fence: models.Geofence{UserID: "u1", RiskLevel: models.RiskRisk, MaxDwell: -time.Minute}},
		{name: "bad schedule", fence: models.Geofence{UserID: "u1", RiskLevel: models.RiskRisk,
			Schedule: []models.TimeWindow{{Start: "25:00", End: "26:00"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Подготовка
			svc, repoMock, _ := newTestGeofenceService(t)
			fence := tt.fence

			// Ожидания
			repoMock.EXPECT().CreateGeofence(gomock.Any(), gomock.Any()).Times(0) // Репозиторий не должен вызываться

			// Действие
			err := svc.CreateGeofence(context.Background(), &fence)

			// Проверки
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestCreateGeofence_DegenerateGeometryIsStored(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestGeofenceService(t)
	fence := &models.Geofence{UserID: "u1", Latitude: 10, Longitude: 10, RadiusMeters: 0, RiskLevel: models.RiskRisk}

	// Ожидания
	repoMock.EXPECT().CreateGeofence(gomock.Any(), fence).Return(nil).Times(1)

	// Действие
	err := svc.CreateGeofence(context.Background(), fence)

	// Проверки
	require.NoError(t, err)
}

func TestUpdateGeofence_NotFound(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestGeofenceService(t)
	ctx := context.Background()
	id := uuid.New()

	// Ожидания
	repoMock.EXPECT().GetGeofence(ctx, id).Return(nil, apperror.NotFound("geofence", id.String())).Times(1)
	repoMock.EXPECT().UpdateGeofence(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.UpdateGeofence(ctx, &models.Geofence{ID: id})

	// Проверки
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateGeofence_RejectsUnknownStatus(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestGeofenceService(t)
	ctx := context.Background()
	existing := &models.Geofence{ID: uuid.New(), UserID: "u1", RiskLevel: models.RiskSafe, Shape: models.ShapeCircle,
		RadiusMeters: 50, Status: models.GeofenceStatusActive}

	// Ожидания
	repoMock.EXPECT().GetGeofence(ctx, existing.ID).Return(existing, nil).Times(1)
	repoMock.EXPECT().UpdateGeofence(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.UpdateGeofence(ctx, &models.Geofence{ID: existing.ID, RiskLevel: models.RiskSafe, Status: "archived"})

	// Проверки
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeactivateGeofence_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestGeofenceService(t)
	ctx := context.Background()
	existing := &models.Geofence{ID: uuid.New(), UserID: "u1", Status: models.GeofenceStatusActive}

	// Ожидания
	repoMock.EXPECT().GetGeofence(ctx, existing.ID).Return(existing, nil).Times(1)
	repoMock.EXPECT().
		UpdateGeofence(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.Geofence) error {
			assert.Equal(t, models.GeofenceStatusInactive, g.Status)
			assert.Equal(t, testEpoch, g.UpdatedAt)
			return nil
		}).
		Times(1)

	// Действие
	err := svc.DeactivateGeofence(ctx, existing.ID)

	// Проверки
	require.NoError(t, err)
}

func TestListGeofences_DefaultPaging(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestGeofenceService(t)
	ctx := context.Background()
	expected := []*models.Geofence{{ID: uuid.New(), UserID: "u1"}}

	// Ожидания
	repoMock.EXPECT().ListGeofences(ctx, "u1", 1, 20).Return(expected, nil).Times(1)

	// Действие
	fences, err := svc.ListGeofences(ctx, " u1 ", 0, 500)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, fences)
}

func TestGetStats(t *testing.T) {
	// Подготовка
	svc, _, locationsMock := newTestGeofenceService(t)
	ctx := context.Background()

	// Ожидания
	locationsMock.EXPECT().CountUniqueUsers(ctx, testEpoch.Add(-time.Hour)).Return(7, nil).Times(1)

	// Действие
	stats, err := svc.GetStats(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 7, stats.UserCount)
	assert.Equal(t, 60, stats.WindowMinutes)
}

func TestGetStats_RepositoryError(t *testing.T) {
	// Подготовка
	svc, _, locationsMock := newTestGeofenceService(t)
	repoErr := errors.New("db is down")

	// Ожидания
	locationsMock.EXPECT().CountUniqueUsers(gomock.Any(), gomock.Any()).Return(0, repoErr).Times(1)

	// Действие
	_, err := svc.GetStats(context.Background())

	// Проверки
	assert.ErrorIs(t, err, repoErr)
}

func TestProfile_DefaultsToUTC(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(repoMock, logrusDiscard())

	// Ожидания
	repoMock.EXPECT().GetProfile(gomock.Any(), "u1").Return(nil, apperror.NotFound("profile", "u1")).Times(1)

	// Действие
	p, err := svc.GetProfile(context.Background(), "u1")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, time.UTC, p.Location())
}

func TestProfile_SetTimezone(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(repoMock, logrusDiscard())

	// Ожидания
	repoMock.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// Действие
	_, badErr := svc.SetTimezone(context.Background(), "u1", "Mars/Olympus")
	p, err := svc.SetTimezone(context.Background(), "u1", "Europe/Moscow")

	// Проверки
	assert.ErrorIs(t, badErr, apperror.ErrValidation)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", p.Timezone)
}
