package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riskFence(t *testing.T, e *engine, userID string, maxDwell time.Duration) *models.Geofence {
	t.Helper()
	fence := &models.Geofence{
		UserID:       userID,
		Name:         "Карьер",
		Latitude:     55.0,
		Longitude:    37.0,
		RadiusMeters: 200,
		RiskLevel:    models.RiskRisk,
		MaxDwell:     maxDwell,
	}
	require.NoError(t, e.geofences.CreateGeofence(context.Background(), fence))
	return fence
}

func at(lat, lon float64) *models.Point {
	return &models.Point{Latitude: lat, Longitude: lon}
}

func TestIngest_EnterAndLeaveRiskZone(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	fence := riskFence(t, e, "u1", 20*time.Minute)

	// Действие
	in, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Timestamp: testEpoch, Location: at(55.0, 37.0)}, SourceHTTP)
	require.NoError(t, err)
	again, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Timestamp: testEpoch, Location: at(55.0005, 37.0)}, SourceHTTP)
	require.NoError(t, err)
	e.clock.Advance(5 * time.Minute)
	out, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Timestamp: e.clock.Now(), Location: at(56.0, 37.0)}, SourceMQTT)
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, []uuid.UUID{fence.ID}, in.Entered)
	require.Len(t, in.Created, 1)
	assert.Equal(t, []uuid.UUID{fence.ID}, again.Dwelling)
	assert.Empty(t, again.Created)
	assert.Equal(t, []uuid.UUID{fence.ID}, out.Exited)
	assert.Equal(t, in.Created, out.Satisfied)

	ob, err := e.obligations.GetObligation(ctx, in.Created[0])
	require.NoError(t, err)
	assert.Equal(t, models.ObligationSatisfied, ob.Status)
	assert.Equal(t, models.ObligationGeofenceDwell, ob.Kind)
}

func TestIngest_SafeZoneCreatesNoObligation(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	fence := &models.Geofence{UserID: "u1", Latitude: 55, Longitude: 37, RadiusMeters: 300, RiskLevel: models.RiskSafe}
	require.NoError(t, e.geofences.CreateGeofence(ctx, fence))

	// Действие
	res, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Location: at(55, 37)}, SourceHTTP)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fence.ID}, res.Entered)
	assert.Empty(t, res.Created)
}

func TestIngest_FutureTimestampIsClamped(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	riskFence(t, e, "u1", 20*time.Minute)

	// Действие
	res, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{
		UserID:    "u1",
		Timestamp: testEpoch.Add(6 * time.Hour),
		Location:  at(55, 37),
	}, SourceHTTP)

	// Проверки
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	ob, err := e.obligations.GetObligation(ctx, res.Created[0])
	require.NoError(t, err)
	assert.Equal(t, testEpoch.Add(20*time.Minute), ob.Deadline)
}

func TestIngest_CheckinMessageSatisfiesOpenObligation(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	ob, err := e.obligations.ScheduleCheckin(ctx, "u1", testEpoch.Add(10*time.Minute), nil, "")
	require.NoError(t, err)

	// Действие
	res, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", CheckinMessage: "all good"}, SourceMQTT)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ob.ID}, res.Satisfied)
}

func TestIngest_DuressTriggersEmergencyOnce(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	update := &models.LocationUpdate{UserID: "u1", Duress: true, Location: at(10, 10)}

	// Действие
	first, err := e.ingestion.Ingest(ctx, update, SourceHTTP)
	require.NoError(t, err)
	second, err := e.ingestion.Ingest(ctx, update, SourceHTTP)
	require.NoError(t, err)

	// Проверки
	require.NotNil(t, first.EmergencyID)
	require.NotNil(t, second.EmergencyID)
	assert.Equal(t, *first.EmergencyID, *second.EmergencyID)

	em, err := e.emergencies.GetEmergency(ctx, *first.EmergencyID)
	require.NoError(t, err)
	assert.Equal(t, models.ReasonDuress, em.Reason)
}

func TestIngest_DuressAfterAcknowledgeRaisesNewEmergency(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	first, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	e.pump(t)
	_, err = e.emergencies.Acknowledge(ctx, first.ID, "c1")
	require.NoError(t, err)
	before := len(attemptsFor(t, e, first.ID))

	// Действие
	res, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Duress: true}, SourceHTTP)
	require.NoError(t, err)
	e.pump(t)

	// Проверки
	require.NotNil(t, res.EmergencyID)
	assert.NotEqual(t, first.ID, *res.EmergencyID)

	raised, err := e.emergencies.GetEmergency(ctx, *res.EmergencyID)
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyActive, raised.Status)
	assert.Equal(t, models.ReasonDuress, raised.Reason)
	assert.Equal(t, 1, raised.EscalationLevel)
	assert.NotEmpty(t, attemptsFor(t, e, raised.ID))

	old, err := e.emergencies.GetEmergency(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyAcknowledged, old.Status)
	assert.Len(t, attemptsFor(t, e, first.ID), before)
}

func TestIngest_DegenerateFenceWarns(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	fence := &models.Geofence{UserID: "u1", Shape: models.ShapePolygon, RiskLevel: models.RiskRisk,
		Polygon: []models.Point{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}}}
	require.NoError(t, e.geofences.CreateGeofence(ctx, fence))

	// Действие
	res, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Location: at(1.5, 1.5)}, SourceHTTP)

	// Проверки
	require.NoError(t, err)
	assert.Len(t, res.ConfigWarnings, 1)
	assert.Empty(t, res.Entered)
}

func TestIngest_Validation(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	_, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{Location: at(1, 1)}, SourceHTTP)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1"}, SourceHTTP)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestIngest_ErrorsDoNotStopOtherSteps(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	foreign, err := e.obligations.ScheduleCheckin(ctx, "u2", testEpoch.Add(10*time.Minute), nil, "")
	require.NoError(t, err)

	// Действие
	res, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{
		UserID:       "u1",
		ObligationID: &foreign.ID,
		Duress:       true,
	}, SourceHTTP)

	// Проверки
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	require.NotNil(t, res)
	assert.NotNil(t, res.EmergencyID)
}
