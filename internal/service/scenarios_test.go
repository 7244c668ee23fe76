package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_MissedCheckinTriggersEmergency(t *testing.T) {
	// Подготовка
	e := newEngine(t, testConfig(t, "1:0s:0:push,sms"))
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{
		contact("c1", 1, models.ChannelPush, models.ChannelSMS),
		contact("c2", 2, models.ChannelSMS),
	})
	grace := 15 * time.Minute
	deadline := testEpoch.Add(time.Hour)

	// Действие
	ob, err := e.obligations.ScheduleCheckin(ctx, "u1", deadline, &grace, "evening walk")
	require.NoError(t, err)

	e.advance(t, 74*time.Minute, time.Minute)
	before, err := e.obligations.GetObligation(ctx, ob.ID)
	require.NoError(t, err)

	e.advance(t, 2*time.Minute, time.Minute)

	// Проверки
	assert.Equal(t, models.ObligationPending, before.Status)

	after, err := e.obligations.GetObligation(ctx, ob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ObligationViolated, after.Status)
	require.NotNil(t, after.EmergencyID)

	open, err := e.emergencies.GetActiveEmergency(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, *after.EmergencyID, open.ID)
	assert.Equal(t, models.EmergencyActive, open.Status)
	assert.Equal(t, models.ReasonObligationViolation, open.Reason)
	require.NotNil(t, open.CausationID)
	assert.Equal(t, ob.ID, *open.CausationID)
	assert.Equal(t, 1, open.EscalationLevel)

	all, err := e.store.ListAllEmergencies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	perContact := map[string]int{}
	for _, a := range attemptsFor(t, e, open.ID) {
		perContact[a.RecipientID]++
	}
	assert.GreaterOrEqual(t, perContact["c1"], 1)
	assert.GreaterOrEqual(t, perContact["c2"], 1)
}

func TestScenario_ConcurrentTriggersCreateOneEmergency(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})

	type result struct {
		em  *models.Emergency
		err error
	}
	results := make([]result, 2)
	start := make(chan struct{})
	var wg sync.WaitGroup

	// Действие
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
			results[i] = result{em: em, err: err}
		}()
	}
	close(start)
	wg.Wait()

	// Проверки
	require.NotNil(t, results[0].em)
	require.NotNil(t, results[1].em)
	assert.Equal(t, results[0].em.ID, results[1].em.ID)

	succeeded, already := 0, 0
	for _, r := range results {
		switch {
		case r.err == nil:
			succeeded++
		case errors.Is(r.err, apperror.ErrAlreadyActive):
			already++
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, already)

	all, err := e.store.ListAllEmergencies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProperty_AtMostOneActiveEmergencyPerUser(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	users := []string{"u0", "u1", "u2", "u3"}
	for _, u := range users {
		e.store.SetContacts(u, []models.Contact{contact("c-"+u, 1, models.ChannelPush)})
	}

	type op struct {
		user    string
		resolve bool
	}
	rnd := rand.New(rand.NewSource(42))
	ops := make([]op, 200)
	for i := range ops {
		ops[i] = op{user: users[rnd.Intn(len(users))], resolve: rnd.Intn(4) == 0}
	}

	// Действие
	var wg sync.WaitGroup
	for _, o := range ops {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if o.resolve {
				if open, err := e.store.GetActiveEmergency(ctx, o.user); err == nil {
					_, _ = e.emergencies.Resolve(ctx, open.ID, models.EmergencyResolved)
				}
				return
			}
			_, err := e.emergencies.TriggerEmergency(ctx, o.user, models.ReasonManual, nil)
			if err != nil && !errors.Is(err, apperror.ErrAlreadyActive) {
				t.Errorf("trigger failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// Проверки
	all, err := e.store.ListAllEmergencies(ctx)
	require.NoError(t, err)
	active := map[string]int{}
	for _, em := range all {
		if em.Status == models.EmergencyActive {
			active[em.UserID]++
		}
	}
	for _, u := range users {
		assert.LessOrEqual(t, active[u], 1, "user %s", u)
	}
}

func TestScenario_PushFailureFallsBackToSMS(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.providers[models.ChannelPush].SetFailing(true)
	n := &models.Notification{UserID: "u1", Title: "Check on Sam", Body: "No answer"}

	// Действие
	report, err := e.dispatcher.Send(ctx, n, []models.Contact{
		contact("c1", 1, models.ChannelPush, models.ChannelSMS),
	}, models.PriorityHigh)
	require.NoError(t, err)
	e.pump(t)

	// Проверки
	require.Len(t, report.Attempts, 1)
	assert.Equal(t, models.ChannelPush, report.Attempts[0].Channel)

	attempts, err := e.dispatcher.ListAttempts(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	push, sms := attempts[0], attempts[1]
	assert.Equal(t, models.ChannelPush, push.Channel)
	assert.Equal(t, models.AttemptFailed, push.Status)
	assert.Equal(t, 1, push.AttemptCount)
	assert.Equal(t, models.ChannelSMS, sms.Channel)
	assert.Equal(t, models.AttemptSent, sms.Status)
	assert.LessOrEqual(t, sms.CreatedAt.Sub(push.CreatedAt), e.cfg.DeliveryFallbackWindow)
	assert.Equal(t, 1, e.providers[models.ChannelSMS].Sent())
}

func TestScenario_CriticalPushFailureStillReachesSMS(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.providers[models.ChannelPush].SetFailing(true)
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush, models.ChannelSMS)})
	// вторая ступень по умолчанию рассылает push и sms
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)

	// Действие
	e.pump(t)
	_, err = e.emergencies.Escalate(ctx, em.ID)
	require.NoError(t, err)
	e.pump(t)

	// Проверки
	var smsSent bool
	for _, a := range attemptsFor(t, e, em.ID) {
		if a.Channel == models.ChannelSMS && a.Status == models.AttemptSent {
			smsSent = true
		}
	}
	assert.True(t, smsSent)
}

func TestScenario_DwellInRiskZoneViolatesOnce(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	fence := &models.Geofence{
		UserID:       "u1",
		Name:         "construction site",
		Shape:        models.ShapeCircle,
		Latitude:     40.0,
		Longitude:    -73.0,
		RadiusMeters: 100,
		RiskLevel:    models.RiskRisk,
	}
	require.NoError(t, e.geofences.CreateGeofence(ctx, fence))
	inside := &models.Point{Latitude: 40.0003, Longitude: -73.0}
	maxDwell := e.cfg.Obligations.MaxDwell

	// Действие
	first, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Timestamp: e.clock.Now(), Location: inside}, SourceHTTP)
	require.NoError(t, err)
	for elapsed := time.Duration(0); elapsed < 2*maxDwell; elapsed += 5 * time.Minute {
		e.clock.Advance(5 * time.Minute)
		e.pump(t)
		_, err := e.ingestion.Ingest(ctx, &models.LocationUpdate{UserID: "u1", Timestamp: e.clock.Now(), Location: inside}, SourceHTTP)
		require.NoError(t, err)
		e.pump(t)
	}
	_, err = e.recovery.Reconcile(ctx)
	require.NoError(t, err)
	e.pump(t)

	// Проверки
	assert.Equal(t, []uuid.UUID{fence.ID}, first.Entered)
	require.Len(t, first.Created, 1)

	obs, err := e.obligations.ListObligations(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, models.ObligationGeofenceDwell, obs[0].Kind)
	assert.Equal(t, models.ObligationViolated, obs[0].Status)

	all, err := e.store.ListAllEmergencies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ReasonObligationViolation, all[0].Reason)

	events, err := e.store.ListEntityEvents(ctx, models.EntityObligation, obs[0].ID)
	require.NoError(t, err)
	violations := 0
	for _, ev := range events {
		if ev.Kind == models.EventTransition && ev.ToState == string(models.ObligationViolated) && ev.FromState == string(models.ObligationPending) {
			violations++
		}
	}
	assert.Equal(t, 1, violations)
}

func TestScenario_AcknowledgeResolvedEmergency(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	resolved, err := e.emergencies.Resolve(ctx, em.ID, models.EmergencyResolved)
	require.NoError(t, err)

	// Действие
	_, err = e.emergencies.Acknowledge(ctx, em.ID, "c1")

	// Проверки
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTransition))

	current, err := e.emergencies.GetEmergency(ctx, em.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyResolved, current.Status)
	assert.Equal(t, resolved.Version, current.Version)
}
