package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmAll подтверждает доставку всех отправленных попыток
func confirmAll(t *testing.T, e *engine) {
	t.Helper()
	ctx := context.Background()
	all, err := e.store.ListAllAttempts(ctx)
	require.NoError(t, err)
	for _, a := range all {
		if a.Status == models.AttemptSent {
			_, err := e.dispatcher.ReportDeliveryStatus(ctx, a.ID, models.AttemptDelivered, "")
			require.NoError(t, err)
		}
	}
}

func TestEmergency_LadderAdvancesOnTimer(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{
		contact("c1", 1, models.ChannelPush, models.ChannelSMS),
		contact("c2", 2, models.ChannelSMS, models.ChannelCall),
	})

	// Действие
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	e.pump(t)
	confirmAll(t, e)
	e.advance(t, 4*time.Minute, time.Minute)
	atFour, err := e.emergencies.GetEmergency(ctx, em.ID)
	require.NoError(t, err)
	e.advance(t, time.Minute, time.Minute)
	confirmAll(t, e)
	atFive, err := e.emergencies.GetEmergency(ctx, em.ID)
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, 1, em.EscalationLevel)
	require.Len(t, em.NotifiedContacts, 1)
	assert.Equal(t, "c1", em.NotifiedContacts[0].ContactID)

	assert.Equal(t, 1, atFour.EscalationLevel)
	assert.Equal(t, 2, atFive.EscalationLevel)

	notified := map[string]bool{}
	for _, nc := range atFive.NotifiedContacts {
		notified[nc.ContactID] = true
	}
	assert.True(t, notified["c2"])
}

func TestEmergency_StaleEscalationTimerIsNoop(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	e.clock.Advance(time.Hour)

	// Действие
	err = e.emergencies.HandleEscalationTimer(ctx, em.ID, 0)

	// Проверки
	require.NoError(t, err)
	current, err := e.store.GetEmergency(ctx, em.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.EscalationLevel)
	assert.Equal(t, em.Version, current.Version)
}

func TestEmergency_AcknowledgeStopsEscalation(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonDuress, nil)
	require.NoError(t, err)

	// Действие
	acked, err := e.emergencies.Acknowledge(ctx, em.ID, "c1")
	require.NoError(t, err)
	again, err := e.emergencies.Acknowledge(ctx, em.ID, "c1")
	require.NoError(t, err)
	e.advance(t, 30*time.Minute, time.Minute)

	// Проверки
	assert.Equal(t, models.EmergencyAcknowledged, acked.Status)
	assert.Equal(t, "c1", acked.AcknowledgedBy)
	assert.Equal(t, acked.Version, again.Version)

	current, err := e.emergencies.GetEmergency(ctx, em.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyAcknowledged, current.Status)
	assert.Equal(t, 1, current.EscalationLevel)

	_, err = e.emergencies.Escalate(ctx, em.ID)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTransition))
}

func TestEmergency_AcknowledgeByUnknownContact(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)

	_, err = e.emergencies.Acknowledge(ctx, em.ID, "stranger")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	// сам пользователь может подтвердить свою тревогу
	acked, err := e.emergencies.Acknowledge(ctx, em.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EmergencyAcknowledged, acked.Status)
}

func TestEmergency_ResolveErrors(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})

	_, err := e.emergencies.Resolve(ctx, uuid.New(), models.EmergencyResolved)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)

	_, err = e.emergencies.Resolve(ctx, em.ID, models.EmergencyAcknowledged)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = e.emergencies.Resolve(ctx, em.ID, models.EmergencyFalseAlarm)
	require.NoError(t, err)
	_, err = e.emergencies.Resolve(ctx, em.ID, models.EmergencyResolved)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTransition))

	// после закрытия можно поднять новую тревогу
	next, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	assert.NotEqual(t, em.ID, next.ID)
}

func TestEmergency_AcknowledgedOnlyResolves(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	_, err = e.emergencies.Acknowledge(ctx, em.ID, "c1")
	require.NoError(t, err)

	// Действие
	_, falseAlarmErr := e.emergencies.Resolve(ctx, em.ID, models.EmergencyFalseAlarm)
	resolved, resolveErr := e.emergencies.Resolve(ctx, em.ID, models.EmergencyResolved)

	// Проверки
	assert.True(t, errors.Is(falseAlarmErr, apperror.ErrInvalidTransition))
	require.NoError(t, resolveErr)
	assert.Equal(t, models.EmergencyResolved, resolved.Status)
}

func TestEmergency_TriggerWhileAcknowledgedCreatesActive(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	first, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	_, err = e.emergencies.Acknowledge(ctx, first.ID, "c1")
	require.NoError(t, err)

	// Действие
	second, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonObligationViolation, nil)
	require.NoError(t, err)
	third, thirdErr := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)

	// Проверки
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.EmergencyActive, second.Status)
	assert.True(t, errors.Is(thirdErr, apperror.ErrAlreadyActive))
	require.NotNil(t, third)
	assert.Equal(t, second.ID, third.ID)

	active, err := e.emergencies.GetActiveEmergency(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestEmergency_UnreachableTierEscalatesImmediately(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	// первая ступень - только push для контактов первого уровня
	e.store.SetContacts("u1", []models.Contact{contact("c2", 2, models.ChannelSMS)})

	// Действие
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, em.EscalationLevel)
	attempts := attemptsFor(t, e, em.ID)
	require.Len(t, attempts, 1)
	assert.Equal(t, models.ChannelSMS, attempts[0].Channel)
	assert.Equal(t, 2, attempts[0].Level)
}

func TestEmergency_NoContactsStopsAtLadderTop(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	em, err := e.emergencies.TriggerEmergency(ctx, "lonely", models.ReasonManual, nil)

	require.NoError(t, err)
	assert.Equal(t, len(e.cfg.Ladder.Tiers), em.EscalationLevel)
	assert.Equal(t, models.EmergencyActive, em.Status)
}

func TestEmergency_DeliveryExhaustionForcesEscalation(t *testing.T) {
	// Подготовка
	e := newEngine(t, testConfig(t, "1:0s:0:push;2:5m:0:sms"))
	ctx := context.Background()
	e.providers[models.ChannelPush].SetFailing(true)
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush, models.ChannelSMS)})

	// Действие
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	e.pump(t)
	e.advance(t, time.Minute, time.Second)

	// Проверки
	current, err := e.emergencies.GetEmergency(ctx, em.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.EscalationLevel)

	var push, sms *models.NotificationAttempt
	for _, a := range attemptsFor(t, e, em.ID) {
		switch a.Channel {
		case models.ChannelPush:
			push = a
		case models.ChannelSMS:
			sms = a
		}
	}
	require.NotNil(t, push)
	assert.True(t, push.Exhausted())
	assert.Equal(t, e.cfg.DeliveryPolicies[models.PriorityCritical].MaxAttempts, e.providers[models.ChannelPush].Sent())
	require.NotNil(t, sms)
	assert.Equal(t, models.AttemptSent, sms.Status)
}

func TestEmergency_ResolvedEmergencyCancelsCriticalRetries(t *testing.T) {
	// Подготовка
	e := newEngine(t, nil)
	ctx := context.Background()
	e.providers[models.ChannelPush].SetFailing(true)
	e.store.SetContacts("u1", []models.Contact{contact("c1", 1, models.ChannelPush)})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	e.pump(t)
	require.Equal(t, 1, e.providers[models.ChannelPush].Sent())

	// Действие
	_, err = e.emergencies.Resolve(ctx, em.ID, models.EmergencyResolved)
	require.NoError(t, err)
	e.advance(t, time.Minute, time.Second)

	// Проверки
	assert.Equal(t, 1, e.providers[models.ChannelPush].Sent())
}

func TestEmergency_FalseAlarmStandDown(t *testing.T) {
	// Подготовка
	cfg := testConfig(t, "")
	cfg.StandDownOnFalseAlarm = true
	e := newEngine(t, cfg)
	ctx := context.Background()
	e.store.SetContacts("u1", []models.Contact{
		contact("c1", 1, models.ChannelPush),
		contact("c3", 3, models.ChannelPush),
	})
	em, err := e.emergencies.TriggerEmergency(ctx, "u1", models.ReasonManual, nil)
	require.NoError(t, err)
	e.pump(t)

	// Действие
	_, err = e.emergencies.Resolve(ctx, em.ID, models.EmergencyFalseAlarm)
	require.NoError(t, err)
	e.pump(t)

	// Проверки
	var standDown []*models.NotificationAttempt
	for _, a := range attemptsFor(t, e, em.ID) {
		if a.Priority == models.PriorityMedium {
			standDown = append(standDown, a)
		}
	}
	require.Len(t, standDown, 1)
	assert.Equal(t, "c1", standDown[0].RecipientID)
	assert.Equal(t, "Stand down", standDown[0].Title)
	assert.Equal(t, models.AttemptSent, standDown[0].Status)
}
