package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeWindowContains(t *testing.T) {
	day := TimeWindow{Start: "09:00", End: "17:00"}
	night := TimeWindow{Start: "22:00", End: "06:00", Weekdays: []time.Weekday{time.Friday}}

	// 2024-05-03 - пятница
	assert.True(t, day.Contains(time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)))
	assert.False(t, day.Contains(time.Date(2024, 5, 3, 17, 0, 0, 0, time.UTC)))

	assert.True(t, night.Contains(time.Date(2024, 5, 3, 23, 30, 0, 0, time.UTC)))
	// суббота 02:00 - хвост пятничного окна
	assert.True(t, night.Contains(time.Date(2024, 5, 4, 2, 0, 0, 0, time.UTC)))
	// пятница 02:00 - хвост окна четверга, которого нет
	assert.False(t, night.Contains(time.Date(2024, 5, 3, 2, 0, 0, 0, time.UTC)))

	assert.False(t, TimeWindow{Start: "25:00", End: "06:00"}.Contains(time.Now()))
}

func TestObligationTransitionsAreMonotonic(t *testing.T) {
	for _, terminal := range []ObligationStatus{ObligationSatisfied, ObligationViolated, ObligationCancelled} {
		o := &Obligation{Status: terminal}
		for _, to := range []ObligationStatus{ObligationPending, ObligationSatisfied, ObligationViolated, ObligationCancelled} {
			assert.False(t, o.CanTransition(to), "%s -> %s", terminal, to)
		}
	}

	pending := &Obligation{Status: ObligationPending}
	assert.True(t, pending.CanTransition(ObligationViolated))
	assert.False(t, pending.CanTransition(ObligationPending))
}

func TestEmergencyTransitions(t *testing.T) {
	active := &Emergency{Status: EmergencyActive}
	acked := &Emergency{Status: EmergencyAcknowledged}
	resolved := &Emergency{Status: EmergencyResolved}

	assert.True(t, active.CanTransition(EmergencyAcknowledged))
	assert.True(t, active.CanTransition(EmergencyActive))
	assert.True(t, acked.CanTransition(EmergencyResolved))
	assert.False(t, acked.CanTransition(EmergencyFalseAlarm))
	assert.False(t, acked.CanTransition(EmergencyActive))
	assert.False(t, resolved.CanTransition(EmergencyAcknowledged))
	assert.False(t, resolved.CanTransition(EmergencyResolved))
}

func TestCanAdvance(t *testing.T) {
	assert.True(t, CanAdvance(AttemptQueued, AttemptSent))
	assert.True(t, CanAdvance(AttemptQueued, AttemptDelivered))
	assert.True(t, CanAdvance(AttemptSent, AttemptFailed))
	assert.True(t, CanAdvance(AttemptFailed, AttemptQueued))
	assert.True(t, CanAdvance(AttemptFailed, AttemptConfirmed))
	assert.False(t, CanAdvance(AttemptDelivered, AttemptSent))
	assert.False(t, CanAdvance(AttemptDelivered, AttemptFailed))
	assert.False(t, CanAdvance(AttemptConfirmed, AttemptConfirmed))
}

func TestTimerKey(t *testing.T) {
	a := Timer{Kind: TimerEmergencyEscalation, Level: 2}
	b := a
	b.FireAt = time.Now()

	assert.Equal(t, a.Key(), b.Key())
	b.Level = 3
	assert.NotEqual(t, a.Key(), b.Key())
}
