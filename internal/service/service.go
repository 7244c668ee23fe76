package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// stateNone - исходное состояние сущности до первой записи в журнале
const stateNone = "none"

// Option настраивает сервисы
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func casRetries(n int) int {
	if n < 1 {
		return 3
	}
	return n
}

// recordRace пишет в журнал отброшенный переход. Ошибка записи только логируется:
// сам переход уже отклонен и состояние сущности корректно.
func recordRace(ctx context.Context, events EventLog, log *logrus.Entry, entity models.EntityType,
	entityID uuid.UUID, ev *models.TransitionEvent) {
	metrics.Races.WithLabelValues(string(entity)).Inc()
	log.WithFields(logrus.Fields{
		"entity_id": entityID,
		"current":   ev.FromState,
		"attempted": ev.ToState,
	}).Warn("Race detected, transition discarded")
	if err := events.AppendEvent(ctx, ev); err != nil {
		log.WithError(err).Error("Failed to append race_detected event")
	}
}

func scheduleTimer(ctx context.Context, timers TimerScheduler, log *logrus.Entry, t models.Timer) {
	if err := timers.Schedule(ctx, t); err != nil {
		// сверка по крону восстановит таймер по состоянию в бд
		log.WithError(err).WithFields(logrus.Fields{
			"timer_kind": t.Kind,
			"entity_id":  t.EntityID,
			"fire_at":    t.FireAt,
		}).Error("Failed to schedule timer")
	}
}
