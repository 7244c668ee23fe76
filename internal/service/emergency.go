package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// EmergencyService определяет контракт конечного автомата тревог.
// TriggerEmergency при уже активной тревоге возвращает ее вместе с apperror.ErrAlreadyActive.
type EmergencyService interface {
	TriggerEmergency(ctx context.Context, userID string, reason models.TriggerReason, causationID *uuid.UUID) (*models.Emergency, error)
	GetEmergency(ctx context.Context, id uuid.UUID) (*models.Emergency, error)
	GetActiveEmergency(ctx context.Context, userID string) (*models.Emergency, error)
	Escalate(ctx context.Context, id uuid.UUID) (*models.Emergency, error)
	Acknowledge(ctx context.Context, id uuid.UUID, byContactID string) (*models.Emergency, error)
	Resolve(ctx context.Context, id uuid.UUID, outcome models.EmergencyStatus) (*models.Emergency, error)
	HandleEscalationTimer(ctx context.Context, id uuid.UUID, expectedLevel int) error
	HandleDeliveryFailure(ctx context.Context, failure *DeliveryFailure) error
}

// DeliveryFailure - для получателя исчерпаны все каналы и повторы
type DeliveryFailure struct {
	Attempt  *models.NotificationAttempt
	Attempts []*models.NotificationAttempt
	Reason   string
}

func (f *DeliveryFailure) Error() string {
	return fmt.Sprintf("delivery failed for recipient %s (notification %s): %s",
		f.Attempt.RecipientID, f.Attempt.NotificationID, f.Reason)
}

func (f *DeliveryFailure) Unwrap() error {
	return apperror.ErrDeliveryFailure
}

// DeliveryFailureHandler получает исчерпанные доставки
type DeliveryFailureHandler interface {
	HandleDeliveryFailure(ctx context.Context, failure *DeliveryFailure) error
}

type emergencyService struct {
	repo       EmergencyRepository
	attempts   AttemptRepository
	events     EventLog
	contacts   ContactDirectory
	dispatcher DispatchService
	timers     TimerScheduler
	cfg        *config.Config
	logger     *logrus.Logger
	now        func() time.Time
}

func NewEmergencyService(repo EmergencyRepository, attempts AttemptRepository, events EventLog, contacts ContactDirectory,
	dispatcher DispatchService, timers TimerScheduler, cfg *config.Config, logger *logrus.Logger, opts ...Option) EmergencyService {
	o := buildOptions(opts)
	return &emergencyService{
		repo:       repo,
		attempts:   attempts,
		events:     events,
		contacts:   contacts,
		dispatcher: dispatcher,
		timers:     timers,
		cfg:        cfg,
		logger:     logger,
		now:        o.now,
	}
}

// TriggerEmergency создает активную тревогу и сразу поднимает ее до первого уровня
func (s *emergencyService) TriggerEmergency(ctx context.Context, userID string, reason models.TriggerReason, causationID *uuid.UUID) (*models.Emergency, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "emergency",
		"method":  "TriggerEmergency",
		"user_id": userID,
		"reason":  reason,
	})
	log.Info("Attempting to trigger emergency")

	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if !reason.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown trigger reason %q", reason))
	}

	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		now := s.now()
		e := &models.Emergency{
			ID:               uuid.New(),
			UserID:           userID,
			Reason:           reason,
			Status:           models.EmergencyActive,
			NotifiedContacts: []models.ContactNotification{},
			CausationID:      causationID,
			Version:          1,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		ev, err := models.NewTransitionEvent(models.EntityEmergency, e.ID, userID, stateNone,
			string(models.EmergencyActive), now, causationID, e)
		if err != nil {
			return nil, fmt.Errorf("service: could not build emergency event: %w", err)
		}

		err = s.repo.InsertEmergency(ctx, e, ev)
		if err == nil {
			metrics.EmergenciesTriggered.WithLabelValues(string(reason), "created").Inc()
			metrics.Transitions.WithLabelValues(string(models.EntityEmergency), string(models.EmergencyActive)).Inc()
			log.WithField("emergency_id", e.ID).Info("Emergency triggered successfully")
			return s.startEscalation(ctx, log, e), nil
		}
		if !errors.Is(err, apperror.ErrAlreadyActive) {
			log.WithError(err).Error("Failed to insert emergency in repository")
			return nil, fmt.Errorf("service: could not trigger emergency: %w", err)
		}

		existing, gerr := s.repo.GetActiveEmergency(ctx, userID)
		if gerr == nil {
			metrics.EmergenciesTriggered.WithLabelValues(string(reason), "already_active").Inc()
			log.WithField("emergency_id", existing.ID).Info("Emergency already open for user")
			return existing, apperror.AlreadyActive("emergency", existing.ID.String())
		}
		if !errors.Is(gerr, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service: could not load active emergency: %w", gerr)
		}
		// активная тревога сменила статус между вставкой и чтением
	}
	return nil, apperror.ConcurrencyConflict("emergency", userID)
}

func (s *emergencyService) startEscalation(ctx context.Context, log *logrus.Entry, e *models.Emergency) *models.Emergency {
	// страховочный таймер уровня 0 на случай падения до первой эскалации
	scheduleTimer(ctx, s.timers, log, models.Timer{
		Kind:     models.TimerEmergencyEscalation,
		EntityID: e.ID,
		FireAt:   e.CreatedAt.Add(s.cfg.TimerRetryDelay),
	})

	escalated, _, err := s.escalateFrom(ctx, e.ID, 0, "trigger")
	if err != nil {
		log.WithError(err).Error("Initial escalation failed, timer will retry")
		return e
	}
	return escalated
}

// GetEmergency получает тревогу по ID со статусами доставки по контактам
func (s *emergencyService) GetEmergency(ctx context.Context, id uuid.UUID) (*models.Emergency, error) {
	e, err := s.repo.GetEmergency(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get emergency: %w", err)
	}
	return s.hydrate(ctx, e), nil
}

// GetActiveEmergency возвращает активную тревогу пользователя
func (s *emergencyService) GetActiveEmergency(ctx context.Context, userID string) (*models.Emergency, error) {
	e, err := s.repo.GetActiveEmergency(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get active emergency: %w", err)
	}
	return s.hydrate(ctx, e), nil
}

func (s *emergencyService) hydrate(ctx context.Context, e *models.Emergency) *models.Emergency {
	attempts, err := s.attempts.ListEmergencyAttempts(ctx, e.ID)
	if err != nil {
		s.logger.WithError(err).WithField("emergency_id", e.ID).Warn("Failed to load delivery attempts for emergency")
		return e
	}
	return mergeNotified(e, attempts)
}

// mergeNotified обновляет статусы оповещенных контактов и добавляет попытки, созданные переходом на другой канал
func mergeNotified(e *models.Emergency, attempts []*models.NotificationAttempt) *models.Emergency {
	out := e.Clone()
	byID := make(map[uuid.UUID]*models.NotificationAttempt, len(attempts))
	for _, a := range attempts {
		byID[a.ID] = a
	}
	listed := make(map[uuid.UUID]bool, len(out.NotifiedContacts))
	for i, nc := range out.NotifiedContacts {
		listed[nc.AttemptID] = true
		if a, ok := byID[nc.AttemptID]; ok {
			out.NotifiedContacts[i].Status = a.Status
		}
	}
	for _, a := range attempts {
		if !listed[a.ID] {
			out.NotifiedContacts = append(out.NotifiedContacts, models.ContactNotification{
				ContactID: a.RecipientID,
				Channel:   a.Channel,
				AttemptID: a.ID,
				Level:     a.Level,
				Status:    a.Status,
			})
		}
	}
	return out
}

// Escalate поднимает уровень активной тревоги на одну ступень
func (s *emergencyService) Escalate(ctx context.Context, id uuid.UUID) (*models.Emergency, error) {
	e, _, err := s.escalateFrom(ctx, id, -1, "manual")
	if err != nil {
		return nil, err
	}
	return e, nil
}

// escalateFrom поднимает уровень только если он все еще равен expectedLevel (-1 - текущий).
// Проигравший гонку не поднимает уровень повторно.
func (s *emergencyService) escalateFrom(ctx context.Context, id uuid.UUID, expectedLevel int, source string) (*models.Emergency, bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "emergency",
		"method":       "Escalate",
		"emergency_id": id,
		"source":       source,
	})

	raced := false
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		cur, err := s.repo.GetEmergency(ctx, id)
		if err != nil {
			return nil, false, fmt.Errorf("service: could not get emergency: %w", err)
		}
		if expectedLevel < 0 {
			expectedLevel = cur.EscalationLevel
		}
		if cur.Status != models.EmergencyActive || cur.EscalationLevel != expectedLevel {
			if raced {
				recordRace(ctx, s.events, log, models.EntityEmergency, id, models.NewRaceEvent(models.EntityEmergency,
					id, cur.UserID, string(cur.Status), fmt.Sprintf("active(level %d)", expectedLevel+1), s.now()))
				return cur, false, nil
			}
			if cur.Status != models.EmergencyActive {
				log.WithField("status", cur.Status).Warn("Attempted to escalate emergency that is not active")
				return nil, false, apperror.InvalidTransition("emergency", id.String(), string(cur.Status), "escalate")
			}
			log.WithField("level", cur.EscalationLevel).Debug("Escalation level already moved on")
			return cur, false, nil
		}

		now := s.now()
		next := cur.Clone()
		next.EscalationLevel++
		at := now.Add(s.cfg.Ladder.DelayAfter(next.EscalationLevel))
		next.NextEscalationAt = &at
		next.Version++
		next.UpdatedAt = now

		ev, err := models.NewTransitionEvent(models.EntityEmergency, id, cur.UserID, string(cur.Status),
			string(next.Status), now, nil, next)
		if err != nil {
			return nil, false, fmt.Errorf("service: could not build escalation event: %w", err)
		}
		if err := s.repo.UpdateEmergency(ctx, next, cur.Version, ev); err != nil {
			if errors.Is(err, apperror.ErrConcurrencyConflict) {
				raced = true
				metrics.CASConflicts.WithLabelValues(string(models.EntityEmergency)).Inc()
				continue
			}
			log.WithError(err).Error("Failed to persist escalation")
			return nil, false, fmt.Errorf("service: could not escalate emergency: %w", err)
		}

		metrics.Escalations.WithLabelValues(source).Inc()
		log.WithField("level", next.EscalationLevel).Info("Emergency escalated successfully")

		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerEmergencyEscalation,
			EntityID: id,
			FireAt:   at,
			Level:    next.EscalationLevel,
		})
		return s.notifyTier(ctx, log, next), true, nil
	}
	return nil, false, apperror.ConcurrencyConflict("emergency", id.String())
}

// notifyTier рассылает ступень лестницы текущего уровня. Если в ступени некого оповестить,
// тревога сразу поднимается выше, пока лестница не кончится.
func (s *emergencyService) notifyTier(ctx context.Context, log *logrus.Entry, e *models.Emergency) *models.Emergency {
	tier := s.cfg.Ladder.Tier(e.EscalationLevel)

	contacts, err := s.contacts.GetContactsForUser(ctx, e.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load contacts, next escalation will retry")
		return e
	}
	var recipients []models.Contact
	for _, c := range contacts {
		if tier.Includes(c.PriorityTier) {
			recipients = append(recipients, c)
		}
	}

	var report *models.DeliveryReport
	if len(recipients) > 0 {
		n := &models.Notification{
			ID:          uuid.New(),
			EmergencyID: &e.ID,
			UserID:      e.UserID,
			Level:       e.EscalationLevel,
			Title:       "Emergency alert",
			Body:        fmt.Sprintf("%s needs help (reason: %s, escalation level %d)", e.UserID, e.Reason, e.EscalationLevel),
			Channels:    tier.Channels,
		}
		report, err = s.dispatcher.Send(ctx, n, recipients, models.PriorityCritical)
		if err != nil {
			log.WithError(err).Error("Failed to dispatch escalation tier, next escalation will retry")
			return e
		}
	}

	if report == nil || len(report.Attempts) == 0 {
		log.WithField("level", e.EscalationLevel).Warn("No reachable contacts for escalation tier")
		if e.EscalationLevel < len(s.cfg.Ladder.Tiers) {
			next, _, err := s.escalateFrom(ctx, e.ID, e.EscalationLevel, "unreachable")
			if err != nil {
				log.WithError(err).Error("Failed to skip unreachable escalation tier")
				return e
			}
			return next
		}
		return e
	}

	return s.recordNotified(ctx, log, e, report)
}

func (s *emergencyService) recordNotified(ctx context.Context, log *logrus.Entry, e *models.Emergency, report *models.DeliveryReport) *models.Emergency {
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		cur, err := s.repo.GetEmergency(ctx, e.ID)
		if err != nil {
			log.WithError(err).Error("Failed to reload emergency for notified contacts")
			return e
		}
		now := s.now()
		next := cur.Clone()
		for _, a := range report.Attempts {
			next.NotifiedContacts = append(next.NotifiedContacts, models.ContactNotification{
				ContactID: a.RecipientID,
				Channel:   a.Channel,
				AttemptID: a.ID,
				Level:     a.Level,
				Status:    a.Status,
			})
		}
		next.Version++
		next.UpdatedAt = now

		ev, err := models.NewTransitionEvent(models.EntityEmergency, e.ID, cur.UserID, string(cur.Status),
			string(cur.Status), now, &report.NotificationID, next)
		if err != nil {
			log.WithError(err).Error("Failed to build notified contacts event")
			return cur
		}
		if err := s.repo.UpdateEmergency(ctx, next, cur.Version, ev); err != nil {
			if errors.Is(err, apperror.ErrConcurrencyConflict) {
				metrics.CASConflicts.WithLabelValues(string(models.EntityEmergency)).Inc()
				continue
			}
			log.WithError(err).Error("Failed to record notified contacts")
			return cur
		}
		return next
	}
	log.Error("Gave up recording notified contacts after version conflicts")
	return e
}

// Acknowledge фиксирует, что контакт принял тревогу. Повторное подтверждение - успех.
func (s *emergencyService) Acknowledge(ctx context.Context, id uuid.UUID, byContactID string) (*models.Emergency, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "emergency",
		"method":       "Acknowledge",
		"emergency_id": id,
		"contact_id":   byContactID,
	})
	log.Info("Attempting to acknowledge emergency")

	if byContactID == "" {
		return nil, apperror.Validation("contact_id is required")
	}

	cur, err := s.repo.GetEmergency(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to acknowledge a non-existent emergency")
		return nil, fmt.Errorf("service: could not get emergency: %w", err)
	}
	if cur.Status.IsTerminal() {
		log.WithField("status", cur.Status).Warn("Attempted to acknowledge a closed emergency")
		return nil, apperror.InvalidTransition("emergency", id.String(), string(cur.Status), string(models.EmergencyAcknowledged))
	}

	if byContactID != cur.UserID {
		contacts, err := s.contacts.GetContactsForUser(ctx, cur.UserID)
		if err != nil {
			return nil, fmt.Errorf("service: could not load contacts: %w", err)
		}
		if !hasContact(contacts, byContactID) {
			return nil, apperror.Validation(fmt.Sprintf("contact %s is not registered for user %s", byContactID, cur.UserID))
		}
	}

	return s.transition(ctx, log, id, models.EmergencyAcknowledged, func(next *models.Emergency, now time.Time) {
		next.AcknowledgedBy = byContactID
		next.AcknowledgedAt = &now
	})
}

// Resolve закрывает тревогу с итогом resolved или false_alarm
func (s *emergencyService) Resolve(ctx context.Context, id uuid.UUID, outcome models.EmergencyStatus) (*models.Emergency, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "emergency",
		"method":       "Resolve",
		"emergency_id": id,
		"outcome":      outcome,
	})
	log.Info("Attempting to resolve emergency")

	if outcome != models.EmergencyResolved && outcome != models.EmergencyFalseAlarm {
		return nil, apperror.Validation(fmt.Sprintf("outcome must be %q or %q", models.EmergencyResolved, models.EmergencyFalseAlarm))
	}

	resolved, err := s.transition(ctx, log, id, outcome, func(next *models.Emergency, now time.Time) {
		next.ResolvedAt = &now
	})
	if err != nil {
		return nil, err
	}

	if outcome == models.EmergencyFalseAlarm && s.cfg.StandDownOnFalseAlarm {
		s.standDown(ctx, log, resolved)
	}
	return resolved, nil
}

// transition - общий CAS-цикл для подтверждения и закрытия
func (s *emergencyService) transition(ctx context.Context, log *logrus.Entry, id uuid.UUID, to models.EmergencyStatus,
	mutate func(next *models.Emergency, now time.Time)) (*models.Emergency, error) {
	raced := false
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		cur, err := s.repo.GetEmergency(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to load emergency for transition")
			return nil, fmt.Errorf("service: could not get emergency: %w", err)
		}
		if cur.Status == models.EmergencyAcknowledged && to == models.EmergencyAcknowledged {
			return cur, nil
		}
		if to == models.EmergencyActive || !cur.CanTransition(to) {
			if raced {
				recordRace(ctx, s.events, log, models.EntityEmergency, id, models.NewRaceEvent(models.EntityEmergency,
					id, cur.UserID, string(cur.Status), string(to), s.now()))
			}
			log.WithField("status", cur.Status).Warn("Rejected emergency transition")
			return nil, apperror.InvalidTransition("emergency", id.String(), string(cur.Status), string(to))
		}

		now := s.now()
		next := cur.Clone()
		next.Status = to
		next.NextEscalationAt = nil
		mutate(next, now)
		next.Version++
		next.UpdatedAt = now

		ev, err := models.NewTransitionEvent(models.EntityEmergency, id, cur.UserID, string(cur.Status), string(to), now, nil, next)
		if err != nil {
			return nil, fmt.Errorf("service: could not build emergency event: %w", err)
		}
		if err := s.repo.UpdateEmergency(ctx, next, cur.Version, ev); err != nil {
			if errors.Is(err, apperror.ErrConcurrencyConflict) {
				raced = true
				metrics.CASConflicts.WithLabelValues(string(models.EntityEmergency)).Inc()
				continue
			}
			log.WithError(err).Error("Failed to persist emergency transition")
			return nil, fmt.Errorf("service: could not update emergency: %w", err)
		}

		metrics.Transitions.WithLabelValues(string(models.EntityEmergency), string(to)).Inc()
		log.WithField("from", cur.Status).Info("Emergency transitioned successfully")
		return next, nil
	}
	return nil, apperror.ConcurrencyConflict("emergency", id.String())
}

func (s *emergencyService) standDown(ctx context.Context, log *logrus.Entry, e *models.Emergency) {
	notified := make(map[string]bool)
	for _, nc := range e.NotifiedContacts {
		notified[nc.ContactID] = true
	}
	if len(notified) == 0 {
		return
	}

	contacts, err := s.contacts.GetContactsForUser(ctx, e.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load contacts for stand-down")
		return
	}
	var recipients []models.Contact
	for _, c := range contacts {
		if notified[c.ContactID] {
			recipients = append(recipients, c)
		}
	}

	n := &models.Notification{
		ID:          uuid.New(),
		EmergencyID: &e.ID,
		UserID:      e.UserID,
		Level:       e.EscalationLevel,
		Title:       "Stand down",
		Body:        fmt.Sprintf("The emergency for %s was a false alarm", e.UserID),
	}
	if _, err := s.dispatcher.Send(ctx, n, recipients, models.PriorityMedium); err != nil {
		log.WithError(err).Error("Failed to send stand-down notification")
		return
	}
	log.WithField("recipients", len(recipients)).Info("Stand-down notification sent")
}

// HandleEscalationTimer - обработчик таймера эскалации. Таймер с устаревшим уровнем или
// для неактивной тревоги ничего не делает.
func (s *emergencyService) HandleEscalationTimer(ctx context.Context, id uuid.UUID, expectedLevel int) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "emergency",
		"method":       "HandleEscalationTimer",
		"emergency_id": id,
		"level":        expectedLevel,
	})

	e, err := s.repo.GetEmergency(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Warn("Escalation timer for unknown emergency")
			return nil
		}
		return fmt.Errorf("service: could not get emergency: %w", err)
	}
	if e.Status != models.EmergencyActive || e.EscalationLevel != expectedLevel {
		log.WithField("status", e.Status).Debug("Escalation timer is stale")
		return nil
	}

	if e.NextEscalationAt != nil && s.now().Before(*e.NextEscalationAt) {
		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerEmergencyEscalation,
			EntityID: id,
			FireAt:   *e.NextEscalationAt,
			Level:    expectedLevel,
		})
		return nil
	}

	_, _, err = s.escalateFrom(ctx, id, expectedLevel, "timer")
	if errors.Is(err, apperror.ErrInvalidTransition) {
		return nil
	}
	return err
}

// HandleDeliveryFailure: исчерпанная доставка критичного оповещения поднимает тревогу
func (s *emergencyService) HandleDeliveryFailure(ctx context.Context, failure *DeliveryFailure) error {
	a := failure.Attempt
	log := s.logger.WithFields(logrus.Fields{
		"service":      "emergency",
		"method":       "HandleDeliveryFailure",
		"recipient_id": a.RecipientID,
		"priority":     a.Priority,
		"level":        a.Level,
	})
	log.WithError(failure).Warn("Delivery exhausted for recipient")

	if a.EmergencyID == nil || a.Priority != models.PriorityCritical {
		return nil
	}

	e, err := s.repo.GetEmergency(ctx, *a.EmergencyID)
	if err != nil {
		return fmt.Errorf("service: could not get emergency: %w", err)
	}
	if e.Status != models.EmergencyActive || e.EscalationLevel != a.Level {
		return nil
	}

	_, _, err = s.escalateFrom(ctx, e.ID, a.Level, "delivery_failure")
	if errors.Is(err, apperror.ErrInvalidTransition) {
		return nil
	}
	return err
}

func hasContact(contacts []models.Contact, id string) bool {
	for _, c := range contacts {
		if c.ContactID == id {
			return true
		}
	}
	return false
}
