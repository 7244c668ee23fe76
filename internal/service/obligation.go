package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/geo"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ObligationService определяет контракт планировщика обязательств
type ObligationService interface {
	ScheduleCheckin(ctx context.Context, userID string, deadline time.Time, grace *time.Duration, note string) (*models.Obligation, error)
	GetObligation(ctx context.Context, id uuid.UUID) (*models.Obligation, error)
	ListObligations(ctx context.Context, userID string, status models.ObligationStatus) ([]*models.Obligation, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Obligation, error)
	CheckIn(ctx context.Context, userID string, obligationID *uuid.UUID) ([]*models.Obligation, error)
	StartJourney(ctx context.Context, j *models.Journey) (*models.Journey, *models.Obligation, error)
	EndJourney(ctx context.Context, id uuid.UUID) (*models.Journey, error)
	OpenDwell(ctx context.Context, userID string, fence *models.Geofence, enteredAt time.Time) (*models.Obligation, error)
	CloseDwell(ctx context.Context, userID string, fenceID uuid.UUID) (*models.Obligation, error)
	ObserveJourney(ctx context.Context, userID string, p models.Point) (*JourneyObservation, error)
	HandleThreshold(ctx context.Context, id uuid.UUID) error
}

// JourneyObservation - результат сверки положения с активным маршрутом
type JourneyObservation struct {
	JourneyID uuid.UUID
	Deviation float64
	Created   *models.Obligation
	Satisfied *models.Obligation
}

type obligationService struct {
	repo        ObligationRepository
	journeys    JourneyRepository
	events      EventLog
	emergencies EmergencyService
	timers      TimerScheduler
	cfg         *config.Config
	logger      *logrus.Logger
	now         func() time.Time
}

func NewObligationService(repo ObligationRepository, journeys JourneyRepository, events EventLog, emergencies EmergencyService,
	timers TimerScheduler, cfg *config.Config, logger *logrus.Logger, opts ...Option) ObligationService {
	o := buildOptions(opts)
	return &obligationService{
		repo:        repo,
		journeys:    journeys,
		events:      events,
		emergencies: emergencies,
		timers:      timers,
		cfg:         cfg,
		logger:      logger,
		now:         o.now,
	}
}

// create записывает новое pending обязательство и ставит таймер порога
func (s *obligationService) create(ctx context.Context, log *logrus.Entry, ob *models.Obligation) error {
	now := s.now()
	ob.ID = uuid.New()
	ob.Status = models.ObligationPending
	ob.Version = 1
	ob.CreatedAt = now
	ob.UpdatedAt = now

	ev, err := models.NewTransitionEvent(models.EntityObligation, ob.ID, ob.UserID, stateNone,
		string(models.ObligationPending), now, ob.JourneyID, ob)
	if err != nil {
		return fmt.Errorf("service: could not build obligation event: %w", err)
	}
	if err := s.repo.CreateObligation(ctx, ob, ev); err != nil {
		return err
	}

	metrics.Transitions.WithLabelValues(string(models.EntityObligation), string(models.ObligationPending)).Inc()
	log.WithFields(logrus.Fields{
		"obligation_id": ob.ID,
		"kind":          ob.Kind,
		"threshold":     ob.Threshold(),
	}).Info("Obligation created successfully")

	scheduleTimer(ctx, s.timers, log, models.Timer{
		Kind:     models.TimerObligationThreshold,
		EntityID: ob.ID,
		FireAt:   ob.Threshold(),
	})
	return nil
}

// ScheduleCheckin создает плановую отметку с дедлайном и льготным периодом
func (s *obligationService) ScheduleCheckin(ctx context.Context, userID string, deadline time.Time, grace *time.Duration, note string) (*models.Obligation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "obligation",
		"method":   "ScheduleCheckin",
		"user_id":  userID,
		"deadline": deadline,
	})
	log.Info("Attempting to schedule check-in")

	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if deadline.IsZero() {
		return nil, apperror.Validation("deadline is required")
	}
	g := s.cfg.Obligations.CheckinGrace
	if grace != nil {
		if *grace < 0 {
			return nil, apperror.Validation("grace period must not be negative")
		}
		g = *grace
	}

	ob := &models.Obligation{
		UserID:      userID,
		Kind:        models.ObligationScheduledCheckin,
		Deadline:    deadline.UTC(),
		GracePeriod: g,
		Note:        note,
	}
	if err := s.create(ctx, log, ob); err != nil {
		log.WithError(err).Error("Failed to create check-in obligation")
		return nil, fmt.Errorf("service: could not schedule check-in: %w", err)
	}
	return ob, nil
}

// GetObligation получает обязательство по ID
func (s *obligationService) GetObligation(ctx context.Context, id uuid.UUID) (*models.Obligation, error) {
	ob, err := s.repo.GetObligation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get obligation: %w", err)
	}
	return ob, nil
}

// ListObligations возвращает обязательства пользователя, status пустой - все
func (s *obligationService) ListObligations(ctx context.Context, userID string, status models.ObligationStatus) ([]*models.Obligation, error) {
	out, err := s.repo.ListObligations(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("service: could not list obligations: %w", err)
	}
	return out, nil
}

// Cancel отменяет pending обязательство
func (s *obligationService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Obligation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "obligation",
		"method":        "Cancel",
		"obligation_id": id,
		"reason":        reason,
	})
	log.Info("Attempting to cancel obligation")

	ob, applied, err := s.transition(ctx, log, id, models.ObligationCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperror.InvalidTransition("obligation", id.String(), string(ob.Status), string(models.ObligationCancelled))
	}
	return ob, nil
}

// transition - CAS-переход обязательства. guard может отказать в переходе по свежему состоянию.
// Если после проигранного CAS обязательство уже terminal, переход отбрасывается
// с записью race_detected и applied=false без ошибки.
// Без гонки переход из terminal - apperror.ErrInvalidTransition.
func (s *obligationService) transition(ctx context.Context, log *logrus.Entry, id uuid.UUID, to models.ObligationStatus,
	guard func(ob *models.Obligation, now time.Time) error) (*models.Obligation, bool, error) {
	raced := false
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		cur, err := s.repo.GetObligation(ctx, id)
		if err != nil {
			return nil, false, fmt.Errorf("service: could not get obligation: %w", err)
		}
		if !cur.CanTransition(to) {
			if raced {
				recordRace(ctx, s.events, log, models.EntityObligation, id, models.NewRaceEvent(models.EntityObligation,
					id, cur.UserID, string(cur.Status), string(to), s.now()))
				return cur, false, nil
			}
			return cur, false, apperror.InvalidTransition("obligation", id.String(), string(cur.Status), string(to))
		}

		now := s.now()
		if guard != nil {
			if err := guard(cur, now); err != nil {
				return cur, false, err
			}
		}

		next := *cur
		next.Status = to
		next.ResolvedAt = &now
		next.Version++
		next.UpdatedAt = now

		ev, err := models.NewTransitionEvent(models.EntityObligation, id, cur.UserID, string(cur.Status), string(to), now, nil, &next)
		if err != nil {
			return nil, false, fmt.Errorf("service: could not build obligation event: %w", err)
		}
		if err := s.repo.TransitionObligation(ctx, &next, cur.Version, ev); err != nil {
			if errors.Is(err, apperror.ErrConcurrencyConflict) {
				raced = true
				metrics.CASConflicts.WithLabelValues(string(models.EntityObligation)).Inc()
				continue
			}
			log.WithError(err).Error("Failed to persist obligation transition")
			return nil, false, fmt.Errorf("service: could not update obligation: %w", err)
		}

		metrics.Transitions.WithLabelValues(string(models.EntityObligation), string(to)).Inc()
		log.WithFields(logrus.Fields{"obligation_id": id, "to": to}).Info("Obligation transitioned successfully")
		return &next, true, nil
	}
	return nil, false, apperror.ConcurrencyConflict("obligation", id.String())
}

// satisfy пытается выполнить обязательство до порога. Опоздавшая отметка отклоняется:
// обязательство нарушит таймер.
func (s *obligationService) satisfy(ctx context.Context, log *logrus.Entry, id uuid.UUID) (*models.Obligation, error) {
	ob, applied, err := s.transition(ctx, log, id, models.ObligationSatisfied, func(ob *models.Obligation, now time.Time) error {
		if now.After(ob.Threshold()) {
			return apperror.InvalidTransition("obligation", ob.ID.String(), string(ob.Status), string(models.ObligationSatisfied)).
				WithContext("reason", "threshold passed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	return ob, nil
}

// CheckIn выполняет названное обязательство либо все плановые отметки, окно которых открыто
func (s *obligationService) CheckIn(ctx context.Context, userID string, obligationID *uuid.UUID) ([]*models.Obligation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "obligation",
		"method":  "CheckIn",
		"user_id": userID,
	})
	log.Info("Processing check-in")

	if obligationID != nil {
		ob, err := s.repo.GetObligation(ctx, *obligationID)
		if err != nil {
			return nil, fmt.Errorf("service: could not get obligation: %w", err)
		}
		if ob.UserID != userID {
			return nil, apperror.NotFound("obligation", obligationID.String())
		}
		if ob.Kind == models.ObligationGeofenceDwell {
			return nil, apperror.Validation("dwell obligations are satisfied by leaving the geofence")
		}
		satisfied, err := s.satisfy(ctx, log, ob.ID)
		if err != nil {
			return nil, err
		}
		if satisfied == nil {
			return nil, nil
		}
		return []*models.Obligation{satisfied}, nil
	}

	pending, err := s.repo.ListObligations(ctx, userID, models.ObligationPending)
	if err != nil {
		return nil, fmt.Errorf("service: could not list obligations: %w", err)
	}

	now := s.now()
	var out []*models.Obligation
	for _, ob := range pending {
		if ob.Kind != models.ObligationScheduledCheckin || ob.JourneyID != nil {
			continue
		}
		if now.Before(ob.Deadline.Add(-s.cfg.Obligations.CheckinWindow)) || now.After(ob.Threshold()) {
			continue
		}
		satisfied, err := s.satisfy(ctx, log, ob.ID)
		if err != nil {
			if errors.Is(err, apperror.ErrInvalidTransition) {
				continue
			}
			return out, err
		}
		if satisfied != nil {
			out = append(out, satisfied)
		}
	}
	log.WithField("satisfied", len(out)).Info("Check-in processed")
	return out, nil
}

// OpenDwell создает обязательство пребывания при входе в зону риска. Повторный вход
// при уже открытом обязательстве возвращает существующее.
func (s *obligationService) OpenDwell(ctx context.Context, userID string, fence *models.Geofence, enteredAt time.Time) (*models.Obligation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "obligation",
		"method":      "OpenDwell",
		"user_id":     userID,
		"geofence_id": fence.ID,
	})

	maxDwell := fence.MaxDwell
	if maxDwell <= 0 {
		maxDwell = s.cfg.Obligations.MaxDwell
	}
	fenceID := fence.ID
	ob := &models.Obligation{
		UserID:      userID,
		Kind:        models.ObligationGeofenceDwell,
		Deadline:    enteredAt.Add(maxDwell),
		GracePeriod: s.cfg.Obligations.DwellGrace,
		DedupeKey:   models.DwellDedupeKey(userID, fence.ID),
		GeofenceID:  &fenceID,
		Note:        fence.Name,
	}
	err := s.create(ctx, log, ob)
	if errors.Is(err, apperror.ErrDuplicate) {
		log.Debug("Dwell obligation already pending")
		existing, gerr := s.repo.GetPendingByDedupeKey(ctx, ob.DedupeKey)
		if gerr != nil {
			return nil, fmt.Errorf("service: could not load pending dwell obligation: %w", gerr)
		}
		return existing, nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to create dwell obligation")
		return nil, fmt.Errorf("service: could not open dwell obligation: %w", err)
	}
	return ob, nil
}

// CloseDwell выполняет обязательство пребывания при выходе из зоны
func (s *obligationService) CloseDwell(ctx context.Context, userID string, fenceID uuid.UUID) (*models.Obligation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "obligation",
		"method":      "CloseDwell",
		"user_id":     userID,
		"geofence_id": fenceID,
	})

	ob, err := s.repo.GetPendingByDedupeKey(ctx, models.DwellDedupeKey(userID, fenceID))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service: could not load pending dwell obligation: %w", err)
	}
	satisfied, err := s.satisfy(ctx, log, ob.ID)
	if errors.Is(err, apperror.ErrInvalidTransition) {
		log.Info("Exit arrived after dwell threshold")
		return nil, nil
	}
	return satisfied, err
}

// StartJourney сохраняет маршрут и создает отметку прибытия на expected_arrival
func (s *obligationService) StartJourney(ctx context.Context, j *models.Journey) (*models.Journey, *models.Obligation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "obligation",
		"method":  "StartJourney",
		"user_id": j.UserID,
	})
	log.Info("Attempting to start journey")

	if j.UserID == "" {
		return nil, nil, apperror.Validation("user_id is required")
	}
	if err := geo.ValidateRoute(j.Route); err != nil {
		log.WithError(err).Warn("Rejected journey with malformed route")
		return nil, nil, apperror.Validation(fmt.Sprintf("invalid route: %v", err))
	}
	now := s.now()
	if !j.ExpectedArrival.After(now) {
		return nil, nil, apperror.Validation("expected_arrival must be in the future")
	}
	if j.ToleranceMeters <= 0 {
		j.ToleranceMeters = s.cfg.Obligations.DeviationToleranceMeters
	}
	j.ID = uuid.New()
	j.Status = models.JourneyActive
	j.StartedAt = now
	j.ExpectedArrival = j.ExpectedArrival.UTC()

	if err := s.journeys.CreateJourney(ctx, j); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, nil, apperror.InvalidTransition("journey", j.UserID, string(models.JourneyActive), string(models.JourneyActive)).
				WithContext("reason", "user already has an active journey")
		}
		log.WithError(err).Error("Failed to create journey")
		return nil, nil, fmt.Errorf("service: could not start journey: %w", err)
	}

	journeyID := j.ID
	arrival := &models.Obligation{
		UserID:      j.UserID,
		Kind:        models.ObligationScheduledCheckin,
		Deadline:    j.ExpectedArrival,
		GracePeriod: s.cfg.Obligations.CheckinGrace,
		JourneyID:   &journeyID,
		Note:        "journey arrival",
	}
	if err := s.create(ctx, log, arrival); err != nil {
		log.WithError(err).Error("Failed to create arrival obligation")
		return nil, nil, fmt.Errorf("service: could not create arrival obligation: %w", err)
	}

	log.WithField("journey_id", j.ID).Info("Journey started successfully")
	return j, arrival, nil
}

// EndJourney завершает маршрут и выполняет все его обязательства
func (s *obligationService) EndJourney(ctx context.Context, id uuid.UUID) (*models.Journey, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "obligation",
		"method":     "EndJourney",
		"journey_id": id,
	})
	log.Info("Attempting to end journey")

	j, err := s.journeys.GetJourney(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get journey: %w", err)
	}
	if j.Status != models.JourneyActive {
		return nil, apperror.InvalidTransition("journey", id.String(), string(j.Status), string(models.JourneyEnded))
	}

	obs, err := s.repo.ListJourneyObligations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not list journey obligations: %w", err)
	}
	for _, ob := range obs {
		if ob.Status != models.ObligationPending {
			continue
		}
		if _, err := s.satisfy(ctx, log, ob.ID); err != nil && !errors.Is(err, apperror.ErrInvalidTransition) {
			return nil, err
		}
	}

	now := s.now()
	if err := s.journeys.EndJourney(ctx, id, now); err != nil {
		return nil, fmt.Errorf("service: could not end journey: %w", err)
	}
	j.Status = models.JourneyEnded
	j.EndedAt = &now
	log.Info("Journey ended successfully")
	return j, nil
}

// ObserveJourney сверяет положение с активным маршрутом пользователя
func (s *obligationService) ObserveJourney(ctx context.Context, userID string, p models.Point) (*JourneyObservation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "obligation",
		"method":  "ObserveJourney",
		"user_id": userID,
	})

	j, err := s.journeys.GetActiveJourney(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service: could not get active journey: %w", err)
	}

	dev, err := geo.RouteDeviation(p, j.Route)
	if err != nil {
		metrics.ConfigWarnings.Inc()
		log.WithError(err).WithField("journey_id", j.ID).Warn("Journey route cannot be evaluated")
		return nil, nil
	}
	obs := &JourneyObservation{JourneyID: j.ID, Deviation: dev}
	key := models.DeviationDedupeKey(j.ID)

	if dev > j.ToleranceMeters {
		journeyID := j.ID
		ob := &models.Obligation{
			UserID:      userID,
			Kind:        models.ObligationJourneyDeviation,
			Deadline:    s.now(),
			GracePeriod: s.cfg.Obligations.DeviationGrace,
			DedupeKey:   key,
			JourneyID:   &journeyID,
			Note:        fmt.Sprintf("off route by %.0f m", dev),
		}
		err := s.create(ctx, log, ob)
		switch {
		case err == nil:
			obs.Created = ob
		case errors.Is(err, apperror.ErrDuplicate):
		default:
			return nil, fmt.Errorf("service: could not create deviation obligation: %w", err)
		}
		return obs, nil
	}

	pending, err := s.repo.GetPendingByDedupeKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return obs, nil
		}
		return nil, fmt.Errorf("service: could not load deviation obligation: %w", err)
	}
	satisfied, err := s.satisfy(ctx, log, pending.ID)
	if err != nil && !errors.Is(err, apperror.ErrInvalidTransition) {
		return nil, err
	}
	obs.Satisfied = satisfied
	return obs, nil
}

// HandleThreshold - обработчик таймера порога. Перечитывает обязательство и нарушает его,
// только если оно все еще pending и порог действительно прошел.
func (s *obligationService) HandleThreshold(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "obligation",
		"method":        "HandleThreshold",
		"obligation_id": id,
	})

	ob, err := s.repo.GetObligation(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Warn("Threshold timer for unknown obligation")
			return nil
		}
		return fmt.Errorf("service: could not get obligation: %w", err)
	}

	switch ob.Status {
	case models.ObligationPending:
	case models.ObligationViolated:
		// порог уже обработан, но тревога могла не подняться
		if ob.EmergencyID == nil {
			return s.raiseEmergency(ctx, log, ob)
		}
		return nil
	default:
		log.WithField("status", ob.Status).Debug("Obligation no longer pending, timer is a no-op")
		return nil
	}

	if s.now().Before(ob.Threshold()) {
		log.WithField("threshold", ob.Threshold()).Info("Timer fired early, rescheduling")
		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerObligationThreshold,
			EntityID: id,
			FireAt:   ob.Threshold(),
		})
		return nil
	}

	violated, applied, err := s.transition(ctx, log, id, models.ObligationViolated, func(ob *models.Obligation, now time.Time) error {
		if now.Before(ob.Threshold()) {
			return errThresholdNotReached
		}
		return nil
	})
	if errors.Is(err, errThresholdNotReached) || errors.Is(err, apperror.ErrInvalidTransition) {
		return nil
	}
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	log.WithField("kind", violated.Kind).Warn("Obligation violated")
	return s.raiseEmergency(ctx, log, violated)
}

var errThresholdNotReached = errors.New("threshold not reached")

// raiseEmergency поднимает тревогу по нарушению и связывает ее с обязательством
func (s *obligationService) raiseEmergency(ctx context.Context, log *logrus.Entry, ob *models.Obligation) error {
	causation := ob.ID
	e, err := s.emergencies.TriggerEmergency(ctx, ob.UserID, models.ReasonObligationViolation, &causation)
	if err != nil && !errors.Is(err, apperror.ErrAlreadyActive) {
		log.WithError(err).Error("Failed to trigger emergency for violated obligation")
		return fmt.Errorf("service: could not trigger emergency: %w", err)
	}
	if e == nil {
		return nil
	}
	return s.linkEmergency(ctx, log, ob.ID, e.ID)
}

func (s *obligationService) linkEmergency(ctx context.Context, log *logrus.Entry, id, emergencyID uuid.UUID) error {
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		cur, err := s.repo.GetObligation(ctx, id)
		if err != nil {
			return fmt.Errorf("service: could not get obligation: %w", err)
		}
		if cur.EmergencyID != nil {
			return nil
		}
		now := s.now()
		next := *cur
		next.EmergencyID = &emergencyID
		next.Version++
		next.UpdatedAt = now

		ev, err := models.NewTransitionEvent(models.EntityObligation, id, cur.UserID, string(cur.Status),
			string(cur.Status), now, &emergencyID, &next)
		if err != nil {
			return fmt.Errorf("service: could not build obligation event: %w", err)
		}
		err = s.repo.TransitionObligation(ctx, &next, cur.Version, ev)
		if err == nil {
			log.WithField("emergency_id", emergencyID).Info("Obligation linked to emergency")
			return nil
		}
		if !errors.Is(err, apperror.ErrConcurrencyConflict) {
			return fmt.Errorf("service: could not link emergency: %w", err)
		}
	}
	return apperror.ConcurrencyConflict("obligation", id.String())
}
