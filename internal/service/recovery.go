package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

const replayPageSize = 1000

// ReconcileReport - что восстановила одна сверка
type ReconcileReport struct {
	Obligations int `json:"obligations"`
	Violations  int `json:"violations"`
	Emergencies int `json:"emergencies"`
	Attempts    int `json:"attempts"`
}

// RecoveryService восстанавливает таймеры и задания по состоянию в бд и сверяет журнал с таблицами
type RecoveryService struct {
	obligationRepo ObligationRepository
	emergencies    EmergencyRepository
	attempts       AttemptRepository
	events         EventLog
	obligations    ObligationService
	timers         TimerScheduler
	publisher      JobPublisher
	cfg            *config.Config
	logger         *logrus.Logger
	now            func() time.Time
}

func NewRecoveryService(obligationRepo ObligationRepository, emergencies EmergencyRepository, attempts AttemptRepository,
	events EventLog, obligations ObligationService, timers TimerScheduler, publisher JobPublisher,
	cfg *config.Config, logger *logrus.Logger, opts ...Option) *RecoveryService {
	o := buildOptions(opts)
	return &RecoveryService{
		obligationRepo: obligationRepo,
		emergencies:    emergencies,
		attempts:       attempts,
		events:         events,
		obligations:    obligations,
		timers:         timers,
		publisher:      publisher,
		cfg:            cfg,
		logger:         logger,
		now:            o.now,
	}
}

// Rebuild читает журнал целиком и сворачивает его в снимок
func (s *RecoveryService) Rebuild(ctx context.Context) (*Snapshot, error) {
	var all []*models.TransitionEvent
	var after int64
	for {
		page, err := s.events.ListEvents(ctx, after, replayPageSize)
		if err != nil {
			return nil, fmt.Errorf("service: could not read event log: %w", err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		after = page[len(page)-1].Seq
		if len(page) < replayPageSize {
			break
		}
	}
	return Replay(all)
}

// Verify сверяет снимок журнала с текущими таблицами
func (s *RecoveryService) Verify(ctx context.Context) ([]Mismatch, *Snapshot, error) {
	snap, err := s.Rebuild(ctx)
	if err != nil {
		return nil, snap, err
	}
	obligations, err := s.obligationRepo.ListAllObligations(ctx)
	if err != nil {
		return nil, snap, fmt.Errorf("service: could not list obligations: %w", err)
	}
	emergencies, err := s.emergencies.ListAllEmergencies(ctx)
	if err != nil {
		return nil, snap, fmt.Errorf("service: could not list emergencies: %w", err)
	}
	attempts, err := s.attempts.ListAllAttempts(ctx)
	if err != nil {
		return nil, snap, fmt.Errorf("service: could not list attempts: %w", err)
	}

	mismatches := snap.Compare(obligations, emergencies, attempts)
	s.logger.WithFields(logrus.Fields{
		"events":     snap.LastSeq,
		"races":      snap.Races,
		"mismatches": len(mismatches),
	}).Info("Event log verified")
	return mismatches, snap, nil
}

// Recover при старте ставит таймеры для всех незавершенных сущностей
func (s *RecoveryService) Recover(ctx context.Context) (*ReconcileReport, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "recovery", "method": "Recover"})
	report := &ReconcileReport{}
	now := s.now()

	obligations, err := s.obligationRepo.ListAllObligations(ctx)
	if err != nil {
		return report, fmt.Errorf("service: could not list obligations: %w", err)
	}
	for _, ob := range obligations {
		switch {
		case ob.Status == models.ObligationPending:
			scheduleTimer(ctx, s.timers, log, models.Timer{
				Kind:     models.TimerObligationThreshold,
				EntityID: ob.ID,
				FireAt:   ob.Threshold(),
			})
			report.Obligations++
		case ob.Status == models.ObligationViolated && ob.EmergencyID == nil:
			if err := s.obligations.HandleThreshold(ctx, ob.ID); err != nil {
				log.WithError(err).WithField("obligation_id", ob.ID).Error("Failed to raise emergency for violation")
				continue
			}
			report.Violations++
		}
	}

	emergencies, err := s.emergencies.ListAllEmergencies(ctx)
	if err != nil {
		return report, fmt.Errorf("service: could not list emergencies: %w", err)
	}
	for _, e := range emergencies {
		if e.Status != models.EmergencyActive {
			continue
		}
		s.restoreEscalation(ctx, log, e, now)
		report.Emergencies++
	}

	attempts, err := s.attempts.ListAllAttempts(ctx)
	if err != nil {
		return report, fmt.Errorf("service: could not list attempts: %w", err)
	}
	for _, a := range attempts {
		if s.restoreAttempt(ctx, log, a, now) {
			report.Attempts++
		}
	}

	log.WithFields(logrus.Fields{
		"obligations": report.Obligations,
		"violations":  report.Violations,
		"emergencies": report.Emergencies,
		"attempts":    report.Attempts,
	}).Info("Timers recovered")
	return report, nil
}

// Reconcile - периодическая сверка: находит сущности, чьи таймеры просрочены дольше
// TimerRetryDelay, и ставит их заново. Повторная постановка того же ключа безопасна.
func (s *RecoveryService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "recovery", "method": "Reconcile"})
	report := &ReconcileReport{}
	now := s.now()
	cutoff := now.Add(-s.cfg.TimerRetryDelay)
	limit := s.cfg.TimerBatchSize
	if limit <= 0 {
		limit = 100
	}

	overdue, err := s.obligationRepo.ListOverdueObligations(ctx, cutoff, limit)
	if err != nil {
		return report, fmt.Errorf("service: could not list overdue obligations: %w", err)
	}
	for _, ob := range overdue {
		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerObligationThreshold,
			EntityID: ob.ID,
			FireAt:   now,
		})
		report.Obligations++
	}

	unlinked, err := s.obligationRepo.ListUnlinkedViolations(ctx, limit)
	if err != nil {
		return report, fmt.Errorf("service: could not list unlinked violations: %w", err)
	}
	for _, ob := range unlinked {
		if err := s.obligations.HandleThreshold(ctx, ob.ID); err != nil {
			log.WithError(err).WithField("obligation_id", ob.ID).Error("Failed to raise emergency for violation")
			continue
		}
		report.Violations++
	}

	due, err := s.emergencies.ListEscalationDue(ctx, cutoff, limit)
	if err != nil {
		return report, fmt.Errorf("service: could not list emergencies due for escalation: %w", err)
	}
	for _, e := range due {
		s.restoreEscalation(ctx, log, e, now)
		report.Emergencies++
	}

	stale, err := s.attempts.ListStaleAttempts(ctx, cutoff, limit)
	if err != nil {
		return report, fmt.Errorf("service: could not list stale attempts: %w", err)
	}
	for _, a := range stale {
		if s.restoreAttempt(ctx, log, a, now) {
			report.Attempts++
		}
	}

	if *report != (ReconcileReport{}) {
		log.WithFields(logrus.Fields{
			"obligations": report.Obligations,
			"violations":  report.Violations,
			"emergencies": report.Emergencies,
			"attempts":    report.Attempts,
		}).Warn("Reconciliation restored lost work")
	}
	return report, nil
}

func (s *RecoveryService) restoreEscalation(ctx context.Context, log *logrus.Entry, e *models.Emergency, now time.Time) {
	fireAt := now
	if e.NextEscalationAt != nil && e.NextEscalationAt.After(now) {
		fireAt = *e.NextEscalationAt
	}
	scheduleTimer(ctx, s.timers, log, models.Timer{
		Kind:     models.TimerEmergencyEscalation,
		EntityID: e.ID,
		FireAt:   fireAt,
		Level:    e.EscalationLevel,
	})
}

// restoreAttempt возвращает в работу незавершенную попытку доставки
func (s *RecoveryService) restoreAttempt(ctx context.Context, log *logrus.Entry, a *models.NotificationAttempt, now time.Time) bool {
	switch a.Status {
	case models.AttemptQueued:
		if err := s.publisher.PublishAttempt(ctx, a.ID); err != nil {
			log.WithError(err).WithField("attempt_id", a.ID).Error("Failed to republish attempt")
			return false
		}
	case models.AttemptSent:
		fireAt := now
		if a.LastAttemptAt != nil && a.LastAttemptAt.Add(s.cfg.DeliveryFallbackWindow).After(now) {
			fireAt = a.LastAttemptAt.Add(s.cfg.DeliveryFallbackWindow)
		}
		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerDeliveryCheck,
			EntityID: a.ID,
			FireAt:   fireAt,
			Level:    a.AttemptCount,
		})
	case models.AttemptFailed:
		if a.AttemptCount >= a.MaxAttempts {
			return false
		}
		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerDeliveryRetry,
			EntityID: a.ID,
			FireAt:   now,
			Level:    a.AttemptCount,
		})
	default:
		return false
	}
	return true
}
