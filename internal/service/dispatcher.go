package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/delivery"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// fanOutLimit - сколько получателей обрабатывается параллельно в одном Send
const fanOutLimit = 8

// DispatchService определяет контракт диспетчера оповещений.
// Send возвращается только после того, как каждая начальная попытка записана в бд.
type DispatchService interface {
	Send(ctx context.Context, n *models.Notification, recipients []models.Contact, priority models.Priority) (*models.DeliveryReport, error)
	ReportDeliveryStatus(ctx context.Context, attemptID uuid.UUID, status models.AttemptStatus, detail string) (*models.NotificationAttempt, error)
	GetAttempt(ctx context.Context, id uuid.UUID) (*models.NotificationAttempt, error)
	ListAttempts(ctx context.Context, notificationID uuid.UUID) ([]*models.NotificationAttempt, error)
	Deliver(ctx context.Context, attemptID uuid.UUID) error
	HandleRetryTimer(ctx context.Context, attemptID uuid.UUID, attemptNo int) error
	HandleDeliveryCheck(ctx context.Context, attemptID uuid.UUID, attemptNo int) error
	SetFailureHandler(h DeliveryFailureHandler)
}

type dispatchService struct {
	attempts    AttemptRepository
	emergencies EmergencyRepository
	publisher   JobPublisher
	timers      TimerScheduler
	providers   map[models.Channel]delivery.Provider
	cfg         *config.Config
	logger      *logrus.Logger
	now         func() time.Time

	mu      sync.RWMutex
	handler DeliveryFailureHandler
}

func NewDispatchService(attempts AttemptRepository, emergencies EmergencyRepository, publisher JobPublisher, timers TimerScheduler,
	providers []delivery.Provider, cfg *config.Config, logger *logrus.Logger, opts ...Option) DispatchService {
	o := buildOptions(opts)
	byChannel := make(map[models.Channel]delivery.Provider, len(providers))
	for _, p := range providers {
		byChannel[p.Channel()] = p
	}
	return &dispatchService{
		attempts:    attempts,
		emergencies: emergencies,
		publisher:   publisher,
		timers:      timers,
		providers:   byChannel,
		cfg:         cfg,
		logger:      logger,
		now:         o.now,
	}
}

// SetFailureHandler задает получателя исчерпанных доставок. Устанавливается после
// создания сервиса тревог, который сам зависит от диспетчера.
func (s *dispatchService) SetFailureHandler(h DeliveryFailureHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *dispatchService) failureHandler() DeliveryFailureHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

func (s *dispatchService) policy(p models.Priority) (config.DeliveryPolicy, bool) {
	policy, ok := s.cfg.DeliveryPolicies[p]
	if ok && policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return policy, ok
}

// Send рассылает оповещение получателям по политике приоритета
func (s *dispatchService) Send(ctx context.Context, n *models.Notification, recipients []models.Contact, priority models.Priority) (*models.DeliveryReport, error) {
	if n == nil {
		return nil, apperror.Validation("notification is required")
	}
	policy, ok := s.policy(priority)
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown priority %q", priority))
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":         "dispatcher",
		"method":          "Send",
		"notification_id": n.ID,
		"priority":        priority,
		"recipients":      len(recipients),
	})
	log.Info("Dispatching notification")

	ladder := n.Channels
	if len(ladder) == 0 {
		ladder = policy.Channels
	}

	now := s.now()
	report := &models.DeliveryReport{NotificationID: n.ID, Priority: priority}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, r := range recipients {
		if policy.Suppressible && r.InQuietHours(now) {
			report.Suppressed = append(report.Suppressed, r.ContactID)
			continue
		}
		channels := reachableChannels(ladder, r)
		if len(channels) == 0 {
			report.Unreachable = append(report.Unreachable, r.ContactID)
			log.WithField("contact_id", r.ContactID).Warn("Recipient has no address for any channel in ladder")
			continue
		}

		g.Go(func() error {
			initial := channels[:1]
			if policy.Parallel {
				initial = channels
			}
			for i := range initial {
				a := newAttempt(n, r, channels, i, priority, policy, now)
				created, err := s.createAttempt(gctx, a)
				if err != nil {
					return err
				}
				if created {
					mu.Lock()
					report.Attempts = append(report.Attempts, a)
					mu.Unlock()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to persist notification attempts")
		return report, fmt.Errorf("service: could not dispatch notification: %w", err)
	}

	sort.Slice(report.Attempts, func(i, j int) bool {
		a, b := report.Attempts[i], report.Attempts[j]
		if a.RecipientID != b.RecipientID {
			return a.RecipientID < b.RecipientID
		}
		return a.LadderIndex < b.LadderIndex
	})
	log.WithFields(logrus.Fields{
		"attempts":    len(report.Attempts),
		"suppressed":  len(report.Suppressed),
		"unreachable": len(report.Unreachable),
	}).Info("Notification dispatched successfully")
	return report, nil
}

func reachableChannels(ladder []models.Channel, r models.Contact) []models.Channel {
	var out []models.Channel
	for _, ch := range ladder {
		if r.Addresses[ch] != "" {
			out = append(out, ch)
		}
	}
	return out
}

func newAttempt(n *models.Notification, r models.Contact, ladder []models.Channel, idx int,
	priority models.Priority, policy config.DeliveryPolicy, now time.Time) *models.NotificationAttempt {
	addresses := make(map[models.Channel]string, len(ladder))
	for _, ch := range ladder {
		addresses[ch] = r.Addresses[ch]
	}
	return &models.NotificationAttempt{
		ID:             uuid.New(),
		NotificationID: n.ID,
		EmergencyID:    n.EmergencyID,
		ObligationID:   n.ObligationID,
		UserID:         n.UserID,
		RecipientID:    r.ContactID,
		Channel:        ladder[idx],
		Address:        addresses[ladder[idx]],
		Addresses:      addresses,
		Priority:       priority,
		Level:          n.Level,
		Status:         models.AttemptQueued,
		MaxAttempts:    policy.MaxAttempts,
		ChannelLadder:  append([]models.Channel(nil), ladder...),
		LadderIndex:    idx,
		Title:          n.Title,
		Body:           n.Body,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// createAttempt записывает попытку и публикует задание. Повтор пары (recipient, channel) пропускается.
func (s *dispatchService) createAttempt(ctx context.Context, a *models.NotificationAttempt) (bool, error) {
	ev, err := models.NewTransitionEvent(models.EntityAttempt, a.ID, a.UserID, stateNone,
		string(models.AttemptQueued), a.CreatedAt, &a.NotificationID, a)
	if err != nil {
		return false, err
	}
	if err := s.attempts.CreateAttempt(ctx, a, ev); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("could not create %s attempt for %s: %w", a.Channel, a.RecipientID, err)
	}
	metrics.Transitions.WithLabelValues(string(models.EntityAttempt), string(models.AttemptQueued)).Inc()

	if err := s.publisher.PublishAttempt(ctx, a.ID); err != nil {
		// попытка уже записана, сверка переопубликует зависшие queued
		s.logger.WithError(err).WithField("attempt_id", a.ID).Warn("Failed to publish delivery job")
	}
	return true, nil
}

// GetAttempt возвращает попытку по ID
func (s *dispatchService) GetAttempt(ctx context.Context, id uuid.UUID) (*models.NotificationAttempt, error) {
	a, err := s.attempts.GetAttempt(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get attempt: %w", err)
	}
	return a, nil
}

// ListAttempts возвращает все попытки оповещения
func (s *dispatchService) ListAttempts(ctx context.Context, notificationID uuid.UUID) ([]*models.NotificationAttempt, error) {
	out, err := s.attempts.ListAttempts(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list attempts: %w", err)
	}
	return out, nil
}

// cancelled - критичные попытки закрытой тревоги больше не доставляются
func (s *dispatchService) cancelled(ctx context.Context, a *models.NotificationAttempt) bool {
	if a.EmergencyID == nil || a.Priority != models.PriorityCritical {
		return false
	}
	e, err := s.emergencies.GetEmergency(ctx, *a.EmergencyID)
	if err != nil {
		return false
	}
	return e.Status.IsTerminal()
}

// Deliver вызывается воркером доставки для queued попытки
func (s *dispatchService) Deliver(ctx context.Context, attemptID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "dispatcher",
		"method":     "Deliver",
		"attempt_id": attemptID,
	})

	a, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Warn("Delivery job for unknown attempt")
			return nil
		}
		return fmt.Errorf("service: could not get attempt: %w", err)
	}
	if a.Status != models.AttemptQueued {
		log.WithField("status", a.Status).Debug("Attempt is not queued, skipping")
		return nil
	}
	if s.cancelled(ctx, a) {
		log.Info("Emergency closed, delivery skipped")
		return nil
	}

	provider, ok := s.providers[a.Channel]
	if !ok {
		metrics.DeliveryAttempts.WithLabelValues(string(a.Channel), "unavailable").Inc()
		return s.fail(ctx, log, a, fmt.Sprintf("no provider configured for channel %s", a.Channel), true)
	}

	ref, err := provider.Send(ctx, delivery.Message{
		AttemptID:   a.ID,
		Channel:     a.Channel,
		RecipientID: a.RecipientID,
		Address:     a.Address,
		Priority:    a.Priority,
		Title:       a.Title,
		Body:        a.Body,
	})
	if err != nil {
		metrics.DeliveryAttempts.WithLabelValues(string(a.Channel), "error").Inc()
		return s.fail(ctx, log, a, err.Error(), true)
	}
	metrics.DeliveryAttempts.WithLabelValues(string(a.Channel), "sent").Inc()
	return s.markSent(ctx, log, a, ref)
}

func (s *dispatchService) markSent(ctx context.Context, log *logrus.Entry, a *models.NotificationAttempt, ref string) error {
	cur := a
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		if cur.Status != models.AttemptQueued {
			// колбэк провайдера успел раньше
			return nil
		}
		now := s.now()
		next := cur.Clone()
		next.Status = models.AttemptSent
		next.AttemptCount++
		next.LastAttemptAt = &now
		next.ProviderRef = ref
		next.LastError = ""
		next.Version++
		next.UpdatedAt = now

		err := s.updateAttempt(ctx, cur, next)
		if err == nil {
			log.WithField("channel", next.Channel).Info("Attempt sent to provider")
			scheduleTimer(ctx, s.timers, log, models.Timer{
				Kind:     models.TimerDeliveryCheck,
				EntityID: next.ID,
				FireAt:   now.Add(s.cfg.DeliveryFallbackWindow),
				Level:    next.AttemptCount,
			})
			return nil
		}
		if !errors.Is(err, apperror.ErrConcurrencyConflict) {
			return err
		}
		if cur, err = s.attempts.GetAttempt(ctx, a.ID); err != nil {
			return fmt.Errorf("service: could not reload attempt: %w", err)
		}
	}
	return apperror.ConcurrencyConflict("notification_attempt", a.ID.String())
}

func (s *dispatchService) updateAttempt(ctx context.Context, cur, next *models.NotificationAttempt) error {
	ev, err := models.NewTransitionEvent(models.EntityAttempt, next.ID, next.UserID, string(cur.Status),
		string(next.Status), next.UpdatedAt, &next.NotificationID, next)
	if err != nil {
		return err
	}
	if err := s.attempts.UpdateAttempt(ctx, next, cur.Version, ev); err != nil {
		if errors.Is(err, apperror.ErrConcurrencyConflict) {
			metrics.CASConflicts.WithLabelValues(string(models.EntityAttempt)).Inc()
		}
		return err
	}
	metrics.Transitions.WithLabelValues(string(models.EntityAttempt), string(next.Status)).Inc()
	return nil
}

// fail переводит попытку в failed, планирует повтор, переходит на следующий канал
// и сообщает об исчерпании. counted - был ли это реальный вызов провайдера.
func (s *dispatchService) fail(ctx context.Context, log *logrus.Entry, a *models.NotificationAttempt, reason string, counted bool) error {
	cur := a
	var failed *models.NotificationAttempt
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries) && failed == nil; attempt++ {
		if !models.CanAdvance(cur.Status, models.AttemptFailed) {
			return nil
		}
		now := s.now()
		next := cur.Clone()
		next.Status = models.AttemptFailed
		if counted {
			next.AttemptCount++
			next.LastAttemptAt = &now
		}
		next.LastError = reason
		next.Version++
		next.UpdatedAt = now

		err := s.updateAttempt(ctx, cur, next)
		if err == nil {
			failed = next
			break
		}
		if !errors.Is(err, apperror.ErrConcurrencyConflict) {
			return err
		}
		if cur, err = s.attempts.GetAttempt(ctx, a.ID); err != nil {
			return fmt.Errorf("service: could not reload attempt: %w", err)
		}
	}
	if failed == nil {
		return apperror.ConcurrencyConflict("notification_attempt", a.ID.String())
	}

	log.WithFields(logrus.Fields{
		"channel":       failed.Channel,
		"attempt_count": failed.AttemptCount,
		"reason":        reason,
	}).Warn("Delivery attempt failed")

	if s.cancelled(ctx, failed) {
		return nil
	}

	if failed.AttemptCount < failed.MaxAttempts {
		policy, _ := s.policy(failed.Priority)
		scheduleTimer(ctx, s.timers, log, models.Timer{
			Kind:     models.TimerDeliveryRetry,
			EntityID: failed.ID,
			FireAt:   s.now().Add(policy.Backoff(max(failed.AttemptCount, 1))),
			Level:    failed.AttemptCount,
		})
	}

	if err := s.fallback(ctx, log, failed); err != nil {
		return err
	}
	s.checkExhausted(ctx, log, failed)
	return nil
}

// fallback создает попытку по следующему каналу лестницы получателя
func (s *dispatchService) fallback(ctx context.Context, log *logrus.Entry, a *models.NotificationAttempt) error {
	ch, idx, ok := a.NextChannel()
	if !ok {
		return nil
	}
	now := s.now()
	next := &models.NotificationAttempt{
		ID:             uuid.New(),
		NotificationID: a.NotificationID,
		EmergencyID:    a.EmergencyID,
		ObligationID:   a.ObligationID,
		UserID:         a.UserID,
		RecipientID:    a.RecipientID,
		Channel:        ch,
		Address:        a.Addresses[ch],
		Addresses:      a.Clone().Addresses,
		Priority:       a.Priority,
		Level:          a.Level,
		Status:         models.AttemptQueued,
		MaxAttempts:    a.MaxAttempts,
		ChannelLadder:  append([]models.Channel(nil), a.ChannelLadder...),
		LadderIndex:    idx,
		Title:          a.Title,
		Body:           a.Body,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := s.createAttempt(ctx, next)
	if err != nil {
		return fmt.Errorf("service: could not create fallback attempt: %w", err)
	}
	if created {
		log.WithFields(logrus.Fields{
			"recipient_id": a.RecipientID,
			"from":         a.Channel,
			"to":           ch,
		}).Info("Falling back to next channel")
	}
	return nil
}

// checkExhausted сообщает обработчику, если для получателя не осталось ни каналов, ни повторов
func (s *dispatchService) checkExhausted(ctx context.Context, log *logrus.Entry, a *models.NotificationAttempt) {
	siblings, err := s.attempts.ListRecipientAttempts(ctx, a.NotificationID, a.RecipientID)
	if err != nil {
		log.WithError(err).Error("Failed to load recipient attempts")
		return
	}
	if len(siblings) < len(a.ChannelLadder) {
		return
	}
	for _, sib := range siblings {
		if !sib.Exhausted() {
			return
		}
	}
	s.reportFailure(ctx, log, a, siblings, "all channels and retries exhausted")
}

func (s *dispatchService) reportFailure(ctx context.Context, log *logrus.Entry, a *models.NotificationAttempt,
	siblings []*models.NotificationAttempt, reason string) {
	metrics.DeliveryExhausted.WithLabelValues(string(a.Priority)).Inc()
	failure := &DeliveryFailure{Attempt: a, Attempts: siblings, Reason: reason}
	log.WithError(failure).Error("Delivery failure for recipient")

	h := s.failureHandler()
	if h == nil {
		return
	}
	if err := h.HandleDeliveryFailure(ctx, failure); err != nil {
		// лестница эскалации продолжит работать по своему таймеру
		log.WithError(err).Error("Delivery failure handler failed")
	}
}

// HandleRetryTimer возвращает проваленную попытку в очередь, если повтор еще актуален
func (s *dispatchService) HandleRetryTimer(ctx context.Context, attemptID uuid.UUID, attemptNo int) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "dispatcher",
		"method":     "HandleRetryTimer",
		"attempt_id": attemptID,
		"attempt_no": attemptNo,
	})

	cur, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service: could not get attempt: %w", err)
	}
	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		if cur.Status != models.AttemptFailed || cur.AttemptCount != attemptNo || cur.AttemptCount >= cur.MaxAttempts {
			log.WithField("status", cur.Status).Debug("Retry timer is stale")
			return nil
		}
		if s.cancelled(ctx, cur) {
			return nil
		}

		now := s.now()
		next := cur.Clone()
		next.Status = models.AttemptQueued
		next.Version++
		next.UpdatedAt = now

		err := s.updateAttempt(ctx, cur, next)
		if err == nil {
			if err := s.publisher.PublishAttempt(ctx, next.ID); err != nil {
				log.WithError(err).Warn("Failed to publish retry job")
			}
			log.Info("Attempt requeued for retry")
			return nil
		}
		if !errors.Is(err, apperror.ErrConcurrencyConflict) {
			return err
		}
		if cur, err = s.attempts.GetAttempt(ctx, attemptID); err != nil {
			return fmt.Errorf("service: could not reload attempt: %w", err)
		}
	}
	return apperror.ConcurrencyConflict("notification_attempt", attemptID.String())
}

// HandleDeliveryCheck срабатывает через окно подтверждения после отправки
func (s *dispatchService) HandleDeliveryCheck(ctx context.Context, attemptID uuid.UUID, attemptNo int) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "dispatcher",
		"method":     "HandleDeliveryCheck",
		"attempt_id": attemptID,
	})

	a, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service: could not get attempt: %w", err)
	}
	if a.Status != models.AttemptSent || a.AttemptCount != attemptNo || s.cancelled(ctx, a) {
		return nil
	}

	log.WithField("channel", a.Channel).Warn("Delivery not confirmed within fallback window")
	if _, _, ok := a.NextChannel(); ok {
		return s.fallback(ctx, log, a)
	}

	siblings, err := s.attempts.ListRecipientAttempts(ctx, a.NotificationID, a.RecipientID)
	if err != nil {
		return fmt.Errorf("service: could not list recipient attempts: %w", err)
	}
	for _, sib := range siblings {
		if sib.Status == models.AttemptDelivered || sib.Status == models.AttemptConfirmed {
			return nil
		}
	}
	s.reportFailure(ctx, log, a, siblings, "delivery not confirmed")
	return nil
}

// ReportDeliveryStatus - колбэк провайдера о статусе доставки
func (s *dispatchService) ReportDeliveryStatus(ctx context.Context, attemptID uuid.UUID, status models.AttemptStatus, detail string) (*models.NotificationAttempt, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "dispatcher",
		"method":     "ReportDeliveryStatus",
		"attempt_id": attemptID,
		"status":     status,
	})
	log.Info("Received delivery status")

	switch status {
	case models.AttemptSent, models.AttemptDelivered, models.AttemptConfirmed, models.AttemptFailed:
	default:
		return nil, apperror.Validation(fmt.Sprintf("unsupported delivery status %q", status))
	}

	for attempt := 0; attempt <= casRetries(s.cfg.CASMaxRetries); attempt++ {
		cur, err := s.attempts.GetAttempt(ctx, attemptID)
		if err != nil {
			return nil, fmt.Errorf("service: could not get attempt: %w", err)
		}
		if cur.Status == status {
			return cur, nil
		}
		if !models.CanAdvance(cur.Status, status) {
			return nil, apperror.InvalidTransition("notification_attempt", attemptID.String(), string(cur.Status), string(status))
		}

		if status == models.AttemptFailed {
			if detail == "" {
				detail = "provider reported failure"
			}
			if err := s.fail(ctx, log, cur, detail, false); err != nil {
				return nil, err
			}
			return s.GetAttempt(ctx, attemptID)
		}

		now := s.now()
		next := cur.Clone()
		next.Status = status
		next.Version++
		next.UpdatedAt = now

		err = s.updateAttempt(ctx, cur, next)
		if err == nil {
			log.Info("Delivery status recorded")
			return next, nil
		}
		if !errors.Is(err, apperror.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("service: could not update attempt: %w", err)
		}
	}
	return nil, apperror.ConcurrencyConflict("notification_attempt", attemptID.String())
}
