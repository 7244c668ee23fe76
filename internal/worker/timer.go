package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Queue - очередь долговечных таймеров
type Queue interface {
	Schedule(ctx context.Context, timer models.Timer) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.Timer, error)
}

// Handler обрабатывает сработавший таймер
type Handler func(ctx context.Context, t models.Timer) error

// TimerWorker забирает наступившие таймеры и передает их обработчикам по виду
type TimerWorker struct {
	queue        Queue
	handlers     map[models.TimerKind]Handler
	logger       *logrus.Logger
	pollInterval time.Duration
	batchSize    int
	retryDelay   time.Duration
	now          func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTimerWorker создает новый TimerWorker
func NewTimerWorker(queue Queue, handlers map[models.TimerKind]Handler, logger *logrus.Logger,
	pollInterval time.Duration, batchSize int, retryDelay time.Duration) *TimerWorker {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if batchSize < 1 {
		batchSize = 100
	}
	return &TimerWorker{
		queue:        queue,
		handlers:     handlers,
		logger:       logger,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		retryDelay:   retryDelay,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start запускает цикл опроса очереди
func (w *TimerWorker) Start(ctx context.Context) {
	w.logger.WithField("poll_interval", w.pollInterval).Info("Starting timer worker...")
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Poll(ctx)
			}
		}
	}()
}

// Stop останавливает воркер и дожидается текущей пачки
func (w *TimerWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("Stopping timer worker.")
}

// Poll обрабатывает все наступившие таймеры, пока очередь не опустеет. Возвращает число обработанных.
func (w *TimerWorker) Poll(ctx context.Context) int {
	processed := 0
	for ctx.Err() == nil {
		now := w.now()
		due, err := w.queue.ClaimDue(ctx, now, w.batchSize)
		if err != nil {
			w.logger.WithError(err).Error("Failed to claim due timers")
		}
		for _, t := range due {
			w.fire(ctx, t, now)
			processed++
		}
		if len(due) < w.batchSize {
			break
		}
	}
	return processed
}

func (w *TimerWorker) fire(ctx context.Context, t models.Timer, now time.Time) {
	log := w.logger.WithFields(logrus.Fields{
		"timer_kind": t.Kind,
		"entity_id":  t.EntityID,
		"level":      t.Level,
	})
	metrics.TimerLag.Observe(now.Sub(t.FireAt).Seconds())

	handler, ok := w.handlers[t.Kind]
	if !ok {
		metrics.TimersFired.WithLabelValues(string(t.Kind), "unknown").Inc()
		log.Error("No handler for timer kind, dropping")
		return
	}

	if err := w.handle(ctx, handler, t); err != nil {
		metrics.TimersFired.WithLabelValues(string(t.Kind), "error").Inc()
		// таймер возвращается в очередь, обработчики идемпотентны
		retry := t
		retry.FireAt = now.Add(w.retryDelay)
		log.WithError(err).Warnf("Timer handler failed, rescheduling in %v", w.retryDelay)
		if err := w.queue.Schedule(context.WithoutCancel(ctx), retry); err != nil {
			log.WithError(err).Error("Failed to reschedule timer")
		}
		return
	}
	metrics.TimersFired.WithLabelValues(string(t.Kind), "ok").Inc()
	log.Debug("Timer processed")
}

func (w *TimerWorker) handle(ctx context.Context, h Handler, t models.Timer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("timer handler panic: %v", r)
		}
	}()
	return h(ctx, t)
}
