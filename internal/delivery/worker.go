package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Processor выполняет доставку попытки по ее id
type Processor interface {
	Deliver(ctx context.Context, attemptID uuid.UUID) error
}

// Worker - структура для обработки очереди доставки
type Worker struct {
	redisClient *redis.Client
	processor   Processor
	logger      *logrus.Logger
	workers     int
	popTimeout  time.Duration
	retryDelay  time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, processor Processor, logger *logrus.Logger, workers int, retryDelay time.Duration) *Worker {
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		redisClient: redisClient,
		processor:   processor,
		logger:      logger,
		workers:     workers,
		popTimeout:  time.Second,
		retryDelay:  retryDelay,
	}
}

// Start запускает горутины обработки очереди доставки
func (w *Worker) Start(ctx context.Context) {
	w.logger.WithField("workers", w.workers).Info("Starting delivery worker...")
	ctx, w.cancel = context.WithCancel(ctx)

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx)
		}()
	}
}

// Stop останавливает воркер и дожидается завершения горутин
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("Stopping delivery worker.")
}

func (w *Worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := w.redisClient.BRPop(ctx, w.popTimeout, deliveryQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop delivery job from Redis")
			w.sleep(ctx, w.retryDelay)
			continue
		}

		// result[0] - ключ, result[1] - значение
		var job Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal delivery job from Redis")
			continue
		}

		w.process(ctx, job, result[1])
	}
}

func (w *Worker) process(ctx context.Context, job Job, raw string) {
	log := w.logger.WithField("attempt_id", job.AttemptID)
	log.Debug("Processing delivery job...")

	if err := w.processor.Deliver(ctx, job.AttemptID); err != nil {
		log.WithError(err).Warnf("Delivery job failed, requeueing in %v", w.retryDelay)
		w.sleep(ctx, w.retryDelay)
		// при остановке задание возвращается в очередь, его заберет следующий запуск
		if err := w.redisClient.LPush(context.WithoutCancel(ctx), deliveryQueueKey, raw).Err(); err != nil {
			log.WithError(err).Error("Failed to requeue delivery job")
		}
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
