package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	deliveryQueueKey = "delivery_jobs"
)

// Job - задание на доставку одной попытки. Само содержимое хранится в попытке.
type Job struct {
	AttemptID  uuid.UUID `json:"attempt_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// RedisPublisher публикует задания доставки в очередь Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// PublishAttempt публикует задание в очередь Redis
func (p *RedisPublisher) PublishAttempt(ctx context.Context, attemptID uuid.UUID) error {
	payload, err := json.Marshal(Job{AttemptID: attemptID, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal delivery job: %w", err)
	}

	// LPUSH в голову списка, воркер забирает из хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, deliveryQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish delivery job to Redis: %w", err)
	}
	return nil
}

// QueueLength возвращает число заданий, ожидающих обработки
func (p *RedisPublisher) QueueLength(ctx context.Context) (int64, error) {
	n, err := p.redisClient.LLen(ctx, deliveryQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read delivery queue length: %w", err)
	}
	return n, nil
}
