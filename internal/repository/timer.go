package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

const (
	timerScheduleKey = "timers:schedule"
	timerPayloadKey  = "timers:payload"
	maxClaimBatch    = 1000
)

// claimDueScript атомарно забирает наступившие таймеры: два воркера не получат один и тот же ключ
var claimDueScript = redis.NewScript(`
local keys = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
if #keys == 0 then
	return {}
end
redis.call('ZREM', KEYS[1], unpack(keys))
local payloads = redis.call('HMGET', KEYS[2], unpack(keys))
redis.call('HDEL', KEYS[2], unpack(keys))
return payloads
`)

// TimerQueue - долговечная очередь таймеров в Redis: ZSET по времени срабатывания и HASH с телами.
// Повторное планирование того же ключа перезаписывает время срабатывания.
type TimerQueue struct {
	redisClient *redis.Client
}

func NewTimerQueue(redisClient *redis.Client) *TimerQueue {
	return &TimerQueue{redisClient: redisClient}
}

func (q *TimerQueue) Schedule(ctx context.Context, t models.Timer) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal timer: %w", err)
	}
	key := t.Key()
	_, err = q.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, timerPayloadKey, key, payload)
		pipe.ZAdd(ctx, timerScheduleKey, redis.Z{Score: float64(t.FireAt.UnixMilli()), Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to schedule timer %s: %w", key, err)
	}
	return nil
}

// ClaimDue забирает до limit таймеров с FireAt не позже now
func (q *TimerQueue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.Timer, error) {
	// unpack в Lua ограничен размером стека
	if limit <= 0 || limit > maxClaimBatch {
		limit = maxClaimBatch
	}
	res, err := claimDueScript.Run(ctx, q.redisClient, []string{timerScheduleKey, timerPayloadKey},
		now.UnixMilli(), limit).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to claim due timers: %w", err)
	}

	timers := make([]models.Timer, 0, len(res))
	var errs []error
	for _, raw := range res {
		s, ok := raw.(string)
		if !ok {
			// тело удалено, ключ без тела пропускаем
			continue
		}
		var t models.Timer
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			errs = append(errs, fmt.Errorf("failed to unmarshal timer: %w", err))
			continue
		}
		timers = append(timers, t)
	}
	return timers, errors.Join(errs...)
}

// Pending возвращает число запланированных таймеров
func (q *TimerQueue) Pending(ctx context.Context) (int64, error) {
	n, err := q.redisClient.ZCard(ctx, timerScheduleKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count timers: %w", err)
	}
	return n, nil
}
