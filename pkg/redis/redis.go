package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_coordination_system/internal/config"
)

// Options собирает параметры клиента. Пул общий для очереди таймеров, очереди доставки и кэша
// контактов, поэтому он не меньше числа воркеров доставки плюс одно соединение на остальных.
func Options(cfg *config.Config) *redis.Options {
	poolSize := cfg.RedisPoolSize
	if poolSize <= cfg.DeliveryWorkers {
		poolSize = cfg.DeliveryWorkers + 1
	}
	return &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPass,
		DB:           cfg.RedisDB,
		PoolSize:     poolSize,
		MinIdleConns: cfg.DeliveryWorkers,
	}
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(Options(cfg))

	// Проверяем соединение с Redis
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
