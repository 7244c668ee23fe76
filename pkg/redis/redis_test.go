package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsPoolCoversDeliveryWorkers(t *testing.T) {
	tests := []struct {
		name     string
		pool     int
		workers  int
		expected int
	}{
		{name: "configured pool", pool: 24, workers: 4, expected: 24},
		{name: "pool smaller than workers", pool: 3, workers: 8, expected: 9},
		{name: "no pool configured", pool: 0, workers: 2, expected: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options(&config.Config{RedisAddr: "localhost:6379", RedisPoolSize: tt.pool, DeliveryWorkers: tt.workers})

			assert.Equal(t, tt.expected, opts.PoolSize)
			assert.Equal(t, tt.workers, opts.MinIdleConns)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	// Подготовка
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisAddr: mr.Addr(), RedisPoolSize: 14, DeliveryWorkers: 4}

	// Действие
	client, err := NewRedisClient(context.Background(), cfg)

	// Проверки
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 14, client.Options().PoolSize)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), &config.Config{RedisAddr: addr, DeliveryWorkers: 1})

	assert.Error(t, err)
}
