package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTimerQueue_ClaimDue(t *testing.T) {
	// Подготовка
	_, client := newTestRedis(t)
	q := NewTimerQueue(client)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	due := models.Timer{Kind: models.TimerObligationThreshold, EntityID: uuid.New(), FireAt: now.Add(-time.Second)}
	later := models.Timer{Kind: models.TimerEmergencyEscalation, EntityID: uuid.New(), FireAt: now.Add(time.Minute), Level: 2}
	require.NoError(t, q.Schedule(ctx, due))
	require.NoError(t, q.Schedule(ctx, later))

	// Действие
	claimed, err := q.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	again, err := q.ClaimDue(ctx, now, 10)
	require.NoError(t, err)

	// Проверки
	require.Len(t, claimed, 1)
	assert.Equal(t, due.Key(), claimed[0].Key())
	assert.True(t, due.FireAt.Equal(claimed[0].FireAt))
	assert.Empty(t, again)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestTimerQueue_RescheduleSameKeyReplaces(t *testing.T) {
	// Подготовка
	_, client := newTestRedis(t)
	q := NewTimerQueue(client)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tm := models.Timer{Kind: models.TimerDeliveryRetry, EntityID: uuid.New(), FireAt: now.Add(-time.Minute), Level: 1}

	// Действие
	require.NoError(t, q.Schedule(ctx, tm))
	tm.FireAt = now.Add(time.Hour)
	require.NoError(t, q.Schedule(ctx, tm))
	claimed, err := q.ClaimDue(ctx, now, 0)
	require.NoError(t, err)

	// Проверки
	assert.Empty(t, claimed)
	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestTimerQueue_ClaimRespectsLimit(t *testing.T) {
	// Подготовка
	_, client := newTestRedis(t)
	q := NewTimerQueue(client)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Schedule(ctx, models.Timer{
			Kind:     models.TimerDeliveryCheck,
			EntityID: uuid.New(),
			FireAt:   now.Add(-time.Duration(i) * time.Second),
		}))
	}

	// Действие
	first, err := q.ClaimDue(ctx, now, 3)
	require.NoError(t, err)
	rest, err := q.ClaimDue(ctx, now, 0)
	require.NoError(t, err)

	// Проверки
	assert.Len(t, first, 3)
	assert.Len(t, rest, 2)
	// самые старые таймеры забираются первыми
	assert.True(t, first[0].FireAt.Before(first[2].FireAt))
}

func TestContactDirectory_CacheAside(t *testing.T) {
	// Подготовка
	_, client := newTestRedis(t)
	dir := NewContactDirectory(nil, client, logrusDiscard())
	loads := 0
	dir.load = func(_ context.Context, userID string) ([]models.Contact, error) {
		loads++
		return []models.Contact{{ContactID: "c1", UserID: userID, PriorityTier: 1,
			Addresses: map[models.Channel]string{models.ChannelSMS: "+70000000000"}}}, nil
	}
	ctx := context.Background()

	// Действие
	first, err := dir.GetContactsForUser(ctx, "u1")
	require.NoError(t, err)
	second, err := dir.GetContactsForUser(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, dir.InvalidateContacts(ctx, "u1"))
	_, err = dir.GetContactsForUser(ctx, "u1")
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, first, second)
	assert.Equal(t, "+70000000000", second[0].Addresses[models.ChannelSMS])
	assert.Equal(t, 2, loads)
}

func TestContactDirectory_CacheFailureFallsBackToLoad(t *testing.T) {
	// Подготовка
	mr, client := newTestRedis(t)
	dir := NewContactDirectory(nil, client, logrusDiscard())
	dir.load = func(_ context.Context, userID string) ([]models.Contact, error) {
		return []models.Contact{{ContactID: "c1", UserID: userID}}, nil
	}
	mr.Close()

	// Действие
	contacts, err := dir.GetContactsForUser(context.Background(), "u1")

	// Проверки
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}
