package worker

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/repository/memory"
	"github.com/shenikar/safety_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testEpoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

type recorder struct {
	mu    sync.Mutex
	fired []models.Timer
	err   error
}

func (r *recorder) handle(_ context.Context, t models.Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, t)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func newTestWorker(store *memory.Store, handlers map[models.TimerKind]Handler, batch int) *TimerWorker {
	w := NewTimerWorker(store, handlers, newTestLogger(), 10*time.Millisecond, batch, 10*time.Second)
	w.now = func() time.Time { return testEpoch }
	return w
}

func TestTimerWorker_PollDispatchesByKind(t *testing.T) {
	// Подготовка
	ctx := context.Background()
	store := memory.NewStore()
	thresholds, escalations := &recorder{}, &recorder{}
	w := newTestWorker(store, map[models.TimerKind]Handler{
		models.TimerObligationThreshold: thresholds.handle,
		models.TimerEmergencyEscalation: escalations.handle,
	}, 2)

	obID, emID := uuid.New(), uuid.New()
	require.NoError(t, store.Schedule(ctx, models.Timer{Kind: models.TimerObligationThreshold, EntityID: obID, FireAt: testEpoch.Add(-time.Minute)}))
	require.NoError(t, store.Schedule(ctx, models.Timer{Kind: models.TimerEmergencyEscalation, EntityID: emID, FireAt: testEpoch, Level: 2}))
	require.NoError(t, store.Schedule(ctx, models.Timer{Kind: models.TimerObligationThreshold, EntityID: uuid.New(), FireAt: testEpoch.Add(-time.Second)}))
	future := models.Timer{Kind: models.TimerObligationThreshold, EntityID: uuid.New(), FireAt: testEpoch.Add(time.Hour)}
	require.NoError(t, store.Schedule(ctx, future))

	// Действие
	processed := w.Poll(ctx)

	// Проверки
	assert.Equal(t, 3, processed)
	assert.Equal(t, 2, thresholds.count())
	require.Equal(t, 1, escalations.count())
	assert.Equal(t, emID, escalations.fired[0].EntityID)
	assert.Equal(t, 2, escalations.fired[0].Level)
	assert.Equal(t, obID, thresholds.fired[0].EntityID)
	assert.Equal(t, []models.Timer{future}, store.Timers())
}

func TestTimerWorker_FailedHandlerReschedules(t *testing.T) {
	// Подготовка
	ctx := context.Background()
	store := memory.NewStore()
	failing := &recorder{err: errors.New("db unavailable")}
	w := newTestWorker(store, map[models.TimerKind]Handler{models.TimerDeliveryRetry: failing.handle}, 10)
	tm := models.Timer{Kind: models.TimerDeliveryRetry, EntityID: uuid.New(), FireAt: testEpoch.Add(-time.Minute), Level: 1}
	require.NoError(t, store.Schedule(ctx, tm))

	// Действие
	w.Poll(ctx)

	// Проверки
	assert.Equal(t, 1, failing.count())
	pending := store.Timers()
	require.Len(t, pending, 1)
	assert.Equal(t, tm.Key(), pending[0].Key())
	assert.Equal(t, testEpoch.Add(10*time.Second), pending[0].FireAt)
}

func TestTimerWorker_PanicIsRecovered(t *testing.T) {
	// Подготовка
	ctx := context.Background()
	store := memory.NewStore()
	w := newTestWorker(store, map[models.TimerKind]Handler{
		models.TimerDeliveryCheck: func(context.Context, models.Timer) error { panic("boom") },
	}, 10)
	require.NoError(t, store.Schedule(ctx, models.Timer{Kind: models.TimerDeliveryCheck, EntityID: uuid.New(), FireAt: testEpoch}))

	// Действие
	assert.NotPanics(t, func() { w.Poll(ctx) })

	// Проверки
	assert.Len(t, store.Timers(), 1)
}

func TestTimerWorker_UnknownKindDropped(t *testing.T) {
	// Подготовка
	ctx := context.Background()
	store := memory.NewStore()
	w := newTestWorker(store, map[models.TimerKind]Handler{}, 10)
	require.NoError(t, store.Schedule(ctx, models.Timer{Kind: "unknown", EntityID: uuid.New(), FireAt: testEpoch}))

	// Действие
	processed := w.Poll(ctx)

	// Проверки
	assert.Equal(t, 1, processed)
	assert.Empty(t, store.Timers())
}

func TestTimerWorker_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Подготовка
	store := memory.NewStore()
	rec := &recorder{}
	w := newTestWorker(store, map[models.TimerKind]Handler{models.TimerObligationThreshold: rec.handle}, 10)
	require.NoError(t, store.Schedule(context.Background(), models.Timer{
		Kind: models.TimerObligationThreshold, EntityID: uuid.New(), FireAt: testEpoch,
	}))

	// Действие
	w.Start(context.Background())
	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	w.Stop()

	// Проверки
	assert.Empty(t, store.Timers())
}

type fakeSweeper struct {
	mu     sync.Mutex
	calls  int
	report *service.ReconcileReport
	err    error
}

func (f *fakeSweeper) Reconcile(context.Context) (*service.ReconcileReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.report, f.err
}

func TestReconciler_Run(t *testing.T) {
	tests := []struct {
		name    string
		sweeper *fakeSweeper
	}{
		{name: "nothing lost", sweeper: &fakeSweeper{report: &service.ReconcileReport{}}},
		{name: "restored", sweeper: &fakeSweeper{report: &service.ReconcileReport{Obligations: 2, Attempts: 1}}},
		{name: "error", sweeper: &fakeSweeper{err: errors.New("db down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReconciler("@every 1h", tt.sweeper, newTestLogger())
			require.NoError(t, err)

			assert.NotPanics(t, func() { r.Run(context.Background()) })
			assert.Equal(t, 1, tt.sweeper.calls)
		})
	}
}

func TestReconciler_InvalidSchedule(t *testing.T) {
	_, err := NewReconciler("every minute", &fakeSweeper{}, newTestLogger())
	assert.Error(t, err)
}

func TestReconciler_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, err := NewReconciler("@every 1h", &fakeSweeper{report: &service.ReconcileReport{}}, newTestLogger())
	require.NoError(t, err)

	r.Start()
	r.Stop()
}
