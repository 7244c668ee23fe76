package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/delivery"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/repository/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeProvider запоминает отправленные сообщения и по запросу отвечает ошибкой
type fakeProvider struct {
	channel models.Channel

	mu   sync.Mutex
	fail bool
	sent []delivery.Message
}

func (p *fakeProvider) Channel() models.Channel { return p.channel }

func (p *fakeProvider) Send(_ context.Context, msg delivery.Message) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	if p.fail {
		return "", fmt.Errorf("%s provider unavailable", p.channel)
	}
	return "ref-" + msg.AttemptID.String(), nil
}

func (p *fakeProvider) SetFailing(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func (p *fakeProvider) Sent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

// engine собирает все сервисы поверх хранилища в памяти
type engine struct {
	store     *memory.Store
	clock     *fakeClock
	cfg       *config.Config
	providers map[models.Channel]*fakeProvider

	emergencies EmergencyService
	dispatcher  DispatchService
	obligations ObligationService
	geofences   GeofenceService
	profiles    ProfileService
	ingestion   IngestionService
	recovery    *RecoveryService
}

func testConfig(t *testing.T, ladderSpec string) *config.Config {
	t.Helper()
	if ladderSpec == "" {
		ladderSpec = config.DefaultLadderSpec
	}
	ladder, err := config.ParseEscalationLadder(ladderSpec)
	require.NoError(t, err)
	ladder.RepeatInterval = 10 * time.Minute

	return &config.Config{
		TimerRetryDelay:        10 * time.Second,
		TimerBatchSize:         100,
		CASMaxRetries:          3,
		Ladder:                 ladder,
		Obligations:            config.DefaultObligationDefaults(),
		DeliveryPolicies:       config.DefaultDeliveryPolicies(),
		DeliveryFallbackWindow: 2 * time.Minute,
		StatsTimeWindowMinutes: 60,
	}
}

func newEngine(t *testing.T, cfg *config.Config) *engine {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t, "")
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	store := memory.NewStore()
	clock := &fakeClock{now: testEpoch}
	opt := WithClock(clock.Now)

	providers := map[models.Channel]*fakeProvider{}
	var list []delivery.Provider
	for _, ch := range []models.Channel{models.ChannelPush, models.ChannelSMS, models.ChannelEmail, models.ChannelCall} {
		p := &fakeProvider{channel: ch}
		providers[ch] = p
		list = append(list, p)
	}

	dispatcher := NewDispatchService(store, store, store, store, list, cfg, logger, opt)
	emergencies := NewEmergencyService(store, store, store, store, dispatcher, store, cfg, logger, opt)
	dispatcher.SetFailureHandler(emergencies)
	obligations := NewObligationService(store, store, store, emergencies, store, cfg, logger, opt)
	profiles := NewProfileService(store, logger, opt)

	return &engine{
		store:       store,
		clock:       clock,
		cfg:         cfg,
		providers:   providers,
		emergencies: emergencies,
		dispatcher:  dispatcher,
		obligations: obligations,
		geofences:   NewGeofenceService(store, store, cfg, logger, opt),
		profiles:    profiles,
		ingestion:   NewIngestionService(store, store, profiles, obligations, emergencies, logger, opt),
		recovery:    NewRecoveryService(store, store, store, store, obligations, store, store, cfg, logger, opt),
	}
}

func (e *engine) fire(ctx context.Context, tm models.Timer) error {
	switch tm.Kind {
	case models.TimerObligationThreshold:
		return e.obligations.HandleThreshold(ctx, tm.EntityID)
	case models.TimerEmergencyEscalation:
		return e.emergencies.HandleEscalationTimer(ctx, tm.EntityID, tm.Level)
	case models.TimerDeliveryRetry:
		return e.dispatcher.HandleRetryTimer(ctx, tm.EntityID, tm.Level)
	case models.TimerDeliveryCheck:
		return e.dispatcher.HandleDeliveryCheck(ctx, tm.EntityID, tm.Level)
	}
	return fmt.Errorf("unknown timer kind %q", tm.Kind)
}

// pump выполняет задания доставки и наступившие таймеры, пока работа не кончится
func (e *engine) pump(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		jobs := e.store.TakeJobs()
		for _, id := range jobs {
			require.NoError(t, e.dispatcher.Deliver(ctx, id))
		}
		timers, err := e.store.ClaimDue(ctx, e.clock.Now(), 0)
		require.NoError(t, err)
		for _, tm := range timers {
			require.NoError(t, e.fire(ctx, tm))
		}
		if len(jobs) == 0 && len(timers) == 0 {
			return
		}
	}
	t.Fatal("engine did not settle")
}

// advance двигает часы шагами и после каждого шага прокачивает работу
func (e *engine) advance(t *testing.T, total, step time.Duration) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		e.clock.Advance(step)
		e.pump(t)
	}
}

func contact(id string, tier int, channels ...models.Channel) models.Contact {
	addresses := make(map[models.Channel]string, len(channels))
	for _, ch := range channels {
		addresses[ch] = fmt.Sprintf("%s@%s", id, ch)
	}
	return models.Contact{ContactID: id, Name: id, PriorityTier: tier, Addresses: addresses}
}

func attemptsFor(t *testing.T, e *engine, emergencyID uuid.UUID) []*models.NotificationAttempt {
	t.Helper()
	all, err := e.store.ListAllAttempts(context.Background())
	require.NoError(t, err)
	var out []*models.NotificationAttempt
	for _, a := range all {
		if a.EmergencyID != nil && *a.EmergencyID == emergencyID {
			out = append(out, a)
		}
	}
	return out
}

func logrusDiscard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}
