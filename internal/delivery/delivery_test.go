package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"status":"delivered"}`)
	sig := Sign(body, "secret")

	assert.True(t, Verify(body, "secret", sig))
	assert.False(t, Verify(body, "other", sig))
	assert.False(t, Verify([]byte(`{"status":"failed"}`), "secret", sig))
	assert.False(t, Verify(body, "secret", "not-hex"))
}

func TestHTTPProvider_Send(t *testing.T) {
	// Подготовка
	var got Message
	var signature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		signature = r.Header.Get(SignatureHeader)
		assert.True(t, Verify(raw, "secret", signature))
		_ = json.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"provider_ref":"sms-42"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(models.ChannelSMS, srv.URL, "secret", time.Second, 0)
	msg := Message{AttemptID: uuid.New(), Channel: models.ChannelSMS, RecipientID: "c1", Address: "+100", Priority: models.PriorityCritical, Body: "help"}

	// Действие
	ref, err := p.Send(context.Background(), msg)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "sms-42", ref)
	assert.Equal(t, msg, got)
	assert.NotEmpty(t, signature)
	assert.Equal(t, models.ChannelSMS, p.Channel())
}

func TestHTTPProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProvider(models.ChannelPush, srv.URL, "", time.Second, 5)
	_, err := p.Send(context.Background(), Message{AttemptID: uuid.New()})

	assert.ErrorContains(t, err, "502")
}

func TestHTTPProvider_FallsBackToAttemptID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	id := uuid.New()
	ref, err := NewHTTPProvider(models.ChannelEmail, srv.URL, "", time.Second, 0).Send(context.Background(), Message{AttemptID: id})

	require.NoError(t, err)
	assert.Equal(t, id.String(), ref)
}

type fakeProcessor struct {
	mu       sync.Mutex
	seen     []uuid.UUID
	failOnce map[uuid.UUID]bool
}

func (p *fakeProcessor) Deliver(_ context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, id)
	if p.failOnce[id] {
		delete(p.failOnce, id)
		return errors.New("provider timeout")
	}
	return nil
}

func (p *fakeProcessor) count(id uuid.UUID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.seen {
		if s == id {
			n++
		}
	}
	return n
}

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestWorker_DeliversPublishedJobs(t *testing.T) {
	// Подготовка
	ctx := context.Background()
	client := newTestRedis(t)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	publisher := NewRedisPublisher(client)
	ok, flaky := uuid.New(), uuid.New()
	proc := &fakeProcessor{failOnce: map[uuid.UUID]bool{flaky: true}}
	w := NewWorker(client, proc, logger, 2, 10*time.Millisecond)

	require.NoError(t, publisher.PublishAttempt(ctx, ok))
	require.NoError(t, publisher.PublishAttempt(ctx, flaky))
	n, err := publisher.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Действие
	w.Start(ctx)
	assert.Eventually(t, func() bool {
		return proc.count(ok) == 1 && proc.count(flaky) == 2
	}, 3*time.Second, 10*time.Millisecond)
	w.Stop()

	// Проверки
	n, err = publisher.QueueLength(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
