package delivery

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"golang.org/x/time/rate"
)

// SignatureHeader - заголовок с HMAC-SHA256 подписью тела запроса
const SignatureHeader = "X-Webhook-Signature"

// Message - то, что получает провайдер канала. AttemptID возвращается в колбэке статуса доставки.
type Message struct {
	AttemptID   uuid.UUID       `json:"attempt_id"`
	Channel     models.Channel  `json:"channel"`
	RecipientID string          `json:"recipient_id"`
	Address     string          `json:"address"`
	Priority    models.Priority `json:"priority"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
}

// Provider - провайдер канала доставки (push, sms, email, call).
// Send возвращает идентификатор сообщения у провайдера.
type Provider interface {
	Channel() models.Channel
	Send(ctx context.Context, msg Message) (string, error)
}

type sendResponse struct {
	ProviderRef string `json:"provider_ref"`
}

// HTTPProvider отправляет сообщения в HTTP-шлюз провайдера.
// Повторы выполняет диспетчер по долговечным таймерам, поэтому клиент их не делает.
type HTTPProvider struct {
	channel models.Channel
	url     string
	secret  string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewHTTPProvider создает провайдера канала с ограничением частоты запросов
func NewHTTPProvider(channel models.Channel, url, secret string, timeout time.Duration, ratePerSecond float64) *HTTPProvider {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = int(math.Max(1, math.Ceil(ratePerSecond)))
	}
	return &HTTPProvider{
		channel: channel,
		url:     url,
		secret:  secret,
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json"),
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (p *HTTPProvider) Channel() models.Channel {
	return p.channel
}

// Send отправляет подписанное сообщение провайдеру
func (p *HTTPProvider) Send(ctx context.Context, msg Message) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s provider rate limit wait: %w", p.channel, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s message: %w", p.channel, err)
	}

	req := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&sendResponse{})
	if p.secret != "" {
		req.SetHeader(SignatureHeader, Sign(body, p.secret))
	}

	start := time.Now()
	resp, err := req.Post(p.url)
	metrics.ProviderLatency.WithLabelValues(string(p.channel)).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("failed to call %s provider: %w", p.channel, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s provider returned status %d", p.channel, resp.StatusCode())
	}

	if res, ok := resp.Result().(*sendResponse); ok && res.ProviderRef != "" {
		return res.ProviderRef, nil
	}
	return msg.AttemptID.String(), nil
}

// Sign генерирует HMAC-SHA256 подпись для данных
func Sign(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify сравнивает подпись за постоянное время
func Verify(data []byte, secret, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hmac.Equal(h.Sum(nil), expected)
}
