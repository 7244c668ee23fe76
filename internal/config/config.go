package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" envDefault:"20"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	// RedisPoolSize по умолчанию DELIVERY_WORKERS + 10: каждый воркер доставки держит соединение в BRPOP
	RedisPoolSize int `env:"REDIS_POOL_SIZE"`

	// Provider Config
	WebhookSecret         string                    `env:"WEBHOOK_SECRET"`
	WebhookTimeout        time.Duration             `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	ProviderURLs          map[models.Channel]string `env:"PROVIDER_{PUSH,SMS,EMAIL,CALL}_URL"`
	ProviderRatePerSecond float64                   `env:"PROVIDER_RATE_PER_SECOND" envDefault:"20"`
	DeliveryWorkers       int                       `env:"DELIVERY_WORKERS" envDefault:"4"`

	// MQTT Config
	MQTTBroker        string `env:"MQTT_BROKER"`
	MQTTClientID      string `env:"MQTT_CLIENT_ID" envDefault:"safety-engine"`
	MQTTLocationTopic string `env:"MQTT_LOCATION_TOPIC" envDefault:"safety/+/location"`

	// Timer Config
	TimerPollInterval time.Duration `env:"TIMER_POLL_INTERVAL" envDefault:"1s"`
	TimerBatchSize    int           `env:"TIMER_BATCH_SIZE" envDefault:"100"`
	TimerRetryDelay   time.Duration `env:"TIMER_RETRY_DELAY" envDefault:"10s"`
	ReconcileSchedule string        `env:"RECONCILE_SCHEDULE" envDefault:"@every 1m"`
	CASMaxRetries     int           `env:"CAS_MAX_RETRIES" envDefault:"3"`

	// Engine Config
	Ladder                 EscalationLadderConfig `env:"ESCALATION_LADDER"`
	Obligations            ObligationDefaults
	DeliveryPolicies       DeliveryPolicies
	DeliveryFallbackWindow time.Duration `env:"DELIVERY_FALLBACK_WINDOW" envDefault:"2m"`
	StandDownOnFalseAlarm  bool          `env:"STAND_DOWN_ON_FALSE_ALARM" envDefault:"false"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"60"`

	// API Keys for authentication
	APIKeys   []string `env:"API_KEYS"`
	RateLimit string   `env:"RATE_LIMIT" envDefault:"600-M"`
}

// redisBasePoolSize - соединения для очереди таймеров, публикации заданий и кэша контактов
const redisBasePoolSize = 10

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBMaxConns:             getEnvAsInt("DB_MAX_CONNS", 20),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		WebhookSecret:          os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:         getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		ProviderURLs:           make(map[models.Channel]string),
		ProviderRatePerSecond:  getEnvAsFloat("PROVIDER_RATE_PER_SECOND", 20),
		DeliveryWorkers:        getEnvAsInt("DELIVERY_WORKERS", 4),
		MQTTBroker:             os.Getenv("MQTT_BROKER"),
		MQTTClientID:           getEnv("MQTT_CLIENT_ID", "safety-engine"),
		MQTTLocationTopic:      getEnv("MQTT_LOCATION_TOPIC", "safety/+/location"),
		TimerPollInterval:      getEnvAsDuration("TIMER_POLL_INTERVAL", time.Second),
		TimerBatchSize:         getEnvAsInt("TIMER_BATCH_SIZE", 100),
		TimerRetryDelay:        getEnvAsDuration("TIMER_RETRY_DELAY", 10*time.Second),
		ReconcileSchedule:      getEnv("RECONCILE_SCHEDULE", "@every 1m"),
		CASMaxRetries:          getEnvAsInt("CAS_MAX_RETRIES", 3),
		Obligations:            loadObligationDefaults(),
		DeliveryFallbackWindow: getEnvAsDuration("DELIVERY_FALLBACK_WINDOW", 2*time.Minute),
		StandDownOnFalseAlarm:  getEnvAsBool("STAND_DOWN_ON_FALSE_ALARM", false),
		StatsTimeWindowMinutes: getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 60),
		RateLimit:              getEnv("RATE_LIMIT", "600-M"),
	}

	cfg.RedisPoolSize = getEnvAsInt("REDIS_POOL_SIZE", cfg.DeliveryWorkers+redisBasePoolSize)

	for _, ch := range []models.Channel{models.ChannelPush, models.ChannelSMS, models.ChannelEmail, models.ChannelCall} {
		if url := os.Getenv("PROVIDER_" + strings.ToUpper(string(ch)) + "_URL"); url != "" {
			cfg.ProviderURLs[ch] = url
		}
	}

	ladder, err := ParseEscalationLadder(getEnv("ESCALATION_LADDER", DefaultLadderSpec))
	if err != nil {
		return nil, fmt.Errorf("invalid ESCALATION_LADDER: %w", err)
	}
	ladder.RepeatInterval = getEnvAsDuration("ESCALATION_REPEAT_INTERVAL", 10*time.Minute)
	cfg.Ladder = ladder

	policies, err := loadDeliveryPolicies()
	if err != nil {
		return nil, err
	}
	cfg.DeliveryPolicies = policies

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

func loadObligationDefaults() ObligationDefaults {
	d := DefaultObligationDefaults()
	d.CheckinGrace = getEnvAsDuration("CHECKIN_GRACE", d.CheckinGrace)
	d.CheckinWindow = getEnvAsDuration("CHECKIN_WINDOW", d.CheckinWindow)
	d.MaxDwell = getEnvAsDuration("MAX_DWELL", d.MaxDwell)
	d.DwellGrace = getEnvAsDuration("DWELL_GRACE", d.DwellGrace)
	d.DeviationGrace = getEnvAsDuration("DEVIATION_GRACE", d.DeviationGrace)
	d.DeviationToleranceMeters = getEnvAsFloat("DEVIATION_TOLERANCE_METERS", d.DeviationToleranceMeters)
	return d
}

// loadDeliveryPolicies переопределяет политики доставки переменными
// DELIVERY_<PRIORITY>_{CHANNELS,MAX_ATTEMPTS,BASE_BACKOFF,MAX_BACKOFF}
func loadDeliveryPolicies() (DeliveryPolicies, error) {
	policies := DefaultDeliveryPolicies()
	for _, priority := range []models.Priority{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		p := policies[priority]
		prefix := "DELIVERY_" + strings.ToUpper(string(priority)) + "_"

		if list, ok := os.LookupEnv(prefix + "CHANNELS"); ok {
			channels, err := ParseChannels(list)
			if err != nil {
				return nil, fmt.Errorf("invalid %sCHANNELS: %w", prefix, err)
			}
			p.Channels = channels
		}
		p.MaxAttempts = getEnvAsInt(prefix+"MAX_ATTEMPTS", p.MaxAttempts)
		p.BaseBackoff = getEnvAsDuration(prefix+"BASE_BACKOFF", p.BaseBackoff)
		p.MaxBackoff = getEnvAsDuration(prefix+"MAX_BACKOFF", p.MaxBackoff)

		if p.MaxAttempts < 1 {
			return nil, fmt.Errorf("invalid %sMAX_ATTEMPTS: must be at least 1", prefix)
		}
		if p.BaseBackoff < 0 || (p.MaxBackoff > 0 && p.MaxBackoff < p.BaseBackoff) {
			return nil, fmt.Errorf("invalid %s backoff: base %s, max %s", strings.ToLower(string(priority)), p.BaseBackoff, p.MaxBackoff)
		}
		policies[priority] = p
	}
	return policies, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
