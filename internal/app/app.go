// Package app собирает движок из конфигурации: соединения, репозитории и сервисы
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/delivery"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/repository"
	"github.com/shenikar/safety_coordination_system/internal/service"
	"github.com/shenikar/safety_coordination_system/pkg/postgres"
	redisclient "github.com/shenikar/safety_coordination_system/pkg/redis"
	"github.com/sirupsen/logrus"
)

// App - собранный движок
type App struct {
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Timers    *repository.TimerQueue
	Publisher *delivery.RedisPublisher

	Profiles    service.ProfileService
	Geofences   service.GeofenceService
	Obligations service.ObligationService
	Ingestion   service.IngestionService
	Emergencies service.EmergencyService
	Dispatcher  service.DispatchService
	Recovery    *service.RecoveryService
}

// RunMigrations применяет миграции из каталога dir
func RunMigrations(cfg *config.Config, dir string, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New("file://"+dir, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// New подключается к PostgreSQL и Redis и связывает сервисы
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("Successfully connected to Redis")

	a := &App{
		DB:        dbpool,
		Redis:     redisClient,
		Timers:    repository.NewTimerQueue(redisClient),
		Publisher: delivery.NewRedisPublisher(redisClient),
	}

	// Инициализация репозиториев
	profileRepo := repository.NewProfileRepository(dbpool)
	geofenceRepo := repository.NewGeofenceRepository(dbpool)
	locationRepo := repository.NewLocationRepository(dbpool)
	obligationRepo := repository.NewObligationRepository(dbpool)
	journeyRepo := repository.NewJourneyRepository(dbpool)
	emergencyRepo := repository.NewEmergencyRepository(dbpool)
	attemptRepo := repository.NewAttemptRepository(dbpool)
	eventLog := repository.NewEventLog(dbpool)
	contacts := repository.NewContactDirectory(dbpool, redisClient, log)

	// Инициализация сервисов
	a.Dispatcher = service.NewDispatchService(attemptRepo, emergencyRepo, a.Publisher, a.Timers, providers(cfg, log), cfg, log)
	a.Emergencies = service.NewEmergencyService(emergencyRepo, attemptRepo, eventLog, contacts, a.Dispatcher, a.Timers, cfg, log)
	a.Dispatcher.SetFailureHandler(a.Emergencies)
	a.Obligations = service.NewObligationService(obligationRepo, journeyRepo, eventLog, a.Emergencies, a.Timers, cfg, log)
	a.Profiles = service.NewProfileService(profileRepo, log)
	a.Geofences = service.NewGeofenceService(geofenceRepo, locationRepo, cfg, log)
	a.Ingestion = service.NewIngestionService(geofenceRepo, locationRepo, a.Profiles, a.Obligations, a.Emergencies, log)
	a.Recovery = service.NewRecoveryService(obligationRepo, emergencyRepo, attemptRepo, eventLog, a.Obligations, a.Timers, a.Publisher, cfg, log)

	return a, nil
}

// providers создает HTTP-провайдеров для каналов с заданным URL
func providers(cfg *config.Config, log *logrus.Logger) []delivery.Provider {
	var out []delivery.Provider
	for _, ch := range []models.Channel{models.ChannelPush, models.ChannelSMS, models.ChannelEmail, models.ChannelCall} {
		url, ok := cfg.ProviderURLs[ch]
		if !ok {
			log.WithField("channel", ch).Warn("No provider configured for channel, deliveries on it will fail over")
			continue
		}
		out = append(out, delivery.NewHTTPProvider(ch, url, cfg.WebhookSecret, cfg.WebhookTimeout, cfg.ProviderRatePerSecond))
	}
	return out
}

// Close закрывает соединения
func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close Redis client")
	}
	a.DB.Close()
}
