package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/safety_coordination_system/internal/app"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/delivery"
	v1 "github.com/shenikar/safety_coordination_system/internal/handler/http/v1"
	"github.com/shenikar/safety_coordination_system/internal/ingest"
	"github.com/shenikar/safety_coordination_system/internal/worker"
	"github.com/shenikar/safety_coordination_system/pkg/logger"
	"github.com/shenikar/safety_coordination_system/pkg/mqtt"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/safety_coordination_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Safety Coordination Engine API
// @version 1.0
// @description Geofences, check-in obligations, emergencies and escalating notifications for personal safety.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := app.RunMigrations(cfg, "migrations", log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	engine, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer engine.Close()

	// Восстановление таймеров и заданий доставки по состоянию в бд
	report, err := engine.Recovery.Recover(ctx)
	if err != nil {
		log.Fatalf("Failed to recover timers: %v", err)
	}
	log.WithFields(logrus.Fields{
		"obligations": report.Obligations,
		"emergencies": report.Emergencies,
		"attempts":    report.Attempts,
	}).Info("Recovered pending work")

	// Воркеры
	timerWorker := worker.NewTimerWorker(engine.Timers,
		worker.Handlers(engine.Obligations, engine.Emergencies, engine.Dispatcher),
		log, cfg.TimerPollInterval, cfg.TimerBatchSize, cfg.TimerRetryDelay)
	timerWorker.Start(ctx)

	deliveryWorker := delivery.NewWorker(engine.Redis, engine.Dispatcher, log, cfg.DeliveryWorkers, cfg.TimerRetryDelay)
	deliveryWorker.Start(ctx)

	reconciler, err := worker.NewReconciler(cfg.ReconcileSchedule, engine.Recovery, log)
	if err != nil {
		log.Fatalf("Failed to create reconciler: %v", err)
	}
	reconciler.Start()

	// Подписка на обновления местоположения
	var mqttClient *mqtt.Client
	if cfg.MQTTBroker != "" {
		mqttClient, err = mqtt.NewClient(cfg.MQTTBroker, cfg.MQTTClientID, log)
		if err != nil {
			log.Fatalf("Failed to connect to MQTT: %v", err)
		}
		subscriber := ingest.NewSubscriber(engine.Ingestion, log)
		if err := mqttClient.Subscribe(cfg.MQTTLocationTopic, 1, subscriber.HandleMessage); err != nil {
			log.Fatalf("Failed to subscribe to location topic: %v", err)
		}
		log.WithField("topic", cfg.MQTTLocationTopic).Info("Subscribed to location updates")
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(v1.Services{
		Profiles:    engine.Profiles,
		Geofences:   engine.Geofences,
		Obligations: engine.Obligations,
		Ingestion:   engine.Ingestion,
		Emergencies: engine.Emergencies,
		Dispatcher:  engine.Dispatcher,
	}, log, cfg)

	rateLimit, err := v1.RateLimitMiddleware(cfg.RateLimit)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT: %v", err)
	}

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(v1.MetricsMiddleware())
	api := router.Group("/api/v1", rateLimit)
	handler.RegisterRoutes(api, v1.APIKeyAuthMiddleware(cfg, log))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// новые обновления не принимаются, дальше останавливаются воркеры
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	reconciler.Stop()
	timerWorker.Stop()
	deliveryWorker.Stop()

	log.Info("Server gracefully stopped")
}
