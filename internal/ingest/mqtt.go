// Package ingest принимает обновления местоположения из MQTT
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Subscriber разбирает сообщения топика safety/<user_id>/location и передает их в движок
type Subscriber struct {
	ingestion service.IngestionService
	logger    *logrus.Logger
	timeout   time.Duration
}

func NewSubscriber(ingestion service.IngestionService, logger *logrus.Logger) *Subscriber {
	return &Subscriber{
		ingestion: ingestion,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

// HandleMessage обрабатывает одно сообщение. Пользователь берется из топика,
// поле user_id в теле, если задано, должно с ним совпадать.
func (s *Subscriber) HandleMessage(topic string, payload []byte) error {
	var u models.LocationUpdate
	if err := json.Unmarshal(payload, &u); err != nil {
		return fmt.Errorf("ingest: malformed payload on %s: %w", topic, err)
	}

	if topicUser := userFromTopic(topic); topicUser != "" {
		if u.UserID != "" && u.UserID != topicUser {
			return apperror.Validation(fmt.Sprintf("user_id %q does not match topic %s", u.UserID, topic))
		}
		u.UserID = topicUser
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.ingestion.Ingest(ctx, &u, service.SourceMQTT)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if len(res.ConfigWarnings) > 0 {
		s.logger.WithFields(logrus.Fields{
			"user_id":  u.UserID,
			"warnings": res.ConfigWarnings,
		}).Warn("Location evaluated with configuration warnings")
	}
	return nil
}

// userFromTopic извлекает второй сегмент топика вида safety/<user_id>/location
func userFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}
