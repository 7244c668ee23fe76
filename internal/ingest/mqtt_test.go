package ingest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/mocks"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSubscriber(t *testing.T) (*Subscriber, *mocks.MockIngestionService) {
	ctrl := gomock.NewController(t)
	ingestion := mocks.NewMockIngestionService(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewSubscriber(ingestion, logger), ingestion
}

func TestHandleMessage_UserFromTopic(t *testing.T) {
	// Подготовка
	s, ingestion := newTestSubscriber(t)
	payload := []byte(`{"timestamp":"2026-03-02T09:00:00Z","location":{"latitude":55.75,"longitude":37.61}}`)

	// Ожидания
	ingestion.EXPECT().
		Ingest(gomock.Any(), gomock.Any(), service.SourceMQTT).
		DoAndReturn(func(_ any, u *models.LocationUpdate, _ string) (*models.IngestResult, error) {
			assert.Equal(t, "u1", u.UserID)
			require.NotNil(t, u.Location)
			assert.InDelta(t, 55.75, u.Location.Latitude, 1e-9)
			return &models.IngestResult{ConfigWarnings: []string{"degenerate polygon"}}, nil
		})

	// Действие
	err := s.HandleMessage("safety/u1/location", payload)

	// Проверки
	assert.NoError(t, err)
}

func TestHandleMessage_CheckinWithObligation(t *testing.T) {
	// Подготовка
	s, ingestion := newTestSubscriber(t)
	obID := uuid.New()
	payload := []byte(`{"user_id":"u2","checkin_message":"ok","obligation_id":"` + obID.String() + `"}`)

	// Ожидания
	ingestion.EXPECT().
		Ingest(gomock.Any(), gomock.Any(), service.SourceMQTT).
		DoAndReturn(func(_ any, u *models.LocationUpdate, _ string) (*models.IngestResult, error) {
			require.NotNil(t, u.ObligationID)
			assert.Equal(t, obID, *u.ObligationID)
			assert.Equal(t, "ok", u.CheckinMessage)
			return &models.IngestResult{Satisfied: []uuid.UUID{obID}}, nil
		})

	// Действие
	err := s.HandleMessage("safety/u2/location", payload)

	// Проверки
	assert.NoError(t, err)
}

func TestHandleMessage_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		kind    error
	}{
		{name: "malformed json", topic: "safety/u1/location", payload: `{"latitude":`},
		{name: "user mismatch", topic: "safety/u1/location", payload: `{"user_id":"u9"}`, kind: apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSubscriber(t)

			err := s.HandleMessage(tt.topic, []byte(tt.payload))

			require.Error(t, err)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			}
		})
	}
}

func TestHandleMessage_IngestError(t *testing.T) {
	// Подготовка
	s, ingestion := newTestSubscriber(t)

	// Ожидания
	ingestion.EXPECT().Ingest(gomock.Any(), gomock.Any(), service.SourceMQTT).Return(nil, errors.New("db down"))

	// Действие
	err := s.HandleMessage("safety/u1/location", []byte(`{}`))

	// Проверки
	assert.ErrorContains(t, err, "db down")
}

func TestUserFromTopic(t *testing.T) {
	assert.Equal(t, "u1", userFromTopic("safety/u1/location"))
	assert.Equal(t, "u1", userFromTopic("tenant/safety/u1/location"))
	assert.Equal(t, "", userFromTopic("location"))
}
