package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// PointDTO - координаты точки
type PointDTO struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// SetProfileRequest DTO для установки домашней временной зоны
// @Description DTO для установки домашней временной зоны
type SetProfileRequest struct {
	Timezone string `json:"timezone" validate:"required"`
}

// GeofenceRequest DTO для создания и обновления геозоны
// @Description DTO для создания и обновления геозоны
type GeofenceRequest struct {
	UserID          string              `json:"user_id" validate:"required"`
	Name            string              `json:"name" validate:"max=255"`
	Shape           string              `json:"shape" validate:"omitempty,oneof=circle polygon"`
	Latitude        float64             `json:"latitude" validate:"latitude"`
	Longitude       float64             `json:"longitude" validate:"longitude"`
	RadiusMeters    float64             `json:"radius_meters" validate:"gte=0"`
	Polygon         []PointDTO          `json:"polygon,omitempty" validate:"dive"`
	RiskLevel       string              `json:"risk_level" validate:"required,oneof=safe caution risk"`
	MaxDwellSeconds int                 `json:"max_dwell_seconds" validate:"gte=0"`
	Schedule        []models.TimeWindow `json:"schedule,omitempty"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
	Status          string              `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// GeofenceResponse DTO для ответа с информацией о геозоне
// @Description DTO для ответа с информацией о геозоне
type GeofenceResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          string              `json:"user_id"`
	Name            string              `json:"name"`
	Shape           string              `json:"shape"`
	Latitude        float64             `json:"latitude"`
	Longitude       float64             `json:"longitude"`
	RadiusMeters    float64             `json:"radius_meters"`
	Polygon         []PointDTO          `json:"polygon,omitempty"`
	RiskLevel       string              `json:"risk_level"`
	MaxDwellSeconds int                 `json:"max_dwell_seconds"`
	Schedule        []models.TimeWindow `json:"schedule,omitempty"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ScheduleCheckinRequest DTO для планирования отметки
// @Description DTO для планирования отметки
type ScheduleCheckinRequest struct {
	UserID       string    `json:"user_id" validate:"required"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	GraceSeconds *int      `json:"grace_seconds,omitempty" validate:"omitempty,gte=0"`
	Note         string    `json:"note,omitempty" validate:"max=1024"`
}

// CancelObligationRequest DTO для отмены обязательства
type CancelObligationRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=1024"`
}

// ObligationResponse DTO для ответа с информацией об обязательстве
// @Description DTO для ответа с информацией об обязательстве
type ObligationResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       string     `json:"user_id"`
	Kind         string     `json:"kind"`
	Deadline     time.Time  `json:"deadline"`
	GraceSeconds int        `json:"grace_seconds"`
	Status       string     `json:"status"`
	GeofenceID   *uuid.UUID `json:"geofence_id,omitempty"`
	JourneyID    *uuid.UUID `json:"journey_id,omitempty"`
	EmergencyID  *uuid.UUID `json:"emergency_id,omitempty"`
	Note         string     `json:"note,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StartJourneyRequest DTO для начала маршрута
// @Description DTO для начала маршрута
type StartJourneyRequest struct {
	UserID          string     `json:"user_id" validate:"required"`
	Route           []PointDTO `json:"route" validate:"required,min=1,dive"`
	ToleranceMeters float64    `json:"tolerance_meters" validate:"gte=0"`
	ExpectedArrival time.Time  `json:"expected_arrival" validate:"required"`
}

// JourneyResponse DTO для ответа с маршрутом и его обязательством прибытия
// @Description DTO для ответа с маршрутом и его обязательством прибытия
type JourneyResponse struct {
	Journey    *models.Journey     `json:"journey"`
	Obligation *ObligationResponse `json:"arrival_obligation,omitempty"`
}

// IngestRequest DTO для обновления местоположения или отметки
// @Description DTO для обновления местоположения или отметки
type IngestRequest struct {
	UserID         string     `json:"user_id" validate:"required"`
	Timestamp      time.Time  `json:"timestamp"`
	Location       *PointDTO  `json:"location,omitempty"`
	CheckinMessage string     `json:"checkin_message,omitempty" validate:"max=1024"`
	ObligationID   *uuid.UUID `json:"obligation_id,omitempty"`
	Duress         bool       `json:"duress,omitempty"`
}

// TriggerEmergencyRequest DTO для ручной тревоги
// @Description DTO для ручной тревоги
type TriggerEmergencyRequest struct {
	UserID      string     `json:"user_id" validate:"required"`
	Reason      string     `json:"reason,omitempty" validate:"omitempty,oneof=manual duress obligation_violation"`
	CausationID *uuid.UUID `json:"causation_id,omitempty"`
}

// AcknowledgeRequest DTO для подтверждения тревоги контактом
type AcknowledgeRequest struct {
	ContactID string `json:"contact_id" validate:"required"`
}

// ResolveRequest DTO для закрытия тревоги
type ResolveRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=resolved false_alarm"`
}

// RecipientDTO - получатель прямой рассылки
type RecipientDTO struct {
	ContactID    string                    `json:"contact_id" validate:"required"`
	Name         string                    `json:"name,omitempty"`
	PriorityTier int                       `json:"priority_tier" validate:"gte=0"`
	Addresses    map[models.Channel]string `json:"channel_addresses" validate:"required,min=1"`
	QuietHours   *models.TimeWindow        `json:"quiet_hours,omitempty"`
	Timezone     string                    `json:"timezone,omitempty"`
}

// SendNotificationRequest DTO для прямой рассылки оповещения
// @Description DTO для прямой рассылки оповещения
type SendNotificationRequest struct {
	UserID      string           `json:"user_id" validate:"required"`
	EmergencyID *uuid.UUID       `json:"emergency_id,omitempty"`
	Priority    string           `json:"priority" validate:"required,oneof=critical high medium low"`
	Title       string           `json:"title" validate:"max=255"`
	Body        string           `json:"body" validate:"required"`
	Channels    []models.Channel `json:"channels,omitempty"`
	Recipients  []RecipientDTO   `json:"recipients" validate:"required,min=1,dive"`
}

// DeliveryCallbackRequest DTO колбэка провайдера о статусе доставки
// @Description DTO колбэка провайдера о статусе доставки
type DeliveryCallbackRequest struct {
	Status string `json:"status" validate:"required,oneof=sent delivered confirmed failed"`
	Detail string `json:"detail,omitempty"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	UserCount     int `json:"user_count"`
	WindowMinutes int `json:"window_minutes"`
}
