package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationUpdate - входящее обновление местоположения или отметка пользователя
type LocationUpdate struct {
	UserID         string     `json:"user_id"`
	Timestamp      time.Time  `json:"timestamp"`
	Location       *Point     `json:"location,omitempty"`
	CheckinMessage string     `json:"checkin_message,omitempty"`
	ObligationID   *uuid.UUID `json:"obligation_id,omitempty"`
	Duress         bool       `json:"duress,omitempty"`
}

// LocationCheck представляет запись о проверке местоположения пользователя
type LocationCheck struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	InRisk    bool      `json:"in_risk"`
	CheckedAt time.Time `json:"checked_at"`
}

// IngestResult - итог обработки одного обновления
type IngestResult struct {
	Entered        []uuid.UUID `json:"entered"`
	Exited         []uuid.UUID `json:"exited"`
	Dwelling       []uuid.UUID `json:"dwelling"`
	Created        []uuid.UUID `json:"created_obligations"`
	Satisfied      []uuid.UUID `json:"satisfied_obligations"`
	RouteDeviation *float64    `json:"route_deviation_meters,omitempty"`
	EmergencyID    *uuid.UUID  `json:"emergency_id,omitempty"`
	ConfigWarnings []string    `json:"config_warnings,omitempty"`
}

// LocationStats - число уникальных пользователей за окно времени
type LocationStats struct {
	UserCount     int `json:"user_count"`
	WindowMinutes int `json:"window_minutes"`
}
