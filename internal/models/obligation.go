package models

import (
	"time"

	"github.com/google/uuid"
)

type ObligationKind string

const (
	ObligationScheduledCheckin ObligationKind = "scheduled_checkin"
	ObligationGeofenceDwell    ObligationKind = "geofence_dwell"
	ObligationJourneyDeviation ObligationKind = "journey_deviation"
)

type ObligationStatus string

const (
	ObligationPending   ObligationStatus = "pending"
	ObligationSatisfied ObligationStatus = "satisfied"
	ObligationViolated  ObligationStatus = "violated"
	ObligationCancelled ObligationStatus = "cancelled"
)

func (s ObligationStatus) IsTerminal() bool {
	return s == ObligationSatisfied || s == ObligationViolated || s == ObligationCancelled
}

// Obligation - отслеживаемое обязательство пользователя с дедлайном и льготным периодом
type Obligation struct {
	ID          uuid.UUID        `json:"id"`
	UserID      string           `json:"user_id"`
	Kind        ObligationKind   `json:"kind"`
	Deadline    time.Time        `json:"deadline"`
	GracePeriod time.Duration    `json:"grace_period"`
	Status      ObligationStatus `json:"status"`
	// DedupeKey уникален среди pending обязательств
	DedupeKey   string     `json:"dedupe_key,omitempty"`
	GeofenceID  *uuid.UUID `json:"geofence_id,omitempty"`
	JourneyID   *uuid.UUID `json:"journey_id,omitempty"`
	EmergencyID *uuid.UUID `json:"emergency_id,omitempty"`
	Note        string     `json:"note,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Threshold - жесткий порог нарушения: deadline + grace
func (o *Obligation) Threshold() time.Time {
	return o.Deadline.Add(o.GracePeriod)
}

// CanTransition - единственное место, где задаются допустимые переходы обязательства
func (o *Obligation) CanTransition(to ObligationStatus) bool {
	return o.Status == ObligationPending && to.IsTerminal()
}

func DwellDedupeKey(userID string, geofenceID uuid.UUID) string {
	return "dwell:" + userID + ":" + geofenceID.String()
}

func DeviationDedupeKey(journeyID uuid.UUID) string {
	return "deviation:" + journeyID.String()
}

type JourneyStatus string

const (
	JourneyActive JourneyStatus = "active"
	JourneyEnded  JourneyStatus = "ended"
)

// Journey - запланированный маршрут с ожидаемым временем прибытия
type Journey struct {
	ID              uuid.UUID     `json:"id"`
	UserID          string        `json:"user_id"`
	Route           []Point       `json:"route"`
	ToleranceMeters float64       `json:"tolerance_meters"`
	ExpectedArrival time.Time     `json:"expected_arrival"`
	Status          JourneyStatus `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         *time.Time    `json:"ended_at,omitempty"`
}
