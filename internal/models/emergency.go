package models

import (
	"time"

	"github.com/google/uuid"
)

type TriggerReason string

const (
	ReasonManual              TriggerReason = "manual"
	ReasonObligationViolation TriggerReason = "obligation_violation"
	ReasonDuress              TriggerReason = "duress"
)

func (r TriggerReason) Valid() bool {
	switch r {
	case ReasonManual, ReasonObligationViolation, ReasonDuress:
		return true
	}
	return false
}

type EmergencyStatus string

const (
	EmergencyActive       EmergencyStatus = "active"
	EmergencyAcknowledged EmergencyStatus = "acknowledged"
	EmergencyResolved     EmergencyStatus = "resolved"
	EmergencyFalseAlarm   EmergencyStatus = "false_alarm"
)

func (s EmergencyStatus) IsTerminal() bool {
	return s == EmergencyResolved || s == EmergencyFalseAlarm
}

var emergencyTransitions = map[EmergencyStatus][]EmergencyStatus{
	EmergencyActive:       {EmergencyActive, EmergencyAcknowledged, EmergencyResolved, EmergencyFalseAlarm},
	EmergencyAcknowledged: {EmergencyResolved},
}

// ContactNotification - состояние оповещения одного контакта
type ContactNotification struct {
	ContactID string        `json:"contact_id"`
	Channel   Channel       `json:"channel"`
	AttemptID uuid.UUID     `json:"attempt_id"`
	Level     int           `json:"level"`
	Status    AttemptStatus `json:"status"`
}

type Emergency struct {
	ID               uuid.UUID             `json:"id"`
	UserID           string                `json:"user_id"`
	Reason           TriggerReason         `json:"reason"`
	Status           EmergencyStatus       `json:"status"`
	EscalationLevel  int                   `json:"escalation_level"`
	NotifiedContacts []ContactNotification `json:"notified_contacts"`
	CausationID      *uuid.UUID            `json:"causation_id,omitempty"`
	AcknowledgedBy   string                `json:"acknowledged_by,omitempty"`
	AcknowledgedAt   *time.Time            `json:"acknowledged_at,omitempty"`
	ResolvedAt       *time.Time            `json:"resolved_at,omitempty"`
	NextEscalationAt *time.Time            `json:"next_escalation_at,omitempty"`
	Version          int64                 `json:"version"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// CanTransition проверяет переход по таблице состояний. active -> active это эскалация.
func (e *Emergency) CanTransition(to EmergencyStatus) bool {
	for _, s := range emergencyTransitions[e.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// Clone возвращает копию, не разделяющую срез оповещений
func (e *Emergency) Clone() *Emergency {
	c := *e
	c.NotifiedContacts = append([]ContactNotification(nil), e.NotifiedContacts...)
	return &c
}
