package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityObligation EntityType = "obligation"
	EntityEmergency  EntityType = "emergency"
	EntityAttempt    EntityType = "notification_attempt"
)

type EventKind string

const (
	// EventTransition - смена состояния или иное изменение сущности, Snapshot содержит новое состояние
	EventTransition EventKind = "transition"
	// EventRaceDetected - переход, отброшенный после проигранного CAS
	EventRaceDetected EventKind = "race_detected"
)

// TransitionEvent - неизменяемая запись журнала событий
type TransitionEvent struct {
	Seq         int64           `json:"seq"`
	ID          uuid.UUID       `json:"id"`
	EntityType  EntityType      `json:"entity_type"`
	EntityID    uuid.UUID       `json:"entity_id"`
	UserID      string          `json:"user_id"`
	Kind        EventKind       `json:"kind"`
	FromState   string          `json:"from_state"`
	ToState     string          `json:"to_state"`
	OccurredAt  time.Time       `json:"occurred_at"`
	CausationID *uuid.UUID      `json:"causation_id,omitempty"`
	Snapshot    json.RawMessage `json:"snapshot,omitempty"`
}

// NewTransitionEvent собирает запись перехода, сериализуя новое состояние сущности
func NewTransitionEvent(entityType EntityType, entityID uuid.UUID, userID, from, to string,
	at time.Time, causationID *uuid.UUID, snapshot any) (*TransitionEvent, error) {
	ev := &TransitionEvent{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		UserID:      userID,
		Kind:        EventTransition,
		FromState:   from,
		ToState:     to,
		OccurredAt:  at,
		CausationID: causationID,
	}
	if snapshot != nil {
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s snapshot: %w", entityType, err)
		}
		ev.Snapshot = raw
	}
	return ev, nil
}

// NewRaceEvent фиксирует отброшенный переход: состояние from уже сменилось на текущее
func NewRaceEvent(entityType EntityType, entityID uuid.UUID, userID, current, attempted string, at time.Time) *TransitionEvent {
	return &TransitionEvent{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Kind:       EventRaceDetected,
		FromState:  current,
		ToState:    attempted,
		OccurredAt: at,
	}
}
