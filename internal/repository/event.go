package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
)

// EventLog - журнал переходов в таблице transition_events, только INSERT
type EventLog struct {
	db *pgxpool.Pool
}

func NewEventLog(db *pgxpool.Pool) service.EventLog {
	return &EventLog{db: db}
}

const eventColumns = `seq, id, entity_type, entity_id, user_id, kind, from_state, to_state, occurred_at, causation_id, snapshot`

func collectEvents(rows pgx.Rows) ([]*models.TransitionEvent, error) {
	defer rows.Close()
	events := make([]*models.TransitionEvent, 0)
	for rows.Next() {
		ev := &models.TransitionEvent{}
		var snapshot []byte
		err := rows.Scan(
			&ev.Seq,
			&ev.ID,
			&ev.EntityType,
			&ev.EntityID,
			&ev.UserID,
			&ev.Kind,
			&ev.FromState,
			&ev.ToState,
			&ev.OccurredAt,
			&ev.CausationID,
			&snapshot,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ev.Snapshot = snapshot
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error event list iteration: %w", err)
	}
	return events, nil
}

// AppendEvent пишет событие вне перехода сущности (race_detected)
func (l *EventLog) AppendEvent(ctx context.Context, ev *models.TransitionEvent) error {
	return appendEvent(ctx, l.db, ev)
}

// ListEvents возвращает до limit событий с seq больше afterSeq в порядке seq
func (l *EventLog) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*models.TransitionEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM transition_events WHERE seq > $1 ORDER BY seq LIMIT $2;`
	rows, err := l.db.Query(ctx, query, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return collectEvents(rows)
}

func (l *EventLog) ListEntityEvents(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.TransitionEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM transition_events WHERE entity_type = $1 AND entity_id = $2 ORDER BY seq;`
	rows, err := l.db.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entity events: %w", err)
	}
	return collectEvents(rows)
}
