package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// Имена частичных уникальных индексов из migrations/000001_init.up.sql
const (
	constraintOneActiveEmergency = "emergencies_one_active_per_user"
	constraintPendingDedupe    = "obligations_pending_dedupe_key"
	constraintOneActiveJourney = "journeys_one_active_per_user"
	constraintAttemptChannel   = "notification_attempts_recipient_channel"
)

// querier - общее подмножество pgxpool.Pool и pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// inTx выполняет fn в транзакции: переход сущности и запись в журнал фиксируются вместе
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db, fn)
}

// mapUniqueViolation переводит нарушение уникального индекса в ошибку движка
func mapUniqueViolation(err error, entity, key string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintOneActiveEmergency:
		return apperror.AlreadyActive(entity, key)
	default:
		return apperror.Duplicate(entity, key).WithContext("constraint", pgErr.ConstraintName)
	}
}

const insertEventQuery = `
	INSERT INTO transition_events
		(id, entity_type, entity_id, user_id, kind, from_state, to_state, occurred_at, causation_id, snapshot)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING seq;
`

// appendEvent добавляет событие в журнал и возвращает присвоенный seq в ev.Seq
func appendEvent(ctx context.Context, q querier, ev *models.TransitionEvent) error {
	var snapshot any
	if len(ev.Snapshot) > 0 {
		snapshot = string(ev.Snapshot)
	}
	err := q.QueryRow(ctx, insertEventQuery,
		ev.ID,
		ev.EntityType,
		ev.EntityID,
		ev.UserID,
		ev.Kind,
		ev.FromState,
		ev.ToState,
		ev.OccurredAt,
		ev.CausationID,
		snapshot,
	).Scan(&ev.Seq)
	if err != nil {
		return fmt.Errorf("failed to append %s event: %w", ev.EntityType, err)
	}
	return nil
}

// checkVersion различает отсутствие строки и проигранный CAS после UPDATE ... WHERE version = $n
func checkVersion(ctx context.Context, tx pgx.Tx, table, entity string, id any, tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table)
	if err := tx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s existence: %w", entity, err)
	}
	if !exists {
		return apperror.NotFound(entity, fmt.Sprint(id))
	}
	return apperror.ConcurrencyConflict(entity, fmt.Sprint(id))
}

func notFoundOr(err error, entity, id, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(entity, id)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
