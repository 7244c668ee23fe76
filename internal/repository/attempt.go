package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
)

type AttemptRepository struct {
	db *pgxpool.Pool
}

func NewAttemptRepository(db *pgxpool.Pool) service.AttemptRepository {
	return &AttemptRepository{db: db}
}

const attemptColumns = `
	a.id, a.notification_id, a.emergency_id, a.obligation_id, a.user_id, a.recipient_id, a.channel, a.address,
	a.addresses, a.priority, a.level, a.status, a.attempt_count, a.max_attempts, a.channel_ladder, a.ladder_index,
	a.title, a.body, a.provider_ref, a.last_error, a.last_attempt_at, a.version, a.created_at, a.updated_at
`

func scanAttempt(row pgx.Row) (*models.NotificationAttempt, error) {
	a := &models.NotificationAttempt{}
	err := row.Scan(
		&a.ID,
		&a.NotificationID,
		&a.EmergencyID,
		&a.ObligationID,
		&a.UserID,
		&a.RecipientID,
		&a.Channel,
		&a.Address,
		&a.Addresses,
		&a.Priority,
		&a.Level,
		&a.Status,
		&a.AttemptCount,
		&a.MaxAttempts,
		&a.ChannelLadder,
		&a.LadderIndex,
		&a.Title,
		&a.Body,
		&a.ProviderRef,
		&a.LastError,
		&a.LastAttemptAt,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AttemptRepository) list(ctx context.Context, query string, args ...any) ([]*models.NotificationAttempt, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]*models.NotificationAttempt, 0)
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error attempt list iteration: %w", err)
	}
	return attempts, nil
}

func addressesParam(m map[models.Channel]string) map[models.Channel]string {
	if m == nil {
		return map[models.Channel]string{}
	}
	return m
}

// CreateAttempt вставляет попытку. Одна строка на тройку (notification, recipient, channel).
func (r *AttemptRepository) CreateAttempt(ctx context.Context, a *models.NotificationAttempt, ev *models.TransitionEvent) error {
	query := `
		INSERT INTO notification_attempts (id, notification_id, emergency_id, obligation_id, user_id, recipient_id,
			channel, address, addresses, priority, level, status, attempt_count, max_attempts, channel_ladder,
			ladder_index, title, body, provider_ref, last_error, last_attempt_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24);
	`
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			a.ID,
			a.NotificationID,
			a.EmergencyID,
			a.ObligationID,
			a.UserID,
			a.RecipientID,
			a.Channel,
			a.Address,
			addressesParam(a.Addresses),
			a.Priority,
			a.Level,
			a.Status,
			a.AttemptCount,
			a.MaxAttempts,
			a.ChannelLadder,
			a.LadderIndex,
			a.Title,
			a.Body,
			a.ProviderRef,
			a.LastError,
			a.LastAttemptAt,
			a.Version,
			a.CreatedAt,
			a.UpdatedAt,
		)
		if err != nil {
			return mapUniqueViolation(err, "notification_attempt",
				fmt.Sprintf("%s:%s:%s", a.NotificationID, a.RecipientID, a.Channel))
		}
		return appendEvent(ctx, tx, ev)
	})
}

func (r *AttemptRepository) GetAttempt(ctx context.Context, id uuid.UUID) (*models.NotificationAttempt, error) {
	a, err := scanAttempt(r.db.QueryRow(ctx, `SELECT `+attemptColumns+` FROM notification_attempts a WHERE a.id = $1;`, id))
	if err != nil {
		return nil, notFoundOr(err, "notification_attempt", id.String(), "get attempt by id")
	}
	return a, nil
}

// UpdateAttempt - CAS по версии и запись события в одной транзакции
func (r *AttemptRepository) UpdateAttempt(ctx context.Context, a *models.NotificationAttempt, expectedVersion int64, ev *models.TransitionEvent) error {
	query := `
		UPDATE notification_attempts SET
			status = $1,
			attempt_count = $2,
			provider_ref = $3,
			last_error = $4,
			last_attempt_at = $5,
			version = $6,
			updated_at = $7
		WHERE id = $8 AND version = $9;
	`
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			a.Status,
			a.AttemptCount,
			a.ProviderRef,
			a.LastError,
			a.LastAttemptAt,
			a.Version,
			a.UpdatedAt,
			a.ID,
			expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to update attempt: %w", err)
		}
		if err := checkVersion(ctx, tx, "notification_attempts", "notification_attempt", a.ID, tag); err != nil {
			return err
		}
		return appendEvent(ctx, tx, ev)
	})
}

const attemptOrder = ` ORDER BY a.created_at, a.ladder_index, a.id;`

func (r *AttemptRepository) ListAttempts(ctx context.Context, notificationID uuid.UUID) ([]*models.NotificationAttempt, error) {
	return r.list(ctx, `SELECT `+attemptColumns+` FROM notification_attempts a WHERE a.notification_id = $1`+attemptOrder, notificationID)
}

func (r *AttemptRepository) ListRecipientAttempts(ctx context.Context, notificationID uuid.UUID, recipientID string) ([]*models.NotificationAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM notification_attempts a WHERE a.notification_id = $1 AND a.recipient_id = $2` + attemptOrder
	return r.list(ctx, query, notificationID, recipientID)
}

func (r *AttemptRepository) ListEmergencyAttempts(ctx context.Context, emergencyID uuid.UUID) ([]*models.NotificationAttempt, error) {
	return r.list(ctx, `SELECT `+attemptColumns+` FROM notification_attempts a WHERE a.emergency_id = $1`+attemptOrder, emergencyID)
}

// ListStaleAttempts - незавершенные попытки, не менявшиеся с updatedBefore.
// Критические попытки завершенных тревог не возвращаются: их доставка уже отменена.
func (r *AttemptRepository) ListStaleAttempts(ctx context.Context, updatedBefore time.Time, limit int) ([]*models.NotificationAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM notification_attempts a
		LEFT JOIN emergencies e ON e.id = a.emergency_id
		WHERE a.updated_at < $1
			AND (a.status IN ('queued', 'sent') OR (a.status = 'failed' AND a.attempt_count < a.max_attempts))
			AND NOT (a.priority = 'critical' AND COALESCE(e.status, '') IN ('resolved', 'false_alarm'))
		ORDER BY a.updated_at
		LIMIT $2;
	`
	return r.list(ctx, query, updatedBefore, limit)
}

func (r *AttemptRepository) ListAllAttempts(ctx context.Context) ([]*models.NotificationAttempt, error) {
	return r.list(ctx, `SELECT `+attemptColumns+` FROM notification_attempts a`+attemptOrder)
}
