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

type EmergencyRepository struct {
	db *pgxpool.Pool
}

func NewEmergencyRepository(db *pgxpool.Pool) service.EmergencyRepository {
	return &EmergencyRepository{db: db}
}

const emergencyColumns = `
	id, user_id, reason, status, escalation_level, notified_contacts, causation_id, acknowledged_by,
	acknowledged_at, resolved_at, next_escalation_at, version, created_at, updated_at
`

func scanEmergency(row pgx.Row) (*models.Emergency, error) {
	e := &models.Emergency{}
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Reason,
		&e.Status,
		&e.EscalationLevel,
		&e.NotifiedContacts,
		&e.CausationID,
		&e.AcknowledgedBy,
		&e.AcknowledgedAt,
		&e.ResolvedAt,
		&e.NextEscalationAt,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EmergencyRepository) list(ctx context.Context, query string, args ...any) ([]*models.Emergency, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list emergencies: %w", err)
	}
	defer rows.Close()

	emergencies := make([]*models.Emergency, 0)
	for rows.Next() {
		e, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan emergency row: %w", err)
		}
		emergencies = append(emergencies, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error emergency list iteration: %w", err)
	}
	return emergencies, nil
}

func notifiedParam(n []models.ContactNotification) []models.ContactNotification {
	if n == nil {
		return []models.ContactNotification{}
	}
	return n
}

// InsertEmergency вставляет тревогу. Частичный уникальный индекс emergencies_one_active_per_user
// пропускает только одну активную тревогу на пользователя, проигравший получает ErrAlreadyActive.
func (r *EmergencyRepository) InsertEmergency(ctx context.Context, e *models.Emergency, ev *models.TransitionEvent) error {
	query := `
		INSERT INTO emergencies (id, user_id, reason, status, escalation_level, notified_contacts, causation_id,
			acknowledged_by, acknowledged_at, resolved_at, next_escalation_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			e.ID,
			e.UserID,
			e.Reason,
			e.Status,
			e.EscalationLevel,
			notifiedParam(e.NotifiedContacts),
			e.CausationID,
			e.AcknowledgedBy,
			e.AcknowledgedAt,
			e.ResolvedAt,
			e.NextEscalationAt,
			e.Version,
			e.CreatedAt,
			e.UpdatedAt,
		)
		if err != nil {
			return mapUniqueViolation(err, "emergency", e.UserID)
		}
		return appendEvent(ctx, tx, ev)
	})
}

func (r *EmergencyRepository) GetEmergency(ctx context.Context, id uuid.UUID) (*models.Emergency, error) {
	e, err := scanEmergency(r.db.QueryRow(ctx, `SELECT `+emergencyColumns+` FROM emergencies WHERE id = $1;`, id))
	if err != nil {
		return nil, notFoundOr(err, "emergency", id.String(), "get emergency by id")
	}
	return e, nil
}

func (r *EmergencyRepository) GetActiveEmergency(ctx context.Context, userID string) (*models.Emergency, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergencies WHERE user_id = $1 AND status = 'active';`
	e, err := scanEmergency(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, notFoundOr(err, "emergency", userID, "get active emergency")
	}
	return e, nil
}

// UpdateEmergency - CAS по версии и запись события в одной транзакции
func (r *EmergencyRepository) UpdateEmergency(ctx context.Context, e *models.Emergency, expectedVersion int64, ev *models.TransitionEvent) error {
	query := `
		UPDATE emergencies SET
			status = $1,
			escalation_level = $2,
			notified_contacts = $3,
			acknowledged_by = $4,
			acknowledged_at = $5,
			resolved_at = $6,
			next_escalation_at = $7,
			version = $8,
			updated_at = $9
		WHERE id = $10 AND version = $11;
	`
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			e.Status,
			e.EscalationLevel,
			notifiedParam(e.NotifiedContacts),
			e.AcknowledgedBy,
			e.AcknowledgedAt,
			e.ResolvedAt,
			e.NextEscalationAt,
			e.Version,
			e.UpdatedAt,
			e.ID,
			expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to update emergency: %w", err)
		}
		if err := checkVersion(ctx, tx, "emergencies", "emergency", e.ID, tag); err != nil {
			return err
		}
		return appendEvent(ctx, tx, ev)
	})
}

// ListEscalationDue - активные тревоги, чья следующая эскалация наступила не позже before
func (r *EmergencyRepository) ListEscalationDue(ctx context.Context, before time.Time, limit int) ([]*models.Emergency, error) {
	query := `
		SELECT ` + emergencyColumns + `
		FROM emergencies
		WHERE status = 'active' AND COALESCE(next_escalation_at, created_at) <= $1
		ORDER BY COALESCE(next_escalation_at, created_at)
		LIMIT $2;
	`
	return r.list(ctx, query, before, limit)
}

func (r *EmergencyRepository) ListAllEmergencies(ctx context.Context) ([]*models.Emergency, error) {
	return r.list(ctx, `SELECT `+emergencyColumns+` FROM emergencies ORDER BY created_at, id;`)
}
