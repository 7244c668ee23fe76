package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
)

type ObligationRepository struct {
	db *pgxpool.Pool
}

func NewObligationRepository(db *pgxpool.Pool) service.ObligationRepository {
	return &ObligationRepository{db: db}
}

const obligationColumns = `
	id, user_id, kind, deadline, grace_ms, status, dedupe_key, geofence_id, journey_id,
	emergency_id, note, resolved_at, version, created_at, updated_at
`

func scanObligation(row pgx.Row) (*models.Obligation, error) {
	ob := &models.Obligation{}
	var graceMs int64
	err := row.Scan(
		&ob.ID,
		&ob.UserID,
		&ob.Kind,
		&ob.Deadline,
		&graceMs,
		&ob.Status,
		&ob.DedupeKey,
		&ob.GeofenceID,
		&ob.JourneyID,
		&ob.EmergencyID,
		&ob.Note,
		&ob.ResolvedAt,
		&ob.Version,
		&ob.CreatedAt,
		&ob.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ob.GracePeriod = time.Duration(graceMs) * time.Millisecond
	return ob, nil
}

func (r *ObligationRepository) list(ctx context.Context, query string, args ...any) ([]*models.Obligation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	obligations := make([]*models.Obligation, 0)
	for rows.Next() {
		ob, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		obligations = append(obligations, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error obligation list iteration: %w", err)
	}
	return obligations, nil
}

// CreateObligation вставляет обязательство и событие создания одной транзакцией
func (r *ObligationRepository) CreateObligation(ctx context.Context, ob *models.Obligation, ev *models.TransitionEvent) error {
	query := `
		INSERT INTO obligations (id, user_id, kind, deadline, grace_ms, status, dedupe_key, geofence_id,
			journey_id, emergency_id, note, resolved_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			ob.ID,
			ob.UserID,
			ob.Kind,
			ob.Deadline,
			ob.GracePeriod.Milliseconds(),
			ob.Status,
			ob.DedupeKey,
			ob.GeofenceID,
			ob.JourneyID,
			ob.EmergencyID,
			ob.Note,
			ob.ResolvedAt,
			ob.Version,
			ob.CreatedAt,
			ob.UpdatedAt,
		)
		if err != nil {
			return mapUniqueViolation(err, "obligation", ob.DedupeKey)
		}
		return appendEvent(ctx, tx, ev)
	})
	if err != nil {
		return fmt.Errorf("failed to create obligation: %w", err)
	}
	return nil
}

func (r *ObligationRepository) GetObligation(ctx context.Context, id uuid.UUID) (*models.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = $1;`
	ob, err := scanObligation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "obligation", id.String(), "get obligation by id")
	}
	return ob, nil
}

func (r *ObligationRepository) GetPendingByDedupeKey(ctx context.Context, key string) (*models.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE dedupe_key = $1 AND status = 'pending';`
	ob, err := scanObligation(r.db.QueryRow(ctx, query, key))
	if err != nil {
		return nil, notFoundOr(err, "obligation", key, "get obligation by dedupe key")
	}
	return ob, nil
}

// ListObligations возвращает обязательства пользователя, пустой status - все статусы
func (r *ObligationRepository) ListObligations(ctx context.Context, userID string, status models.ObligationStatus) ([]*models.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at, id;
	`
	return r.list(ctx, query, userID, string(status))
}

func (r *ObligationRepository) ListJourneyObligations(ctx context.Context, journeyID uuid.UUID) ([]*models.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE journey_id = $1 ORDER BY created_at, id;`
	return r.list(ctx, query, journeyID)
}

// ListOverdueObligations - pending обязательства, чей порог deadline + grace не позже before
func (r *ObligationRepository) ListOverdueObligations(ctx context.Context, before time.Time, limit int) ([]*models.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE status = 'pending' AND deadline + grace_ms * INTERVAL '1 millisecond' <= $1
		ORDER BY deadline
		LIMIT $2;
	`
	return r.list(ctx, query, before, limit)
}

// ListUnlinkedViolations - нарушения, для которых тревога еще не поднята
func (r *ObligationRepository) ListUnlinkedViolations(ctx context.Context, limit int) ([]*models.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE status = 'violated' AND emergency_id IS NULL
		ORDER BY updated_at
		LIMIT $1;
	`
	return r.list(ctx, query, limit)
}

func (r *ObligationRepository) ListAllObligations(ctx context.Context) ([]*models.Obligation, error) {
	return r.list(ctx, `SELECT `+obligationColumns+` FROM obligations ORDER BY created_at, id;`)
}

// TransitionObligation - CAS по версии и запись события в одной транзакции
func (r *ObligationRepository) TransitionObligation(ctx context.Context, ob *models.Obligation, expectedVersion int64, ev *models.TransitionEvent) error {
	query := `
		UPDATE obligations SET
			status = $1,
			emergency_id = $2,
			resolved_at = $3,
			version = $4,
			updated_at = $5
		WHERE id = $6 AND version = $7;
	`
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			ob.Status,
			ob.EmergencyID,
			ob.ResolvedAt,
			ob.Version,
			ob.UpdatedAt,
			ob.ID,
			expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to transition obligation: %w", err)
		}
		if err := checkVersion(ctx, tx, "obligations", "obligation", ob.ID, tag); err != nil {
			return err
		}
		return appendEvent(ctx, tx, ev)
	})
}

type JourneyRepository struct {
	db *pgxpool.Pool
}

func NewJourneyRepository(db *pgxpool.Pool) service.JourneyRepository {
	return &JourneyRepository{db: db}
}

const journeyColumns = `id, user_id, route, tolerance_meters, expected_arrival, status, started_at, ended_at`

func scanJourney(row pgx.Row) (*models.Journey, error) {
	j := &models.Journey{}
	err := row.Scan(&j.ID, &j.UserID, &j.Route, &j.ToleranceMeters, &j.ExpectedArrival, &j.Status, &j.StartedAt, &j.EndedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JourneyRepository) CreateJourney(ctx context.Context, j *models.Journey) error {
	query := `
		INSERT INTO journeys (id, user_id, route, tolerance_meters, expected_arrival, status, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query, j.ID, j.UserID, j.Route, j.ToleranceMeters, j.ExpectedArrival, j.Status, j.StartedAt, j.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to create journey: %w", mapUniqueViolation(err, "journey", j.UserID))
	}
	return nil
}

func (r *JourneyRepository) GetJourney(ctx context.Context, id uuid.UUID) (*models.Journey, error) {
	j, err := scanJourney(r.db.QueryRow(ctx, `SELECT `+journeyColumns+` FROM journeys WHERE id = $1;`, id))
	if err != nil {
		return nil, notFoundOr(err, "journey", id.String(), "get journey by id")
	}
	return j, nil
}

func (r *JourneyRepository) GetActiveJourney(ctx context.Context, userID string) (*models.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE user_id = $1 AND status = 'active';`
	j, err := scanJourney(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, notFoundOr(err, "journey", userID, "get active journey")
	}
	return j, nil
}

// EndJourney завершает активный маршрут. Уже завершенный маршрут - InvalidTransition.
func (r *JourneyRepository) EndJourney(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE journeys SET status = 'ended', ended_at = $1 WHERE id = $2 AND status = 'active';`
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, at, id)
		if err != nil {
			return fmt.Errorf("failed to end journey: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		var status string
		if err := tx.QueryRow(ctx, `SELECT status FROM journeys WHERE id = $1;`, id).Scan(&status); err != nil {
			return notFoundOr(err, "journey", id.String(), "end journey")
		}
		return apperror.InvalidTransition("journey", id.String(), status, string(models.JourneyEnded))
	})
}
