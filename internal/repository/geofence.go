package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
)

type GeofenceRepository struct {
	db *pgxpool.Pool
}

func NewGeofenceRepository(db *pgxpool.Pool) service.GeofenceRepository {
	return &GeofenceRepository{db: db}
}

const geofenceColumns = `
	id,
	user_id,
	name,
	shape,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	radius_meters,
	polygon,
	risk_level,
	max_dwell_ms,
	schedule,
	expires_at,
	status,
	created_at,
	updated_at
`

func scanGeofence(row pgx.Row) (*models.Geofence, error) {
	g := &models.Geofence{}
	var maxDwellMs int64
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Shape,
		&g.Latitude,
		&g.Longitude,
		&g.RadiusMeters,
		&g.Polygon,
		&g.RiskLevel,
		&maxDwellMs,
		&g.Schedule,
		&g.ExpiresAt,
		&g.Status,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.MaxDwell = time.Duration(maxDwellMs) * time.Millisecond
	return g, nil
}

func collectGeofences(rows pgx.Rows) ([]*models.Geofence, error) {
	defer rows.Close()
	fences := make([]*models.Geofence, 0)
	for rows.Next() {
		g, err := scanGeofence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence row: %w", err)
		}
		fences = append(fences, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error geofence list iteration: %w", err)
	}
	return fences, nil
}

func polygonParam(p []models.Point) []models.Point {
	if p == nil {
		return []models.Point{}
	}
	return p
}

func scheduleParam(s []models.TimeWindow) []models.TimeWindow {
	if s == nil {
		return []models.TimeWindow{}
	}
	return s
}

// CreateGeofence создает новую запись о геозоне в бд
func (r *GeofenceRepository) CreateGeofence(ctx context.Context, g *models.Geofence) error {
	query := `
		INSERT INTO geofences (id, user_id, name, shape, location, radius_meters, polygon, risk_level,
			max_dwell_ms, schedule, expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		g.ID,
		g.UserID,
		g.Name,
		g.Shape,
		g.Longitude,
		g.Latitude,
		g.RadiusMeters,
		polygonParam(g.Polygon),
		g.RiskLevel,
		g.MaxDwell.Milliseconds(),
		scheduleParam(g.Schedule),
		g.ExpiresAt,
		g.Status,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}
	return nil
}

// GetGeofence возвращает геозону по ее UUID
func (r *GeofenceRepository) GetGeofence(ctx context.Context, id uuid.UUID) (*models.Geofence, error) {
	query := `SELECT ` + geofenceColumns + ` FROM geofences WHERE id = $1;`
	g, err := scanGeofence(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "geofence", id.String(), "get geofence by id")
	}
	return g, nil
}

func (r *GeofenceRepository) UpdateGeofence(ctx context.Context, g *models.Geofence) error {
	query := `
		UPDATE geofences SET
			name = $1,
			shape = $2,
			location = ST_SetSRID(ST_MakePoint($3, $4), 4326),
			radius_meters = $5,
			polygon = $6,
			risk_level = $7,
			max_dwell_ms = $8,
			schedule = $9,
			expires_at = $10,
			status = $11,
			updated_at = $12
		WHERE id = $13;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		g.Name,
		g.Shape,
		g.Longitude,
		g.Latitude,
		g.RadiusMeters,
		polygonParam(g.Polygon),
		g.RiskLevel,
		g.MaxDwell.Milliseconds(),
		scheduleParam(g.Schedule),
		g.ExpiresAt,
		g.Status,
		g.UpdatedAt,
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update geofence: %w", err)
	}

	// RowsAffected() == 0 - геозоны с таким id не существует
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("geofence", g.ID.String())
	}
	return nil
}

// ListGeofences возвращает геозоны пользователя с пагинацией, пустой userID - все геозоны
func (r *GeofenceRepository) ListGeofences(ctx context.Context, userID string, page, pageSize int) ([]*models.Geofence, error) {
	// рассчитываем смещение
	offset := (page - 1) * pageSize

	query := `
		SELECT ` + geofenceColumns + `
		FROM geofences
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}
	return collectGeofences(rows)
}

// ListActiveGeofences возвращает все активные геозоны пользователя. Расписание и срок
// проверяет классификатор: выход из зоны должен фиксироваться и для неактивных по расписанию зон.
func (r *GeofenceRepository) ListActiveGeofences(ctx context.Context, userID string) ([]*models.Geofence, error) {
	query := `
		SELECT ` + geofenceColumns + `
		FROM geofences
		WHERE user_id = $1 AND status = 'active'
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active geofences: %w", err)
	}
	return collectGeofences(rows)
}

func (r *GeofenceRepository) GetPresence(ctx context.Context, userID string) ([]models.Presence, error) {
	query := `SELECT user_id, geofence_id, entered_at FROM geofence_presence WHERE user_id = $1 ORDER BY geofence_id;`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get presence: %w", err)
	}
	defer rows.Close()

	presence := make([]models.Presence, 0)
	for rows.Next() {
		var p models.Presence
		if err := rows.Scan(&p.UserID, &p.GeofenceID, &p.EnteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan presence row: %w", err)
		}
		presence = append(presence, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error presence iteration: %w", err)
	}
	return presence, nil
}

// SetPresence добавляет входы и удаляет выходы одной транзакцией. Повторный вход не сдвигает entered_at.
func (r *GeofenceRepository) SetPresence(ctx context.Context, userID string, entered []models.Presence, exited []uuid.UUID) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, p := range entered {
			_, err := tx.Exec(ctx, `
				INSERT INTO geofence_presence (user_id, geofence_id, entered_at)
				VALUES ($1, $2, $3)
				ON CONFLICT (user_id, geofence_id) DO NOTHING;
			`, userID, p.GeofenceID, p.EnteredAt)
			if err != nil {
				return fmt.Errorf("failed to insert presence: %w", err)
			}
		}
		if len(exited) > 0 {
			_, err := tx.Exec(ctx, `DELETE FROM geofence_presence WHERE user_id = $1 AND geofence_id = ANY($2);`, userID, exited)
			if err != nil {
				return fmt.Errorf("failed to delete presence: %w", err)
			}
		}
		return nil
	})
}

type LocationRepository struct {
	db *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) service.LocationRepository {
	return &LocationRepository{db: db}
}

// SaveLocationCheck сохраняет запись о проверке местоположения в бд
func (r *LocationRepository) SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error {
	query := `
		INSERT INTO location_checks (user_id, location, in_risk, checked_at)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4, $5) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		check.UserID,
		check.Longitude,
		check.Latitude,
		check.InRisk,
		check.CheckedAt,
	).Scan(&check.ID)
	if err != nil {
		return fmt.Errorf("failed to save location check: %w", err)
	}
	return nil
}

// CountUniqueUsers возвращает количество уникальных пользователей, присылавших координаты с момента since
func (r *LocationRepository) CountUniqueUsers(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM location_checks
		WHERE checked_at >= $1;
	`
	var count int
	err := r.db.QueryRow(ctx, query, since).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get location check stats: %w", err)
	}
	return count, nil
}
