package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) service.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	query := `SELECT user_id, timezone, updated_at FROM user_profiles WHERE user_id = $1;`
	if err := r.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Timezone, &p.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "profile", userID, "get profile")
	}
	return p, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, timezone, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.db.Exec(ctx, query, p.UserID, p.Timezone, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
