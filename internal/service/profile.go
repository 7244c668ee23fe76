package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SetTimezone(ctx context.Context, userID, timezone string) (*models.UserProfile, error)
}

type profileService struct {
	repo   ProfileRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewProfileService(repo ProfileRepository, logger *logrus.Logger, opts ...Option) ProfileService {
	o := buildOptions(opts)
	return &profileService{repo: repo, logger: logger, now: o.now}
}

// GetProfile возвращает профиль; у пользователя без профиля домашняя зона UTC
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return &models.UserProfile{UserID: userID, Timezone: "UTC"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: could not get profile: %w", err)
	}
	return p, nil
}

func (s *profileService) SetTimezone(ctx context.Context, userID, timezone string) (*models.UserProfile, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "profile",
		"method":   "SetTimezone",
		"user_id":  userID,
		"timezone": timezone,
	})

	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return nil, apperror.Validation(fmt.Sprintf("unknown timezone %q", timezone))
	}

	p := &models.UserProfile{UserID: userID, Timezone: timezone, UpdatedAt: s.now()}
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		log.WithError(err).Error("Failed to upsert profile")
		return nil, fmt.Errorf("service: could not save profile: %w", err)
	}
	log.Info("Profile updated successfully")
	return p, nil
}
