package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/internal/geo"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// GeofenceService определяет контракт для бизнес-логики управления геозонами
type GeofenceService interface {
	CreateGeofence(ctx context.Context, fence *models.Geofence) error
	GetGeofence(ctx context.Context, id uuid.UUID) (*models.Geofence, error)
	UpdateGeofence(ctx context.Context, fence *models.Geofence) (*models.Geofence, error)
	DeactivateGeofence(ctx context.Context, id uuid.UUID) error
	ListGeofences(ctx context.Context, userID string, page, pageSize int) ([]*models.Geofence, error)
	GetStats(ctx context.Context) (*models.LocationStats, error)
}

type geofenceService struct {
	repo      GeofenceRepository
	locations LocationRepository
	cfg       *config.Config
	logger    *logrus.Logger
	now       func() time.Time
}

func NewGeofenceService(repo GeofenceRepository, locations LocationRepository, cfg *config.Config,
	logger *logrus.Logger, opts ...Option) GeofenceService {
	o := buildOptions(opts)
	return &geofenceService{
		repo:      repo,
		locations: locations,
		cfg:       cfg,
		logger:    logger,
		now:       o.now,
	}
}

// validateGeofence отклоняет явно ошибочный ввод. Вырожденная геометрия сохраняется,
// но никогда не срабатывает и логируется как предупреждение.
func (s *geofenceService) validateGeofence(log *logrus.Entry, fence *models.Geofence) error {
	if fence.UserID == "" {
		return apperror.Validation("user_id is required")
	}
	switch fence.Shape {
	case models.ShapeCircle, models.ShapePolygon:
	case "":
		fence.Shape = models.ShapeCircle
	default:
		return apperror.Validation(fmt.Sprintf("unknown shape %q", fence.Shape))
	}
	switch fence.RiskLevel {
	case models.RiskSafe, models.RiskCaution, models.RiskRisk:
	default:
		return apperror.Validation(fmt.Sprintf("unknown risk_level %q", fence.RiskLevel))
	}
	if fence.MaxDwell < 0 {
		return apperror.Validation("max_dwell must not be negative")
	}
	for _, w := range fence.Schedule {
		if err := w.Validate(); err != nil {
			return apperror.Validation(err.Error())
		}
	}

	// проверка геометрии на центре самой зоны
	sample := models.Point{Latitude: fence.Latitude, Longitude: fence.Longitude}
	if fence.Shape == models.ShapePolygon && len(fence.Polygon) > 0 {
		sample = fence.Polygon[0]
	}
	if _, warn := geo.Contains(fence, sample); warn != nil {
		metrics.ConfigWarnings.Inc()
		log.WithField("warning", warn.Message).Warn("Geofence geometry is degenerate and will never match")
	}
	return nil
}

// CreateGeofence создает геозону
func (s *geofenceService) CreateGeofence(ctx context.Context, fence *models.Geofence) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "CreateGeofence",
		"user_id": fence.UserID,
		"name":    fence.Name,
	})
	log.Info("Attempting to create a new geofence")

	if err := s.validateGeofence(log, fence); err != nil {
		log.WithError(err).Warn("Geofence rejected")
		return err
	}

	now := s.now()
	fence.ID = uuid.New()
	fence.Status = models.GeofenceStatusActive
	fence.CreatedAt = now
	fence.UpdatedAt = now
	if err := s.repo.CreateGeofence(ctx, fence); err != nil {
		log.WithError(err).Error("Failed to create geofence in repository")
		return fmt.Errorf("service: could not create geofence: %w", err)
	}

	log.WithField("geofence_id", fence.ID).Info("Geofence created successfully")
	return nil
}

// GetGeofence получает геозону по ID
func (s *geofenceService) GetGeofence(ctx context.Context, id uuid.UUID) (*models.Geofence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "geofence",
		"method":      "GetGeofence",
		"geofence_id": id,
	})
	log.Info("Fetching geofence by ID")

	fence, err := s.repo.GetGeofence(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get geofence in repository")
		return nil, fmt.Errorf("service: could not get geofence: %w", err)
	}
	return fence, nil
}

// UpdateGeofence обновляет существующую геозону
func (s *geofenceService) UpdateGeofence(ctx context.Context, fence *models.Geofence) (*models.Geofence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "geofence",
		"method":      "UpdateGeofence",
		"geofence_id": fence.ID,
	})
	log.Info("Attempting to update geofence")

	existing, err := s.repo.GetGeofence(ctx, fence.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent geofence")
		return nil, fmt.Errorf("service: geofence with id %s not found for update: %w", fence.ID, err)
	}

	existing.Name = fence.Name
	existing.Shape = fence.Shape
	existing.Latitude = fence.Latitude
	existing.Longitude = fence.Longitude
	existing.RadiusMeters = fence.RadiusMeters
	existing.Polygon = fence.Polygon
	existing.RiskLevel = fence.RiskLevel
	existing.MaxDwell = fence.MaxDwell
	existing.Schedule = fence.Schedule
	existing.ExpiresAt = fence.ExpiresAt
	if fence.Status != "" {
		existing.Status = fence.Status
	}
	if existing.Status != models.GeofenceStatusActive && existing.Status != models.GeofenceStatusInactive {
		return nil, apperror.Validation(fmt.Sprintf("unknown status %q", existing.Status))
	}
	if err := s.validateGeofence(log, existing); err != nil {
		return nil, err
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.UpdateGeofence(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update geofence in repository")
		return nil, fmt.Errorf("service: could not update geofence: %w", err)
	}
	log.Info("Geofence updated successfully")
	return existing, nil
}

// DeactivateGeofence деактивирует геозону. Присутствие в ней закроется следующим обновлением местоположения.
func (s *geofenceService) DeactivateGeofence(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "geofence",
		"method":      "DeactivateGeofence",
		"geofence_id": id,
	})
	log.Info("Attempting to deactivate geofence")

	fence, err := s.repo.GetGeofence(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to deactivate a non-existent geofence")
		return fmt.Errorf("service: geofence with id %s not found for deactivate: %w", id, err)
	}
	fence.Status = models.GeofenceStatusInactive
	fence.UpdatedAt = s.now()
	if err := s.repo.UpdateGeofence(ctx, fence); err != nil {
		log.WithError(err).Error("Failed to deactivate geofence in repository")
		return fmt.Errorf("service: could not deactivate geofence: %w", err)
	}

	log.Info("Geofence deactivated successfully")
	return nil
}

// ListGeofences возвращает геозоны пользователя с пагинацией
func (s *geofenceService) ListGeofences(ctx context.Context, userID string, page, pageSize int) ([]*models.Geofence, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "geofence",
		"method":    "ListGeofences",
		"user_id":   userID,
		"page":      page,
		"page_size": pageSize,
	})
	log.Info("Listing geofences")

	fences, err := s.repo.ListGeofences(ctx, strings.TrimSpace(userID), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list geofences from repository")
		return nil, fmt.Errorf("service: could not list geofences: %w", err)
	}

	log.WithField("count", len(fences)).Info("Geofences listed successfully")
	return fences, nil
}

// GetStats возвращает число уникальных пользователей, присылавших координаты за окно статистики
func (s *geofenceService) GetStats(ctx context.Context) (*models.LocationStats, error) {
	window := s.cfg.StatsTimeWindowMinutes
	if window <= 0 {
		window = 60
	}
	since := s.now().Add(-time.Duration(window) * time.Minute)

	count, err := s.locations.CountUniqueUsers(ctx, since)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count unique users")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}
	return &models.LocationStats{UserCount: count, WindowMinutes: window}, nil
}
