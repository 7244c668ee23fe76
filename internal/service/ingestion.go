package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/geo"
	"github.com/shenikar/safety_coordination_system/internal/metrics"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Источники обновлений для метрик
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// IngestionService принимает обновления местоположения и отметки пользователя
type IngestionService interface {
	Ingest(ctx context.Context, u *models.LocationUpdate, source string) (*models.IngestResult, error)
}

type ingestionService struct {
	geofences   GeofenceRepository
	locations   LocationRepository
	profiles    ProfileService
	obligations ObligationService
	emergencies EmergencyService
	logger      *logrus.Logger
	now         func() time.Time
}

func NewIngestionService(geofences GeofenceRepository, locations LocationRepository, profiles ProfileService,
	obligations ObligationService, emergencies EmergencyService, logger *logrus.Logger, opts ...Option) IngestionService {
	o := buildOptions(opts)
	return &ingestionService{
		geofences:   geofences,
		locations:   locations,
		profiles:    profiles,
		obligations: obligations,
		emergencies: emergencies,
		logger:      logger,
		now:         o.now,
	}
}

// Ingest классифицирует положение по геозонам, ведет обязательства пребывания и маршрута,
// принимает отметку и сигнал принуждения. Шаги независимы: ошибка одного не отменяет остальные.
func (s *ingestionService) Ingest(ctx context.Context, u *models.LocationUpdate, source string) (*models.IngestResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "ingestion",
		"method":  "Ingest",
		"user_id": u.UserID,
		"source":  source,
	})

	if u.UserID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if u.Location == nil && u.CheckinMessage == "" && u.ObligationID == nil && !u.Duress {
		return nil, apperror.Validation("update carries neither location nor check-in")
	}
	metrics.LocationUpdates.WithLabelValues(source).Inc()

	// время устройства не может быть в будущем относительно сервера
	now := s.now()
	at := u.Timestamp.UTC()
	if at.IsZero() || at.After(now) {
		at = now
	}

	result := &models.IngestResult{}
	var errs []error

	if u.Location != nil {
		if err := s.evaluateLocation(ctx, log, u.UserID, *u.Location, at, result); err != nil {
			errs = append(errs, err)
		}
	}

	if u.CheckinMessage != "" || u.ObligationID != nil {
		satisfied, err := s.obligations.CheckIn(ctx, u.UserID, u.ObligationID)
		if err != nil {
			errs = append(errs, err)
		}
		for _, ob := range satisfied {
			result.Satisfied = append(result.Satisfied, ob.ID)
		}
	}

	if u.Duress {
		log.Warn("Duress signal received")
		e, err := s.emergencies.TriggerEmergency(ctx, u.UserID, models.ReasonDuress, nil)
		if err != nil && !errors.Is(err, apperror.ErrAlreadyActive) {
			errs = append(errs, err)
		}
		if e != nil {
			result.EmergencyID = &e.ID
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.WithError(err).Error("Location update processed with errors")
		return result, err
	}
	log.WithFields(logrus.Fields{
		"entered":   len(result.Entered),
		"exited":    len(result.Exited),
		"created":   len(result.Created),
		"satisfied": len(result.Satisfied),
	}).Info("Location update processed")
	return result, nil
}

func (s *ingestionService) evaluateLocation(ctx context.Context, log *logrus.Entry, userID string, p models.Point,
	at time.Time, result *models.IngestResult) error {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	fences, err := s.geofences.ListActiveGeofences(ctx, userID)
	if err != nil {
		return fmt.Errorf("service: could not list geofences: %w", err)
	}
	presence, err := s.geofences.GetPresence(ctx, userID)
	if err != nil {
		return fmt.Errorf("service: could not load presence: %w", err)
	}
	inside := make(map[uuid.UUID]bool, len(presence))
	for _, pr := range presence {
		inside[pr.GeofenceID] = true
	}

	c := geo.Classify(p, at, fences, inside, profile.Location())
	for _, w := range c.Warnings {
		metrics.ConfigWarnings.Inc()
		log.WithField("geofence_id", w.GeofenceID).Warn(w.Message)
		result.ConfigWarnings = append(result.ConfigWarnings, w.String())
	}

	entered := make([]models.Presence, 0, len(c.Entered))
	for _, g := range c.Entered {
		entered = append(entered, models.Presence{UserID: userID, GeofenceID: g.ID, EnteredAt: at})
		result.Entered = append(result.Entered, g.ID)
	}
	for _, g := range c.Dwelling {
		result.Dwelling = append(result.Dwelling, g.ID)
	}
	result.Exited = append(result.Exited, c.Exited...)

	if len(entered) > 0 || len(c.Exited) > 0 {
		if err := s.geofences.SetPresence(ctx, userID, entered, c.Exited); err != nil {
			return fmt.Errorf("service: could not update presence: %w", err)
		}
	}

	var errs []error
	inRisk := false
	for _, g := range c.Entered {
		if g.RiskLevel != models.RiskRisk {
			continue
		}
		inRisk = true
		ob, err := s.obligations.OpenDwell(ctx, userID, g, at)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Created = append(result.Created, ob.ID)
	}
	for _, g := range c.Dwelling {
		if g.RiskLevel == models.RiskRisk {
			inRisk = true
		}
	}
	for _, id := range c.Exited {
		ob, err := s.obligations.CloseDwell(ctx, userID, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ob != nil {
			result.Satisfied = append(result.Satisfied, ob.ID)
		}
	}

	obs, err := s.obligations.ObserveJourney(ctx, userID, p)
	if err != nil {
		errs = append(errs, err)
	}
	if obs != nil {
		dev := obs.Deviation
		result.RouteDeviation = &dev
		if obs.Created != nil {
			result.Created = append(result.Created, obs.Created.ID)
		}
		if obs.Satisfied != nil {
			result.Satisfied = append(result.Satisfied, obs.Satisfied.ID)
		}
	}

	check := &models.LocationCheck{
		UserID:    userID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		InRisk:    inRisk,
		CheckedAt: at,
	}
	if err := s.locations.SaveLocationCheck(ctx, check); err != nil {
		// история проверок нужна только для статистики
		log.WithError(err).Warn("Failed to save location check")
	}
	return errors.Join(errs...)
}
