package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// Хранилище - единственный источник истины. Каждое изменение сущности выполняется
// как CAS по версии вместе с записью события в журнал в одной транзакции.

// ProfileRepository определяет контракт для работы с профилями пользователей
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error
}

// GeofenceRepository определяет контракт для работы с бд геозон и присутствия в них
type GeofenceRepository interface {
	CreateGeofence(ctx context.Context, fence *models.Geofence) error
	GetGeofence(ctx context.Context, id uuid.UUID) (*models.Geofence, error)
	UpdateGeofence(ctx context.Context, fence *models.Geofence) error
	ListGeofences(ctx context.Context, userID string, page, pageSize int) ([]*models.Geofence, error)
	ListActiveGeofences(ctx context.Context, userID string) ([]*models.Geofence, error)
	GetPresence(ctx context.Context, userID string) ([]models.Presence, error)
	SetPresence(ctx context.Context, userID string, entered []models.Presence, exited []uuid.UUID) error
}

// LocationRepository хранит историю проверок местоположения
type LocationRepository interface {
	SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error
	CountUniqueUsers(ctx context.Context, since time.Time) (int, error)
}

// ObligationRepository определяет контракт для работы с обязательствами.
// CreateObligation возвращает apperror.ErrDuplicate, если pending обязательство с тем же DedupeKey уже есть.
// TransitionObligation возвращает apperror.ErrConcurrencyConflict, если версия изменилась.
type ObligationRepository interface {
	CreateObligation(ctx context.Context, ob *models.Obligation, ev *models.TransitionEvent) error
	GetObligation(ctx context.Context, id uuid.UUID) (*models.Obligation, error)
	GetPendingByDedupeKey(ctx context.Context, key string) (*models.Obligation, error)
	ListObligations(ctx context.Context, userID string, status models.ObligationStatus) ([]*models.Obligation, error)
	ListJourneyObligations(ctx context.Context, journeyID uuid.UUID) ([]*models.Obligation, error)
	ListOverdueObligations(ctx context.Context, before time.Time, limit int) ([]*models.Obligation, error)
	ListUnlinkedViolations(ctx context.Context, limit int) ([]*models.Obligation, error)
	ListAllObligations(ctx context.Context) ([]*models.Obligation, error)
	TransitionObligation(ctx context.Context, ob *models.Obligation, expectedVersion int64, ev *models.TransitionEvent) error
}

// JourneyRepository. CreateJourney возвращает apperror.ErrDuplicate при уже активном маршруте пользователя.
type JourneyRepository interface {
	CreateJourney(ctx context.Context, j *models.Journey) error
	GetJourney(ctx context.Context, id uuid.UUID) (*models.Journey, error)
	GetActiveJourney(ctx context.Context, userID string) (*models.Journey, error)
	EndJourney(ctx context.Context, id uuid.UUID, at time.Time) error
}

// EmergencyRepository определяет контракт для работы с тревогами.
// InsertEmergency возвращает apperror.ErrAlreadyActive при нарушении ограничения
// "одна активная тревога на пользователя".
type EmergencyRepository interface {
	InsertEmergency(ctx context.Context, e *models.Emergency, ev *models.TransitionEvent) error
	GetEmergency(ctx context.Context, id uuid.UUID) (*models.Emergency, error)
	GetActiveEmergency(ctx context.Context, userID string) (*models.Emergency, error)
	UpdateEmergency(ctx context.Context, e *models.Emergency, expectedVersion int64, ev *models.TransitionEvent) error
	ListEscalationDue(ctx context.Context, before time.Time, limit int) ([]*models.Emergency, error)
	ListAllEmergencies(ctx context.Context) ([]*models.Emergency, error)
}

// AttemptRepository определяет контракт для попыток доставки.
// CreateAttempt возвращает apperror.ErrDuplicate для повторной пары (notification, recipient, channel).
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, a *models.NotificationAttempt, ev *models.TransitionEvent) error
	GetAttempt(ctx context.Context, id uuid.UUID) (*models.NotificationAttempt, error)
	UpdateAttempt(ctx context.Context, a *models.NotificationAttempt, expectedVersion int64, ev *models.TransitionEvent) error
	ListAttempts(ctx context.Context, notificationID uuid.UUID) ([]*models.NotificationAttempt, error)
	ListRecipientAttempts(ctx context.Context, notificationID uuid.UUID, recipientID string) ([]*models.NotificationAttempt, error)
	ListEmergencyAttempts(ctx context.Context, emergencyID uuid.UUID) ([]*models.NotificationAttempt, error)
	ListStaleAttempts(ctx context.Context, updatedBefore time.Time, limit int) ([]*models.NotificationAttempt, error)
	ListAllAttempts(ctx context.Context) ([]*models.NotificationAttempt, error)
}

// EventLog - журнал переходов только на добавление
type EventLog interface {
	AppendEvent(ctx context.Context, ev *models.TransitionEvent) error
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*models.TransitionEvent, error)
	ListEntityEvents(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.TransitionEvent, error)
}

// ContactDirectory - внешний справочник контактов, только чтение
type ContactDirectory interface {
	GetContactsForUser(ctx context.Context, userID string) ([]models.Contact, error)
}

// TimerScheduler ставит долговечные таймеры
type TimerScheduler interface {
	Schedule(ctx context.Context, timer models.Timer) error
}

// TimerQueue - очередь таймеров, из которой воркер забирает наступившие
type TimerQueue interface {
	TimerScheduler
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.Timer, error)
}

// JobPublisher отдает попытку доставки в очередь воркеров доставки
type JobPublisher interface {
	PublishAttempt(ctx context.Context, attemptID uuid.UUID) error
}
