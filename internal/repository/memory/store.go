// Package memory - хранилище в памяти процесса с теми же ограничениями уникальности и CAS,
// что и PostgreSQL. Используется в тестах и для офлайн-проверки журнала.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

type Store struct {
	mu sync.Mutex

	profiles    map[string]*models.UserProfile
	geofences   map[uuid.UUID]*models.Geofence
	presence    map[string]map[uuid.UUID]models.Presence
	checks      []*models.LocationCheck
	obligations map[uuid.UUID]*models.Obligation
	journeys    map[uuid.UUID]*models.Journey
	emergencies map[uuid.UUID]*models.Emergency
	attempts    map[uuid.UUID]*models.NotificationAttempt
	events      []*models.TransitionEvent
	contacts    map[string][]models.Contact
	timers      map[string]models.Timer
	jobs        []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		profiles:    make(map[string]*models.UserProfile),
		geofences:   make(map[uuid.UUID]*models.Geofence),
		presence:    make(map[string]map[uuid.UUID]models.Presence),
		obligations: make(map[uuid.UUID]*models.Obligation),
		journeys:    make(map[uuid.UUID]*models.Journey),
		emergencies: make(map[uuid.UUID]*models.Emergency),
		attempts:    make(map[uuid.UUID]*models.NotificationAttempt),
		contacts:    make(map[string][]models.Contact),
		timers:      make(map[string]models.Timer),
	}
}

// appendLocked присваивает событию следующий seq. Вызывается под s.mu.
func (s *Store) appendLocked(ev *models.TransitionEvent) {
	ev.Seq = int64(len(s.events) + 1)
	cp := *ev
	s.events = append(s.events, &cp)
}

// --- профили

func (s *Store) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperror.NotFound("profile", userID)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpsertProfile(_ context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *profile
	s.profiles[profile.UserID] = &cp
	return nil
}

// --- геозоны

func (s *Store) CreateGeofence(_ context.Context, fence *models.Geofence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *fence
	s.geofences[fence.ID] = &cp
	return nil
}

func (s *Store) GetGeofence(_ context.Context, id uuid.UUID) (*models.Geofence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.geofences[id]
	if !ok {
		return nil, apperror.NotFound("geofence", id.String())
	}
	cp := *g
	return &cp, nil
}

func (s *Store) UpdateGeofence(_ context.Context, fence *models.Geofence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.geofences[fence.ID]; !ok {
		return apperror.NotFound("geofence", fence.ID.String())
	}
	cp := *fence
	s.geofences[fence.ID] = &cp
	return nil
}

func (s *Store) ListGeofences(_ context.Context, userID string, page, pageSize int) ([]*models.Geofence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.Geofence
	for _, g := range s.geofences {
		if userID == "" || g.UserID == userID {
			cp := *g
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	from := (page - 1) * pageSize
	if from >= len(all) {
		return []*models.Geofence{}, nil
	}
	to := from + pageSize
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], nil
}

func (s *Store) ListActiveGeofences(_ context.Context, userID string) ([]*models.Geofence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Geofence
	for _, g := range s.geofences {
		if g.UserID == userID && g.Status == models.GeofenceStatusActive {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *Store) GetPresence(_ context.Context, userID string) ([]models.Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Presence
	for _, p := range s.presence[userID] {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) SetPresence(_ context.Context, userID string, entered []models.Presence, exited []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.presence[userID]
	if !ok {
		set = make(map[uuid.UUID]models.Presence)
		s.presence[userID] = set
	}
	for _, id := range exited {
		delete(set, id)
	}
	for _, p := range entered {
		if _, ok := set[p.GeofenceID]; !ok {
			set[p.GeofenceID] = p
		}
	}
	return nil
}

// --- история местоположений

func (s *Store) SaveLocationCheck(_ context.Context, check *models.LocationCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	check.ID = int64(len(s.checks) + 1)
	cp := *check
	s.checks = append(s.checks, &cp)
	return nil
}

func (s *Store) CountUniqueUsers(_ context.Context, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make(map[string]struct{})
	for _, c := range s.checks {
		if !c.CheckedAt.Before(since) {
			users[c.UserID] = struct{}{}
		}
	}
	return len(users), nil
}

// --- обязательства

func (s *Store) CreateObligation(_ context.Context, ob *models.Obligation, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ob.DedupeKey != "" {
		for _, o := range s.obligations {
			if o.DedupeKey == ob.DedupeKey && o.Status == models.ObligationPending {
				return apperror.Duplicate("obligation", ob.DedupeKey)
			}
		}
	}
	cp := *ob
	s.obligations[ob.ID] = &cp
	s.appendLocked(ev)
	return nil
}

func (s *Store) GetObligation(_ context.Context, id uuid.UUID) (*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ob, ok := s.obligations[id]
	if !ok {
		return nil, apperror.NotFound("obligation", id.String())
	}
	cp := *ob
	return &cp, nil
}

func (s *Store) GetPendingByDedupeKey(_ context.Context, key string) (*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ob := range s.obligations {
		if ob.DedupeKey == key && ob.Status == models.ObligationPending {
			cp := *ob
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("obligation", key)
}

func (s *Store) filterObligations(keep func(*models.Obligation) bool) []*models.Obligation {
	var out []*models.Obligation
	for _, ob := range s.obligations {
		if keep(ob) {
			cp := *ob
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *Store) ListObligations(_ context.Context, userID string, status models.ObligationStatus) ([]*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterObligations(func(ob *models.Obligation) bool {
		return ob.UserID == userID && (status == "" || ob.Status == status)
	}), nil
}

func (s *Store) ListJourneyObligations(_ context.Context, journeyID uuid.UUID) ([]*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterObligations(func(ob *models.Obligation) bool {
		return ob.JourneyID != nil && *ob.JourneyID == journeyID
	}), nil
}

func (s *Store) ListOverdueObligations(_ context.Context, before time.Time, limit int) ([]*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return limitSlice(s.filterObligations(func(ob *models.Obligation) bool {
		return ob.Status == models.ObligationPending && !ob.Threshold().After(before)
	}), limit), nil
}

func (s *Store) ListUnlinkedViolations(_ context.Context, limit int) ([]*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return limitSlice(s.filterObligations(func(ob *models.Obligation) bool {
		return ob.Status == models.ObligationViolated && ob.EmergencyID == nil
	}), limit), nil
}

func (s *Store) ListAllObligations(_ context.Context) ([]*models.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterObligations(func(*models.Obligation) bool { return true }), nil
}

func (s *Store) TransitionObligation(_ context.Context, ob *models.Obligation, expectedVersion int64, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.obligations[ob.ID]
	if !ok {
		return apperror.NotFound("obligation", ob.ID.String())
	}
	if cur.Version != expectedVersion {
		return apperror.ConcurrencyConflict("obligation", ob.ID.String())
	}
	cp := *ob
	s.obligations[ob.ID] = &cp
	s.appendLocked(ev)
	return nil
}

// --- маршруты

func (s *Store) CreateJourney(_ context.Context, j *models.Journey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.journeys {
		if existing.UserID == j.UserID && existing.Status == models.JourneyActive {
			return apperror.Duplicate("journey", j.UserID)
		}
	}
	cp := *j
	s.journeys[j.ID] = &cp
	return nil
}

func (s *Store) GetJourney(_ context.Context, id uuid.UUID) (*models.Journey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.journeys[id]
	if !ok {
		return nil, apperror.NotFound("journey", id.String())
	}
	cp := *j
	return &cp, nil
}

func (s *Store) GetActiveJourney(_ context.Context, userID string) (*models.Journey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.journeys {
		if j.UserID == userID && j.Status == models.JourneyActive {
			cp := *j
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("journey", userID)
}

func (s *Store) EndJourney(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.journeys[id]
	if !ok {
		return apperror.NotFound("journey", id.String())
	}
	if j.Status != models.JourneyActive {
		return apperror.InvalidTransition("journey", id.String(), string(j.Status), string(models.JourneyEnded))
	}
	j.Status = models.JourneyEnded
	j.EndedAt = &at
	return nil
}

// --- тревоги

func (s *Store) InsertEmergency(_ context.Context, e *models.Emergency, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.emergencies {
		if existing.UserID == e.UserID && existing.Status == models.EmergencyActive {
			return apperror.AlreadyActive("emergency", existing.ID.String())
		}
	}
	s.emergencies[e.ID] = e.Clone()
	s.appendLocked(ev)
	return nil
}

func (s *Store) GetEmergency(_ context.Context, id uuid.UUID) (*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.emergencies[id]
	if !ok {
		return nil, apperror.NotFound("emergency", id.String())
	}
	return e.Clone(), nil
}

func (s *Store) GetActiveEmergency(_ context.Context, userID string) (*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.emergencies {
		if e.UserID == userID && e.Status == models.EmergencyActive {
			return e.Clone(), nil
		}
	}
	return nil, apperror.NotFound("emergency", userID)
}

func (s *Store) UpdateEmergency(_ context.Context, e *models.Emergency, expectedVersion int64, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.emergencies[e.ID]
	if !ok {
		return apperror.NotFound("emergency", e.ID.String())
	}
	if cur.Version != expectedVersion {
		return apperror.ConcurrencyConflict("emergency", e.ID.String())
	}
	s.emergencies[e.ID] = e.Clone()
	s.appendLocked(ev)
	return nil
}

func (s *Store) ListEscalationDue(_ context.Context, before time.Time, limit int) ([]*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Emergency
	for _, e := range s.emergencies {
		if e.Status != models.EmergencyActive {
			continue
		}
		due := e.CreatedAt
		if e.NextEscalationAt != nil {
			due = *e.NextEscalationAt
		}
		if !due.After(before) {
			out = append(out, e.Clone())
		}
	}
	sortEmergencies(out)
	return limitSlice(out, limit), nil
}

func (s *Store) ListAllEmergencies(_ context.Context) ([]*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Emergency, 0, len(s.emergencies))
	for _, e := range s.emergencies {
		out = append(out, e.Clone())
	}
	sortEmergencies(out)
	return out, nil
}

func sortEmergencies(out []*models.Emergency) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
}

// --- попытки доставки

func (s *Store) CreateAttempt(_ context.Context, a *models.NotificationAttempt, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attempts {
		if existing.NotificationID == a.NotificationID && existing.RecipientID == a.RecipientID && existing.Channel == a.Channel {
			return apperror.Duplicate("notification_attempt", a.RecipientID+"/"+string(a.Channel))
		}
	}
	s.attempts[a.ID] = a.Clone()
	s.appendLocked(ev)
	return nil
}

func (s *Store) GetAttempt(_ context.Context, id uuid.UUID) (*models.NotificationAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, apperror.NotFound("notification_attempt", id.String())
	}
	return a.Clone(), nil
}

func (s *Store) UpdateAttempt(_ context.Context, a *models.NotificationAttempt, expectedVersion int64, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.attempts[a.ID]
	if !ok {
		return apperror.NotFound("notification_attempt", a.ID.String())
	}
	if cur.Version != expectedVersion {
		return apperror.ConcurrencyConflict("notification_attempt", a.ID.String())
	}
	s.attempts[a.ID] = a.Clone()
	s.appendLocked(ev)
	return nil
}

func (s *Store) filterAttempts(keep func(*models.NotificationAttempt) bool) []*models.NotificationAttempt {
	var out []*models.NotificationAttempt
	for _, a := range s.attempts {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if out[i].LadderIndex != out[j].LadderIndex {
			return out[i].LadderIndex < out[j].LadderIndex
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *Store) ListAttempts(_ context.Context, notificationID uuid.UUID) ([]*models.NotificationAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterAttempts(func(a *models.NotificationAttempt) bool { return a.NotificationID == notificationID }), nil
}

func (s *Store) ListRecipientAttempts(_ context.Context, notificationID uuid.UUID, recipientID string) ([]*models.NotificationAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterAttempts(func(a *models.NotificationAttempt) bool {
		return a.NotificationID == notificationID && a.RecipientID == recipientID
	}), nil
}

func (s *Store) ListEmergencyAttempts(_ context.Context, emergencyID uuid.UUID) ([]*models.NotificationAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterAttempts(func(a *models.NotificationAttempt) bool {
		return a.EmergencyID != nil && *a.EmergencyID == emergencyID
	}), nil
}

// ListStaleAttempts - незавершенные попытки, не менявшиеся с updatedBefore. Попытки
// закрытых тревог не возвращаются.
func (s *Store) ListStaleAttempts(_ context.Context, updatedBefore time.Time, limit int) ([]*models.NotificationAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return limitSlice(s.filterAttempts(func(a *models.NotificationAttempt) bool {
		if !a.UpdatedAt.Before(updatedBefore) {
			return false
		}
		switch a.Status {
		case models.AttemptQueued, models.AttemptSent:
		case models.AttemptFailed:
			if a.AttemptCount >= a.MaxAttempts {
				return false
			}
		default:
			return false
		}
		if a.EmergencyID != nil {
			if e, ok := s.emergencies[*a.EmergencyID]; ok && e.Status.IsTerminal() && a.Priority == models.PriorityCritical {
				return false
			}
		}
		return true
	}), limit), nil
}

func (s *Store) ListAllAttempts(_ context.Context) ([]*models.NotificationAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterAttempts(func(*models.NotificationAttempt) bool { return true }), nil
}

// --- журнал событий

func (s *Store) AppendEvent(_ context.Context, ev *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(ev)
	return nil
}

func (s *Store) ListEvents(_ context.Context, afterSeq int64, limit int) ([]*models.TransitionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.TransitionEvent
	for _, ev := range s.events {
		if ev.Seq <= afterSeq {
			continue
		}
		cp := *ev
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListEntityEvents(_ context.Context, entityType models.EntityType, entityID uuid.UUID) ([]*models.TransitionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.TransitionEvent
	for _, ev := range s.events {
		if ev.EntityType == entityType && ev.EntityID == entityID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- справочник контактов

// SetContacts задает контакты пользователя
func (s *Store) SetContacts(userID string, contacts []models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[userID] = append([]models.Contact(nil), contacts...)
}

func (s *Store) GetContactsForUser(_ context.Context, userID string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Contact(nil), s.contacts[userID]...), nil
}

func limitSlice[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
