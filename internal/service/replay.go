package service

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// Snapshot - состояние всех сущностей, восстановленное из журнала
type Snapshot struct {
	Obligations map[uuid.UUID]*models.Obligation
	Emergencies map[uuid.UUID]*models.Emergency
	Attempts    map[uuid.UUID]*models.NotificationAttempt
	Races       int
	LastSeq     int64
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Obligations: make(map[uuid.UUID]*models.Obligation),
		Emergencies: make(map[uuid.UUID]*models.Emergency),
		Attempts:    make(map[uuid.UUID]*models.NotificationAttempt),
	}
}

// ReplayError - разрыв цепочки состояний в журнале
type ReplayError struct {
	Seq      int64
	Entity   models.EntityType
	EntityID uuid.UUID
	Expected string
	Got      string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("event %d: %s %s transitions from %q, last known state is %q",
		e.Seq, e.Entity, e.EntityID, e.Got, e.Expected)
}

// Replay сворачивает события в порядке seq в снимок. Каждый переход обязан начинаться
// в состоянии, которым закончился предыдущий переход той же сущности.
func Replay(events []*models.TransitionEvent) (*Snapshot, error) {
	sorted := make([]*models.TransitionEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	snap := newSnapshot()
	states := make(map[uuid.UUID]string)

	for _, ev := range sorted {
		if ev.Seq > snap.LastSeq {
			snap.LastSeq = ev.Seq
		}
		if ev.Kind == models.EventRaceDetected {
			snap.Races++
			continue
		}

		prev, ok := states[ev.EntityID]
		if !ok {
			prev = stateNone
		}
		if ev.FromState != prev {
			return snap, &ReplayError{Seq: ev.Seq, Entity: ev.EntityType, EntityID: ev.EntityID, Expected: prev, Got: ev.FromState}
		}
		states[ev.EntityID] = ev.ToState

		if err := snap.apply(ev); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

func (s *Snapshot) apply(ev *models.TransitionEvent) error {
	if len(ev.Snapshot) == 0 {
		return fmt.Errorf("event %d: transition without snapshot", ev.Seq)
	}
	switch ev.EntityType {
	case models.EntityObligation:
		var ob models.Obligation
		if err := json.Unmarshal(ev.Snapshot, &ob); err != nil {
			return fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		s.Obligations[ev.EntityID] = &ob
	case models.EntityEmergency:
		var e models.Emergency
		if err := json.Unmarshal(ev.Snapshot, &e); err != nil {
			return fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		s.Emergencies[ev.EntityID] = &e
	case models.EntityAttempt:
		var a models.NotificationAttempt
		if err := json.Unmarshal(ev.Snapshot, &a); err != nil {
			return fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		s.Attempts[ev.EntityID] = &a
	default:
		return fmt.Errorf("event %d: unknown entity type %q", ev.Seq, ev.EntityType)
	}
	return nil
}

// Mismatch - расхождение между снимком журнала и текущей таблицей
type Mismatch struct {
	Entity   models.EntityType `json:"entity"`
	EntityID uuid.UUID         `json:"entity_id"`
	Field    string            `json:"field"`
	Log      string            `json:"log"`
	Table    string            `json:"table"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: %s log=%s table=%s", m.Entity, m.EntityID, m.Field, m.Log, m.Table)
}

// Compare сверяет снимок с текущим состоянием таблиц
func (s *Snapshot) Compare(obligations []*models.Obligation, emergencies []*models.Emergency,
	attempts []*models.NotificationAttempt) []Mismatch {
	var out []Mismatch
	add := func(entity models.EntityType, id uuid.UUID, field string, log, table any) {
		out = append(out, Mismatch{Entity: entity, EntityID: id, Field: field, Log: fmt.Sprint(log), Table: fmt.Sprint(table)})
	}

	seen := make(map[uuid.UUID]bool)
	for _, ob := range obligations {
		seen[ob.ID] = true
		got, ok := s.Obligations[ob.ID]
		switch {
		case !ok:
			add(models.EntityObligation, ob.ID, "presence", "missing", "present")
		case got.Status != ob.Status:
			add(models.EntityObligation, ob.ID, "status", got.Status, ob.Status)
		case got.Version != ob.Version:
			add(models.EntityObligation, ob.ID, "version", got.Version, ob.Version)
		}
	}
	for _, e := range emergencies {
		seen[e.ID] = true
		got, ok := s.Emergencies[e.ID]
		switch {
		case !ok:
			add(models.EntityEmergency, e.ID, "presence", "missing", "present")
		case got.Status != e.Status:
			add(models.EntityEmergency, e.ID, "status", got.Status, e.Status)
		case got.EscalationLevel != e.EscalationLevel:
			add(models.EntityEmergency, e.ID, "escalation_level", got.EscalationLevel, e.EscalationLevel)
		case got.Version != e.Version:
			add(models.EntityEmergency, e.ID, "version", got.Version, e.Version)
		}
	}
	for _, a := range attempts {
		seen[a.ID] = true
		got, ok := s.Attempts[a.ID]
		switch {
		case !ok:
			add(models.EntityAttempt, a.ID, "presence", "missing", "present")
		case got.Status != a.Status:
			add(models.EntityAttempt, a.ID, "status", got.Status, a.Status)
		case got.AttemptCount != a.AttemptCount:
			add(models.EntityAttempt, a.ID, "attempt_count", got.AttemptCount, a.AttemptCount)
		case got.Version != a.Version:
			add(models.EntityAttempt, a.ID, "version", got.Version, a.Version)
		}
	}

	for id := range s.Obligations {
		if !seen[id] {
			add(models.EntityObligation, id, "presence", "present", "missing")
		}
	}
	for id := range s.Emergencies {
		if !seen[id] {
			add(models.EntityEmergency, id, "presence", "present", "missing")
		}
	}
	for id := range s.Attempts {
		if !seen[id] {
			add(models.EntityAttempt, id, "presence", "present", "missing")
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		return out[i].EntityID.String() < out[j].EntityID.String()
	})
	return out
}
