package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// Schedule ставит таймер. Повторная постановка того же ключа переносит срок.
func (s *Store) Schedule(_ context.Context, t models.Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[t.Key()] = t
	return nil
}

// ClaimDue забирает наступившие таймеры в порядке срока
func (s *Store) ClaimDue(_ context.Context, now time.Time, limit int) ([]models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.Timer
	for _, t := range s.timers {
		if !t.FireAt.After(now) {
			due = append(due, t)
		}
	}
	sortTimers(due)
	due = limitSlice(due, limit)
	for _, t := range due {
		delete(s.timers, t.Key())
	}
	return due, nil
}

// Timers возвращает поставленные таймеры
func (s *Store) Timers() []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Timer, 0, len(s.timers))
	for _, t := range s.timers {
		out = append(out, t)
	}
	sortTimers(out)
	return out
}

func sortTimers(ts []models.Timer) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].FireAt.Equal(ts[j].FireAt) {
			return ts[i].FireAt.Before(ts[j].FireAt)
		}
		return ts[i].Key() < ts[j].Key()
	})
}

// PublishAttempt запоминает задание доставки
func (s *Store) PublishAttempt(_ context.Context, attemptID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, attemptID)
	return nil
}

// TakeJobs забирает накопленные задания доставки
func (s *Store) TakeJobs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.jobs
	s.jobs = nil
	return out
}
