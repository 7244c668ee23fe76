package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskCaution RiskLevel = "caution"
	RiskRisk    RiskLevel = "risk"
)

type GeofenceShape string

const (
	ShapeCircle  GeofenceShape = "circle"
	ShapePolygon GeofenceShape = "polygon"
)

const (
	GeofenceStatusActive   = "active"
	GeofenceStatusInactive = "inactive"
)

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TimeWindow - окно времени, в которое геозона действует. Окно вида 22:00-06:00 переходит через полночь.
// Пустой Weekdays означает каждый день.
type TimeWindow struct {
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
}

// ParseClock разбирает время вида "HH:MM" в минуты от полуночи
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

// Validate проверяет формат границ окна
func (w TimeWindow) Validate() error {
	if _, err := ParseClock(w.Start); err != nil {
		return err
	}
	if _, err := ParseClock(w.End); err != nil {
		return err
	}
	return nil
}

// Contains сообщает, попадает ли t (уже в нужной временной зоне) в окно
func (w TimeWindow) Contains(t time.Time) bool {
	start, err := ParseClock(w.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(w.End)
	if err != nil {
		return false
	}
	minute := t.Hour()*60 + t.Minute()

	day := t.Weekday()
	if start > end && minute < end {
		// хвост окна, начавшегося накануне
		day = (day + 6) % 7
	}
	if len(w.Weekdays) > 0 && !containsWeekday(w.Weekdays, day) {
		return false
	}

	if start == end {
		return true
	}
	if start < end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, wd := range days {
		if wd == d {
			return true
		}
	}
	return false
}

type Geofence struct {
	ID           uuid.UUID     `json:"id"`
	UserID       string        `json:"user_id"`
	Name         string        `json:"name"`
	Shape        GeofenceShape `json:"shape"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	RadiusMeters float64       `json:"radius_meters"`
	Polygon      []Point       `json:"polygon,omitempty"`
	RiskLevel    RiskLevel     `json:"risk_level"`
	MaxDwell     time.Duration `json:"max_dwell"`
	Schedule     []TimeWindow  `json:"schedule,omitempty"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ActiveAt сообщает, действует ли геозона в момент at. loc - домашняя временная зона владельца.
func (g *Geofence) ActiveAt(at time.Time, loc *time.Location) bool {
	if g.Status != GeofenceStatusActive {
		return false
	}
	if g.ExpiresAt != nil && !at.Before(*g.ExpiresAt) {
		return false
	}
	if len(g.Schedule) == 0 {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	local := at.In(loc)
	for _, w := range g.Schedule {
		if w.Contains(local) {
			return true
		}
	}
	return false
}

// Presence - факт нахождения пользователя внутри геозоны с момента EnteredAt
type Presence struct {
	UserID     string    `json:"user_id"`
	GeofenceID uuid.UUID `json:"geofence_id"`
	EnteredAt  time.Time `json:"entered_at"`
}
