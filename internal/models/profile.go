package models

import "time"

// UserProfile хранит домашнюю временную зону пользователя
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Timezone  string    `json:"timezone"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location возвращает временную зону профиля, UTC при пустом или неизвестном значении
func (p *UserProfile) Location() *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
