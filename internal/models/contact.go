package models

import "time"

// Contact - доверенный контакт пользователя из справочника контактов
type Contact struct {
	ContactID    string             `json:"contact_id"`
	UserID       string             `json:"user_id"`
	Name         string             `json:"name"`
	PriorityTier int                `json:"priority_tier"`
	Addresses    map[Channel]string `json:"channel_addresses"`
	QuietHours   *TimeWindow        `json:"quiet_hours,omitempty"`
	Timezone     string             `json:"timezone,omitempty"`
}

// InQuietHours сообщает, попадает ли at в тихие часы контакта
func (c *Contact) InQuietHours(at time.Time) bool {
	if c.QuietHours == nil {
		return false
	}
	loc := time.UTC
	if c.Timezone != "" {
		if l, err := time.LoadLocation(c.Timezone); err == nil {
			loc = l
		}
	}
	return c.QuietHours.Contains(at.In(loc))
}
