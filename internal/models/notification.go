package models

import (
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelCall  Channel = "call"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelPush, ChannelSMS, ChannelEmail, ChannelCall:
		return true
	}
	return false
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

type AttemptStatus string

const (
	AttemptQueued    AttemptStatus = "queued"
	AttemptSent      AttemptStatus = "sent"
	AttemptDelivered AttemptStatus = "delivered"
	AttemptFailed    AttemptStatus = "failed"
	AttemptConfirmed AttemptStatus = "confirmed"
)

var attemptRank = map[AttemptStatus]int{
	AttemptQueued:    0,
	AttemptSent:      1,
	AttemptDelivered: 2,
	AttemptConfirmed: 3,
}

// CanAdvance задает переходы попытки доставки: queued -> sent -> delivered -> confirmed только вперед,
// failed достижим из queued и sent, из failed попытка возвращается в queued на повтор
// либо подтверждается поздним колбэком.
func CanAdvance(from, to AttemptStatus) bool {
	switch {
	case to == AttemptFailed:
		return from == AttemptQueued || from == AttemptSent
	case from == AttemptFailed:
		return to == AttemptQueued || to == AttemptDelivered || to == AttemptConfirmed
	}
	fr, ok := attemptRank[from]
	if !ok {
		return false
	}
	tr, ok := attemptRank[to]
	if !ok {
		return false
	}
	return tr > fr
}

// Notification - содержимое оповещения, которое рассылает диспетчер
type Notification struct {
	ID           uuid.UUID  `json:"id"`
	EmergencyID  *uuid.UUID `json:"emergency_id,omitempty"`
	ObligationID *uuid.UUID `json:"obligation_id,omitempty"`
	UserID       string     `json:"user_id"`
	Level        int        `json:"level"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	// Channels переопределяет лестницу каналов политики приоритета
	Channels []Channel `json:"channels,omitempty"`
}

// NotificationAttempt - попытка доставки одному получателю по одному каналу
type NotificationAttempt struct {
	ID             uuid.UUID          `json:"id"`
	NotificationID uuid.UUID          `json:"notification_id"`
	EmergencyID    *uuid.UUID         `json:"emergency_id,omitempty"`
	ObligationID   *uuid.UUID         `json:"obligation_id,omitempty"`
	UserID         string             `json:"user_id"`
	RecipientID    string             `json:"recipient_id"`
	Channel        Channel            `json:"channel"`
	Address        string             `json:"address"`
	// Addresses - адреса получателя по всем каналам лестницы для перехода на следующий канал
	Addresses      map[Channel]string `json:"addresses,omitempty"`
	Priority       Priority           `json:"priority"`
	Level          int                `json:"level"`
	Status         AttemptStatus      `json:"status"`
	AttemptCount   int                `json:"attempt_count"`
	MaxAttempts    int                `json:"max_attempts"`
	ChannelLadder  []Channel          `json:"channel_ladder"`
	LadderIndex    int                `json:"ladder_index"`
	Title          string             `json:"title"`
	Body           string             `json:"body"`
	ProviderRef    string             `json:"provider_ref,omitempty"`
	LastError      string             `json:"last_error,omitempty"`
	LastAttemptAt  *time.Time         `json:"last_attempt_at,omitempty"`
	Version        int64              `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Exhausted - попытка провалена и повторов не осталось
func (a *NotificationAttempt) Exhausted() bool {
	return a.Status == AttemptFailed && a.AttemptCount >= a.MaxAttempts
}

// NextChannel возвращает следующий канал лестницы получателя
func (a *NotificationAttempt) NextChannel() (Channel, int, bool) {
	next := a.LadderIndex + 1
	if next >= len(a.ChannelLadder) {
		return "", 0, false
	}
	return a.ChannelLadder[next], next, true
}

func (a *NotificationAttempt) Clone() *NotificationAttempt {
	c := *a
	c.ChannelLadder = append([]Channel(nil), a.ChannelLadder...)
	if a.Addresses != nil {
		c.Addresses = make(map[Channel]string, len(a.Addresses))
		for k, v := range a.Addresses {
			c.Addresses[k] = v
		}
	}
	return &c
}

// DeliveryReport - результат Send
type DeliveryReport struct {
	NotificationID uuid.UUID              `json:"notification_id"`
	Priority       Priority               `json:"priority"`
	Attempts       []*NotificationAttempt `json:"attempts"`
	Suppressed     []string               `json:"suppressed,omitempty"`
	Unreachable    []string               `json:"unreachable,omitempty"`
}
