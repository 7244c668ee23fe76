package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/safety_coordination_system/internal/models"
)

// DefaultLadderSpec - лестница по умолчанию в формате level:delay:max_tier:channels
const DefaultLadderSpec = "1:0s:1:push;2:5m:0:push,sms;3:10m:0:sms,call"

// EscalationTier - ступень лестницы эскалации. Delay отсчитывается от предыдущей ступени.
// MaxTier ограничивает получателей по priority_tier контакта, 0 - все контакты.
type EscalationTier struct {
	Level    int
	Delay    time.Duration
	MaxTier  int
	Channels []models.Channel
}

// Includes сообщает, входит ли контакт с данным priority_tier в ступень
func (t EscalationTier) Includes(priorityTier int) bool {
	return t.MaxTier == 0 || priorityTier <= t.MaxTier
}

type EscalationLadderConfig struct {
	Tiers []EscalationTier
	// RepeatInterval - пауза между повторами верхней ступени
	RepeatInterval time.Duration
}

// Tier возвращает ступень для уровня эскалации, уровни выше лестницы повторяют верхнюю ступень
func (l EscalationLadderConfig) Tier(level int) EscalationTier {
	if len(l.Tiers) == 0 {
		return EscalationTier{Level: level, Channels: []models.Channel{models.ChannelPush, models.ChannelSMS}}
	}
	if level < 1 {
		level = 1
	}
	if level > len(l.Tiers) {
		return l.Tiers[len(l.Tiers)-1]
	}
	return l.Tiers[level-1]
}

// DelayAfter - через сколько после достижения level наступает следующий уровень
func (l EscalationLadderConfig) DelayAfter(level int) time.Duration {
	if level >= 0 && level < len(l.Tiers) {
		return l.Tiers[level].Delay
	}
	if l.RepeatInterval > 0 {
		return l.RepeatInterval
	}
	return 10 * time.Minute
}

// ParseEscalationLadder разбирает строку вида "1:0s:1:push;2:5m:0:push,sms"
func ParseEscalationLadder(spec string) (EscalationLadderConfig, error) {
	var ladder EscalationLadderConfig
	for i, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 4 {
			return ladder, fmt.Errorf("tier %q: expected level:delay:max_tier:channels", part)
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil || level != i+1 {
			return ladder, fmt.Errorf("tier %q: levels must be sequential starting at 1", part)
		}
		delay, err := time.ParseDuration(fields[1])
		if err != nil || delay < 0 {
			return ladder, fmt.Errorf("tier %q: invalid delay", part)
		}
		maxTier, err := strconv.Atoi(fields[2])
		if err != nil || maxTier < 0 {
			return ladder, fmt.Errorf("tier %q: invalid max_tier", part)
		}
		channels, err := ParseChannels(fields[3])
		if err != nil {
			return ladder, fmt.Errorf("tier %q: %w", part, err)
		}
		ladder.Tiers = append(ladder.Tiers, EscalationTier{Level: level, Delay: delay, MaxTier: maxTier, Channels: channels})
	}
	if len(ladder.Tiers) == 0 {
		return ladder, fmt.Errorf("escalation ladder is empty")
	}
	return ladder, nil
}

// ParseChannels разбирает список каналов через запятую
func ParseChannels(list string) ([]models.Channel, error) {
	var channels []models.Channel
	for _, c := range strings.Split(list, ",") {
		ch := models.Channel(strings.TrimSpace(c))
		if !ch.Valid() {
			return nil, fmt.Errorf("unknown channel %q", ch)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// ObligationDefaults - значения по умолчанию для обязательств
type ObligationDefaults struct {
	CheckinGrace             time.Duration
	CheckinWindow            time.Duration
	MaxDwell                 time.Duration
	DwellGrace               time.Duration
	DeviationGrace           time.Duration
	DeviationToleranceMeters float64
}

func DefaultObligationDefaults() ObligationDefaults {
	return ObligationDefaults{
		CheckinGrace:             15 * time.Minute,
		CheckinWindow:            30 * time.Minute,
		MaxDwell:                 30 * time.Minute,
		DwellGrace:               0,
		DeviationGrace:           5 * time.Minute,
		DeviationToleranceMeters: 200,
	}
}

// DeliveryPolicy - лестница каналов и политика повторов для приоритета
type DeliveryPolicy struct {
	Channels     []models.Channel
	Parallel     bool
	MaxAttempts  int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
	Suppressible bool
}

// Backoff - задержка перед повтором после attempt неудачных попыток
func (p DeliveryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

type DeliveryPolicies map[models.Priority]DeliveryPolicy

func DefaultDeliveryPolicies() DeliveryPolicies {
	return DeliveryPolicies{
		models.PriorityCritical: {
			Channels:    []models.Channel{models.ChannelPush, models.ChannelSMS, models.ChannelCall},
			Parallel:    true,
			MaxAttempts: 5,
			BaseBackoff: 2 * time.Second,
			MaxBackoff:  time.Minute,
		},
		models.PriorityHigh: {
			Channels:    []models.Channel{models.ChannelPush, models.ChannelSMS, models.ChannelCall},
			MaxAttempts: 3,
			BaseBackoff: 5 * time.Second,
			MaxBackoff:  time.Minute,
		},
		models.PriorityMedium: {
			Channels:     []models.Channel{models.ChannelPush, models.ChannelEmail},
			MaxAttempts:  2,
			BaseBackoff:  30 * time.Second,
			MaxBackoff:   5 * time.Minute,
			Suppressible: true,
		},
		models.PriorityLow: {
			Channels:     []models.Channel{models.ChannelEmail},
			MaxAttempts:  1,
			BaseBackoff:  time.Minute,
			MaxBackoff:   5 * time.Minute,
			Suppressible: true,
		},
	}
}
