package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TimerKind string

const (
	TimerObligationThreshold TimerKind = "obligation_threshold"
	TimerEmergencyEscalation TimerKind = "emergency_escalation"
	TimerDeliveryRetry       TimerKind = "delivery_retry"
	TimerDeliveryCheck       TimerKind = "delivery_check"
)

// Timer - долговечное пробуждение. Обработчик перечитывает сущность и действует, только если это еще актуально.
type Timer struct {
	Kind     TimerKind `json:"kind"`
	EntityID uuid.UUID `json:"entity_id"`
	FireAt   time.Time `json:"fire_at"`
	// Level - ожидаемый уровень эскалации либо номер попытки доставки
	Level int `json:"level,omitempty"`
}

// Key идентифицирует таймер в очереди, повторное планирование того же ключа не создает дубликат
func (t Timer) Key() string {
	return fmt.Sprintf("%s:%s:%d", t.Kind, t.EntityID, t.Level)
}
