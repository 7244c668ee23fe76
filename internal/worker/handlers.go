package worker

import (
	"context"

	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/shenikar/safety_coordination_system/internal/service"
)

// Handlers связывает виды таймеров с сервисами движка
func Handlers(obligations service.ObligationService, emergencies service.EmergencyService,
	dispatcher service.DispatchService) map[models.TimerKind]Handler {
	return map[models.TimerKind]Handler{
		models.TimerObligationThreshold: func(ctx context.Context, t models.Timer) error {
			return obligations.HandleThreshold(ctx, t.EntityID)
		},
		models.TimerEmergencyEscalation: func(ctx context.Context, t models.Timer) error {
			return emergencies.HandleEscalationTimer(ctx, t.EntityID, t.Level)
		},
		models.TimerDeliveryRetry: func(ctx context.Context, t models.Timer) error {
			return dispatcher.HandleRetryTimer(ctx, t.EntityID, t.Level)
		},
		models.TimerDeliveryCheck: func(ctx context.Context, t models.Timer) error {
			return dispatcher.HandleDeliveryCheck(ctx, t.EntityID, t.Level)
		},
	}
}
