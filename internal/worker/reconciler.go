package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/safety_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Sweeper восстанавливает таймеры и задания, потерянные очередью
type Sweeper interface {
	Reconcile(ctx context.Context) (*service.ReconcileReport, error)
}

// Reconciler запускает сверку по расписанию cron
type Reconciler struct {
	c       *cron.Cron
	sweeper Sweeper
	logger  *logrus.Logger
}

// NewReconciler создает Reconciler. schedule - выражение cron либо "@every 1m".
func NewReconciler(schedule string, sweeper Sweeper, logger *logrus.Logger) (*Reconciler, error) {
	r := &Reconciler{
		c:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		sweeper: sweeper,
		logger:  logger,
	}
	if _, err := r.c.AddFunc(schedule, func() { r.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Reconciler) Start() {
	r.logger.Info("Starting reconciler...")
	r.c.Start()
}

// Stop дожидается завершения запущенной сверки
func (r *Reconciler) Stop() {
	<-r.c.Stop().Done()
	r.logger.Info("Stopping reconciler.")
}

// Run выполняет одну сверку
func (r *Reconciler) Run(ctx context.Context) {
	report, err := r.sweeper.Reconcile(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Reconciliation failed")
		return
	}
	log := r.logger.WithFields(logrus.Fields{
		"obligations": report.Obligations,
		"violations":  report.Violations,
		"emergencies": report.Emergencies,
		"attempts":    report.Attempts,
	})
	if report.Obligations+report.Violations+report.Emergencies+report.Attempts > 0 {
		log.Warn("Reconciliation restored lost work")
		return
	}
	log.Debug("Reconciliation found nothing to restore")
}
