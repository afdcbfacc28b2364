package worker

import (
	"context"
	"time"

	"github.com/felicare/ckd-api/internal/repository"
	"github.com/felicare/ckd-api/internal/service/reminder"
	"github.com/felicare/ckd-api/pkg/logger"
)

// ReconcileWorker periodically runs a scheduling pass for every active
// pet so device state converges even without API traffic.
type ReconcileWorker struct {
	pets     repository.PetRepository
	engine   *reminder.Engine
	interval time.Duration
	logger   *logger.Logger
}

func NewReconcileWorker(
	pets repository.PetRepository,
	engine *reminder.Engine,
	interval time.Duration,
	logger *logger.Logger,
) *ReconcileWorker {
	if interval <= 0 {
		panic("interval must be greater than 0")
	}
	return &ReconcileWorker{
		pets:     pets,
		engine:   engine,
		interval: interval,
		logger:   logger,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting reconcile worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down reconcile worker")
			return
		case <-ticker.C:
			w.reconcileAll(ctx)
		}
	}
}

func (w *ReconcileWorker) reconcileAll(ctx context.Context) {
	pets, err := w.pets.ListActive(ctx)
	if err != nil {
		w.logger.Error(err, "Failed to list active pets")
		return
	}

	day := time.Now().UTC()
	for _, p := range pets {
		if ctx.Err() != nil {
			return
		}
		if err := w.engine.Reconcile(ctx, p.CaregiverID, p.ID, day); err != nil {
			w.logger.Error(err, "Reconcile pass failed",
				"caregiver_id", p.CaregiverID.String(),
				"pet_id", p.ID.String(),
			)
		}
	}
}
