package worker

import (
	"context"
	"time"

	"github.com/felicare/ckd-api/internal/service/reminder"
	"github.com/felicare/ckd-api/pkg/logger"
	"github.com/felicare/ckd-api/pkg/messaging"
	"github.com/felicare/ckd-api/pkg/metrics"
)

// DeviceChannel is the broker channel device notifications are
// published on.
const DeviceChannel = "device_notifications"

// DispatchWorker drains due notifications from the queue and publishes
// them to the device channel. Publish failures put the notification
// back so the next tick retries it.
type DispatchWorker struct {
	queue    *reminder.NotificationQueue
	broker   messaging.Broker
	interval time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewDispatchWorker(
	queue *reminder.NotificationQueue,
	broker messaging.Broker,
	interval time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *DispatchWorker {
	if interval <= 0 {
		panic("interval must be greater than 0")
	}
	return &DispatchWorker{
		queue:    queue,
		broker:   broker,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

func (w *DispatchWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting dispatch worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down dispatch worker")
			return
		case <-ticker.C:
			w.dispatchDue(ctx)
		}
	}
}

func (w *DispatchWorker) dispatchDue(ctx context.Context) {
	due := w.queue.Due(time.Now().UTC())

	for _, n := range due {
		if err := w.broker.Publish(ctx, DeviceChannel, n); err != nil {
			w.metrics.DispatchFailed.Inc()
			w.logger.Error(err, "Failed to publish notification",
				"notification_id", n.ID,
			)
			// Put it back for the next tick.
			if reErr := w.queue.Schedule(ctx, n.ID, n.FireAt, n.Content); reErr != nil {
				w.logger.Error(reErr, "Failed to requeue notification",
					"notification_id", n.ID,
				)
			}
			continue
		}
		w.metrics.DispatchPublished.Inc()
	}

	w.metrics.QueuePending.Set(float64(w.queue.Len()))
}
