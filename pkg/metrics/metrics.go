package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Reconciliation metrics
	ReconcilePasses        prometheus.Counter
	ReconcileFailures      prometheus.Counter
	ReconcileDuration      prometheus.Histogram
	NotificationsScheduled prometheus.Counter
	NotificationsCancelled prometheus.Counter
	IndexCorruptions       prometheus.Counter
	IndexRebuilds          prometheus.Counter

	// Dispatch metrics
	DispatchPublished prometheus.Counter
	DispatchFailed    prometheus.Counter
	QueuePending      prometheus.Gauge
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ReconcilePasses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_passes_total",
			Help:      "Total number of completed reconciliation passes",
		}),
		ReconcileFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_failures_total",
			Help:      "Total number of reconciliation passes abandoned on error",
		}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_duration_seconds",
			Help:      "Time spent per reconciliation pass",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		NotificationsScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_scheduled_total",
			Help:      "Total number of device notifications scheduled",
		}),
		NotificationsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_cancelled_total",
			Help:      "Total number of device notifications cancelled",
		}),
		IndexCorruptions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "index_corruptions_total",
			Help:      "Total number of notification index checksum mismatches",
		}),
		IndexRebuilds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "index_rebuilds_total",
			Help:      "Total number of indexes rebuilt from device state",
		}),
		DispatchPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_published_total",
			Help:      "Total number of due notifications published to the device channel",
		}),
		DispatchFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_failed_total",
			Help:      "Total number of due notifications that failed to publish",
		}),
		QueuePending: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_pending",
			Help:      "Current number of pending notifications in the device queue",
		}),
	}
}

// New creates metrics without registering them, for use in tests.
func New(namespace string) *Metrics {
	return &Metrics{
		ReconcilePasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_passes_total",
			Help:      "Total number of completed reconciliation passes",
		}),
		ReconcileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_failures_total",
			Help:      "Total number of reconciliation passes abandoned on error",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Time spent per reconciliation pass",
		}),
		NotificationsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_scheduled_total",
			Help:      "Total number of device notifications scheduled",
		}),
		NotificationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_cancelled_total",
			Help:      "Total number of device notifications cancelled",
		}),
		IndexCorruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_corruptions_total",
			Help:      "Total number of notification index checksum mismatches",
		}),
		IndexRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_rebuilds_total",
			Help:      "Total number of indexes rebuilt from device state",
		}),
		DispatchPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_published_total",
			Help:      "Total number of due notifications published to the device channel",
		}),
		DispatchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failed_total",
			Help:      "Total number of due notifications that failed to publish",
		}),
		QueuePending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_pending",
			Help:      "Current number of pending notifications in the device queue",
		}),
	}
}
