package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	AdminActions           *prometheus.CounterVec
	AuditEntriesAppended   prometheus.Counter
	NotificationsScheduled prometheus.Counter
	NotificationsSent      *prometheus.CounterVec
	ProcessingDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		AdminActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_gateway_admin_actions_total",
			Help: "Total administrative lifecycle actions by action type",
		}, []string{"action"}),
		AuditEntriesAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_gateway_audit_entries_total",
			Help: "Total audit log entries appended",
		}),
		NotificationsScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_gateway_notifications_scheduled_total",
			Help: "Total notifications merged into the pending schedule",
		}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_gateway_notifications_sent_total",
			Help: "Total notifications marked sent by notification type",
		}, []string{"type"}),
		ProcessingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_gateway_notification_processing_seconds",
			Help:    "Duration of one notification worker pass",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordAction increments the counter for one administrative action.
func (m *Metrics) RecordAction(action string) {
	if m == nil {
		return
	}
	m.AdminActions.WithLabelValues(action).Inc()
}

// RecordSent increments the sent counter for a notification type.
func (m *Metrics) RecordSent(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(notificationType).Inc()
}
