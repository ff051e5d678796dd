package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsTotal counts dispatch attempts.
	// Labels: kind (reminder, care_alert), status (sent, failed)
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petcare",
			Name:      "notifications_total",
			Help:      "Total number of push notification attempts",
		},
		[]string{"kind", "status"},
	)

	// SweepsTotal counts login sweeps by outcome.
	// Labels: result (completed, skipped, error)
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petcare",
			Name:      "sweeps_total",
			Help:      "Total number of login notification sweeps",
		},
		[]string{"result"},
	)

	// CareLogsMarkedOverdue counts care logs flipped to overdue by the scheduler.
	CareLogsMarkedOverdue = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "petcare",
			Name:      "care_logs_marked_overdue_total",
			Help:      "Total number of care logs marked overdue by the refresh job",
		},
	)
)
