// Package metrics содержит prometheus-метрики движка
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "transitions_total",
		Help:      "Committed state transitions by entity type and target state",
	}, []string{"entity", "to"})

	Races = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "races_detected_total",
		Help:      "Transitions discarded after losing an optimistic concurrency race",
	}, []string{"entity"})

	CASConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "cas_conflicts_total",
		Help:      "Version conflicts retried internally",
	}, []string{"entity"})

	EmergenciesTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "emergencies_triggered_total",
		Help:      "Emergency triggers by reason and outcome",
	}, []string{"reason", "outcome"})

	Escalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "escalations_total",
		Help:      "Escalation steps by trigger source",
	}, []string{"source"})

	DeliveryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "delivery_attempts_total",
		Help:      "Provider calls by channel and result",
	}, []string{"channel", "result"})

	DeliveryExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "delivery_exhausted_total",
		Help:      "Recipients for whom every channel and retry failed",
	}, []string{"priority"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "safety",
		Name:      "provider_request_duration_seconds",
		Help:      "Channel provider request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel"})

	TimersFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "timers_fired_total",
		Help:      "Durable timers processed by kind and result",
	}, []string{"kind", "result"})

	TimerLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "safety",
		Name:      "timer_lag_seconds",
		Help:      "Delay between a timer's fire time and its processing",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
	})

	ConfigWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "config_warnings_total",
		Help:      "Degenerate geofences or routes seen during evaluation",
	})

	LocationUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "location_updates_total",
		Help:      "Ingested location and check-in updates by source",
	}, []string{"source"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safety",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "safety",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
