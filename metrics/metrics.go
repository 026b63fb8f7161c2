// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smart_delivery"

var (
	statusMarks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_status_marks_total",
		Help:      "Delivery status submissions by status.",
	}, []string{"status"})

	owedChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "owed_changes_total",
		Help:      "Owed counter changes by direction.",
	}, []string{"direction"})

	renewals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscription_renewals_total",
		Help:      "Renewal attempts by outcome.",
	}, []string{"outcome"})

	assignmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_conflicts_total",
		Help:      "Rejected duplicate assignments.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

func ObserveStatusMark(status string) {
	statusMarks.WithLabelValues(status).Inc()
}

// ObserveOwedChange records a non-zero owed delta.
func ObserveOwedChange(delta int) {
	switch {
	case delta > 0:
		owedChanges.WithLabelValues("increase").Add(float64(delta))
	case delta < 0:
		owedChanges.WithLabelValues("decrease").Add(float64(-delta))
	}
}

func ObserveRenewal(outcome string) {
	renewals.WithLabelValues(outcome).Inc()
}

func ObserveAssignmentConflict() {
	assignmentConflicts.Inc()
}

func ObserveRequest(method, code string, seconds float64) {
	requestDuration.WithLabelValues(method, code).Observe(seconds)
}
