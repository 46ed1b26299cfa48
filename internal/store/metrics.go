package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	opFetch  = "fetch"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Outcome labels.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeStale   = "stale"
)

// Prometheus metrics.
var (
	storeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restadmin_store_requests_total",
			Help: "Total number of store operations by outcome",
		},
		[]string{"resource", "operation", "outcome"},
	)

	storeStaleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restadmin_store_stale_responses_total",
			Help: "Read responses discarded because a newer read was issued",
		},
		[]string{"resource"},
	)
)

func observe(resource, operation string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	storeRequestsTotal.WithLabelValues(resource, operation, outcome).Inc()
}

func observeStale(resource string) {
	storeRequestsTotal.WithLabelValues(resource, opFetch, outcomeStale).Inc()
	storeStaleResponsesTotal.WithLabelValues(resource).Inc()
}
