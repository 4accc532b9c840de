package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LookupsTotal counts completed lookups.
	// outcome: resolved/failed/superseded, kind: error kind or "" on success.
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platecheck_lookups_total",
			Help: "Total number of vehicle report lookups.",
		},
		[]string{"tier", "source", "outcome", "kind"},
	)

	// LookupLatency records end-to-end lookup duration per data source.
	LookupLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platecheck_lookup_duration_seconds",
			Help:    "Latency of vehicle report lookups.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// UpstreamRequestsTotal counts calls to the government vehicle-enquiry API.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platecheck_upstream_requests_total",
			Help: "Total number of vehicle-enquiry API calls by result kind.",
		},
		[]string{"kind"},
	)

	// TierChangesTotal counts accepted subscription tier changes by new tier.
	TierChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platecheck_tier_changes_total",
			Help: "Total number of subscription tier changes.",
		},
		[]string{"tier"},
	)

	// EventsDroppedTotal counts lookup events discarded because the publish buffer was full.
	EventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "platecheck_events_dropped_total",
			Help: "Lookup events dropped before publishing.",
		},
	)
)

// init registers the collectors with the default registry served at /metrics.
func init() {
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(LookupLatency)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(TierChangesTotal)
	prometheus.MustRegister(EventsDroppedTotal)
}
