// Package metrics holds the Prometheus collectors of the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal counts handled links by extractor, winning strategy and outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkrelay_resolutions_total",
			Help: "Total number of resolved links",
		},
		[]string{"extractor", "strategy", "outcome"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkrelay_resolve_duration_seconds",
			Help:    "Time spent resolving a link",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"extractor"},
	)

	// StrategyFailuresTotal counts strategies that produced nothing
	// and handed over to the next one
	StrategyFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkrelay_strategy_failures_total",
			Help: "Total number of scraping strategies that yielded no result",
		},
		[]string{"extractor", "strategy"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkrelay_upstream_requests_total",
			Help: "Total number of requests sent to upstream sites",
		},
		[]string{"extractor", "status"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linkrelay_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkrelay_messages_total",
			Help: "Total number of incoming messages by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordResolution(extractor string, strategy string, items int, duration time.Duration) {
	outcome := "success"
	if items == 0 {
		outcome = "empty"
	}
	ResolutionsTotal.WithLabelValues(extractor, strategy, outcome).Inc()
	ResolveDuration.WithLabelValues(extractor).Observe(duration.Seconds())
}

func RecordResolutionError(extractor string, duration time.Duration) {
	ResolutionsTotal.WithLabelValues(extractor, "none", "error").Inc()
	ResolveDuration.WithLabelValues(extractor).Observe(duration.Seconds())
}

func RecordStrategyFailure(extractor string, strategy string) {
	StrategyFailuresTotal.WithLabelValues(extractor, strategy).Inc()
}

func RecordUpstreamRequest(extractor string, status string) {
	UpstreamRequestsTotal.WithLabelValues(extractor, status).Inc()
}

func RecordMessage(outcome string) {
	MessagesTotal.WithLabelValues(outcome).Inc()
}
