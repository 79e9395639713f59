package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream call outcomes
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport"
	OutcomeStatus    = "status"
	OutcomeMalformed = "malformed"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nextbus_upstream_requests_total",
		Help: "Number of calls to the TfL arrivals API, by outcome",
	}, []string{"outcome"})
	upstreamDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nextbus_upstream_request_duration_seconds",
		Help:    "Latency of calls to the TfL arrivals API",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nextbus_cache_lookups_total",
		Help: "Number of arrival cache lookups, by result",
	}, []string{"result"})
	staleResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nextbus_stale_responses_total",
		Help: "Number of times the last known-good arrivals were served after an upstream failure",
	})
	handlerDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "nextbus_http_request_duration_seconds",
		Help: "Time spent serving HTTP requests, by route pattern",
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamDuration, cacheLookups, staleResponses, handlerDuration)
}

// ObserveUpstream records one upstream call that started at start
func ObserveUpstream(outcome string, start time.Time) {
	upstreamRequests.With(prometheus.Labels{"outcome": outcome}).Inc()
	upstreamDuration.Observe(time.Since(start).Seconds())
}

// CacheHit records a lookup answered from the cache
func CacheHit() {
	cacheLookups.With(prometheus.Labels{"result": "hit"}).Inc()
}

// CacheMiss records a lookup that had to go upstream
func CacheMiss() {
	cacheLookups.With(prometheus.Labels{"result": "miss"}).Inc()
}

// StaleServed records a stale-on-error response
func StaleServed() {
	staleResponses.Inc()
}

// ObserveHandler records the time spent serving a request for route
func ObserveHandler(route string, start time.Time) {
	handlerDuration.With(prometheus.Labels{"route": route}).Observe(time.Since(start).Seconds())
}
