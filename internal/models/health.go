package models

import "time"

// StatusResponse is the JSON body for GET /health
type StatusResponse struct {
	Status string `json:"status"`
}

// DataFreshness describes how old the cached arrivals are
type DataFreshness struct {
	StopID        string     `json:"stopId"`
	LastFetchedAt *time.Time `json:"lastFetchedAt"`
	AgeSeconds    int        `json:"ageSeconds"`
	Status        string     `json:"status"` // "fresh", "stale", "unavailable"
	RouteCount    int        `json:"routeCount"`
	FetchID       string     `json:"fetchId,omitempty"`
}

// Freshness of the cached arrivals, measured in cache TTLs. Each TTL
// that passes without a successful fetch is one missed refresh.
const (
	FreshnessFresh       = "fresh"       // at most two refreshes missed
	FreshnessStale       = "stale"       // the upstream has been failing for a while
	FreshnessUnavailable = "unavailable" // nothing cached, or too old to be useful
)

const (
	freshRefreshes = 3
	staleRefreshes = 15
)

// ClassifyFreshness grades a cache age against the cache TTL. With the
// default 20s TTL, arrivals are fresh below one minute and stale below
// five. A negative age means nothing has been fetched yet.
func ClassifyFreshness(age, ttl time.Duration) string {
	switch {
	case age < 0 || ttl <= 0:
		return FreshnessUnavailable
	case age < freshRefreshes*ttl:
		return FreshnessFresh
	case age < staleRefreshes*ttl:
		return FreshnessStale
	default:
		return FreshnessUnavailable
	}
}
