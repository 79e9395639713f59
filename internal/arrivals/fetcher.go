package arrivals

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/you/nextbus/internal/metrics"
	"github.com/you/nextbus/internal/models"
	"github.com/you/nextbus/internal/tfl"
)

const (
	DefaultLimit = 5
	DefaultTTL   = 20 * time.Second
)

// Source is where Fetch got its data from
type Source string

const (
	SourceCache    Source = "cache"
	SourceUpstream Source = "upstream"
	SourceStale    Source = "stale"
)

// ArrivalsSource fetches raw arrivals for a stop
type ArrivalsSource interface {
	FetchArrivals(ctx context.Context, stopID string) ([]tfl.Arrival, error)
}

// Options configures a Fetcher
type Options struct {
	StopID       string
	DefaultLimit int
	TTL          time.Duration

	// Now is the clock. If nil, time.Now is used.
	Now func() time.Time
}

// Result is the outcome of one Fetch call
type Result struct {
	Buses     []models.BusSummary
	FetchedAt time.Time
	FetchID   uuid.UUID
	Source    Source

	// Err is the upstream failure behind a stale result
	Err error
}

// Fetcher serves the soonest arrivals per route for one stop, going
// upstream at most once per TTL while the upstream is healthy
type Fetcher struct {
	source       ArrivalsSource
	cache        *Cache
	stopID       string
	defaultLimit int
	ttl          time.Duration
	now          func() time.Time
}

// NewFetcher creates a fetcher that reads and writes cache
func NewFetcher(source ArrivalsSource, cache *Cache, opts Options) *Fetcher {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Fetcher{
		source:       source,
		cache:        cache,
		stopID:       opts.StopID,
		defaultLimit: opts.DefaultLimit,
		ttl:          opts.TTL,
		now:          opts.Now,
	}
}

// StopID returns the stop this fetcher serves
func (f *Fetcher) StopID() string {
	return f.stopID
}

// TTL returns how long a successful fetch is served from cache
func (f *Fetcher) TTL() time.Duration {
	return f.ttl
}

// Snapshot returns the cache content without triggering a fetch
func (f *Fetcher) Snapshot() Snapshot {
	return f.cache.Snapshot()
}

// GetNextBuses returns up to limit upcoming buses, one per route.
// A limit of zero or less means the configured default.
func (f *Fetcher) GetNextBuses(ctx context.Context, limit int) []models.BusSummary {
	return f.Fetch(ctx, limit).Buses
}

// Fetch is GetNextBuses with provenance. It never fails: when the
// upstream call does, the last known-good result is returned with
// Source set to SourceStale.
func (f *Fetcher) Fetch(ctx context.Context, limit int) Result {
	if limit <= 0 {
		limit = f.defaultLimit
	}

	now := f.now()
	cached := f.cache.Snapshot()

	if !cached.Empty() && cached.Age(now) < f.ttl {
		metrics.CacheHit()
		return resultFrom(cached, SourceCache, nil)
	}
	metrics.CacheMiss()

	arrivals, err := f.source.FetchArrivals(ctx, f.stopID)
	if err != nil {
		log.Printf("TfL API error: %v", err)
		metrics.StaleServed()
		return resultFrom(cached, SourceStale, err)
	}

	snap := Snapshot{
		FetchedAt: now,
		FetchID:   uuid.New(),
		Buses:     NextBuses(arrivals, limit),
	}
	f.cache.Store(snap)

	log.Printf("Arrivals: stop %s has %d routes due (fetch %s)", f.stopID, len(snap.Buses), snap.FetchID)
	return resultFrom(snap, SourceUpstream, nil)
}

// resultFrom copies the buses so callers cannot write through to the cache
func resultFrom(s Snapshot, source Source, err error) Result {
	return Result{
		Buses:     slices.Clone(s.Buses),
		FetchedAt: s.FetchedAt,
		FetchID:   s.FetchID,
		Source:    source,
		Err:       err,
	}
}
