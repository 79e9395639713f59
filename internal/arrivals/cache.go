package arrivals

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/nextbus/internal/models"
)

// Snapshot is the content of the cache slot. A zero FetchedAt means no
// fetch has succeeded yet.
type Snapshot struct {
	FetchedAt time.Time
	FetchID   uuid.UUID
	Buses     []models.BusSummary
}

// Age returns how long ago the snapshot was fetched, relative to now
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Empty reports whether the snapshot predates the first successful fetch
func (s Snapshot) Empty() bool {
	return s.FetchedAt.IsZero()
}

// Cache holds the last successfully computed arrivals.
// Snapshots are replaced whole, so readers never see a partial update.
type Cache struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		snap: Snapshot{Buses: []models.BusSummary{}},
	}
}

// Snapshot returns the current cache content
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Store replaces the cache content
func (c *Cache) Store(s Snapshot) {
	if s.Buses == nil {
		s.Buses = []models.BusSummary{}
	}

	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}
