package arrivals

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/you/nextbus/internal/models"
)

func TestCacheStartsEmpty(t *testing.T) {
	cache := NewCache()

	snap := cache.Snapshot()
	assert.True(t, snap.Empty())
	assert.NotNil(t, snap.Buses)
	assert.Empty(t, snap.Buses)
}

func TestCacheStoreReplacesSnapshot(t *testing.T) {
	cache := NewCache()
	fetchedAt := time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)
	id := uuid.New()

	cache.Store(Snapshot{
		FetchedAt: fetchedAt,
		FetchID:   id,
		Buses:     []models.BusSummary{{Route: "18", Destination: "Euston", DueInMinutes: 2}},
	})

	snap := cache.Snapshot()
	assert.False(t, snap.Empty())
	assert.Equal(t, id, snap.FetchID)
	assert.Equal(t, 15*time.Second, snap.Age(fetchedAt.Add(15*time.Second)))
	assert.Len(t, snap.Buses, 1)

	cache.Store(Snapshot{FetchedAt: fetchedAt.Add(time.Minute)})
	assert.NotNil(t, cache.Snapshot().Buses)
	assert.Empty(t, cache.Snapshot().Buses)
}

func TestCacheConcurrency(t *testing.T) {
	cache := NewCache()
	base := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Store(Snapshot{
					FetchedAt: base.Add(time.Duration(j) * time.Second),
					Buses:     make([]models.BusSummary, n),
				})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Snapshot()
			}
		}()
	}
	wg.Wait()
}
