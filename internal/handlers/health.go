package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/you/nextbus/internal/models"
)

// GetHealth handles GET /health
func GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.StatusResponse{Status: "ok"})
}

// GetDataFreshness handles GET /health/data
// Reports the age of the cached arrivals without triggering a fetch
func (h *BusHandler) GetDataFreshness(w http.ResponseWriter, r *http.Request) {
	snap := h.fetcher.Snapshot()

	freshness := models.DataFreshness{
		StopID:     h.fetcher.StopID(),
		AgeSeconds: -1,
		RouteCount: len(snap.Buses),
	}

	age := time.Duration(-1)
	if !snap.Empty() {
		age = max(snap.Age(h.now()), 0)
		fetchedAt := snap.FetchedAt.UTC()
		freshness.LastFetchedAt = &fetchedAt
		freshness.AgeSeconds = int(age.Seconds())
		freshness.FetchID = snap.FetchID.String()
	}
	freshness.Status = models.ClassifyFreshness(age, h.fetcher.TTL())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(freshness)
}
