package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/you/nextbus/internal/arrivals"
)

// BusFetcher defines the arrivals operations the handlers need
type BusFetcher interface {
	Fetch(ctx context.Context, limit int) arrivals.Result
	Snapshot() arrivals.Snapshot
	StopID() string
	TTL() time.Duration
}

// BusHandler handles HTTP requests for upcoming buses
type BusHandler struct {
	fetcher BusFetcher
	now     func() time.Time
}

// NewBusHandler creates a new handler backed by the given fetcher
func NewBusHandler(fetcher BusFetcher) *BusHandler {
	return &BusHandler{fetcher: fetcher, now: time.Now}
}

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetBuses handles GET /buses
// Returns the soonest arrival per route using the default limit.
// Upstream failures are answered with the last known-good list, never a 5xx.
func (h *BusHandler) GetBuses(w http.ResponseWriter, r *http.Request) {
	res := h.fetcher.Fetch(r.Context(), 0)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", h.cacheControl(res))
	w.Header().Set("X-Data-Source", string(res.Source))
	if !res.FetchedAt.IsZero() {
		w.Header().Set("X-Fetch-Id", res.FetchID.String())
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(res.Buses)
}

// cacheControl lets clients keep the response until our own cache expires.
// Stale data is not cached downstream so clients pick up the recovery.
func (h *BusHandler) cacheControl(res arrivals.Result) string {
	if res.Source == arrivals.SourceStale || res.FetchedAt.IsZero() {
		return "no-cache"
	}

	remaining := h.fetcher.TTL() - h.now().Sub(res.FetchedAt)
	seconds := int(remaining / time.Second)
	if seconds <= 0 {
		return "no-cache"
	}
	return fmt.Sprintf("public, max-age=%d", seconds)
}

// NotFound answers unknown paths with a JSON error
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers known paths hit with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
