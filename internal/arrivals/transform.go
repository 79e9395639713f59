package arrivals

import (
	"sort"
	"strings"

	"github.com/you/nextbus/internal/models"
	"github.com/you/nextbus/internal/tfl"
)

// TruncateDestination returns the destination text up to the first comma,
// trimmed. Values that are not strings are returned as they are.
func TruncateDestination(name any) any {
	s, ok := name.(string)
	if !ok {
		return name
	}
	before, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(before)
}

// dueInMinutes converts seconds to whole minutes, never below zero
func dueInMinutes(timeToStation int) int {
	return max(timeToStation/60, 0)
}

// NextBuses keeps the soonest arrival of each route, soonest first, up to
// limit routes. The input slice is not modified.
func NextBuses(arrivals []tfl.Arrival, limit int) []models.BusSummary {
	if limit <= 0 {
		return []models.BusSummary{}
	}

	sorted := make([]tfl.Arrival, len(arrivals))
	copy(sorted, arrivals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeToStation < sorted[j].TimeToStation
	})

	buses := make([]models.BusSummary, 0, min(limit, len(sorted)))
	seenRoutes := make(map[string]bool)

	for _, a := range sorted {
		if len(buses) >= limit {
			break
		}
		if seenRoutes[a.LineName] {
			continue
		}
		seenRoutes[a.LineName] = true

		buses = append(buses, models.BusSummary{
			Route:        a.LineName,
			Destination:  TruncateDestination(a.DestinationName),
			DueInMinutes: dueInMinutes(a.TimeToStation),
		})
	}

	return buses
}
