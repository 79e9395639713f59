package models

// BusSummary is one upcoming arrival as served by GET /buses.
// There is at most one summary per route in any response.
type BusSummary struct {
	Route string `json:"route"`

	// Destination is normally a string truncated at the first comma.
	// Non-string values reported upstream are passed through untouched.
	Destination any `json:"destination"`

	DueInMinutes int `json:"due_in_minutes"`
}
