package routes

import "time"

// SavedRoute is a passenger's remembered search with a repeat counter.
type SavedRoute struct {
	ID          string    `json:"id"`
	PassengerID string    `json:"-"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	SearchCount int       `json:"search_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordRequest is the body for POST /trips/routes/saved.
type RecordRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}
