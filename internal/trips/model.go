package trips

import "time"

// TripStatus enumerates the lifecycle states.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Trip is a driver-posted ride offering with fixed seats and price.
type Trip struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driver_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureDate  string    `json:"departure_date"` // YYYY-MM-DD
	DepartureTime  string    `json:"departure_time"` // HH:MM
	AvailableSeats int       `json:"available_seats"`
	PricePerSeat   float64   `json:"price_per_seat"`
	Status         string    `json:"status"`
	IsReturnTrip   bool      `json:"is_return_trip"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListFilters are the query parameters for GET /trips.
type ListFilters struct {
	Origin      string
	Destination string
	Date        string
}

// CreateRequest is the body for POST /trips.
type CreateRequest struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureDate  string  `json:"departure_date"`
	DepartureTime  string  `json:"departure_time"`
	AvailableSeats int     `json:"available_seats"`
	PricePerSeat   float64 `json:"price_per_seat"`
	IsReturnTrip   bool    `json:"is_return_trip"`
}

// UpdateRequest is the body for PUT /trips/{id}. Nil fields are left
// unchanged.
type UpdateRequest struct {
	Origin         *string  `json:"origin,omitempty"`
	Destination    *string  `json:"destination,omitempty"`
	DepartureDate  *string  `json:"departure_date,omitempty"`
	DepartureTime  *string  `json:"departure_time,omitempty"`
	AvailableSeats *int     `json:"available_seats,omitempty"`
	PricePerSeat   *float64 `json:"price_per_seat,omitempty"`
	Status         *string  `json:"status,omitempty"`
	IsReturnTrip   *bool    `json:"is_return_trip,omitempty"`
}

// ReturnMatch is one synthetic suggestion from GET /trips/return-matches.
// The payload is a placeholder; there is no matching algorithm behind it.
type ReturnMatch struct {
	Route             string `json:"route"`
	Passengers        int    `json:"passengers"`
	EstimatedEarnings int    `json:"estimated_earnings"`
	MatchProbability  int    `json:"match_probability"`
	TimeWindow        string `json:"time_window"`
}
