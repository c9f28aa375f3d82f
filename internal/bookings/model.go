package bookings

import "time"

// BookingStatus enumerates the lifecycle states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a passenger's reservation against a trip. TotalPrice is a
// snapshot taken at creation time and never recomputed.
type Booking struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	PassengerID string    `json:"passenger_id"`
	SeatsBooked int       `json:"seats_booked"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Trip *TripSummary `json:"trip,omitempty"`
}

// TripSummary is the slice of the trip embedded in booking responses.
type TripSummary struct {
	ID            string  `json:"id"`
	DriverID      string  `json:"driver_id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time"`
	PricePerSeat  float64 `json:"price_per_seat"`
	Status        string  `json:"status"`
}

// CreateRequest is the body for POST /trips/bookings. SeatsBooked
// defaults to 1.
type CreateRequest struct {
	TripID      string `json:"trip_id"`
	SeatsBooked int    `json:"seats_booked"`
}

// UpdateRequest is the body for PUT /trips/bookings/{id}. Only the
// status can change after creation.
type UpdateRequest struct {
	Status string `json:"status"`
}
