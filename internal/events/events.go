package events

// TripCreatedEvent is published to trip.created.
type TripCreatedEvent struct {
	TripID        string  `json:"trip_id"`
	DriverID      string  `json:"driver_id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	Seats         int     `json:"seats"`
	PricePerSeat  float64 `json:"price_per_seat"`
	CreatedAt     string  `json:"created_at"`
}

// BookingCreatedEvent is published to booking.created.
type BookingCreatedEvent struct {
	BookingID   string  `json:"booking_id"`
	TripID      string  `json:"trip_id"`
	DriverID    string  `json:"driver_id"`
	PassengerID string  `json:"passenger_id"`
	SeatsBooked int     `json:"seats_booked"`
	TotalPrice  float64 `json:"total_price"`
	CreatedAt   string  `json:"created_at"`
}

// BookingCancelledEvent is published to booking.cancelled. It carries
// the same amounts as the created event so stat increments can be
// reversed exactly.
type BookingCancelledEvent struct {
	BookingID   string  `json:"booking_id"`
	TripID      string  `json:"trip_id"`
	DriverID    string  `json:"driver_id"`
	PassengerID string  `json:"passenger_id"`
	SeatsBooked int     `json:"seats_booked"`
	TotalPrice  float64 `json:"total_price"`
	CancelledAt string  `json:"cancelled_at"`
}
