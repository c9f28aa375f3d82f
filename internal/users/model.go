package users

import "time"

// User is an account with a role-specific profile attached.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"` // "driver" or "passenger"
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`

	DriverProfile    *DriverProfile    `json:"driver_profile,omitempty"`
	PassengerProfile *PassengerProfile `json:"passenger_profile,omitempty"`
}

// DriverProfile holds driver-only fields.
type DriverProfile struct {
	LicenseNumber string  `json:"license_number"`
	VehicleMake   string  `json:"vehicle_make"`
	VehicleModel  string  `json:"vehicle_model"`
	VehicleYear   int     `json:"vehicle_year"`
	VehicleSeats  int     `json:"vehicle_seats"`
	Rating        float64 `json:"rating"`
	TotalTrips    int     `json:"total_trips"`
	TotalEarnings float64 `json:"total_earnings"`
}

// PassengerProfile holds passenger-only fields.
type PassengerProfile struct {
	TotalTrips int     `json:"total_trips"`
	MoneySaved float64 `json:"money_saved"`
	CO2Saved   float64 `json:"co2_saved"`
}

// RegisterRequest is the body for POST /auth/register. The vehicle
// fields are required iff role is "driver".
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`

	LicenseNumber string `json:"license_number,omitempty"`
	VehicleMake   string `json:"vehicle_make,omitempty"`
	VehicleModel  string `json:"vehicle_model,omitempty"`
	VehicleYear   int    `json:"vehicle_year,omitempty"`
	VehicleSeats  int    `json:"vehicle_seats,omitempty"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair mirrors the access/refresh pair issued on register and login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is returned on register / login / refresh.
type AuthResponse struct {
	User   *User     `json:"user,omitempty"`
	Tokens TokenPair `json:"tokens"`
}

// UpdateProfileRequest is the body for PUT /users/profile. Nil fields
// are left unchanged; role is immutable and deliberately absent.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// DriverStats is the GET /users/stats payload for drivers.
type DriverStats struct {
	ActiveTrips   int     `json:"active_trips"`
	TotalTrips    int     `json:"total_trips"`
	TotalEarnings float64 `json:"total_earnings"`
	Rating        float64 `json:"rating"`
}

// PassengerStats is the GET /users/stats payload for passengers.
type PassengerStats struct {
	UpcomingRides int     `json:"upcoming_rides"`
	TotalTrips    int     `json:"total_trips"`
	MoneySaved    float64 `json:"money_saved"`
	CO2Saved      float64 `json:"co2_saved"`
}
