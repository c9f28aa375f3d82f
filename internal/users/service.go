package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"carpool-service/pkg/apperrors"
	"carpool-service/pkg/jwt"
	"carpool-service/pkg/validation"
)

// New driver profiles start at the top rating.
const defaultDriverRating = 5.0

// mapUniqueViolation converts a PostgreSQL unique violation into the
// Conflict error the uniqueness pre-checks promise. Two concurrent
// registrations can both pass the pre-check and race to the INSERT;
// the loser lands here.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperrors.Conflict("email already exists")
		}
		return apperrors.Conflict("username already exists")
	}
	return err
}

// Service contains account and profile business logic.
type Service struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

// NewService creates a user service backed by the given pool.
func NewService(db *pgxpool.Pool, logger *slog.Logger) *Service {
	return &Service{db: db, log: logger}
}

// validateRegister applies all field-level registration rules. Nothing
// is persisted unless this passes.
func validateRegister(req RegisterRequest) error {
	if !validation.ValidateUsername(req.Username) {
		return apperrors.Validation("username must be 2-150 characters")
	}
	if !validation.ValidateEmail(req.Email) {
		return apperrors.Validation("invalid email")
	}
	if !validation.ValidatePassword(req.Password) {
		return apperrors.Validation("password must be 6-100 characters")
	}
	if req.Password != req.Password2 {
		return apperrors.Validation("password fields didn't match")
	}
	if !validation.ValidateRole(req.Role) {
		return apperrors.Validation("role must be driver or passenger")
	}
	if req.Phone != "" && !validation.ValidatePhone(req.Phone) {
		return apperrors.Validation("invalid phone number")
	}
	if req.Role == jwt.RoleDriver {
		switch {
		case req.LicenseNumber == "":
			return apperrors.Validation("license_number is required for drivers")
		case req.VehicleMake == "":
			return apperrors.Validation("vehicle_make is required for drivers")
		case req.VehicleModel == "":
			return apperrors.Validation("vehicle_model is required for drivers")
		case req.VehicleYear == 0:
			return apperrors.Validation("vehicle_year is required for drivers")
		case !validation.ValidateSeats(req.VehicleSeats):
			return apperrors.Validation("vehicle_seats is required for drivers")
		}
	}
	return nil
}

// Register creates a new account plus its role profile and returns a
// token pair. The user row and profile row are inserted in one
// transaction so a failed profile insert leaves no orphan account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)", req.Username).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("username already exists")
	}
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)", req.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO users (id,username,email,password_hash,first_name,last_name,role,phone)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		id, req.Username, req.Email, string(hash), req.FirstName, req.LastName, req.Role, req.Phone)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	u := &User{
		ID: id, Username: req.Username, Email: req.Email,
		FirstName: req.FirstName, LastName: req.LastName,
		Role: req.Role, Phone: req.Phone,
	}

	if req.Role == jwt.RoleDriver {
		_, err = tx.Exec(ctx,
			`INSERT INTO driver_profiles (user_id,license_number,vehicle_make,vehicle_model,vehicle_year,vehicle_seats,rating)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			id, req.LicenseNumber, req.VehicleMake, req.VehicleModel, req.VehicleYear, req.VehicleSeats, defaultDriverRating)
		u.DriverProfile = &DriverProfile{
			LicenseNumber: req.LicenseNumber,
			VehicleMake:   req.VehicleMake,
			VehicleModel:  req.VehicleModel,
			VehicleYear:   req.VehicleYear,
			VehicleSeats:  req.VehicleSeats,
			Rating:        defaultDriverRating,
		}
	} else {
		_, err = tx.Exec(ctx, `INSERT INTO passenger_profiles (user_id) VALUES ($1)`, id)
		u.PassengerProfile = &PassengerProfile{}
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	access, refresh, err := jwt.GeneratePair(id, req.Email, req.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", id, "role", req.Role)
	return &AuthResponse{User: u, Tokens: TokenPair{Access: access, Refresh: refresh}}, nil
}

// Login authenticates a user and returns a token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id,username,email,password_hash,first_name,last_name,role,phone,created_at
		 FROM users WHERE email=$1`, req.Email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.FirstName, &u.LastName, &u.Role, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, apperrors.Validation("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.Validation("invalid credentials")
	}

	access, refresh, err := jwt.GeneratePair(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: &u, Tokens: TokenPair{Access: access, Refresh: refresh}}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, raw string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefresh(raw)
	if err != nil {
		return nil, apperrors.Validation("invalid refresh token")
	}

	// The account may have been removed since the token was issued.
	var exists bool
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)", claims.UserID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.Validation("invalid refresh token")
	}

	access, refresh, err := jwt.GeneratePair(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Tokens: TokenPair{Access: access, Refresh: refresh}}, nil
}

// GetProfile fetches a user with its role profile attached.
func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id,username,email,first_name,last_name,role,phone,created_at
		 FROM users WHERE id=$1`, userID).
		Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, apperrors.NotFound("user not found")
	}

	if u.Role == jwt.RoleDriver {
		var p DriverProfile
		err = s.db.QueryRow(ctx,
			`SELECT license_number,vehicle_make,vehicle_model,vehicle_year,vehicle_seats,rating,total_trips,total_earnings
			 FROM driver_profiles WHERE user_id=$1`, userID).
			Scan(&p.LicenseNumber, &p.VehicleMake, &p.VehicleModel, &p.VehicleYear,
				&p.VehicleSeats, &p.Rating, &p.TotalTrips, &p.TotalEarnings)
		if err == nil {
			u.DriverProfile = &p
		}
	} else {
		var p PassengerProfile
		err = s.db.QueryRow(ctx,
			`SELECT total_trips,money_saved,co2_saved FROM passenger_profiles WHERE user_id=$1`, userID).
			Scan(&p.TotalTrips, &p.MoneySaved, &p.CO2Saved)
		if err == nil {
			u.PassengerProfile = &p
		}
	}
	return &u, nil
}

// UpdateProfile applies a partial self-service update. Role is not an
// updatable column.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error) {
	if req.Email != nil && !validation.ValidateEmail(*req.Email) {
		return nil, apperrors.Validation("invalid email")
	}
	if req.Phone != nil && *req.Phone != "" && !validation.ValidatePhone(*req.Phone) {
		return nil, apperrors.Validation("invalid phone number")
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET
		   first_name = COALESCE($1, first_name),
		   last_name  = COALESCE($2, last_name),
		   email      = COALESCE($3, email),
		   phone      = COALESCE($4, phone),
		   updated_at = NOW()
		 WHERE id=$5`,
		req.FirstName, req.LastName, req.Email, req.Phone, userID)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFound("user not found")
	}
	return s.GetProfile(ctx, userID)
}

// Stats returns the role-specific dashboard numbers.
func (s *Service) Stats(ctx context.Context, userID, role string) (any, error) {
	if role == jwt.RoleDriver {
		var st DriverStats
		err := s.db.QueryRow(ctx,
			`SELECT total_trips,total_earnings,rating FROM driver_profiles WHERE user_id=$1`, userID).
			Scan(&st.TotalTrips, &st.TotalEarnings, &st.Rating)
		if err != nil {
			return nil, apperrors.NotFound("driver profile not found")
		}
		if err := s.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM trips WHERE driver_id=$1 AND status='active'`, userID).
			Scan(&st.ActiveTrips); err != nil {
			return nil, err
		}
		return &st, nil
	}

	var st PassengerStats
	err := s.db.QueryRow(ctx,
		`SELECT total_trips,money_saved,co2_saved FROM passenger_profiles WHERE user_id=$1`, userID).
		Scan(&st.TotalTrips, &st.MoneySaved, &st.CO2Saved)
	if err != nil {
		return nil, apperrors.NotFound("passenger profile not found")
	}
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE passenger_id=$1 AND status='confirmed'`, userID).
		Scan(&st.UpcomingRides); err != nil {
		return nil, err
	}
	return &st, nil
}
