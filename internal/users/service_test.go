package users

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"carpool-service/pkg/apperrors"
)

func passengerReq() RegisterRequest {
	return RegisterRequest{
		Username:  "ana",
		Email:     "ana@example.com",
		Password:  "secret1",
		Password2: "secret1",
		Role:      "passenger",
	}
}

func driverReq() RegisterRequest {
	r := passengerReq()
	r.Username = "bob"
	r.Email = "bob@example.com"
	r.Role = "driver"
	r.LicenseNumber = "DL-123"
	r.VehicleMake = "Toyota"
	r.VehicleModel = "Prius"
	r.VehicleYear = 2020
	r.VehicleSeats = 4
	return r
}

func TestValidateRegisterOK(t *testing.T) {
	if err := validateRegister(passengerReq()); err != nil {
		t.Errorf("valid passenger rejected: %v", err)
	}
	if err := validateRegister(driverReq()); err != nil {
		t.Errorf("valid driver rejected: %v", err)
	}
}

func TestValidateRegisterPasswordMismatch(t *testing.T) {
	req := passengerReq()
	req.Password2 = "different"
	err := validateRegister(req)
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestValidateRegisterBadRole(t *testing.T) {
	req := passengerReq()
	req.Role = "admin"
	if err := validateRegister(req); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestValidateRegisterDriverMissingVehicleFields(t *testing.T) {
	mutations := []func(*RegisterRequest){
		func(r *RegisterRequest) { r.LicenseNumber = "" },
		func(r *RegisterRequest) { r.VehicleMake = "" },
		func(r *RegisterRequest) { r.VehicleModel = "" },
		func(r *RegisterRequest) { r.VehicleYear = 0 },
		func(r *RegisterRequest) { r.VehicleSeats = 0 },
	}
	for i, mutate := range mutations {
		req := driverReq()
		mutate(&req)
		if err := validateRegister(req); !apperrors.IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestValidateRegisterPassengerSkipsVehicleFields(t *testing.T) {
	// Passengers never need vehicle fields, even empty ones.
	req := passengerReq()
	req.LicenseNumber = ""
	req.VehicleSeats = 0
	if err := validateRegister(req); err != nil {
		t.Errorf("passenger rejected for missing vehicle fields: %v", err)
	}
}

func TestValidateRegisterShortPassword(t *testing.T) {
	req := passengerReq()
	req.Password = "abc"
	req.Password2 = "abc"
	if err := validateRegister(req); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestMapUniqueViolation(t *testing.T) {
	// A registration that races past the pre-checks loses at the
	// UNIQUE constraint; that must surface as 409, not 500.
	emailErr := mapUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if apperrors.StatusOf(emailErr) != http.StatusConflict {
		t.Errorf("email violation mapped to %d, want 409", apperrors.StatusOf(emailErr))
	}
	if emailErr.Error() != "email already exists" {
		t.Errorf("unexpected message %q", emailErr.Error())
	}

	userErr := mapUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	if apperrors.StatusOf(userErr) != http.StatusConflict {
		t.Errorf("username violation mapped to %d, want 409", apperrors.StatusOf(userErr))
	}

	wrapped := mapUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}))
	if apperrors.StatusOf(wrapped) != http.StatusConflict {
		t.Error("mapping must see through wrapped errors")
	}

	// Anything else passes through untouched.
	plain := errors.New("connection reset")
	if got := mapUniqueViolation(plain); got != plain {
		t.Errorf("non-unique error rewritten: %v", got)
	}
	fk := mapUniqueViolation(&pgconn.PgError{Code: "23503"})
	if apperrors.StatusOf(fk) != http.StatusInternalServerError {
		t.Error("foreign-key violations must not map to conflict")
	}
}
