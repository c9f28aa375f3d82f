package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":            true,
		"user.name@host.io": true,
		"":                  false,
		"no-at-sign":        false,
		"x@y":               false,
	}
	for in, want := range cases {
		if got := ValidateEmail(in); got != want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	if !ValidatePhone("+15551234567") {
		t.Error("expected valid E.164 phone")
	}
	if ValidatePhone("abc") {
		t.Error("expected invalid phone")
	}
}

func TestValidateRole(t *testing.T) {
	if !ValidateRole("driver") || !ValidateRole("passenger") {
		t.Error("driver and passenger must be valid roles")
	}
	if ValidateRole("admin") || ValidateRole("") {
		t.Error("unknown roles must be rejected")
	}
}

func TestValidateDateTime(t *testing.T) {
	if !ValidateDate("2026-09-01") {
		t.Error("expected valid date")
	}
	if ValidateDate("01/09/2026") || ValidateDate("2026-13-01") {
		t.Error("expected invalid date")
	}
	if !ValidateTime("08:30") || !ValidateTime("08:30:15") {
		t.Error("expected valid times")
	}
	if ValidateTime("25:00") {
		t.Error("expected invalid time")
	}
}

func TestValidateSeatsAndPrice(t *testing.T) {
	if ValidateSeats(0) || ValidateSeats(51) {
		t.Error("seats out of range must be rejected")
	}
	if !ValidateSeats(1) || !ValidateSeats(4) {
		t.Error("expected valid seat counts")
	}
	if ValidatePrice(-0.01) {
		t.Error("negative price must be rejected")
	}
	if !ValidatePrice(0) {
		t.Error("zero price is allowed")
	}
}
