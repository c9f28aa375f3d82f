package trips

import (
	"strings"
	"testing"

	"carpool-service/pkg/apperrors"
)

func TestBuildListQueryNoFilters(t *testing.T) {
	q, args := buildListQuery(ListFilters{})
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
	if !strings.Contains(q, "status='active'") {
		t.Error("listing must be scoped to active trips")
	}
	if !strings.Contains(q, "ORDER BY created_at DESC") {
		t.Error("listing must be newest first")
	}
}

func TestBuildListQueryAllFilters(t *testing.T) {
	q, args := buildListQuery(ListFilters{Origin: "Ber", Destination: "Ham", Date: "2026-09-01"})
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[0] != "%Ber%" || args[1] != "%Ham%" {
		t.Errorf("substring filters not wrapped: %v", args)
	}
	if args[2] != "2026-09-01" {
		t.Errorf("date must match exactly, got %v", args[2])
	}
	if !strings.Contains(q, "origin ILIKE $1") || !strings.Contains(q, "destination ILIKE $2") {
		t.Errorf("case-insensitive matching missing: %s", q)
	}
	if !strings.Contains(q, "departure_date = $3") {
		t.Errorf("date filter missing: %s", q)
	}
}

func TestBuildListQueryPlaceholderNumbering(t *testing.T) {
	// With only a destination filter, it must bind $1.
	q, args := buildListQuery(ListFilters{Destination: "Ham"})
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	if !strings.Contains(q, "destination ILIKE $1") {
		t.Errorf("wrong placeholder: %s", q)
	}
}

func TestFilterKeyNormalisesCase(t *testing.T) {
	a := filterKey(ListFilters{Origin: "Berlin", Destination: "Hamburg"})
	b := filterKey(ListFilters{Origin: "berlin", Destination: "HAMBURG"})
	if a != b {
		t.Errorf("filter keys differ: %q vs %q", a, b)
	}
	c := filterKey(ListFilters{Origin: "Berlin", Destination: "Hamburg", Date: "2026-09-01"})
	if a == c {
		t.Error("date must distinguish filter keys")
	}
}

func TestValidateCreate(t *testing.T) {
	ok := CreateRequest{
		Origin: "Berlin", Destination: "Hamburg",
		DepartureDate: "2026-09-01", DepartureTime: "08:30",
		AvailableSeats: 3, PricePerSeat: 15.50,
	}
	if err := validateCreate(ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := []CreateRequest{
		func() CreateRequest { r := ok; r.Origin = ""; return r }(),
		func() CreateRequest { r := ok; r.Destination = "  "; return r }(),
		func() CreateRequest { r := ok; r.DepartureDate = "tomorrow"; return r }(),
		func() CreateRequest { r := ok; r.DepartureTime = "8h30"; return r }(),
		func() CreateRequest { r := ok; r.AvailableSeats = 0; return r }(),
		func() CreateRequest { r := ok; r.PricePerSeat = -1; return r }(),
	}
	for i, req := range bad {
		if err := validateCreate(req); !apperrors.IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestMockReturnMatchShape(t *testing.T) {
	m := mockReturnMatch("Berlin", "Hamburg")
	if m.Route != "Hamburg → Berlin" {
		t.Errorf("route must be reversed, got %q", m.Route)
	}
	if m.Passengers != 3 || m.EstimatedEarnings != 120 || m.MatchProbability != 95 {
		t.Errorf("fixed payload changed: %+v", m)
	}
}
