package routes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/pkg/apperrors"
	"carpool-service/pkg/observability"
	"carpool-service/pkg/validation"
)

// Service tracks per-passenger route search frequency.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a saved-route service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// RecordSearch upserts the (passenger, origin, destination) tuple in a
// single statement: first search creates the row with search_count=1,
// every repeat increments the counter. Concurrent searches for the
// same tuple cannot lose updates or create duplicates.
func (s *Service) RecordSearch(ctx context.Context, passengerID string, req RecordRequest) (*SavedRoute, error) {
	if !validation.ValidatePlace(req.Origin) {
		return nil, apperrors.Validation("origin is required")
	}
	if !validation.ValidatePlace(req.Destination) {
		return nil, apperrors.Validation("destination is required")
	}

	var r SavedRoute
	err := s.db.QueryRow(ctx,
		`INSERT INTO saved_routes (id, passenger_id, origin, destination)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (passenger_id, origin, destination)
		 DO UPDATE SET search_count = saved_routes.search_count + 1
		 RETURNING id, passenger_id, origin, destination, search_count, created_at`,
		uuid.New().String(), passengerID, req.Origin, req.Destination).
		Scan(&r.ID, &r.PassengerID, &r.Origin, &r.Destination, &r.SearchCount, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	observability.RouteSearches.Inc()
	return &r, nil
}

// List returns the caller's saved routes, most searched first.
func (s *Service) List(ctx context.Context, passengerID string) ([]SavedRoute, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, passenger_id, origin, destination, search_count, created_at
		 FROM saved_routes WHERE passenger_id=$1
		 ORDER BY search_count DESC, created_at DESC`, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SavedRoute{}
	for rows.Next() {
		var r SavedRoute
		if err := rows.Scan(&r.ID, &r.PassengerID, &r.Origin, &r.Destination, &r.SearchCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
