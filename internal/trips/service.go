package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/internal/events"
	"carpool-service/pkg/apperrors"
	"carpool-service/pkg/kafka"
	"carpool-service/pkg/observability"
	rredis "carpool-service/pkg/redis"
	"carpool-service/pkg/validation"
)

// Broadcaster pushes newly posted trips to live search subscribers.
type Broadcaster interface {
	BroadcastTrip(origin, destination string, trip any)
}

// Service contains trip business logic.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
	redis *rredis.Client
	live  Broadcaster
	log   *slog.Logger
}

// NewService creates a trip service.
func NewService(db *pgxpool.Pool, k *kafka.Client, r *rredis.Client, live Broadcaster, logger *slog.Logger) *Service {
	return &Service{db: db, kafka: k, redis: r, live: live, log: logger}
}

const tripColumns = `id,driver_id,origin,destination,
	to_char(departure_date,'YYYY-MM-DD'),
	to_char(departure_time,'HH24:MI'),
	available_seats,price_per_seat,status,is_return_trip,created_at,updated_at`

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	err := row.Scan(&t.ID, &t.DriverID, &t.Origin, &t.Destination,
		&t.DepartureDate, &t.DepartureTime,
		&t.AvailableSeats, &t.PricePerSeat, &t.Status, &t.IsReturnTrip,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// buildListQuery assembles the public search query. Origin and
// destination match as case-insensitive substrings, date exactly;
// only active trips are visible, newest postings first.
func buildListQuery(f ListFilters) (string, []any) {
	q := "SELECT " + tripColumns + " FROM trips WHERE status='active'"
	var args []any
	if f.Origin != "" {
		args = append(args, "%"+f.Origin+"%")
		q += fmt.Sprintf(" AND origin ILIKE $%d", len(args))
	}
	if f.Destination != "" {
		args = append(args, "%"+f.Destination+"%")
		q += fmt.Sprintf(" AND destination ILIKE $%d", len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		q += fmt.Sprintf(" AND departure_date = $%d", len(args))
	}
	return q + " ORDER BY created_at DESC", args
}

func filterKey(f ListFilters) string {
	return strings.ToLower(f.Origin) + "|" + strings.ToLower(f.Destination) + "|" + f.Date
}

// List returns active trips matching the filters, served from the
// search cache when a fresh copy exists.
func (s *Service) List(ctx context.Context, f ListFilters) ([]Trip, error) {
	key := filterKey(f)
	if cached, err := s.redis.GetCachedSearch(ctx, key); err == nil && cached != nil {
		var out []Trip
		if json.Unmarshal(cached, &out) == nil {
			return out, nil
		}
	}

	query, args := buildListQuery(f)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := s.redis.CacheSearch(ctx, key, data); err != nil {
			s.log.Warn("search cache write failed", "err", err)
		}
	}
	return out, nil
}

func validateCreate(req CreateRequest) error {
	if !validation.ValidatePlace(req.Origin) {
		return apperrors.Validation("origin is required")
	}
	if !validation.ValidatePlace(req.Destination) {
		return apperrors.Validation("destination is required")
	}
	if !validation.ValidateDate(req.DepartureDate) {
		return apperrors.Validation("departure_date must be YYYY-MM-DD")
	}
	if !validation.ValidateTime(req.DepartureTime) {
		return apperrors.Validation("departure_time must be HH:MM")
	}
	if !validation.ValidateSeats(req.AvailableSeats) {
		return apperrors.Validation("available_seats must be between 1 and 50")
	}
	if !validation.ValidatePrice(req.PricePerSeat) {
		return apperrors.Validation("price_per_seat must not be negative")
	}
	return nil
}

// Create posts a new trip owned by the calling driver.
func (s *Service) Create(ctx context.Context, driverID string, req CreateRequest) (*Trip, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	trip, err := scanTrip(s.db.QueryRow(ctx,
		`INSERT INTO trips (id,driver_id,origin,destination,departure_date,departure_time,
		                    available_seats,price_per_seat,is_return_trip)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING `+tripColumns,
		id, driverID, req.Origin, req.Destination, req.DepartureDate, req.DepartureTime,
		req.AvailableSeats, req.PricePerSeat, req.IsReturnTrip))
	if err != nil {
		return nil, err
	}

	observability.TripsCreated.Inc()
	if err := s.redis.InvalidateSearches(ctx); err != nil {
		s.log.Warn("search cache invalidation failed", "err", err)
	}
	s.live.BroadcastTrip(trip.Origin, trip.Destination, trip)

	go func() {
		ev := events.TripCreatedEvent{
			TripID:        trip.ID,
			DriverID:      driverID,
			Origin:        trip.Origin,
			Destination:   trip.Destination,
			DepartureDate: trip.DepartureDate,
			Seats:         trip.AvailableSeats,
			PricePerSeat:  trip.PricePerSeat,
			CreatedAt:     trip.CreatedAt.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicTripCreated, trip.ID, ev); err != nil {
			s.log.Error("publish trip.created failed", "trip_id", trip.ID, "err", err)
		}
	}()

	return trip, nil
}

// GetOwned fetches a trip owned by the caller. Foreign or absent trips
// both read as not found.
func (s *Service) GetOwned(ctx context.Context, driverID, id string) (*Trip, error) {
	trip, err := scanTrip(s.db.QueryRow(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE id=$1 AND driver_id=$2", id, driverID))
	if err != nil {
		return nil, apperrors.NotFound("trip not found")
	}
	return trip, nil
}

// Update applies a partial edit to a trip owned by the caller.
func (s *Service) Update(ctx context.Context, driverID, id string, req UpdateRequest) (*Trip, error) {
	if req.Status != nil && *req.Status != StatusActive && *req.Status != StatusCompleted && *req.Status != StatusCancelled {
		return nil, apperrors.Validation("status must be active, completed or cancelled")
	}
	if req.DepartureDate != nil && !validation.ValidateDate(*req.DepartureDate) {
		return nil, apperrors.Validation("departure_date must be YYYY-MM-DD")
	}
	if req.DepartureTime != nil && !validation.ValidateTime(*req.DepartureTime) {
		return nil, apperrors.Validation("departure_time must be HH:MM")
	}
	if req.AvailableSeats != nil && (*req.AvailableSeats < 0 || *req.AvailableSeats > 50) {
		return nil, apperrors.Validation("available_seats must be between 0 and 50")
	}
	if req.PricePerSeat != nil && !validation.ValidatePrice(*req.PricePerSeat) {
		return nil, apperrors.Validation("price_per_seat must not be negative")
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE trips SET
		   origin          = COALESCE($1, origin),
		   destination     = COALESCE($2, destination),
		   departure_date  = COALESCE($3::date, departure_date),
		   departure_time  = COALESCE($4::time, departure_time),
		   available_seats = COALESCE($5, available_seats),
		   price_per_seat  = COALESCE($6, price_per_seat),
		   status          = COALESCE($7, status),
		   is_return_trip  = COALESCE($8, is_return_trip),
		   updated_at      = NOW()
		 WHERE id=$9 AND driver_id=$10`,
		req.Origin, req.Destination, req.DepartureDate, req.DepartureTime,
		req.AvailableSeats, req.PricePerSeat, req.Status, req.IsReturnTrip,
		id, driverID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFound("trip not found")
	}

	if err := s.redis.InvalidateSearches(ctx); err != nil {
		s.log.Warn("search cache invalidation failed", "err", err)
	}
	return s.GetOwned(ctx, driverID, id)
}

// Delete removes a trip owned by the caller.
func (s *Service) Delete(ctx context.Context, driverID, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM trips WHERE id=$1 AND driver_id=$2", id, driverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("trip not found")
	}
	if err := s.redis.InvalidateSearches(ctx); err != nil {
		s.log.Warn("search cache invalidation failed", "err", err)
	}
	return nil
}

// ListOwned returns every trip owned by the caller, any status.
func (s *Service) ListOwned(ctx context.Context, driverID string) ([]Trip, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE driver_id=$1 ORDER BY created_at DESC", driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ReturnMatches derives the synthetic suggestion list from the
// caller's five most recent active trips.
func (s *Service) ReturnMatches(ctx context.Context, driverID string) ([]ReturnMatch, error) {
	rows, err := s.db.Query(ctx,
		`SELECT origin,destination FROM trips
		 WHERE driver_id=$1 AND status='active'
		 ORDER BY created_at DESC LIMIT 5`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []ReturnMatch{}
	for rows.Next() {
		var origin, destination string
		if err := rows.Scan(&origin, &destination); err != nil {
			return nil, err
		}
		matches = append(matches, mockReturnMatch(origin, destination))
	}
	return matches, rows.Err()
}

func mockReturnMatch(origin, destination string) ReturnMatch {
	return ReturnMatch{
		Route:             destination + " → " + origin,
		Passengers:        3,
		EstimatedEarnings: 120,
		MatchProbability:  95,
		TimeWindow:        "6:00 PM - 8:00 PM",
	}
}
