package bookings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/internal/events"
	"carpool-service/pkg/apperrors"
	"carpool-service/pkg/kafka"
	"carpool-service/pkg/observability"
	rredis "carpool-service/pkg/redis"
)

// Service contains booking business logic.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
	redis *rredis.Client
	log   *slog.Logger
}

// NewService creates a booking service.
func NewService(db *pgxpool.Pool, k *kafka.Client, r *rredis.Client, logger *slog.Logger) *Service {
	return &Service{db: db, kafka: k, redis: r, log: logger}
}

// checkAvailability enforces the seat invariant at reservation time.
func checkAvailability(available, requested int) error {
	if requested < 1 {
		return apperrors.Validation("seats_booked must be at least 1")
	}
	if available < requested {
		return apperrors.Validation("not enough available seats")
	}
	return nil
}

// priceFor computes the creation-time price snapshot.
func priceFor(pricePerSeat float64, seats int) float64 {
	return pricePerSeat * float64(seats)
}

// canTransition defines the allowed status changes after creation.
func canTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}

// Create reserves seats on a trip. The trip row is locked for the
// duration of the transaction, so concurrent bookings against the same
// trip serialize and the seat count can never go negative.
func (s *Service) Create(ctx context.Context, passengerID string, req CreateRequest) (*Booking, error) {
	if req.TripID == "" {
		return nil, apperrors.Validation("trip_id is required")
	}
	seats := req.SeatsBooked
	if seats == 0 {
		seats = 1
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		driverID     string
		pricePerSeat float64
		available    int
		tripStatus   string
	)
	err = tx.QueryRow(ctx,
		`SELECT driver_id, price_per_seat, available_seats, status
		 FROM trips WHERE id=$1 FOR UPDATE`, req.TripID).
		Scan(&driverID, &pricePerSeat, &available, &tripStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observability.BookingsRejected.Inc()
			return nil, apperrors.Validation("trip not found")
		}
		return nil, err
	}
	if tripStatus != "active" {
		observability.BookingsRejected.Inc()
		return nil, apperrors.Validation("trip is not active")
	}
	if err := checkAvailability(available, seats); err != nil {
		observability.BookingsRejected.Inc()
		return nil, err
	}

	b := &Booking{
		ID:          uuid.New().String(),
		TripID:      req.TripID,
		PassengerID: passengerID,
		SeatsBooked: seats,
		TotalPrice:  priceFor(pricePerSeat, seats),
		Status:      StatusPending,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (id,trip_id,passenger_id,seats_booked,total_price)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		b.ID, b.TripID, b.PassengerID, b.SeatsBooked, b.TotalPrice).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE trips SET available_seats = available_seats - $1, updated_at = NOW() WHERE id=$2`,
		seats, req.TripID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.BookingsCreated.Inc()
	if err := s.redis.InvalidateSearches(ctx); err != nil {
		s.log.Warn("search cache invalidation failed", "err", err)
	}

	go func() {
		ev := events.BookingCreatedEvent{
			BookingID:   b.ID,
			TripID:      b.TripID,
			DriverID:    driverID,
			PassengerID: passengerID,
			SeatsBooked: seats,
			TotalPrice:  b.TotalPrice,
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicBookingCreated, b.ID, ev); err != nil {
			s.log.Error("publish booking.created failed", "booking_id", b.ID, "err", err)
		}
	}()

	return b, nil
}

const bookingColumns = `b.id, b.trip_id, b.passenger_id, b.seats_booked, b.total_price, b.status,
	b.created_at, b.updated_at,
	t.id, t.driver_id, t.origin, t.destination,
	to_char(t.departure_date,'YYYY-MM-DD'), to_char(t.departure_time,'HH24:MI'),
	t.price_per_seat, t.status`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var t TripSummary
	err := row.Scan(&b.ID, &b.TripID, &b.PassengerID, &b.SeatsBooked, &b.TotalPrice, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
		&t.ID, &t.DriverID, &t.Origin, &t.Destination,
		&t.DepartureDate, &t.DepartureTime,
		&t.PricePerSeat, &t.Status)
	if err != nil {
		return nil, err
	}
	b.Trip = &t
	return &b, nil
}

// List returns the caller's bookings, newest first.
func (s *Service) List(ctx context.Context, passengerID string) ([]Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.passenger_id=$1
		 ORDER BY b.created_at DESC`, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// GetOwned fetches a booking owned by the caller. Foreign or absent
// bookings both read as not found.
func (s *Service) GetOwned(ctx context.Context, passengerID, id string) (*Booking, error) {
	b, err := scanBooking(s.db.QueryRow(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.id=$1 AND b.passenger_id=$2`, id, passengerID))
	if err != nil {
		return nil, apperrors.NotFound("booking not found")
	}
	return b, nil
}

// UpdateStatus applies a status transition to an owned booking. Seats
// and price are immutable after creation; cancelling returns the seats
// to the trip in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, passengerID, id, status string) (*Booking, error) {
	if status != StatusConfirmed && status != StatusCancelled {
		return nil, apperrors.Validation("status must be confirmed or cancelled")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		current  string
		tripID   string
		driverID string
		seats    int
		total    float64
	)
	err = tx.QueryRow(ctx,
		`SELECT b.status, b.trip_id, t.driver_id, b.seats_booked, b.total_price
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.id=$1 AND b.passenger_id=$2
		 FOR UPDATE OF b`, id, passengerID).
		Scan(&current, &tripID, &driverID, &seats, &total)
	if err != nil {
		return nil, apperrors.NotFound("booking not found")
	}
	if !canTransition(current, status) {
		return nil, apperrors.Validation("cannot change status from " + current + " to " + status)
	}

	if status == StatusCancelled {
		_, err = tx.Exec(ctx,
			`UPDATE trips SET available_seats = available_seats + $1, updated_at = NOW() WHERE id=$2`,
			seats, tripID)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE bookings SET status=$1, updated_at = NOW() WHERE id=$2`, status, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if status == StatusCancelled {
		if err := s.redis.InvalidateSearches(ctx); err != nil {
			s.log.Warn("search cache invalidation failed", "err", err)
		}
		s.publishCancelled(id, tripID, driverID, passengerID, seats, total)
	}

	return s.GetOwned(ctx, passengerID, id)
}

// Delete removes an owned booking. Unless it was already cancelled,
// the reserved seats go back to the trip atomically with the removal.
func (s *Service) Delete(ctx context.Context, passengerID, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		status   string
		tripID   string
		driverID string
		seats    int
		total    float64
	)
	err = tx.QueryRow(ctx,
		`SELECT b.status, b.trip_id, t.driver_id, b.seats_booked, b.total_price
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.id=$1 AND b.passenger_id=$2
		 FOR UPDATE OF b`, id, passengerID).
		Scan(&status, &tripID, &driverID, &seats, &total)
	if err != nil {
		return apperrors.NotFound("booking not found")
	}

	if status != StatusCancelled {
		_, err = tx.Exec(ctx,
			`UPDATE trips SET available_seats = available_seats + $1, updated_at = NOW() WHERE id=$2`,
			seats, tripID)
		if err != nil {
			return err
		}
	}
	if _, err = tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if status != StatusCancelled {
		if err := s.redis.InvalidateSearches(ctx); err != nil {
			s.log.Warn("search cache invalidation failed", "err", err)
		}
		s.publishCancelled(id, tripID, driverID, passengerID, seats, total)
	}
	return nil
}

func (s *Service) publishCancelled(bookingID, tripID, driverID, passengerID string, seats int, total float64) {
	go func() {
		ev := events.BookingCancelledEvent{
			BookingID:   bookingID,
			TripID:      tripID,
			DriverID:    driverID,
			PassengerID: passengerID,
			SeatsBooked: seats,
			TotalPrice:  total,
			CancelledAt: time.Now().Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicBookingCancelled, bookingID, ev); err != nil {
			s.log.Error("publish booking.cancelled failed", "booking_id", bookingID, "err", err)
		}
	}()
}
