package bookings

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"carpool-service/migrations"
	"carpool-service/pkg/apperrors"
	"carpool-service/pkg/db"
	"carpool-service/pkg/kafka"
	"carpool-service/pkg/logging"
	rredis "carpool-service/pkg/redis"
)

// newTestService connects to the database named by DATABASE_URL, or
// skips the test when it is unset.
func newTestService(t *testing.T) (*Service, *db.DB) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(database.Close)

	if err := database.RunMigrations(ctx, migrations.FS); err != nil {
		t.Fatal(err)
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	svc := NewService(database.Pool,
		kafka.NewClient(strings.Split(brokers, ",")),
		rredis.New(redisAddr),
		logging.NewLogger("error"))
	return svc, database
}

// seedTrip inserts a driver, a passenger and a trip, and returns the
// trip and passenger ids. Rows cascade-delete with the users.
func seedTrip(t *testing.T, database *db.DB, seats int, price float64) (tripID, passengerID string) {
	t.Helper()
	ctx := context.Background()

	driverID := uuid.New().String()
	passengerID = uuid.New().String()
	tripID = uuid.New().String()

	for _, u := range []struct{ id, name, role string }{
		{driverID, "drv-" + driverID[:8], "driver"},
		{passengerID, "pas-" + passengerID[:8], "passenger"},
	} {
		_, err := database.Pool.Exec(ctx,
			`INSERT INTO users (id,username,email,password_hash,role)
			 VALUES ($1,$2,$2||'@test.local','x',$3)`,
			u.id, u.name, u.role)
		if err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(func() {
		database.Pool.Exec(ctx, `DELETE FROM users WHERE id IN ($1,$2)`, driverID, passengerID)
	})

	_, err := database.Pool.Exec(ctx,
		`INSERT INTO trips (id,driver_id,origin,destination,departure_date,departure_time,available_seats,price_per_seat)
		 VALUES ($1,$2,'Berlin','Hamburg','2026-09-01','08:30',$3,$4)`,
		tripID, driverID, seats, price)
	if err != nil {
		t.Fatal(err)
	}
	return tripID, passengerID
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	tripID, passengerID := seedTrip(t, database, 2, 10.00)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, passengerID, CreateRequest{TripID: tripID, SeatsBooked: 1})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.IsValidation(err):
			// rejected cleanly
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 2 {
		t.Errorf("expected exactly 2 successful bookings on a 2-seat trip, got %d", successes)
	}

	var remaining int
	if err := database.Pool.QueryRow(ctx,
		`SELECT available_seats FROM trips WHERE id=$1`, tripID).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("expected 0 seats remaining, got %d", remaining)
	}
	if remaining < 0 {
		t.Error("available_seats went negative")
	}
}

func TestBookingDrainsTripThenRejects(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	tripID, passengerID := seedTrip(t, database, 2, 10.00)

	b, err := svc.Create(ctx, passengerID, CreateRequest{TripID: tripID, SeatsBooked: 2})
	if err != nil {
		t.Fatal(err)
	}
	if b.TotalPrice != 20.00 {
		t.Errorf("total_price = %v, want 20.00", b.TotalPrice)
	}

	if _, err := svc.Create(ctx, passengerID, CreateRequest{TripID: tripID, SeatsBooked: 1}); !apperrors.IsValidation(err) {
		t.Errorf("expected rejection on drained trip, got %v", err)
	}

	var remaining int
	if err := database.Pool.QueryRow(ctx,
		`SELECT available_seats FROM trips WHERE id=$1`, tripID).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("rejected booking changed seat count: %d", remaining)
	}
}
