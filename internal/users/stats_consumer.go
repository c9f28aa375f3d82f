package users

import (
	"context"
	"encoding/json"

	"carpool-service/internal/events"
	"carpool-service/pkg/kafka"
)

// Product-tunable savings coefficients. A shared ride is assumed to
// save the passenger 35% of the seat price versus travelling alone,
// and 2.4 kg of CO2 per booked seat.
const (
	moneySavedShare = 0.35
	co2PerSeatKg    = 2.4
)

// StartBookingStatsConsumers keeps the profile counters in sync with
// the booking stream. All updates are single-statement relative
// increments so concurrent bookings never lose updates.
func (s *Service) StartBookingStatsConsumers(ctx context.Context, k *kafka.Client) {
	k.Subscribe(ctx, kafka.TopicBookingCreated, "user-stats-created", func(data []byte) error {
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return s.applyBookingStats(ctx, ev.DriverID, ev.PassengerID, ev.SeatsBooked, ev.TotalPrice, +1)
	})

	k.Subscribe(ctx, kafka.TopicBookingCancelled, "user-stats-cancelled", func(data []byte) error {
		var ev events.BookingCancelledEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return s.applyBookingStats(ctx, ev.DriverID, ev.PassengerID, ev.SeatsBooked, ev.TotalPrice, -1)
	})
}

func (s *Service) applyBookingStats(ctx context.Context, driverID, passengerID string, seats int, total float64, sign float64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE driver_profiles
		 SET total_trips = total_trips + $1, total_earnings = total_earnings + $2
		 WHERE user_id=$3`,
		int(sign), sign*total, driverID)
	if err != nil {
		s.log.Error("driver stats update failed", "driver_id", driverID, "err", err)
		return err
	}

	_, err = s.db.Exec(ctx,
		`UPDATE passenger_profiles
		 SET total_trips = total_trips + $1,
		     money_saved = money_saved + $2,
		     co2_saved   = co2_saved + $3
		 WHERE user_id=$4`,
		int(sign), sign*moneySavedShare*total, sign*co2PerSeatKg*float64(seats), passengerID)
	if err != nil {
		s.log.Error("passenger stats update failed", "passenger_id", passengerID, "err", err)
	}
	return err
}
