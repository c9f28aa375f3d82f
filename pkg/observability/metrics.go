// Package observability holds the Prometheus metrics exported at /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TripsCreated    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "trips_created_total", Help: "Trips posted by drivers"})
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "bookings_created_total", Help: "Bookings accepted"})
	BookingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carpool", Name: "bookings_rejected_total",
		Help: "Booking attempts rejected for missing trips or insufficient seats",
	})
	RouteSearches = promauto.NewCounter(prometheus.CounterOpts{Namespace: "carpool", Name: "route_searches_total", Help: "Saved-route search recordings"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carpool",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)
