package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officebook",
			Name:      "bookings_total",
			Help:      "Count of booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officebook",
			Name:      "cache_lookups_total",
			Help:      "Count of cache lookups by entity and result.",
		},
		[]string{"entity", "result"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "officebook",
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by the rate limiter.",
		},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officebook",
			Name:      "notifications_sent_total",
			Help:      "Count of notification attempts by channel and status.",
		},
		[]string{"channel", "status"},
	)

	bookingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "officebook",
			Name:      "booking_duration_seconds",
			Help:      "Time to run the booking workflow.",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 2, 5},
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsTotal, cacheLookups, rateLimited, notificationsSent, bookingDuration)
	})
}

func IncBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
}

func IncCacheLookup(entity, result string) {
	cacheLookups.WithLabelValues(entity, result).Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}

func IncNotification(channel, status string) {
	notificationsSent.WithLabelValues(channel, status).Inc()
}

func ObserveBookingDuration(seconds float64) {
	bookingDuration.Observe(seconds)
}
