package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sportclub"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	availabilityLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_lookups_total",
			Help:      "Availability resolutions by outcome.",
		},
		[]string{"result"},
	)

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations successfully created.",
		},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Reservation attempts rejected because the slot was taken.",
		},
	)

	maintenanceTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_transitions_total",
			Help:      "Reservations touched by lifecycle maintenance, by kind.",
		},
		[]string{"kind"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			availabilityLookups,
			reservationsCreated,
			reservationConflicts,
			maintenanceTransitions,
			notifications,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncAvailability records a lookup; result is "ok", "empty" or "error".
func IncAvailability(result string) {
	availabilityLookups.WithLabelValues(result).Inc()
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

func IncReservationConflict() {
	reservationConflicts.Inc()
}

// AddMaintenance adds n transitions of the given kind (expired, purged, auto_accepted).
func AddMaintenance(kind string, n int64) {
	if n <= 0 {
		return
	}
	maintenanceTransitions.WithLabelValues(kind).Add(float64(n))
}

// IncNotification records a delivery result: "sent", "retry" or "failed".
func IncNotification(result string) {
	notifications.WithLabelValues(result).Inc()
}
