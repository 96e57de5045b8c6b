package monitoring

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"tripease/utils"
)

var (
	reconcilePasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconciler_passes_total",
			Help: "Total reconciliation passes executed",
		},
	)

	reconcilePassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconciler_pass_duration_seconds",
			Help:    "Duration of reconciliation passes",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_status_transitions_total",
			Help: "Trip status transitions written by the reconciler",
		},
		[]string{"to_status"},
	)

	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings successfully created",
		},
	)

	bookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_rejections_total",
			Help: "Booking attempts rejected before any write",
		},
		[]string{"reason"},
	)

	seatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_booked_total",
			Help: "Seats decremented from trip inventory",
		},
	)
)

type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// TrackReconcilePass records one completed pass.
func (m *Monitor) TrackReconcilePass(changed int, duration time.Duration) {
	reconcilePasses.Inc()
	reconcilePassDuration.Observe(duration.Seconds())
}

// TrackStatusTransition records a reconciler write by target status.
func (m *Monitor) TrackStatusTransition(toStatus string) {
	statusTransitions.WithLabelValues(toStatus).Inc()
}

// TrackBookingCreated records a successful booking and its seat count.
func (m *Monitor) TrackBookingCreated(seats int) {
	bookingsCreated.Inc()
	seatsBooked.Add(float64(seats))
}

// TrackBookingRejected records a rejected booking attempt by reason.
func (m *Monitor) TrackBookingRejected(reason string) {
	bookingRejections.WithLabelValues(reason).Inc()
}

// StartMetricsServer serves Prometheus metrics and a health probe on the
// metrics port, separate from the application router.
func StartMetricsServer(port string, redisClient *redis.Client) *http.Server {
	e := echo.New()

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	server := &http.Server{
		Addr:    ":" + port,
		Handler: e,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server stopped", "error", err)
		}
	}()

	return server
}
