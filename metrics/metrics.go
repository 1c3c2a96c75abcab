package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service's collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "daily_diet",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daily_diet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daily_diet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	mealsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daily_diet",
			Subsystem: "meals",
			Name:      "created_total",
			Help:      "Total number of meals created.",
		},
	)

	mealUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daily_diet",
			Subsystem: "meals",
			Name:      "updates_total",
			Help:      "Meal update attempts by result (updated, no_record).",
		},
		[]string{"result"},
	)

	mealsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daily_diet",
			Subsystem: "meals",
			Name:      "deleted_total",
			Help:      "Total number of meal rows actually removed.",
		},
	)

	sessionsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daily_diet",
			Subsystem: "sessions",
			Name:      "issued_total",
			Help:      "Total number of session tokens issued.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		mealsCreated,
		mealUpdates,
		mealsDeleted,
		sessionsIssued,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func InFlightInc() { httpInFlight.Inc() }
func InFlightDec() { httpInFlight.Dec() }

// ObserveHTTP records one finished request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func MealCreated()              { mealsCreated.Inc() }
func MealUpdated(result string) { mealUpdates.WithLabelValues(result).Inc() }
func MealDeleted()              { mealsDeleted.Inc() }
func SessionIssued()            { sessionsIssued.Inc() }
