package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssis",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssis",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssis",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssis",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	passwordRehashes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ssis",
			Subsystem: "auth",
			Name:      "password_rehashes_total",
			Help:      "Plaintext credentials replaced by a bcrypt hash.",
		},
	)

	assetOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssis",
			Subsystem: "assets",
			Name:      "operations_total",
			Help:      "Asset store operations by kind and result.",
		},
		[]string{"op", "result"},
	)

	tokensPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ssis",
			Subsystem: "jobs",
			Name:      "refresh_tokens_purged_total",
			Help:      "Expired or revoked refresh tokens removed by the cleanup job.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		loginAttempts,
		passwordRehashes,
		assetOperations,
		tokensPurged,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request as in flight and returns a func that records it when done.
func RequestStarted() func(method, route string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route string, status int) {
		httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordLogin records a login attempt outcome ("success", "invalid", "rate_limited").
func RecordLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordRehash counts a plaintext credential upgraded to a hash.
func RecordRehash(n int) {
	if n > 0 {
		passwordRehashes.Add(float64(n))
	}
}

// RecordAsset records an asset store operation.
func RecordAsset(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	assetOperations.WithLabelValues(op, result).Inc()
}

// RecordTokensPurged counts refresh tokens removed by the cleanup job.
func RecordTokensPurged(n int64) {
	if n > 0 {
		tokensPurged.Add(float64(n))
	}
}
