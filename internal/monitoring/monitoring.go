package monitoring

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	FollowOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "follow_operations_total",
		Help: "Follow and unfollow operations by outcome (created, noop, removed, failed)",
	}, []string{"type", "outcome"})

	UserSearches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "user_searches_total",
		Help: "User searches by type filter",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(FollowOperations)
	prometheus.MustRegister(UserSearches)
}

// Middleware records the duration of every request under its route pattern
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			RequestDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// MetricsMux serves Handler at /metrics
func MetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return mux
}
