// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodorder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	cartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart mutations applied, by action kind.",
		},
		[]string{"action"},
	)

	cartResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "cart",
			Name:      "session_resets_total",
			Help:      "Carts reset because their session ended.",
		},
	)

	ordersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed, by order type.",
		},
		[]string{"type"},
	)

	orderValue = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "foodorder",
			Subsystem: "orders",
			Name:      "value_rupees",
			Help:      "Order totals in rupees.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		cartOperations,
		cartResets,
		ordersPlaced,
		orderValue,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request counts and latency keyed by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// CartOperation counts one applied cart action.
func CartOperation(action string) {
	cartOperations.WithLabelValues(action).Inc()
}

// CartReset counts a cart reset triggered by a session end.
func CartReset() {
	cartResets.Inc()
}

// OrderPlaced records a new order of the given type and total in paise.
func OrderPlaced(orderType string, totalCents int64) {
	ordersPlaced.WithLabelValues(orderType).Inc()
	orderValue.Observe(float64(totalCents) / 100)
}
