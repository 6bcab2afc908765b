package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_gateway_attempts_total",
		Help: "Charge attempts per gateway and outcome.",
	}, []string{"gateway", "outcome"})

	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_latency_seconds",
		Help:    "Latency of a single gateway charge attempt.",
		Buckets: []float64{.05, .1, .2, .25, .3, .5, 1, 2},
	}, []string{"gateway"})

	Failovers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_failovers_total",
		Help: "Failover outcomes by error type.",
	}, []string{"error_type", "success"})

	RecoveryTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_failover_recovery_seconds",
		Help:    "Time from request start until the fallback outcome is known.",
		Buckets: []float64{.25, .5, .75, 1, 2, 5},
	})

	SentinelReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_reports_total",
		Help: "Failover event deliveries per sink and outcome.",
	}, []string{"sink", "outcome"})

	SentinelDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_events_dropped_total",
		Help: "Failover events dropped because the dispatch queue was full or closed.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
