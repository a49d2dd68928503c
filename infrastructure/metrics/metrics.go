package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

var (
	registry = prometheus.NewRegistry()

	requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lustroom",
		Subsystem: "portal",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lustroom",
		Subsystem: "portal",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	backendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lustroom",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Count of calls made to the content backend",
	}, []string{"endpoint", "status"})

	backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lustroom",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of content backend calls",
		Buckets:   histogramBuckets,
	}, []string{"endpoint"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lustroom",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Data cache lookups by collection and result",
	}, []string{"collection", "result"})
)

func init() {
	registry.MustRegister(requestTotal, requestDuration, backendTotal, backendDuration, cacheLookups)
}

// Handler exposes the portal registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Instrument records route-level request counts and latency.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		requestTotal.With(labels).Inc()
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// ObserveBackend records one backend call. status is 0 when no response arrived.
func ObserveBackend(endpoint string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendTotal.With(prometheus.Labels{"endpoint": endpoint, "status": label}).Inc()
	backendDuration.With(prometheus.Labels{"endpoint": endpoint}).Observe(d.Seconds())
}

// ObserveCache records a data cache hit or miss.
func ObserveCache(collection string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.With(prometheus.Labels{"collection": collection, "result": result}).Inc()
}
