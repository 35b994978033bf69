package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanscope",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "urbanscope",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10, 30},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "urbanscope",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Region analysis metrics
	RegionsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanscope",
		Subsystem: "region",
		Name:      "analyses_total",
		Help:      "Total region analyses by outcome (ok or error kind)",
	}, []string{"outcome"})

	RegionAnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "urbanscope",
		Subsystem: "region",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end duration of a region analysis",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	RegionAreaKm2 = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "urbanscope",
		Subsystem: "region",
		Name:      "area_km2",
		Help:      "Area of analyzed regions in square kilometres",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	// Upstream data source metrics
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "urbanscope",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Duration of calls to external data sources",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"source"})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanscope",
		Subsystem: "upstream",
		Name:      "errors_total",
		Help:      "Total failed calls to external data sources",
	}, []string{"source", "kind"})

	FeaturesFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "urbanscope",
		Subsystem: "upstream",
		Name:      "features_per_response",
		Help:      "Number of elements returned per spatial query",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanscope",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Total events published by outcome",
	}, []string{"subject", "outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "urbanscope",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanscope",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "urbanscope",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
