package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ActivityClosedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_closed_total",
			Help: "Total number of closed activity sessions",
		},
		[]string{"type"},
	)

	QuizSubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz submissions by persistence policy",
		},
		[]string{"policy"},
	)

	MediaBytesServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_bytes_served_total",
			Help: "Bytes served by the media streamer",
		},
		[]string{"kind"},
	)

	FeedConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "progress_feed_connections",
			Help: "Currently open progress feed websocket connections",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ActivityClosedCounter)
	prometheus.MustRegister(QuizSubmissionCounter)
	prometheus.MustRegister(MediaBytesServed)
	prometheus.MustRegister(FeedConnections)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
