package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors for the API and job workers.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal        *prometheus.CounterVec
	httpRequestDuration      *prometheus.HistogramVec
	jobsStartedTotal         prometheus.Counter
	jobsCompletedTotal       prometheus.Counter
	recipientsProcessedTotal *prometheus.CounterVec
	sendsTotal               *prometheus.CounterVec
	sendDuration             *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bulk_notify",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bulk_notify",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		jobsStartedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bulk_notify",
				Name:      "jobs_started_total",
				Help:      "Total number of bulk-send jobs started.",
			},
		),
		jobsCompletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bulk_notify",
				Name:      "jobs_completed_total",
				Help:      "Total number of bulk-send jobs that ran to completion.",
			},
		),
		recipientsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bulk_notify",
				Name:      "recipients_processed_total",
				Help:      "Total number of recipients processed grouped by outcome.",
			},
			[]string{"result"},
		),
		sendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bulk_notify",
				Name:      "sends_total",
				Help:      "Total number of per-channel send attempts grouped by result.",
			},
			[]string{"channel", "result"},
		),
		sendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bulk_notify",
				Name:      "send_duration_seconds",
				Help:      "Per-channel send duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"channel"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.jobsStartedTotal,
		m.jobsCompletedTotal,
		m.recipientsProcessedTotal,
		m.sendsTotal,
		m.sendDuration,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncJobStarted() {
	if m == nil {
		return
	}
	m.jobsStartedTotal.Inc()
}

func (m *Metrics) IncJobCompleted() {
	if m == nil {
		return
	}
	m.jobsCompletedTotal.Inc()
}

func (m *Metrics) IncRecipientProcessed(succeeded bool) {
	if m == nil {
		return
	}
	m.recipientsProcessedTotal.WithLabelValues(resultLabel(succeeded)).Inc()
}

func (m *Metrics) IncSend(channel string, succeeded bool) {
	if m == nil {
		return
	}
	m.sendsTotal.WithLabelValues(normalizeChannel(channel), resultLabel(succeeded)).Inc()
}

func (m *Metrics) ObserveSendDuration(channel string, duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.sendDuration.WithLabelValues(normalizeChannel(channel)).Observe(seconds)
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func resultLabel(succeeded bool) string {
	if succeeded {
		return "success"
	}
	return "failure"
}

func normalizeChannel(channel string) string {
	normalized := strings.ToLower(strings.TrimSpace(channel))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
