package web

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus collectors of the web server.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	LEDSwitches        *prometheus.CounterVec
	RateLimitDropped   prometheus.Counter
	StreamClients      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledpanel_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledpanel_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		LEDSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledpanel_led_switches_total",
			Help: "Total number of successful LED switches by resulting state.",
		}, []string{"state"}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledpanel_ratelimit_dropped_total",
			Help: "Total number of LED requests dropped by the rate limiter.",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledpanel_stream_clients",
			Help: "Number of connected SSE and WebSocket clients.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.LEDSwitches,
		m.RateLimitDropped,
		m.StreamClients,
	)

	return m
}

// Middleware counts and times every request, labelled by mux pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// r.Pattern is filled in by the ServeMux once it has matched.
		route := r.Pattern
		if route == "" {
			route = "other"
		}
		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method).Observe(time.Since(startedAt).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through the wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Flush keeps the SSE stream working behind the middleware.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
