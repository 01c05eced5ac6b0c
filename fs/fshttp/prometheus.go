package fshttp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the Transport sees.
type Metrics struct {
	StatusCode *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Failures   *prometheus.CounterVec
}

// NewMetrics makes the metrics for a namespace. Assign the result to
// DefaultMetrics before making any clients.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		StatusCode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "status_code",
			Help:      "HTTP responses by host, method and status code",
		}, []string{"host", "method", "code"}),
		// OTP streams stay open for minutes so the buckets go that far
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time to the response headers by host and method",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"host", "method"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "transport_failures",
			Help:      "Requests which got no response by host and method",
		}, []string{"host", "method"}),
	}
}

// DefaultMetrics is used by new Transports. It is nil unless metrics
// are being served.
var DefaultMetrics = (*Metrics)(nil)

// Collectors returns the metrics for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{
		m.StatusCode,
		m.Duration,
		m.Failures,
	}
}

func (m *Metrics) onResponse(req *http.Request, resp *http.Response, elapsed time.Duration) {
	if m == nil {
		return
	}
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	m.Duration.WithLabelValues(host, req.Method).Observe(elapsed.Seconds())
	if resp == nil {
		m.Failures.WithLabelValues(host, req.Method).Inc()
		m.StatusCode.WithLabelValues(host, req.Method, "0").Inc()
		return
	}
	m.StatusCode.WithLabelValues(host, req.Method, fmt.Sprint(resp.StatusCode)).Inc()
}
