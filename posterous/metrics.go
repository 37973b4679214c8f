package posterous

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records Prometheus metrics for API calls. It is safe for
// concurrent use.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics registers the client metrics on registry. Collectors already
// registered there by another client are shared, so clients built on the
// same registry count into the same series.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		requestsTotal: register(registry, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posterous_requests_total",
				Help: "Total number of API requests sent",
			},
			[]string{"method", "status_code"},
		)),
		requestDuration: register(registry, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "posterous_request_duration_seconds",
				Help:    "Duration of API requests in seconds, including response parsing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)),
		errorsTotal: register(registry, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posterous_errors_total",
				Help: "Total number of failed API calls by error type",
			},
			[]string{"method", "type"},
		)),
	}
}

// register panics like MustRegister on any error other than a collector
// of the same type already being registered.
func register[C prometheus.Collector](registry prometheus.Registerer, c C) C {
	err := registry.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

// observe is nil-safe so the client can call it unconditionally.
func (m *Metrics) observe(method string, status int, start time.Time, err error) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if status > 0 {
		m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
	if err != nil {
		m.errorsTotal.WithLabelValues(method, errorType(err)).Inc()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrService):
		return "service"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
