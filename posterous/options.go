package posterous

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thomasw/posterous/idl"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	scheme     string
	timeout    time.Duration
	httpClient HTTPDoer
	registry   *idl.Registry
	metrics    prometheus.Registerer
}

func defaultOptions() clientOptions {
	return clientOptions{
		scheme:  "http",
		timeout: 30 * time.Second,
	}
}

// WithScheme sets the URL scheme, http or https.
func WithScheme(scheme string) Option {
	return func(o *clientOptions) {
		o.scheme = scheme
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithRegistry replaces the embedded method table.
func WithRegistry(registry *idl.Registry) Option {
	return func(o *clientOptions) {
		o.registry = registry
	}
}

// WithMetrics enables Prometheus metrics on registerer.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.metrics = registerer
	}
}

func (o clientOptions) client() HTTPDoer {
	if o.httpClient != nil {
		return o.httpClient
	}
	return &http.Client{Timeout: o.timeout}
}
