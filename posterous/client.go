package posterous

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thomasw/posterous/idl"
	"github.com/thomasw/posterous/model"
	"github.com/thomasw/posterous/parser"
)

// Client is the Posterous API surface. Methods are resolved from the
// registry once, at construction. A Client holds no per-call state and is
// safe for concurrent use.
type Client struct {
	scheme     string
	host       string
	auth       Auth
	registry   *idl.Registry
	methods    map[string]*Method
	httpClient HTTPDoer
	parser     *parser.Parser
	metrics    *Metrics
	logger     zerolog.Logger
}

// NewClient creates a client for host, e.g. "posterous.com".
func NewClient(host string, auth Auth, logger zerolog.Logger, opts ...Option) (*Client, error) {
	host = strings.TrimRight(host, "/")
	if host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheme != "http" && o.scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidConfig, o.scheme)
	}

	registry := o.registry
	if registry == nil {
		var err error
		if registry, err = idl.Default(); err != nil {
			return nil, fmt.Errorf("failed to load method table: %w", err)
		}
	}

	c := &Client{
		scheme:     o.scheme,
		host:       host,
		auth:       auth,
		registry:   registry,
		httpClient: o.client(),
		logger:     logger,
	}
	if o.metrics != nil {
		c.metrics = NewMetrics(o.metrics)
	}
	c.parser = parser.New(c, logger)

	all := registry.All()
	c.methods = make(map[string]*Method, len(all))
	for _, desc := range all {
		c.methods[desc.Name()] = &Method{desc: desc, client: c}
	}

	return c, nil
}

// Host returns the configured host.
func (c *Client) Host() string { return c.host }

// Auth returns the active credential strategy.
func (c *Client) Auth() Auth { return c.auth }

// Registry returns the method table the client was built from.
func (c *Client) Registry() *idl.Registry { return c.registry }

// Method returns the bound method called name.
func (c *Client) Method(name string) (*Method, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return m, nil
}

// Methods returns every bound method, sorted by name.
func (c *Client) Methods() []*Method {
	out := make([]*Method, 0, len(c.methods))
	for _, m := range c.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Call invokes the method called name.
func (c *Client) Call(ctx context.Context, name string, positional []any, named map[string]any) (*model.Result, error) {
	m, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	return m.Call(ctx, positional, named)
}

// Invoke calls a method with named arguments only. It lets parsed objects
// call back into the client.
func (c *Client) Invoke(ctx context.Context, method string, args map[string]any) (*model.Result, error) {
	return c.Call(ctx, method, nil, args)
}

// do builds, sends and parses one call.
func (c *Client) do(ctx context.Context, desc *idl.Method, positional []any, named map[string]any) (*model.Result, error) {
	req, err := Build(desc, c.auth, c.scheme, c.host, positional, named)
	if err != nil {
		return nil, err
	}

	body, contentType, err := req.Encode()
	if err != nil {
		return nil, err
	}
	httpReq, err := c.auth.Request(ctx, req.URL, body, contentType)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("method", desc.Name()).
		Str("url", req.URL).
		Int("fields", len(req.Fields)).
		Msg("Calling Posterous API")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = &TransportError{Err: err}
		c.metrics.observe(desc.Name(), 0, start, err)
		return nil, fmt.Errorf("%s: %w", desc.Name(), err)
	}
	defer resp.Body.Close()

	res, err := c.parser.Parse(resp.StatusCode, resp.Body, desc.Returns())
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	c.metrics.observe(desc.Name(), resp.StatusCode, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Name(), err)
	}

	c.logger.Debug().
		Str("method", desc.Name()).
		Int("status", resp.StatusCode).
		Stringer("shape", res.Shape()).
		Int("objects", res.Len()).
		Msg("Parsed Posterous response")

	return res, nil
}

// Method is a remote method bound to a client.
type Method struct {
	desc   *idl.Method
	client *Client
}

// Name returns the method name.
func (m *Method) Name() string { return m.desc.Name() }

// Descriptor returns the schema entry the method was built from.
func (m *Method) Descriptor() *idl.Method { return m.desc }

// Doc returns the method documentation.
func (m *Method) Doc() string { return m.desc.Doc() }

// Paginated reports whether the method can drive a Cursor.
func (m *Method) Paginated() bool { return m.desc.Paginated() }

// Call validates the arguments and performs the call. Validation and auth
// failures are returned before any request is sent.
func (m *Method) Call(ctx context.Context, positional []any, named map[string]any) (*model.Result, error) {
	return m.client.do(ctx, m.desc, positional, named)
}
