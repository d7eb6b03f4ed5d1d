package http

import (
	"net"
	"net/http"
	"time"
)

// Option tunes the client built by NewClient
type Option func(*clientConfig)

// Middleware wraps a round tripper. The last applied ends up outermost.
type Middleware func(http.RoundTripper) http.RoundTripper

type clientConfig struct {
	dialTimeout           time.Duration
	requestTimeout        time.Duration
	keepAlive             time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConnsPerHost   int
	middlewares           []Middleware
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		dialTimeout:           10 * time.Second,
		requestTimeout:        30 * time.Second,
		keepAlive:             90 * time.Second,
		responseHeaderTimeout: 30 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxIdleConnsPerHost:   8,
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.dialTimeout = d }
}

// WithRequestTimeout bounds the whole exchange including reading the body
func WithRequestTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.requestTimeout = d }
}

func WithKeepAlive(d time.Duration) Option {
	return func(c *clientConfig) { c.keepAlive = d }
}

func WithResponseHeaderTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.responseHeaderTimeout = d }
}

func WithIdleConnTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.idleConnTimeout = d }
}

func WithMiddleware(m Middleware) Option {
	return func(c *clientConfig) { c.middlewares = append(c.middlewares, m) }
}

// NewClient builds a pooled client. Zero durations keep the defaults.
func NewClient(opts ...Option) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   orDefault(cfg.dialTimeout, 10*time.Second),
		KeepAlive: cfg.keepAlive,
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	for _, m := range cfg.middlewares {
		rt = m(rt)
	}

	return &http.Client{
		Timeout:   orDefault(cfg.requestTimeout, 30*time.Second),
		Transport: rt,
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
