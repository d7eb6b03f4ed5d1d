package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type payloadContextKey struct{}

// headerTransport sets fixed headers on every outbound request
type headerTransport struct {
	headers http.Header
	next    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header[k] = v
	}
	return t.next.RoundTrip(clone)
}

// WithHeader adds a header to every request. Empty values are ignored.
func WithHeader(key, value string) Option {
	if value == "" {
		return func(*clientConfig) {}
	}
	return WithMiddleware(func(rt http.RoundTripper) http.RoundTripper {
		h := http.Header{}
		h.Set(key, value)
		return &headerTransport{headers: h, next: rt}
	})
}

func WithBearerToken(token string) Option {
	if token == "" {
		return func(*clientConfig) {}
	}
	return WithHeader("Authorization", "Bearer "+token)
}

var redactedHeaders = []string{"Authorization", "X-Goog-Api-Key", "Api-Key"}

// logTransport writes one debug line per exchange to the request scoped logger
type logTransport struct {
	next http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	started := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Any("headers", redact(req.Header)),
	}
	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields, zap.Int("payload_bytes", len(payload)))
	}

	resp, err := t.next.RoundTrip(req)
	fields = append(fields, zap.Duration("elapsed", time.Since(started)))
	if err != nil {
		ctxzap.Debug(ctx, "outbound request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	ctxzap.Debug(ctx, "outbound request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

func WithRequestLogging() Option {
	return WithMiddleware(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{next: rt}
	})
}

func redact(h http.Header) http.Header {
	out := h.Clone()
	for _, k := range redactedHeaders {
		if out.Get(k) != "" {
			out.Set(k, "[redacted]")
		}
	}
	return out
}
