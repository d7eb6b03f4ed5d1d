package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultRetries  = 1
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 2 * time.Second
)

// RetryConfig counts retries, so Attempts=1 means at most two calls
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts + 1),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultRetries,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// DoWithData runs fn until it succeeds, the retries run out, or retryIf rejects the error
func DoWithData[T any](ctx context.Context, rc *RetryConfig, retryIf func(error) bool, fn func(ctx context.Context) (T, error), opts ...retry.Option) (T, error) {
	options := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(retryIf),
	)
	options = append(options, opts...)

	return retry.DoWithData(func() (T, error) {
		return fn(ctx)
	}, options...)
}
