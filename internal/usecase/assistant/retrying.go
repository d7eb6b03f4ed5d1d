package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/fund-faq/internal/entity"
	pkgRetry "github.com/futig/fund-faq/internal/pkg/retry"
	"github.com/futig/fund-faq/internal/usecase/answer"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var _ answer.Completer = &RetryingCompleter{}

// RetryingCompleter bounds every model call by a timeout and retries transient failures
type RetryingCompleter struct {
	next    answer.Completer
	retry   *pkgRetry.RetryConfig
	timeout time.Duration
}

func NewRetryingCompleter(next answer.Completer, rc *pkgRetry.RetryConfig, timeout time.Duration) *RetryingCompleter {
	if rc == nil {
		rc = pkgRetry.DefaultRetryConfig()
	}
	return &RetryingCompleter{
		next:    next,
		retry:   rc,
		timeout: timeout,
	}
}

func (c *RetryingCompleter) Model() string {
	return c.next.Model()
}

func (c *RetryingCompleter) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	return pkgRetry.DoWithData(ctx, c.retry, entity.IsTransient,
		func(ctx context.Context) (*entity.GenerationResponse, error) {
			return c.call(ctx, req)
		},
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "retrying generation", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

func (c *RetryingCompleter) call(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.next.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil && !entity.IsTransient(err) {
			return nil, fmt.Errorf("%w: %w", entity.ErrGenerationTransient, err)
		}
		return nil, err
	}
	return resp, nil
}
