package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary")

func fastConfig(retries uint) *RetryConfig {
	return &RetryConfig{Attempts: retries, Delay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestDoWithDataRetriesOnce(t *testing.T) {
	calls := 0
	_, err := DoWithData(context.Background(), fastConfig(1), func(err error) bool {
		return errors.Is(err, errTemporary)
	}, func(context.Context) (string, error) {
		calls++
		return "", errTemporary
	})

	assert.ErrorIs(t, err, errTemporary)
	assert.Equal(t, 2, calls)
}

func TestDoWithDataStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	_, err := DoWithData(context.Background(), fastConfig(3), func(err error) bool {
		return errors.Is(err, errTemporary)
	}, func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoWithDataReturnsValueAfterRetry(t *testing.T) {
	calls := 0
	v, err := DoWithData(context.Background(), fastConfig(1), func(error) bool { return true },
		func(context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, errTemporary
			}
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDefaultRetryConfig(t *testing.T) {
	rc := DefaultRetryConfig()
	assert.Equal(t, uint(1), rc.Attempts)
	assert.Less(t, rc.Delay, rc.MaxDelay)
}
