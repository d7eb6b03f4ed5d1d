package embedding

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls atomic.Int32
	err   error
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (e *countingEmbedder) ModelID() string { return "counting/2" }
func (e *countingEmbedder) Dimension() int  { return 2 }

func TestCachedEmbedderHitsMemory(t *testing.T) {
	inner := &countingEmbedder{}
	mem := NewMemoryCache(time.Minute)
	e := NewCachedEmbedder(inner, mem)
	ctx := context.Background()

	first, err := e.Embed(ctx, "nav")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "nav")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, 1, mem.Len())
	assert.Equal(t, "counting/2", e.ModelID())
	assert.Equal(t, 2, e.Dimension())
}

func TestCachedEmbedderBackfillsEarlierTiers(t *testing.T) {
	inner := &countingEmbedder{}
	front := NewMemoryCache(time.Minute)
	back := NewMemoryCache(time.Minute)
	key := cacheKey(inner.ModelID(), "exit load")
	back.Set(context.Background(), key, []float32{9, 9})

	e := NewCachedEmbedder(inner, front, back)
	vec, err := e.Embed(context.Background(), "exit load")
	require.NoError(t, err)

	assert.Equal(t, []float32{9, 9}, vec)
	assert.Zero(t, inner.calls.Load())
	got, ok := front.Get(context.Background(), key)
	require.True(t, ok)
	assert.Equal(t, []float32{9, 9}, got)
}

func TestCachedEmbedderDoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("boom")}
	mem := NewMemoryCache(time.Minute)
	e := NewCachedEmbedder(inner, mem)

	_, err := e.Embed(context.Background(), "nav")
	assert.Error(t, err)
	assert.Zero(t, mem.Len())
}

func TestCacheKeyDependsOnModel(t *testing.T) {
	assert.NotEqual(t, cacheKey("a", "nav"), cacheKey("b", "nav"))
	assert.Equal(t, cacheKey("a", "nav"), cacheKey("a", "nav"))
}

func TestDecodeVectorRejectsTruncatedPayload(t *testing.T) {
	_, err := decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)

	vec, err := decodeVector(encodeVector([]float32{0.25, -1.5}))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -1.5}, vec)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	c := NewRedisCache(client, time.Minute)
	key := cacheKey("test", t.Name())
	defer client.Del(context.Background(), redisKeyPrefix+key)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []float32{1, 2, 3})
	vec, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}
