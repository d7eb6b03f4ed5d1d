package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "fundfaq:embedding:"

// Embedder is the capability the cache decorates
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	Dimension() int
}

// Cache stores vectors by key. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vec []float32)
}

// MemoryCache is a process local TTL cache
type MemoryCache struct {
	store *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: cache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	vec, ok := v.([]float32)
	return vec, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, vec []float32) {
	c.store.SetDefault(key, vec)
}

func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

// RedisCache shares vectors between processes
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			ctxzap.Warn(ctx, "embedding cache read failed", zap.Error(err))
		}
		return nil, false
	}

	vec, err := decodeVector(data)
	if err != nil {
		ctxzap.Warn(ctx, "embedding cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *RedisCache) Set(ctx context.Context, key string, vec []float32) {
	if err := c.client.Set(ctx, redisKeyPrefix+key, encodeVector(vec), c.ttl).Err(); err != nil {
		ctxzap.Warn(ctx, "embedding cache write failed", zap.Error(err))
	}
}

// CachedEmbedder consults caches in order before calling the wrapped embedder
type CachedEmbedder struct {
	next   Embedder
	caches []Cache
}

func NewCachedEmbedder(next Embedder, caches ...Cache) *CachedEmbedder {
	return &CachedEmbedder{next: next, caches: caches}
}

func (e *CachedEmbedder) ModelID() string {
	return e.next.ModelID()
}

func (e *CachedEmbedder) Dimension() int {
	return e.next.Dimension()
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(e.next.ModelID(), text)

	for i, c := range e.caches {
		if vec, ok := c.Get(ctx, key); ok {
			// backfill the faster tiers
			for _, earlier := range e.caches[:i] {
				earlier.Set(ctx, key, vec)
			}
			return vec, nil
		}
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	for _, c := range e.caches {
		c.Set(ctx, key, vec)
	}
	return vec, nil
}

func cacheKey(modelID, text string) string {
	sum := sha256.Sum256([]byte(modelID + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector payload length %d is not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
