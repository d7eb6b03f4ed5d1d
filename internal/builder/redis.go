package builder

import (
	"context"
	"fmt"

	"github.com/futig/fund-faq/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// setupRedis returns nil when REDIS_ADDR is unset
func setupRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("redis not configured, embedding cache is process local")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}
