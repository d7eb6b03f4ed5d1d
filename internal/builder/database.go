package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/fund-faq/internal/config"
	pkgRetry "github.com/futig/fund-faq/internal/pkg/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// postgres often comes up after the service in compose setups
var dbConnectRetry = pkgRetry.RetryConfig{Attempts: 4, Delay: time.Second, MaxDelay: 5 * time.Second}

func poolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	pc.MaxConns = int32(cfg.DBMaxConns)
	pc.MinConns = int32(cfg.DBMinConns)
	pc.MaxConnLifetime = cfg.DBMaxConnLifetime
	pc.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	pc.HealthCheckPeriod = cfg.DBHealthCheckPeriod
	return pc, nil
}

// setupDatabase opens the pool used by the postgres index backend
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	attempt := 0
	pool, err := pkgRetry.DoWithData(ctx, &dbConnectRetry, func(error) bool { return ctx.Err() == nil },
		func(ctx context.Context) (*pgxpool.Pool, error) {
			attempt++
			pool, err := pgxpool.NewWithConfig(ctx, pc)
			if err != nil {
				return nil, fmt.Errorf("create pool: %w", err)
			}
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				logger.Warn("postgres not reachable yet", zap.Int("attempt", attempt), zap.Error(err))
				return nil, fmt.Errorf("ping: %w", err)
			}
			return pool, nil
		})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	logger.Info("postgres pool ready",
		zap.String("host", pc.ConnConfig.Host),
		zap.String("database", pc.ConnConfig.Database),
		zap.Int32("max_conns", pc.MaxConns),
		zap.Int32("min_conns", pc.MinConns),
	)
	return pool, nil
}
