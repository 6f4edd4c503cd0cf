// Package db opens the PostgreSQL pool and keeps the schema migrated.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/logger"
)

// NewPool opens a pgx pool for cfg and verifies it with a ping.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.ConnMaxLife != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLife)
		if err != nil {
			return nil, fmt.Errorf("invalid connection lifetime %q: %w", cfg.ConnMaxLife, err)
		}
		poolConfig.MaxConnLifetime = lifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.GetLogger().Infow("Connected to database",
		"url", logger.MaskConnectionString(cfg.URL()),
		"maxConns", poolConfig.MaxConns)
	return pool, nil
}
