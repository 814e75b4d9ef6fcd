package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/rs/zerolog"
)

// Pool sizing beyond MaxConns: keep a couple of warm connections for the
// audit worker's clear/rebuild bursts, and recycle the rest so a plan-heavy
// afternoon doesn't pin idle connections overnight.
const (
	pgMinConns        = 2
	pgMaxConnLifetime = 30 * time.Minute
	pgMaxConnIdleTime = 5 * time.Minute
	pgHealthCheck     = time.Minute
)

// NewPostgresPool creates and validates the shared pgx connection pool.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns
	poolCfg.MinConns = pgMinConns
	poolCfg.MaxConnLifetime = pgMaxConnLifetime
	poolCfg.MaxConnIdleTime = pgMaxConnIdleTime
	poolCfg.HealthCheckPeriod = pgHealthCheck

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Int32("min_conns", pgMinConns).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("PostgreSQL connected")

	return pool, nil
}
