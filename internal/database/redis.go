package database

import (
	"context"
	"fmt"
	"time"

	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient creates and validates the Redis client backing sessions,
// the audit queue, the progress cache and the pub/sub event stream.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	// The audit worker's BLPop holds a connection for up to its poll
	// timeout; retries cover the queue and cache commands around it.
	opt.MaxRetries = 3
	opt.MinRetryBackoff = 50 * time.Millisecond
	opt.MaxRetryBackoff = time.Second

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return rdb, nil
}
