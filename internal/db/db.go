package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

const connectAttempts = 5

// Connect opens a pgx connection pool and verifies connectivity with a ping,
// retrying with backoff while the database comes up.
func Connect(ctx context.Context, dsn string, logger *zap.SugaredLogger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	retry := backoff.Backoff{Min: 200 * time.Millisecond, Max: 5 * time.Second, Jitter: true}
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err := open(ctx, cfg)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		if logger != nil {
			logger.Warnf("db: connect attempt=%d error=%v", attempt, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retry.Duration()):
		}
	}
	return nil, fmt.Errorf("connect after %d attempts: %w", connectAttempts, lastErr)
}

func open(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
