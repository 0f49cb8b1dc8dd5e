package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"fixit/config"
	"fixit/internal/adapters/ratelimit"
	"fixit/internal/delivery/events"
	"fixit/internal/repository/postgres"
)

// Infra holds the external connections the process owns.
type Infra struct {
	DB       *sql.DB
	Redis    *redis.Client
	Listener *pq.Listener
}

func setupInfra(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Infra, err error) {
	infra := &Infra{}
	defer func() {
		if err != nil {
			_ = infra.Close()
		}
	}()

	infra.DB, err = sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := infra.DB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, infra.DB, cfg.ContractorEventsChannel); err != nil {
		return nil, err
	}
	logger.Info("database ready")

	infra.Listener, err = events.NewPQListener(cfg.DBUrl, cfg.ContractorEventsChannel, logger)
	if err != nil {
		return nil, err
	}

	if cfg.RateLimitEnabled() {
		infra.Redis, err = ratelimit.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		logger.Info("redis ready", "addr", cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set, approval link rate limiting is disabled")
	}

	return infra, nil
}

// Close releases every connection that was opened.
func (i *Infra) Close() error {
	var errs []error
	if i.Listener != nil {
		errs = append(errs, i.Listener.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}
