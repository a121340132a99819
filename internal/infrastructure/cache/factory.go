package cache

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewStore picks the idempotency backend from configuration. With Redis
// enabled but unreachable it falls back to memory unless cfg.Required is set.
func NewStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (ReplayStore, error) {
	if !cfg.Enabled {
		logger.Info("redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err == nil {
		logger.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
		return NewRedisIdempotencyStore(client, cfg.KeyPrefix), nil
	}

	if cfg.Required {
		return nil, fmt.Errorf("redis is required for idempotency: %w", err)
	}

	logger.Warn("redis unavailable, falling back to in-memory idempotency store; "+
		"duplicates are possible across instances",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
