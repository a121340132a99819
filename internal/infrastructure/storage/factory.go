package storage

import (
	"context"
	"fmt"

	procurementapp "github.com/erp/procurement/internal/application/procurement"
	"github.com/erp/procurement/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewDocumentArchive returns the S3 store when storage is enabled and the in-memory
// store otherwise. The bucket is created on startup if missing.
func NewDocumentArchive(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (procurementapp.DocumentArchive, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Object storage disabled, dispatch documents are kept in memory")
		return NewMemoryDocumentStore(), nil
	}

	store, err := NewS3DocumentStore(ctx, cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("prepare document bucket: %w", err)
	}
	logger.Info("Object storage ready", zap.String("bucket", store.Bucket()), zap.String("endpoint", cfg.Endpoint))
	return store, nil
}
