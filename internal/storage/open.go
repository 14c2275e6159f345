package storage

import (
	"context"
	"fmt"

	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"go.uber.org/zap"
)

// Open builds a repository on the backend selected by cfg. The returned
// close function releases backend connections and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Repository, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	var (
		kv      KV
		closeFn = noop
	)
	switch cfg.Backend {
	case "", constants.StorageBackendMemory:
		kv = NewMemoryKV()
	case constants.StorageBackendFile:
		path := cfg.Path
		if path == "" {
			path = constants.DefaultStoragePath
		}
		fileKV, err := NewFileKV(path)
		if err != nil {
			return nil, noop, err
		}
		kv = fileKV
	case constants.StorageBackendRedis:
		redisCfg := cfg.Redis
		if redisCfg.Address == "" {
			redisCfg.Address = constants.DefaultRedisAddress
		}
		redisKV, err := NewRedisKV(ctx, redisCfg)
		if err != nil {
			return nil, noop, err
		}
		kv, closeFn = redisKV, redisKV.Close
	case constants.StorageBackendPostgres:
		table := cfg.Postgres.Table
		if table == "" {
			table = constants.DefaultPostgresTable
		}
		pgKV, err := NewPostgresKV(ctx, cfg.Postgres.URL, table)
		if err != nil {
			return nil, noop, err
		}
		kv, closeFn = pgKV, pgKV.Close
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	logger.Debug("storage opened",
		zap.String("op", "storage.Open"),
		zap.String("backend", cfg.Backend),
	)
	return NewRepository(kv, logger), closeFn, nil
}
