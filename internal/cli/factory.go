package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/adapters/file"
	"github.com/Edusharks/block-ide-vite-sub001/internal/config"
	"github.com/Edusharks/block-ide-vite-sub001/internal/geometry"
	"github.com/Edusharks/block-ide-vite-sub001/internal/metrics"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/loam"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/memory"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/redis"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
)

// FactoryOptions tunes NewFactory beyond the configuration file.
type FactoryOptions struct {
	Debug   bool
	Metrics *metrics.Metrics
}

// NewFactory wires a Factory from configuration: session store, distributed
// locking for Redis, the block library (when its directory exists), the preview
// measurer and lifecycle hooks. The returned close func releases backend connections.
func NewFactory(ctx context.Context, cfg config.Config, logger *slog.Logger, opts FactoryOptions) (*blockfactory.Factory, func() error, error) {
	factoryOpts := []blockfactory.Option{
		blockfactory.WithLogger(logger),
		blockfactory.WithMeasurer(geometry.RuneWidthMeasurer{CellWidth: cfg.Preview.CellWidth}),
	}
	closer := func() error { return nil }

	store, closeStore, locker, err := newStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	closer = closeStore
	factoryOpts = append(factoryOpts, blockfactory.WithStore(store))
	if locker != nil {
		factoryOpts = append(factoryOpts, blockfactory.WithLocker(locker))
	}

	lib, err := openLibrary(cfg.Library.Dir, logger)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	if lib != nil {
		factoryOpts = append(factoryOpts, blockfactory.WithLibrary(lib))
	}

	var hooks domain.LifecycleHooks
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}
	if opts.Metrics != nil {
		hooks = hooks.Merge(opts.Metrics.Hooks())
	}
	factoryOpts = append(factoryOpts, blockfactory.WithLifecycleHooks(hooks))

	return blockfactory.New(factoryOpts...), closer, nil
}

func newStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.DefinitionStore, func() error, ports.DistributedLocker, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendFile:
		logger.Debug("using file session store", "dir", cfg.Dir)
		return file.New(cfg.Dir), noop, nil, nil
	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("using redis session store", "addr", cfg.Redis.Addr, "prefix", store.Prefix())
		return store, store.Close, redis.NewLocker(store.Client(), store.Prefix()), nil
	case config.BackendMemory, "":
		return memory.NewStore(), noop, nil, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported store backend: %q", cfg.Backend)
}

// openLibrary returns nil when dir is empty or missing.
func openLibrary(dir string, logger *slog.Logger) (ports.BlockLibrary, error) {
	if dir == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("block library not found", "dir", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open block library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("block library %s is not a directory", dir)
	}
	return loam.Open(dir)
}
